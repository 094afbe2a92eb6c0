// Package testkit generates seeded synthetic order datasets for the demo
// command and for exercising the profiling pipeline end to end.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"tabprep/domain/table"
)

// GeneratorConfig configures the synthetic dataset generator
type GeneratorConfig struct {
	RowCount     int       `json:"row_count"`
	MissingRate  float64   `json:"missing_rate"`
	InfiniteRate float64   `json:"infinite_rate"`
	StartDate    time.Time `json:"start_date"`
	Seed         int64     `json:"seed"`
}

// DefaultGeneratorConfig returns sensible defaults for demo datasets
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		RowCount:     200,
		MissingRate:  0.05,
		InfiniteRate: 0.01,
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:         42,
	}
}

// DatasetGenerator produces order-shaped tabular data with known structure:
// order_total tracks items_count so the profile shows a strong correlation,
// discount_pct and loyalty_tier are missing-prone, and conversion_score is
// where infinity injection lands.
type DatasetGenerator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewDatasetGenerator creates a generator with a deterministic stream
func NewDatasetGenerator(config GeneratorConfig) *DatasetGenerator {
	return &DatasetGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces the configured number of order records
func (g *DatasetGenerator) Generate() table.Dataset {
	b := table.NewBuilder(g.config.RowCount)
	for i := 0; i < g.config.RowCount; i++ {
		b.Append(g.generateOrder(i))
	}
	return b.Dataset()
}

func (g *DatasetGenerator) generateOrder(i int) table.Record {
	rec := table.NewRecordSize(11)

	rec.Set("order_id", table.Text(fmt.Sprintf("order_%06d", i+1)))

	orderDate := g.config.StartDate.AddDate(0, 0, g.rng.Intn(90))
	rec.Set("order_date", table.Text(orderDate.Format("2006-01-02")))

	rec.Set("country", table.Text(g.randomCountry()))
	rec.Set("payment_method", table.Text(g.randomPaymentMethod()))

	itemsCount := 1 + g.rng.Intn(5)
	rec.Set("items_count", table.Number(float64(itemsCount)))

	// Order total scales with item count plus bounded noise, which plants
	// a strong items_count/order_total correlation in the profile.
	orderTotal := float64(itemsCount)*25.0 + g.rng.Float64()*10.0
	rec.Set("order_total", table.Number(orderTotal))

	if g.rng.Float64() < g.config.MissingRate {
		rec.Set("discount_pct", table.Null())
	} else {
		rec.Set("discount_pct", table.Number(5.0+float64(g.rng.Intn(20))))
	}

	rec.Set("shipping_days", table.Number(float64(1+g.rng.Intn(6))))

	if g.rng.Float64() < g.config.InfiniteRate {
		rec.Set("conversion_score", table.Number(math.Inf(1)))
	} else {
		rec.Set("conversion_score", table.Number(g.rng.Float64()))
	}

	if g.rng.Float64() < g.config.MissingRate {
		rec.Set("loyalty_tier", table.Null())
	} else {
		rec.Set("loyalty_tier", table.Text(g.randomLoyaltyTier()))
	}

	rec.Set("was_returned", table.Bool(g.rng.Float64() < 0.08))

	return rec
}

func (g *DatasetGenerator) randomCountry() string {
	countries := []string{"US", "CA", "GB", "DE", "FR"}
	weights := []float64{0.4, 0.2, 0.15, 0.15, 0.1}
	return g.weightedChoice(countries, weights)
}

func (g *DatasetGenerator) randomPaymentMethod() string {
	methods := []string{"credit_card", "debit_card", "paypal", "apple_pay"}
	weights := []float64{0.5, 0.25, 0.15, 0.1}
	return g.weightedChoice(methods, weights)
}

func (g *DatasetGenerator) randomLoyaltyTier() string {
	tiers := []string{"bronze", "silver", "gold"}
	weights := []float64{0.6, 0.3, 0.1}
	return g.weightedChoice(tiers, weights)
}

func (g *DatasetGenerator) weightedChoice(values []string, weights []float64) string {
	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return values[i]
		}
	}
	return values[0]
}
