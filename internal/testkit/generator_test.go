package testkit

import (
	"math"
	"testing"

	"tabprep/domain/profile"
	"tabprep/internal/analysis"
)

func TestGenerate_RowCountAndColumns(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.RowCount = 25

	ds := NewDatasetGenerator(cfg).Generate()

	if ds.Len() != 25 {
		t.Errorf("Expected 25 rows, got %d", ds.Len())
	}
	want := []string{
		"order_id", "order_date", "country", "payment_method", "items_count",
		"order_total", "discount_pct", "shipping_days", "conversion_score",
		"loyalty_tier", "was_returned",
	}
	got := ds.Columns()
	if len(got) != len(want) {
		t.Fatalf("Expected %d columns, got %v", len(want), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Expected column %d to be %s, got %s", i, name, got[i])
		}
	}
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.RowCount = 50

	a := NewDatasetGenerator(cfg).Generate()
	b := NewDatasetGenerator(cfg).Generate()

	if a.Len() != b.Len() {
		t.Fatalf("Expected equal lengths, got %d and %d", a.Len(), b.Len())
	}
	for i := 0; i < a.Len(); i++ {
		for _, col := range a.Columns() {
			if a.Cell(i, col).Label() != b.Cell(i, col).Label() {
				t.Fatalf("Expected identical datasets for the same seed, row %d column %s differs", i, col)
			}
		}
	}
}

func TestGenerate_MissingRateExtremes(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.RowCount = 30
	cfg.MissingRate = 0
	ds := NewDatasetGenerator(cfg).Generate()
	for i := 0; i < ds.Len(); i++ {
		if ds.Cell(i, "discount_pct").IsMissing() {
			t.Fatal("Expected no missing discounts at rate 0")
		}
	}

	cfg.MissingRate = 1
	ds = NewDatasetGenerator(cfg).Generate()
	for i := 0; i < ds.Len(); i++ {
		if !ds.Cell(i, "discount_pct").IsMissing() {
			t.Fatal("Expected every discount missing at rate 1")
		}
	}
}

func TestGenerate_InfiniteInjection(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.RowCount = 20
	cfg.InfiniteRate = 1

	ds := NewDatasetGenerator(cfg).Generate()

	for i := 0; i < ds.Len(); i++ {
		if v, ok := ds.Cell(i, "conversion_score").AsNumber(); !ok || !math.IsInf(v, 1) {
			t.Fatalf("Expected +Inf conversion_score at rate 1, got %v", ds.Cell(i, "conversion_score"))
		}
	}

	res, err := analysis.NewAnalyzer().Analyze(ds)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !res.HasInfiniteValues {
		t.Error("Expected the profile to flag injected infinite values")
	}
}

func TestGenerate_ProfilesWithPlantedStructure(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.RowCount = 200
	cfg.MissingRate = 0
	cfg.InfiniteRate = 0

	ds := NewDatasetGenerator(cfg).Generate()
	res, err := analysis.NewAnalyzer().Analyze(ds)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if got := res.TypeOf("order_total"); got != profile.TypeNumeric {
		t.Errorf("Expected order_total numeric, got %s", got)
	}
	if got := res.TypeOf("order_date"); got != profile.TypeDatetime {
		t.Errorf("Expected order_date datetime, got %s", got)
	}
	if got := res.TypeOf("country"); got != profile.TypeCategorical {
		t.Errorf("Expected country categorical, got %s", got)
	}
	if got := res.TypeOf("order_id"); got != profile.TypeText {
		t.Errorf("Expected order_id text, got %s", got)
	}

	// The planted items_count/order_total relationship should dominate the
	// correlation ranking.
	if len(res.Correlations) == 0 {
		t.Fatal("Expected correlations for the numeric columns")
	}
	top := res.Correlations[0]
	pair := map[string]bool{top.ColumnA: true, top.ColumnB: true}
	if !pair["items_count"] || !pair["order_total"] {
		t.Errorf("Expected items_count/order_total as the strongest pair, got %s/%s", top.ColumnA, top.ColumnB)
	}
	if math.Abs(top.Coefficient) < 0.8 {
		t.Errorf("Expected a strong planted correlation, got %f", top.Coefficient)
	}
}
