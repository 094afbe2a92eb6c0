package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"tabprep/adapters/ingest"
	"tabprep/adapters/store/memory"
	"tabprep/adapters/store/postgres"
	"tabprep/app"
	"tabprep/domain/profile"
	"tabprep/internal/analysis"
	"tabprep/internal/config"
	"tabprep/internal/logging"
	"tabprep/internal/migration"
	"tabprep/internal/prep"
	"tabprep/internal/report"
	"tabprep/internal/testkit"
	"tabprep/ports"
	"tabprep/server"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tabprep",
		Short: "Tabular data profiling and preprocessing toolkit",
	}

	rootCmd.AddCommand(
		newProfileCmd(),
		newPrepCmd(),
		newDemoCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newProfileCmd() *cobra.Command {
	var format string
	var maxRows int

	cmd := &cobra.Command{
		Use:   "profile [files...]",
		Short: "Profile one or more CSV/XLSX files",
		Long: `Profile tabular files: column types, descriptive statistics,
correlations and data quality warnings.

Files are profiled concurrently; results print in argument order.

Example: tabprep profile orders.csv refunds.xlsx --format markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd.Context(), args, format, maxRows)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|json")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum data rows to read per file (0 = no limit)")

	return cmd
}

func runProfile(ctx context.Context, paths []string, format string, maxRows int) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer()
	results := make([]*profile.AnalysisResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			ds, err := ingest.ReadFile(gctx, path, maxRows)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			res, err := analyzer.Analyze(ds)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, res := range results {
		if err := printAnalysis(filepath.Base(paths[i]), res, format); err != nil {
			return err
		}
	}
	return nil
}

func newPrepCmd() *cobra.Command {
	var handleInfinite bool
	var missing, encoding, normalize, output string
	var maxRows int

	cmd := &cobra.Command{
		Use:   "prep [file]",
		Short: "Run the preprocessing pipeline on a file",
		Long: `Apply preprocessing operators to a tabular file and write the result
as CSV: infinite-value sanitization, missing-value handling, categorical
encoding and numeric normalization, in that order.

Example: tabprep prep orders.csv --missing fillMean --encoding onehot --normalize minmax -o orders_clean.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := prep.Options{
				HandleInfinite:      handleInfinite,
				MissingValueMethod:  prep.MissingMethod(missing),
				EncodingMethod:      prep.EncodingMethod(encoding),
				NormalizationMethod: prep.NormalizationMethod(normalize),
			}
			return runPrep(cmd.Context(), args[0], opts, output, maxRows)
		},
	}

	cmd.Flags().BoolVar(&handleInfinite, "infinite", false, "Replace infinite values with nulls")
	cmd.Flags().StringVar(&missing, "missing", "none", "Missing-value method: none|dropRows|dropColumns|fillMean|fillMedian|fillMode|fillZero")
	cmd.Flags().StringVar(&encoding, "encoding", "none", "Categorical encoding: none|label|onehot")
	cmd.Flags().StringVar(&normalize, "normalize", "none", "Numeric normalization: none|minmax|standard")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (default: <file>_processed.csv)")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum data rows to read (0 = no limit)")

	return cmd
}

func runPrep(ctx context.Context, path string, opts prep.Options, output string, maxRows int) error {
	ds, err := ingest.ReadFile(ctx, path, maxRows)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	analyzer := analysis.NewAnalyzer()
	before, err := analyzer.Analyze(ds)
	if err != nil {
		return err
	}

	transformed, err := prep.NewPreprocessor().Apply(ds, before, opts)
	if err != nil {
		return err
	}
	after, err := analyzer.Analyze(transformed)
	if err != nil {
		return fmt.Errorf("re-analysis failed: %w", err)
	}

	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + "_processed.csv"
	}
	var buf bytes.Buffer
	if err := ingest.NewCSVWriter().Write(ctx, &buf, transformed); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return err
	}

	name := filepath.Base(path)
	fmt.Printf("Processed %s: %d rows, %d columns in, %d rows, %d columns out\n",
		name, before.RowCount, before.ColumnCount, after.RowCount, after.ColumnCount)
	fmt.Printf("Wrote %s\n\n", output)
	fmt.Print(report.Text(name+" (processed)", after))
	return nil
}

func newDemoCmd() *cobra.Command {
	var rows int
	var seed int64
	var format string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Profile a generated synthetic dataset",
		Long: `Generate a seeded synthetic orders dataset and profile it. Useful for
exploring report output without bringing your own data.

Example: tabprep demo --rows 500 --seed 7 --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rows, seed, format)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 200, "Number of rows to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|markdown|json")

	return cmd
}

func runDemo(rows int, seed int64, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	cfg := testkit.DefaultGeneratorConfig()
	cfg.RowCount = rows
	cfg.Seed = seed

	ds := testkit.NewDatasetGenerator(cfg).Generate()
	res, err := analysis.NewAnalyzer().Analyze(ds)
	if err != nil {
		return err
	}
	return printAnalysis("demo", res, format)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the snapshot server",
		Long: `Start the HTTP server that profiles uploads and keeps snapshots.
Configuration comes from the environment (PORT, DATABASE_URL, ...);
without DATABASE_URL snapshots live in process memory.

Example: PORT=8080 tabprep serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func runServe(ctx context.Context) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.NewDefaultLogger()

	var store ports.SnapshotStore
	if cfg.HasDatabase() {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if err := migration.NewRunner().Run(ctx, db); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
		store = postgres.NewSnapshotStore(db)
	} else {
		store = memory.NewStore()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewApp(cfg.Server, app.NewProfileService(store, logger), app.NewPrepService(store, logger), logger)
	return srv.Start(ctx)
}

func validateFormat(format string) error {
	switch format {
	case "text", "markdown", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (use text, markdown or json)", format)
	}
}

func printAnalysis(name string, res *profile.AnalysisResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "markdown":
		fmt.Print(report.Markdown(name, res))
	default:
		fmt.Print(report.Text(name, res))
	}
	return nil
}
