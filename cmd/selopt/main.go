package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hf-selopt/internal/analysis"
	"hf-selopt/internal/config"
	"hf-selopt/internal/cuts"
	"hf-selopt/internal/data"
	"hf-selopt/internal/logging"
	"hf-selopt/internal/model"
	"hf-selopt/internal/scan"
	"hf-selopt/internal/sink"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logEnv   string
	logLevel string
	logger   = zap.NewNop()
)

func main() {
	root := &cobra.Command{
		Use:           "selopt",
		Short:         "Scan candidate selection thresholds for prompt, non-prompt and background",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logEnv, logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logEnv, "env", "development", "Logging environment (development|production)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")

	root.AddCommand(scanCmd(), rankCmd(), gridsCmd(), runsCmd())

	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type inputFlags struct {
	dataPath  string
	jsonlPath string
	cfgPath   string
	workers   int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dataPath, "data", "", "Path to sample JSON (tracks + candidates)")
	cmd.Flags().StringVar(&f.jsonlPath, "jsonl", "", "Path to JSON-lines candidate stream (alternative to --data)")
	cmd.Flags().StringVar(&f.cfgPath, "config", "", "Path to YAML config (default grids if omitted)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Parallel workers, overrides config (only with --data)")
}

func (f *inputFlags) loadConfig() (*config.Config, error) {
	if f.cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(f.cfgPath)
}

// run executes the scan described by the flags.
func (f *inputFlags) run(ctx context.Context) (*scan.Result, error) {
	if (f.dataPath == "") == (f.jsonlPath == "") {
		return nil, errors.New("exactly one of --data or --jsonl is required")
	}
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	axis, err := cfg.PtAxis()
	if err != nil {
		return nil, err
	}
	engine := scan.New(reg, axis, scan.WithLogger(logger))

	if f.jsonlPath != "" {
		fh, err := os.Open(f.jsonlPath)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		src := data.NewJSONLSource(fh)
		return engine.Run(src, src)
	}

	sample, err := data.LoadSampleJSON(f.dataPath)
	if err != nil {
		return nil, err
	}
	tracks := data.NewTrackTable(sample.Tracks)
	cands := sample.Candidates()
	workers := cfg.Workers
	if f.workers > 0 {
		workers = f.workers
	}
	if workers > 1 {
		return engine.RunParallel(ctx, data.Chunk(cands, workers), tracks, workers)
	}
	return engine.Run(scan.NewSliceSource(cands), tracks)
}

func scanCmd() *cobra.Command {
	var in inputFlags
	var outPath, yodaPath, rootPath, dbPath string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the threshold scan and write the counters",
		Example: `  selopt scan --data sample.json --config examples/config.yaml --out results/counters.csv
  selopt scan --jsonl stream.jsonl --yoda results/counters.yoda --db results/runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, runErr := in.run(cmd.Context())
			if res == nil {
				return runErr
			}

			// ensure output dir exists
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			if err := sink.WriteCountersCSV(outPath, res.Store); err != nil {
				return err
			}
			if yodaPath != "" {
				if err := sink.WriteYODAFile(yodaPath, res.Store); err != nil {
					return err
				}
			}
			if rootPath != "" {
				if err := sink.WriteROOT(rootPath, res.Store); err != nil {
					return err
				}
			}
			runID := uuid.NewString()
			if dbPath != "" {
				db, err := sink.OpenDB(dbPath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.SaveRun(runID, res); err != nil {
					return err
				}
			}

			status := "complete"
			if !res.Complete {
				status = "PARTIAL"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run %s (%s): read=%d processed=%d scans=%d skipped=%d\n",
				runID, status, res.Stats.Read, res.Stats.Processed, res.Stats.Scans, res.Stats.TotalSkipped())
			for reason, n := range res.Stats.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "  skipped %-18s %d\n", reason, n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote counters to %s\n", outPath)
			return runErr
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&outPath, "out", "results/counters.csv", "Output CSV path")
	cmd.Flags().StringVar(&yodaPath, "yoda", "", "Optional YODA output path")
	cmd.Flags().StringVar(&rootPath, "root", "", "Optional ROOT output path")
	cmd.Flags().StringVar(&dbPath, "db", "", "Optional SQLite database to record the run")
	return cmd
}

func rankCmd() *cobra.Command {
	var in inputFlags
	var prong, limit int
	var channel, dim string
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank thresholds of one dimension by prompt significance",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ch, d, err := analysis.ParseSelector(prong, channel, dim)
			if err != nil {
				return err
			}
			res, err := in.run(cmd.Context())
			if err != nil {
				return err
			}
			curve, err := analysis.Efficiencies(res.Store, p, ch, d)
			if err != nil {
				return err
			}
			ranked := analysis.RankThresholds(curve)
			if limit > 0 && limit < len(ranked) {
				ranked = ranked[:limit]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (%s)\n", p, model.ChannelName(p, ch), d, d.Title())
			fmt.Fprintf(cmd.OutOrStdout(), "%-4s %-6s %-10s %-10s %-10s %-10s %-8s\n", "rank", "index", "threshold", "S", "B", "S/sqrt", "S/(S+B)")
			for i, r := range ranked {
				fmt.Fprintf(cmd.OutOrStdout(), "%-4d %-6d %-10g %-10.0f %-10.0f %-10.3f %-8.3f\n",
					i+1, r.Index, r.Threshold,
					r.Pass[model.ClassPrompt], r.Pass[model.ClassBackground],
					r.Significance, r.PromptFraction)
			}
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().IntVar(&prong, "prong", 2, "Prong multiplicity (2 or 3)")
	cmd.Flags().StringVar(&channel, "channel", "2Prong", "Decay channel name or summary (2Prong/3Prong)")
	cmd.Flags().StringVar(&dim, "dim", "cosp", "Cut dimension")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the top N thresholds (0=all)")
	return cmd
}

func gridsCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "grids",
		Short: "Print the cut grids and pT binning in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if cfgPath != "" {
				var err error
				if cfg, err = config.Load(cfgPath); err != nil {
					return err
				}
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			axis, err := cfg.PtAxis()
			if err != nil {
				return err
			}
			for _, d := range cuts.Dimensions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-3s %v\n", d.Key(), cmpSymbol(d), reg.Grid(d))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s     %v\n", "pt_binning", axis.Edges())
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config (default grids if omitted)")
	return cmd
}

func runsCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs recorded in a SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := sink.OpenDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			runs, err := db.ListRuns()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-36s %-20s %-10s %-10s %-8s %s\n", "run", "created", "processed", "skipped", "complete", "pt_edges")
			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s %-20s %-10d %-10d %-8t %s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Processed, r.Skipped, r.Complete, r.PtEdges)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "results/runs.db", "SQLite database path")
	return cmd
}

func cmpSymbol(d cuts.Dimension) string {
	if d.Comparison() == cuts.Less {
		return "<"
	}
	return ">"
}
