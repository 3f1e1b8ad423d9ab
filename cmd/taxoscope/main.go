package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taxoscope/taxoscope/internal/watch"
	"github.com/taxoscope/taxoscope/pkg/taxoscope"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/config"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/internalerr"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/paths"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/report"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/sankey"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/toplist"
	"github.com/taxoscope/taxoscope/pkg/taxoscope/watchlist"
)

var (
	configPath string
	reportPath string
	verbose    bool

	domains     []string
	rankLetters []string
	topK        int
	minReads    int64
	outPath     string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "taxoscope",
	Short: "Rebuilds dashboard data from a live classification report",
	Long: `taxoscope turns a cumulative classification report into the data
structures behind the live metagenomics dashboard: a Sankey flow graph,
icicle/sunburst path tables, an abundance top list and a
species-of-interest watchlist.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Parse the report once and emit all derived views as JSON",
	RunE:  runRender,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously rebuild the views as the report is rewritten",
	Long: `Watches the report file and rebuilds all views whenever the
producer rewrites it, with a periodic rebuild as fallback. Output is
written atomically so the dashboard never reads a half-written file.`,
	RunE: runWatch,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")
	rootCmd.PersistentFlags().StringVarP(&reportPath, "report", "r", "", "path to the report file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	renderCmd.Flags().StringSliceVar(&domains, "domains", nil, "domains to include (default: all configured)")
	renderCmd.Flags().StringSliceVar(&rankLetters, "letters", nil, "rank letters to include (default: configured subset)")
	renderCmd.Flags().IntVar(&topK, "top", 0, "taxa kept per Sankey column (default: configured)")
	renderCmd.Flags().Int64Var(&minReads, "min-reads", -1, "minimum reads for the path charts (default: configured)")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")

	watchCmd.Flags().StringVarP(&outPath, "out", "o", "taxoscope.json", "output file, rewritten on every refresh")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(watchCmd)
}

// output bundles every derived view of one snapshot.
type output struct {
	Snapshot  string          `json:"snapshot"`
	CreatedAt time.Time       `json:"created_at"`
	Totals    report.Totals   `json:"totals"`
	Sankey    sankey.Data     `json:"sankey"`
	Paths     paths.Table     `json:"paths"`
	TopList   toplist.Table   `json:"top_list"`
	Watchlist watchlist.Table `json:"watchlist"`
}

func buildEngine() (*taxoscope.Engine, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if reportPath != "" {
		cfg.ReportPath = reportPath
	}
	if cfg.ReportPath == "" {
		return nil, fmt.Errorf("%w: set report_path in the config or pass --report", internalerr.ErrMissingReport)
	}
	return taxoscope.New(taxoscope.Options{Config: cfg, Logger: logger}), nil
}

func buildOutput(eng *taxoscope.Engine, snap *taxoscope.Snapshot) (output, error) {
	sankeyData, err := eng.Sankey(snap, taxoscope.SankeyFilter{
		Domains:     domains,
		RankLetters: rankLetters,
		TopK:        topK,
	})
	if err != nil {
		return output{}, err
	}
	pathTable, err := eng.Paths(snap, taxoscope.PathFilter{
		Domains:  domains,
		MinReads: minReads,
	})
	if err != nil {
		return output{}, err
	}
	topTable, err := eng.TopList(snap, taxoscope.TopListFilter{Domains: domains, N: -1})
	if err != nil {
		return output{}, err
	}
	return output{
		Snapshot:  snap.ID,
		CreatedAt: snap.CreatedAt,
		Totals:    eng.Totals(snap),
		Sankey:    sankeyData,
		Paths:     pathTable,
		TopList:   topTable,
		Watchlist: eng.Watchlist(snap),
	}, nil
}

func writeOutput(out output, path string) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	// Write-then-rename so readers never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func runRender(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}
	snap, err := eng.Refresh(cmd.Context())
	if err != nil {
		return err
	}
	out, err := buildOutput(eng, snap)
	if err != nil {
		return err
	}
	return writeOutput(out, outPath)
}

func runWatch(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return err
	}
	cfg := eng.Config()

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	refresh := func(ctx context.Context) {
		snap, err := eng.Refresh(ctx)
		if err != nil {
			logger.Warn("refresh failed", zap.Error(err))
			return
		}
		out, err := buildOutput(eng, snap)
		if err != nil {
			logger.Warn("view build failed", zap.Error(err))
			return
		}
		if err := writeOutput(out, outPath); err != nil {
			logger.Warn("output write failed", zap.String("path", outPath), zap.Error(err))
			return
		}
		logger.Info("views updated",
			zap.String("snapshot", snap.ID),
			zap.Int("taxa", snap.Rows))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(watch.Options{
		Path:     cfg.ReportPath,
		Interval: time.Duration(cfg.UpdateIntervalSeconds) * time.Second,
		Logger:   logger,
		Refresh:  refresh,
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	refresh(ctx)
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
