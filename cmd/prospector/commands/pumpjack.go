package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/42maru-ai/prospector/internal/observability"
	"github.com/42maru-ai/prospector/pkg/prospector"
	"github.com/42maru-ai/prospector/pkg/writer"
)

var (
	pumpFormat      string
	pumpOutDir      string
	pumpConcurrency int
	pumpTimeout     time.Duration
	pumpSQLite      string
)

var pumpjackCmd = &cobra.Command{
	Use:   "pumpjack <dir-or-files...>",
	Short: "Extract many PDFs concurrently into an output directory",
	Long: `Pumpjack walks its arguments, collecting every PDF (directories are
scanned one level deep), and runs them through the extraction pipeline with a
bounded worker pool. Each completed document is written as soon as it
finishes; a single corrupt file never aborts the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPumpjack,
}

func init() {
	pumpjackCmd.Flags().StringVarP(&pumpFormat, "format", "f", "", "output format: html or json")
	pumpjackCmd.Flags().StringVarP(&pumpOutDir, "output", "o", "", "output directory")
	pumpjackCmd.Flags().IntVarP(&pumpConcurrency, "concurrency", "n", 0, "max PDFs in flight (default: CPU count)")
	pumpjackCmd.Flags().DurationVar(&pumpTimeout, "timeout", 0, "per-document time budget (0 disables)")
	pumpjackCmd.Flags().StringVar(&pumpSQLite, "sqlite", "", "also record every result in a SQLite database")
	rootCmd.AddCommand(pumpjackCmd)
}

func runPumpjack(cmd *cobra.Command, args []string) error {
	if pumpFormat != "" {
		cfg.Output.Format = pumpFormat
	}
	if pumpOutDir != "" {
		cfg.Output.Dir = pumpOutDir
	}
	if pumpConcurrency > 0 {
		cfg.Batch.Concurrency = pumpConcurrency
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Batch.Timeout = pumpTimeout
	}
	if pumpSQLite != "" {
		cfg.Output.SQLitePath = pumpSQLite
	}

	paths, err := collectPDFs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found under %s", strings.Join(args, ", "))
	}

	ser, err := serializerFor(cfg.Output.Format, cfg.Output.Pretty)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	dirSink, err := writer.NewDir(cfg.Output.Dir, ser, logger)
	if err != nil {
		return err
	}

	var dbSink *writer.SQLite
	if cfg.Output.SQLitePath != "" {
		dbSink, err = writer.NewSQLite(cfg.Output.SQLitePath, ser, logger)
		if err != nil {
			return err
		}
		defer dbSink.Close()
	}

	client, err := prospector.NewWithConfig(cfg, prospector.WithLogger(logger))
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)

	sink := func(rec prospector.Record) {
		dirSink.Consume(rec)
		if dbSink != nil {
			dbSink.Consume(rec)
		}
		_ = bar.Add(1)
	}

	started := time.Now()
	records := client.Pumpjack(cmd.Context(), paths, sink)
	elapsed := time.Since(started).Round(time.Millisecond)

	failed := 0
	for _, rec := range records {
		if rec.Err != nil {
			failed++
			color.Red("✗ %s: %v", rec.Input, rec.Err)
		}
	}

	if failed == 0 {
		color.Green("✓ %d documents extracted to %s in %s", len(records), cfg.Output.Dir, elapsed)
		return nil
	}
	color.Yellow("%d of %d documents extracted to %s in %s (%d failed)",
		len(records)-failed, len(records), cfg.Output.Dir, elapsed, failed)
	return nil
}

// collectPDFs expands arguments into a sorted list of PDF paths. Directories
// contribute their immediate .pdf entries.
func collectPDFs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", arg, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}
