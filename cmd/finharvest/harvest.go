package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finharvest/finharvest/internal/config"
	"github.com/finharvest/finharvest/internal/crawler"
	"github.com/finharvest/finharvest/internal/database"
	"github.com/finharvest/finharvest/internal/fetcher"
	"github.com/finharvest/finharvest/internal/log"
	"github.com/finharvest/finharvest/internal/model"
	"github.com/finharvest/finharvest/internal/report"
	"github.com/finharvest/finharvest/internal/robots"
	"github.com/finharvest/finharvest/internal/storage"
)

// NewHarvestCmd creates the harvest command.
func NewHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Crawl the configured sources and harvest their documents",
		Long: `Harvest crawls the selected sources breadth-first from their seed URLs,
downloads documents matching each source's accepted file types, extracts
metadata (title, published date, circular number, topic tags), and stores
document bytes plus a catalog entry under the output directory.

Examples:
  # Harvest every built-in source
  finharvest harvest

  # Harvest only SEBI and AMFI, skipping documents published before 2024
  finharvest harvest --source sebi,amfi --since 2024-01-01

  # See what a harvest would store without writing anything
  finharvest harvest --dry-run

  # Add your own sources from a YAML file
  finharvest harvest --sources-file ./sources.yml --source irdai`,
		Args: cobra.NoArgs,
		RunE: runHarvestCmd,
	}

	cmd.Flags().StringP("source", "s", "all",
		"Comma-separated source names, or \"all\"")
	cmd.Flags().StringP("out", "o", config.DefaultOutputDir,
		"Output directory for documents and the catalog")
	cmd.Flags().String("since", "",
		"Skip documents published before this date (YYYY-MM-DD); undated documents are kept")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Per-source page budget override")
	cmd.Flags().Bool("dry-run", false,
		"Run the full crawl but write nothing to disk")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Concurrent fetches within one source (1 keeps strict breadth-first order)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of sources crawled concurrently")
	cmd.Flags().String("cache-dir", "",
		"Directory for the conditional-GET cache database (default: XDG cache dir)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout per request")
	cmd.Flags().String("sources-file", "",
		"YAML file defining additional sources")
	cmd.Flags().String("report", "",
		"Write a markdown harvest summary to this file")

	return cmd
}

// runHarvestCmd executes the harvest command.
func runHarvestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildHarvestConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runHarvest(ctx, cmd, cfg, logger)
}

// buildHarvestConfig creates a Config from cobra command flags.
func buildHarvestConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	if cfg.Sources, err = cmd.Flags().GetString("source"); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = cmd.Flags().GetString("out"); err != nil {
		return nil, err
	}
	if cfg.Since, err = cmd.Flags().GetString("since"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return nil, err
	}
	if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.CacheDir, err = cmd.Flags().GetString("cache-dir"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.SourcesFile, err = cmd.Flags().GetString("sources-file"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// parseSince validates the --since value.
func parseSince(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: %q", config.ErrInvalidSinceDate, s)
	}
	return d, nil
}

// resolveSources expands the source selection against the built-in table
// plus any file-defined sources, returning the configs in a stable order.
func resolveSources(cfg *config.Config) ([]*crawler.SourceConfig, error) {
	available, err := crawler.BuiltinSources()
	if err != nil {
		return nil, err
	}
	if cfg.SourcesFile != "" {
		extra, err := config.LoadSourcesFile(cfg.SourcesFile)
		if err != nil {
			return nil, err
		}
		for name, sc := range extra {
			available[name] = sc
		}
	}

	var names []string
	if strings.EqualFold(cfg.Sources, "all") {
		for name := range available {
			names = append(names, name)
		}
		sort.Strings(names)
	} else {
		for _, name := range strings.Split(cfg.Sources, ",") {
			names = append(names, strings.TrimSpace(name))
		}
	}

	configs := make([]*crawler.SourceConfig, 0, len(names))
	for _, name := range names {
		sc, ok := available[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %s)",
				config.ErrUnknownSource, name, strings.Join(availableNames(available), ", "))
		}
		configs = append(configs, sc)
	}
	return configs, nil
}

func availableNames(available map[string]*crawler.SourceConfig) []string {
	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runHarvest executes the crawl, persists the documents, and reports.
func runHarvest(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	since, err := parseSince(cfg.Since)
	if err != nil {
		return err
	}
	configs, err := resolveSources(cfg)
	if err != nil {
		return err
	}

	cache, err := database.Open(cfg.ResolvedCacheDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open fetch cache: %w", err)
	}
	defer cache.Close() //nolint:errcheck

	client := &http.Client{Timeout: cfg.Timeout}
	f := fetcher.New(client, cache,
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithLogger(logger))
	gate := robots.NewGate(client, cfg.UserAgent, logger)

	store, err := storage.New(cfg.OutputDir, storage.WithDryRun(cfg.DryRun), storage.WithLogger(logger))
	if err != nil {
		return err
	}

	harvester := crawler.NewHarvester(f, gate,
		crawler.WithSourceConcurrency(cfg.Concurrency),
		crawler.WithSourceWorkers(cfg.Workers),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithSince(since),
		crawler.WithHarvestLogger(logger))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Harvesting %d source(s) into %s\n", len(configs), cfg.OutputDir)
	if cfg.DryRun {
		fmt.Fprintln(out, "Dry run: no files will be written")
	}

	started := time.Now()
	results, crawlErr := harvester.Run(ctx, configs)
	if crawlErr != nil && !errors.Is(crawlErr, context.Canceled) {
		return crawlErr
	}

	// Save whatever we have, even after a cancelled crawl.
	summary := saveResults(results, store, logger)
	summary.StartedAt = started
	summary.Elapsed = time.Since(started)
	summary.DryRun = cfg.DryRun

	printSummary(out, summary)
	if cfg.ReportFile != "" {
		if err := writeReportFile(cfg.ReportFile, summary); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", cfg.ReportFile)
	}
	return crawlErr
}

// saveResults persists every harvested document. Storage failures are
// per-document: logged, counted out of the saved total, never fatal.
func saveResults(results []*crawler.SourceResult, store *storage.Store, logger *slog.Logger) *report.Summary {
	summary := &report.Summary{ByDomain: make(map[string]int)}
	for _, r := range results {
		src := report.SourceSummary{
			Name:        r.Source.Name,
			Harvested:   len(r.Documents) + r.FilteredOut,
			FilteredOut: r.FilteredOut,
		}
		for _, doc := range r.Documents {
			if err := store.SaveDocument(doc.Record, doc.Content); err != nil {
				logger.Error("failed to save document",
					"url", doc.Record.SourceURL, "error", err)
				continue
			}
			src.Saved++
			summary.ByDomain[string(doc.Record.Domain)]++
		}
		summary.Sources = append(summary.Sources, src)
	}
	return summary
}

func printSummary(out io.Writer, summary *report.Summary) {
	fmt.Fprintf(out, "\nHarvest complete in %s\n", summary.Elapsed.Round(time.Second))
	fmt.Fprintf(out, "Total documents saved: %d\n", summary.TotalSaved())
	for _, src := range summary.Sources {
		fmt.Fprintf(out, "  %s: %d saved (%d filtered out)\n", src.Name, src.Saved, src.FilteredOut)
	}
}

// writeReportFile renders the markdown summary, creating parent
// directories as needed.
func writeReportFile(path string, summary *report.Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // user-provided report path is intentional
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := report.NewMarkdownWriter(f).Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
