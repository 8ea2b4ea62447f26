package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/procyclingstats/internal/calendar"
	"github.com/pfrederiksen/procyclingstats/internal/config"
	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/logger"
	"github.com/pfrederiksen/procyclingstats/internal/race"
	"github.com/pfrederiksen/procyclingstats/internal/rider"
	"github.com/pfrederiksen/procyclingstats/internal/scraper"
	"github.com/pfrederiksen/procyclingstats/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// flags shared by every command
type flags struct {
	configPath      string
	dataDir         string
	format          string
	htmlFile        string
	icsFile         string
	sortField       string
	workers         int
	save            bool
	verbose         bool
	omitUnavailable bool
}

// record is what the commands need from a rider or race
type record interface {
	CanonicalURL() string
	Update(ctx context.Context) error
	Parse(opts field.Options) (*field.Record, error)
}

type builder func(url string, opts ...scraper.Option) (record, error)

func buildRider(url string, opts ...scraper.Option) (record, error) {
	return rider.New(url, opts...)
}

func buildRace(url string, opts ...scraper.Option) (record, error) {
	return race.New(url, opts...)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "pcs",
		Short: "Scrape rider and race pages from procyclingstats.com",
		Long: `A CLI tool to extract structured records from procyclingstats.com.
Pages are given as relative paths (rider/tadej-pogacar) or full URLs.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file")
	pf.StringVar(&f.dataDir, "data-dir", "", "Data directory for snapshots (default from config)")
	pf.StringVar(&f.format, "format", "text", "Output format: text or json")
	pf.StringVar(&f.htmlFile, "html", "", "Parse this HTML file instead of fetching the page (single URL only)")
	pf.StringVar(&f.sortField, "sort", "", "Sort table rows by this field")
	pf.IntVar(&f.workers, "workers", 0, "Pages fetched in parallel (default from config)")
	pf.BoolVar(&f.save, "save", false, "Save records as snapshots and report changed fields")
	pf.BoolVar(&f.verbose, "verbose", false, "Enable verbose logging")
	pf.BoolVar(&f.omitUnavailable, "omit-unavailable", false, "Leave out fields the page does not carry instead of printing null")

	riderCmd := &cobra.Command{
		Use:   "rider <url>...",
		Short: "Scrape rider profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(cmd, f, buildRider, args)
		},
	}
	riderCmd.AddCommand(newTeamsCmd(f))

	raceCmd := &cobra.Command{
		Use:   "race <url>...",
		Short: "Scrape stage and one-day race results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(cmd, f, buildRace, args)
		},
	}
	raceCmd.Flags().StringVar(&f.icsFile, "ics", "", "Also write the race days to this iCalendar file")
	raceCmd.AddCommand(newResultsCmd(f))

	cmd.AddCommand(riderCmd, raceCmd)
	return cmd
}

// setup loads configuration and installs the default logger
func setup(f *flags) (config.Config, OutputFormat, error) {
	format := OutputFormat(strings.ToLower(f.format))
	if format != FormatText && format != FormatJSON {
		return config.Config{}, "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", f.format)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("loading config: %w", err)
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, "", err
	}
	if f.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return cfg, format, nil
}

// open creates the records for urls. With --html the single page is loaded
// from the file and never fetched.
func open(f *flags, cfg config.Config, build builder, urls []string) ([]record, bool, error) {
	opts := []scraper.Option{
		scraper.WithFetcher(scraper.NewHTTPFetcher(cfg.UserAgent, cfg.Timeout)),
		scraper.WithLogger(logger.Default()),
	}
	offline := f.htmlFile != ""
	if offline {
		if len(urls) != 1 {
			return nil, false, fmt.Errorf("--html takes exactly one URL, got %d", len(urls))
		}
		body, err := os.ReadFile(f.htmlFile)
		if err != nil {
			return nil, false, fmt.Errorf("reading HTML file: %w", err)
		}
		opts = append(opts, scraper.WithHTML(body))
	}

	records := make([]record, len(urls))
	for i, url := range urls {
		r, err := build(url, opts...)
		if err != nil {
			return nil, false, err
		}
		records[i] = r
	}
	return records, offline, nil
}

// fetch updates every record, at most workers at a time
func fetch(ctx context.Context, records []record, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, r := range records {
		r := r // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if err := r.Update(ctx); err != nil {
				return err
			}
			logger.Info("fetched page", logger.Fields{"url": r.CanonicalURL()})
			return nil
		})
	}
	return g.Wait()
}

func runRecords(cmd *cobra.Command, f *flags, build builder, urls []string) error {
	cfg, format, err := setup(f)
	if err != nil {
		return err
	}

	records, offline, err := open(f, cfg, build, urls)
	if err != nil {
		return err
	}
	if !offline {
		start := time.Now()
		if err := fetch(cmd.Context(), records, cfg.Workers); err != nil {
			return err
		}
		logger.RecordTiming("cli.fetch_all", time.Since(start))
	}

	var store *storage.Storage
	if f.save {
		store, err = storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
	}

	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Records:   make([]RecordOutput, 0, len(records)),
	}
	for _, r := range records {
		rec, err := r.Parse(field.Options{OmitIgnored: f.omitUnavailable})
		if err != nil {
			return fmt.Errorf("parsing %s: %w", r.CanonicalURL(), err)
		}
		sortRecordTables(rec, f.sortField)

		out := RecordOutput{URL: r.CanonicalURL(), Record: rec}
		if store != nil {
			changed, err := saveRecord(store, out.URL, rec)
			if err != nil {
				return err
			}
			out.Changed = changed
		}
		result.Records = append(result.Records, out)
	}

	if f.icsFile != "" {
		if err := writeCalendar(f.icsFile, result); err != nil {
			return err
		}
	}

	return WriteOutput(cmd.OutOrStdout(), result, format)
}

// writeCalendar exports the dated records of result as an .ics file
func writeCalendar(path string, result *OutputResult) error {
	entries := make([]calendar.Entry, 0, len(result.Records))
	for _, out := range result.Records {
		if e, ok := calendar.EntryFromRecord(out.URL, out.Record); ok {
			entries = append(entries, e)
		} else {
			logger.Warn("no race date, left out of calendar", logger.Fields{"url": out.URL})
		}
	}
	ics := calendar.GenerateICS(entries, result.CheckedAt)
	if err := os.WriteFile(path, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	logger.Info("wrote calendar", logger.Fields{"path": path, "events": len(entries)})
	return nil
}

// saveRecord stores rec and returns the fields that differ from the last snapshot
func saveRecord(store *storage.Storage, url string, rec *field.Record) ([]string, error) {
	previous, err := store.Load(url)
	if err != nil && !errors.Is(err, storage.ErrNoSnapshot) {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	changed, err := storage.Diff(previous, rec)
	if err != nil {
		return nil, err
	}
	if _, err := store.Save(url, rec); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	logger.Info("saved snapshot", logger.Fields{"url": url, "changed": len(changed)})
	return changed, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
