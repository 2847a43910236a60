package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tokenaudit/tokenaudit/pkg/aggregator"
	"github.com/tokenaudit/tokenaudit/pkg/config"
	"github.com/tokenaudit/tokenaudit/pkg/discovery"
	"github.com/tokenaudit/tokenaudit/pkg/display"
	"github.com/tokenaudit/tokenaudit/pkg/logger"
	"github.com/tokenaudit/tokenaudit/pkg/parser"
	"github.com/tokenaudit/tokenaudit/pkg/pricing"
	"github.com/tokenaudit/tokenaudit/pkg/projects"
	"github.com/tokenaudit/tokenaudit/pkg/report"
	"github.com/tokenaudit/tokenaudit/pkg/sessionindex"
	"github.com/tokenaudit/tokenaudit/pkg/timeframe"
)

// reportOptions holds the report command flags.
type reportOptions struct {
	since    string
	until    string
	last     string
	tz       string
	groupBy  string
	project  string
	format   string
	costMode string
	compact  bool
}

// errConflictingRange rejects mixing the relative and explicit range flags.
var errConflictingRange = errors.New("--last cannot be combined with --since or --until")

// newReportCommand builds the explicit report subcommand.
func newReportCommand(global *globalOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate token usage and cost over a time range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), global, opts)
		},
	}

	bindReportFlags(cmd, opts)
	return cmd
}

// bindReportFlags registers the report flags on a command.
func bindReportFlags(cmd *cobra.Command, opts *reportOptions) {
	fs := cmd.Flags()
	fs.StringVar(&opts.since, "since", "", "start date (YYYY-MM-DD, inclusive)")
	fs.StringVar(&opts.until, "until", "", "end date (YYYY-MM-DD, inclusive)")
	fs.StringVar(&opts.last, "last", "", "relative range: 7d, 4w, 3m (calendar days from local midnight)")
	fs.StringVar(&opts.tz, "tz", "", "IANA time zone for bucketing (default: system local)")
	fs.StringVar(&opts.groupBy, "group-by", "", "grouping dimension: day, week, month, session, model, project")
	fs.StringVar(&opts.project, "project", "", "only include projects whose path contains this substring")
	fs.StringVar(&opts.format, "format", "", "output format: table, json, csv")
	fs.StringVar(&opts.costMode, "cost-mode", "", "cost derivation: auto, calculate, display")
	fs.BoolVar(&opts.compact, "compact", false, "compact table output")
}

// runReport loads configuration, wires the pipeline, and writes one report
// to stdout.
func runReport(ctx context.Context, global *globalOptions, opts *reportOptions) error {
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	applyReportFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		Format: cfg.Logging.Format,
	})
	warns := logger.NewWarnings()

	loc, err := timeframe.LoadZone(cfg.Report.Timezone)
	if err != nil {
		return err
	}

	window, err := buildWindow(opts, loc)
	if err != nil {
		return err
	}

	dim, err := aggregator.ParseDimension(cfg.Report.GroupBy)
	if err != nil {
		return err
	}

	format, err := display.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	mode, err := pricing.ParseCostMode(cfg.Pricing.CostMode)
	if err != nil {
		return err
	}
	table, err := pricing.LoadDefault()
	if err != nil {
		return err
	}
	calc := pricing.NewCalculator(table, mode)

	resolver := projects.NewResolver()
	if err := resolver.LoadIndex(cfg.ClaudeConfigFile); err != nil {
		warns.Addf("project index unavailable, falling back to heuristic decoding: %v", err)
	}

	sessions := sessionindex.Open(cfg.SessionIndex.Path)
	defer sessions.Close()

	engine := report.NewEngine(
		discovery.New(cfg.DataDirs, resolver, log, warns),
		parser.New(),
		calc,
		sessions,
		log,
		warns,
	)

	result, err := engine.Run(ctx, report.Options{
		Window:        window,
		Zone:          loc,
		Dimension:     dim,
		ProjectFilter: opts.project,
		Workers:       cfg.Performance.Workers,
	})
	if err != nil {
		return err
	}

	formatter := display.New(format, display.Config{
		Compact: opts.compact || (format == display.FormatTable && display.AutoCompact()),
	})
	if err := formatter.Format(os.Stdout, result); err != nil {
		return err
	}

	warns.Flush(log)
	return nil
}

// loadConfig loads the layered configuration honoring the global flags.
func loadConfig(global *globalOptions) (*config.Config, error) {
	cfg, err := config.NewLoader(global.configPath).Load()
	if err != nil {
		return nil, err
	}
	if global.logLevel != "" {
		cfg.Logging.Level = global.logLevel
	}
	return cfg, nil
}

// applyReportFlags overlays the report flags onto the loaded configuration.
// Flags beat every other configuration source.
func applyReportFlags(cfg *config.Config, opts *reportOptions) {
	if opts.tz != "" {
		cfg.Report.Timezone = opts.tz
	}
	if opts.groupBy != "" {
		cfg.Report.GroupBy = opts.groupBy
	}
	if opts.format != "" {
		cfg.Report.Format = opts.format
	}
	if opts.costMode != "" {
		cfg.Pricing.CostMode = opts.costMode
	}
}

// buildWindow derives the query window from the range flags.
func buildWindow(opts *reportOptions, loc *time.Location) (timeframe.Window, error) {
	if opts.last != "" {
		if opts.since != "" || opts.until != "" {
			return timeframe.Window{}, errConflictingRange
		}
		return timeframe.ParseRelative(opts.last, time.Now(), loc)
	}
	return timeframe.ParseDateRange(opts.since, opts.until, loc)
}
