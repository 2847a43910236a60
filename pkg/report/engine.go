// Package report orchestrates a full accounting run: discover log files,
// parse and deduplicate them per session, filter by time window, price the
// surviving events, and fold them into the requested grouping.
//
// Sessions are independent of each other, so they are processed by a
// bounded worker pool; within a session, files are read sequentially with
// the primary file first so deduplication sees records in a deterministic
// order.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/tokenaudit/tokenaudit/pkg/aggregator"
	"github.com/tokenaudit/tokenaudit/pkg/dedup"
	"github.com/tokenaudit/tokenaudit/pkg/discovery"
	"github.com/tokenaudit/tokenaudit/pkg/display"
	"github.com/tokenaudit/tokenaudit/pkg/logger"
	"github.com/tokenaudit/tokenaudit/pkg/parser"
	"github.com/tokenaudit/tokenaudit/pkg/pricing"
	"github.com/tokenaudit/tokenaudit/pkg/sessionindex"
	"github.com/tokenaudit/tokenaudit/pkg/timeframe"
)

// Options controls one accounting run.
type Options struct {
	// Window restricts events to a half-open time range. A zero window
	// includes everything.
	Window timeframe.Window

	// Zone is the civil zone for bucket boundaries. Must not be nil.
	Zone *time.Location

	// Dimension is the grouping axis.
	Dimension aggregator.Dimension

	// ProjectFilter, when non-empty, keeps only events whose resolved
	// project path contains it as a substring.
	ProjectFilter string

	// Workers bounds the session-level parse concurrency. Values below 1
	// are treated as 1.
	Workers int
}

// Engine runs accounting reports. Construct with NewEngine; the zero value
// is not usable.
type Engine struct {
	discoverer discovery.Discoverer
	parser     parser.Parser
	calculator *pricing.Calculator
	sessions   sessionindex.Resolver
	logger     logger.Logger
	warnings   *logger.Warnings
}

// NewEngine wires an engine from its collaborators.
func NewEngine(
	d discovery.Discoverer,
	p parser.Parser,
	calc *pricing.Calculator,
	sessions sessionindex.Resolver,
	log logger.Logger,
	warns *logger.Warnings,
) *Engine {
	return &Engine{
		discoverer: d,
		parser:     p,
		calculator: calc,
		sessions:   sessions,
		logger:     log,
		warnings:   warns,
	}
}

// sessionJob is one session's files, ordered primary-first.
type sessionJob struct {
	sessionID string
	files     []discovery.LogFile
}

// sessionResult carries one session's deduplicated events and the parse
// statistics accumulated across its files.
type sessionResult struct {
	events []dedup.UsageEvent
	stats  parser.Stats
}

// Run executes one report. The returned report is empty, not an error,
// when no event survives filtering; the error cases are absent data roots,
// context cancellation, and nothing else.
func (e *Engine) Run(ctx context.Context, opts Options) (display.Report, error) {
	files, err := e.discoverer.Discover()
	if err != nil {
		return display.Report{}, err
	}

	jobs := groupSessions(files)
	e.logger.Debug("report run starting",
		"files", len(files), "sessions", len(jobs), "workers", opts.Workers)

	events, stats, err := e.parseAll(ctx, jobs, opts.Workers)
	if err != nil {
		return display.Report{}, err
	}
	if stats.Malformed > 0 {
		e.warnings.Addf("%d malformed line(s) skipped", stats.Malformed)
	}

	events = lo.Filter(events, func(ev dedup.UsageEvent, _ int) bool {
		if !opts.Window.Contains(ev.Timestamp) {
			return false
		}
		if opts.ProjectFilter != "" && !strings.Contains(ev.ProjectPath, opts.ProjectFilter) {
			return false
		}
		return true
	})

	e.calculator.Apply(events)

	var label aggregator.LabelFunc
	if opts.Dimension == aggregator.DimSession {
		label = e.sessions.Label
	}

	agg := aggregator.New(opts.Dimension, opts.Zone, label)
	for _, ev := range events {
		agg.Add(ev)
	}
	buckets, total := agg.Results()

	for _, model := range e.calculator.UnknownModels() {
		e.warnings.Addf("model %q has no pricing rule; fallback rates applied", model)
	}

	e.logger.Debug("report run complete",
		"lines", stats.Lines, "emitted", stats.Emitted,
		"events", len(events), "buckets", len(buckets))

	return display.Report{
		Dimension: opts.Dimension,
		Buckets:   buckets,
		Total:     total,
	}, nil
}

// parseAll fans the session jobs out over a worker pool and collects the
// deduplicated events. The first context cancellation aborts the run.
func (e *Engine) parseAll(ctx context.Context, sessions []sessionJob, workers int) ([]dedup.UsageEvent, parser.Stats, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(sessions) && len(sessions) > 0 {
		workers = len(sessions)
	}

	jobs := make(chan sessionJob)
	results := make(chan sessionResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- e.parseSession(ctx, job)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, job := range sessions {
			select {
			case jobs <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var events []dedup.UsageEvent
	var stats parser.Stats
	for res := range results {
		events = append(events, res.events...)
		stats.Lines += res.stats.Lines
		stats.Emitted += res.stats.Emitted
		stats.Malformed += res.stats.Malformed
		stats.Skipped += res.stats.Skipped
		stats.Filtered += res.stats.Filtered
	}

	if err := ctx.Err(); err != nil {
		return nil, parser.Stats{}, err
	}
	return events, stats, nil
}

// parseSession reads one session's files in order through a fresh
// deduplication set. Unreadable files degrade to a warning; the partial
// records already emitted from a torn file are kept.
func (e *Engine) parseSession(ctx context.Context, job sessionJob) sessionResult {
	set := dedup.NewSessionSet()
	var stats parser.Stats

	for _, f := range job.files {
		if ctx.Err() != nil {
			break
		}

		origin := f.Origin
		fileStats, err := e.parser.ScanFile(f.Path, func(rec parser.Record) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set.Observe(rec, origin, f.SessionID, f.Project.ResolvedPath)
			return nil
		})

		stats.Lines += fileStats.Lines
		stats.Emitted += fileStats.Emitted
		stats.Malformed += fileStats.Malformed
		stats.Skipped += fileStats.Skipped
		stats.Filtered += fileStats.Filtered

		if err != nil && ctx.Err() == nil {
			e.warnings.Addf("failed to read %s: %v", f.Path, err)
		}
	}

	return sessionResult{events: set.Events(), stats: stats}
}

// groupSessions partitions discovered files into per-session jobs. Files
// within a job are ordered primary-first, then satellites sorted by path,
// so every run observes a session's records in the same order.
func groupSessions(files []discovery.LogFile) []sessionJob {
	byKey := make(map[string]*sessionJob)
	var order []string

	for _, f := range files {
		key := fmt.Sprintf("%s\x00%s", f.Project.EncodedName, f.SessionID)
		job, ok := byKey[key]
		if !ok {
			job = &sessionJob{sessionID: f.SessionID}
			byKey[key] = job
			order = append(order, key)
		}
		job.files = append(job.files, f)
	}

	jobs := make([]sessionJob, 0, len(byKey))
	for _, key := range order {
		job := byKey[key]
		sort.SliceStable(job.files, func(i, j int) bool {
			a, b := job.files[i], job.files[j]
			if a.Origin != b.Origin {
				return a.Origin == discovery.OriginPrimary
			}
			return a.Path < b.Path
		})
		jobs = append(jobs, *job)
	}

	return jobs
}
