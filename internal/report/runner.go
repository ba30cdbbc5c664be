// Package report builds the weekly chart report from the live page and its
// archived snapshots.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/wom/internal/archive"
	"github.com/law-makers/wom/internal/chart"
	"github.com/law-makers/wom/internal/reqctx"
	"github.com/law-makers/wom/pkg/models"
)

// PageFetcher returns the body of a page
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SnapshotLister lists archived snapshots of a page, newest first
type SnapshotLister interface {
	List(ctx context.Context, url string, limit, yearsBack int) ([]models.Snapshot, error)
}

// Progress is notified once per processed snapshot
type Progress interface {
	Add(n int) error
	Finish() error
}

// Options configures a Runner
type Options struct {
	TargetURL   string
	ArchiveBase string
	Limit       int
	YearsBack   int
	Now         func() time.Time

	// NewProgress, when set, is called with the snapshot count before they
	// are processed
	NewProgress func(total int) Progress
}

// Runner fetches and parses pages one at a time and never aborts on a
// failed page
type Runner struct {
	fetcher PageFetcher
	lister  SnapshotLister
	opts    Options
}

// NewRunner creates a Runner
func NewRunner(fetcher PageFetcher, lister SnapshotLister, opts Options) *Runner {
	if opts.ArchiveBase == "" {
		opts.ArchiveBase = archive.DefaultBase
	}
	if opts.Limit == 0 {
		opts.Limit = chart.DefaultLimit
	}
	if opts.YearsBack < 0 {
		opts.YearsBack = archive.DefaultYearsBack
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{fetcher: fetcher, lister: lister, opts: opts}
}

// Run builds a report with the current chart and up to recent archived ones
func (r *Runner) Run(ctx context.Context, recent int) *models.Report {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = reqctx.WithRunContext(ctx)
	logger := reqctx.Logger(ctx, log.Logger)

	rep := &models.Report{
		GeneratedAt:    r.opts.Now().UTC(),
		RunID:          reqctx.GetRunContext(ctx).RunID,
		RecentArchives: []models.PageResult{},
		Notes:          []string{},
	}

	rep.Current = r.Current(ctx)
	if rep.Current.Failed() {
		logger.Warn().Str("error", rep.Current.Error).Msg("Current chart unavailable")
	}

	if recent <= 0 {
		return rep
	}

	snaps, err := r.lister.List(ctx, r.opts.TargetURL, recent, r.opts.YearsBack)
	if err != nil {
		logger.Warn().Err(err).Msg("Snapshot listing failed")
		rep.Notes = append(rep.Notes, fmt.Sprintf("archive_list_error: %v", err))
		snaps = nil
	}

	var progress Progress
	if r.opts.NewProgress != nil && len(snaps) > 0 {
		progress = r.opts.NewProgress(len(snaps))
	}

	for _, snap := range snaps {
		if progress != nil {
			_ = progress.Add(1)
		}
		if snap.Timestamp == "" {
			logger.Debug().Msg("Skipping snapshot without timestamp")
			continue
		}

		page := r.Archive(ctx, snap)
		if page.Failed() {
			logger.Warn().Str("timestamp", snap.Timestamp).Str("error", page.Error).Msg("Archived chart unavailable")
		}
		rep.RecentArchives = append(rep.RecentArchives, page)
	}
	if progress != nil {
		_ = progress.Finish()
	}

	logger.Info().
		Bool("current_ok", !rep.Current.Failed()).
		Int("archives", len(rep.RecentArchives)).
		Int("notes", len(rep.Notes)).
		Msg("Report built")

	return rep
}

// Current fetches and parses the live chart
func (r *Runner) Current(ctx context.Context) models.PageResult {
	weekly, err := r.page(ctx, r.opts.TargetURL)
	if err != nil {
		return models.PageResult{Error: fmt.Sprintf("failed_current: %v", err)}
	}

	year := r.opts.Now().Year()
	return models.PageResult{
		WeeklyResult: weekly,
		Source:       r.opts.TargetURL,
		IsArchive:    false,
		YearGuess:    &year,
	}
}

// Archive fetches and parses the archived chart of one snapshot
func (r *Runner) Archive(ctx context.Context, snap models.Snapshot) models.PageResult {
	ts := snap.Timestamp
	source := archive.ArchivedURL(r.opts.ArchiveBase, ts, r.opts.TargetURL)

	weekly, err := r.page(ctx, source)
	if err != nil {
		return models.PageResult{
			Error:     fmt.Sprintf("failed_archive_%s: %v", ts, err),
			Timestamp: ts,
		}
	}

	page := models.PageResult{
		WeeklyResult: weekly,
		Source:       source,
		IsArchive:    true,
		Timestamp:    ts,
	}
	if year, ok := archive.YearOf(ts); ok {
		page.YearGuess = &year
	}
	return page
}

func (r *Runner) page(ctx context.Context, url string) (models.WeeklyResult, error) {
	body, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return models.WeeklyResult{}, err
	}
	return chart.ParseWeekly(body, r.opts.Limit)
}
