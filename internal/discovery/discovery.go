package discovery

import (
	"context"
	"log/slog"
	"time"

	"weeklyschedule/internal/logging"
	"weeklyschedule/internal/tvmaze"
)

// ScheduleSource returns the episodes of one schedule variant for a date.
type ScheduleSource interface {
	Schedule(ctx context.Context, variant tvmaze.Variant, date time.Time) ([]tvmaze.Episode, error)
}

// Excluder names the exclusion rule a show matches, or returns "".
type Excluder interface {
	Reason(show tvmaze.Show) string
}

// ShowEntry aggregates every discovered episode of one show.
type ShowEntry struct {
	Show     tvmaze.Show
	Episodes []tvmaze.Episode
}

// Stats summarizes one discovery pass.
type Stats struct {
	Days          int
	Queries       int
	FailedQueries int
	Records       int
	SkippedNoShow int
	// Excluded counts distinct shows per exclusion reason.
	Excluded map[string]int
	Shows    int
}

// Discoverer runs discovery against a schedule source.
type Discoverer struct {
	source   ScheduleSource
	excluder Excluder
	variants []tvmaze.Variant
	logger   *slog.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithVariants overrides the queried schedule variants.
func WithVariants(variants ...tvmaze.Variant) Option {
	return func(d *Discoverer) {
		if len(variants) > 0 {
			d.variants = append([]tvmaze.Variant(nil), variants...)
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Discoverer.
func New(source ScheduleSource, excluder Excluder, opts ...Option) *Discoverer {
	d := &Discoverer{
		source:   source,
		excluder: excluder,
		variants: append([]tvmaze.Variant(nil), tvmaze.Variants...),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "discovery")
	return d
}

// Discover collects shows for the windowDays calendar dates ending on today.
// The only error it returns is the context's, when cancelled mid-walk.
func (d *Discoverer) Discover(ctx context.Context, windowDays int, today time.Time) (map[int64]*ShowEntry, Stats, error) {
	entries := make(map[int64]*ShowEntry)
	stats := Stats{Excluded: make(map[string]int)}
	excluded := make(map[int64]struct{})

	for offset := windowDays - 1; offset >= 0; offset-- {
		date := today.AddDate(0, 0, -offset)
		stats.Days++
		for _, variant := range d.variants {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
			stats.Queries++
			episodes, err := d.source.Schedule(ctx, variant, date)
			if err != nil {
				stats.FailedQueries++
				d.logger.Debug("schedule query yielded no data",
					logging.String(logging.FieldEventType, "schedule_query_failed"),
					logging.String("variant", string(variant)),
					logging.String("date", date.Format(tvmaze.DateLayout)),
					logging.Error(err),
					logging.String(logging.FieldImpact, "query treated as empty"))
				continue
			}
			for _, ep := range episodes {
				stats.Records++
				show := ep.LinkedShow()
				if show == nil || show.ID == 0 {
					stats.SkippedNoShow++
					continue
				}
				if _, seen := excluded[show.ID]; seen {
					continue
				}
				if reason := d.excluder.Reason(*show); reason != "" {
					excluded[show.ID] = struct{}{}
					stats.Excluded[reason]++
					attrs := append(logging.DecisionAttrs("content_filter", "excluded", reason),
						logging.Int64(logging.FieldShowID, show.ID),
						logging.String("show", show.Name))
					d.logger.Debug("show excluded", logging.Args(attrs...)...)
					continue
				}
				entry, ok := entries[show.ID]
				if !ok {
					entry = &ShowEntry{Show: *show}
					entries[show.ID] = entry
				}
				entry.Episodes = append(entry.Episodes, ep)
			}
		}
	}

	stats.Shows = len(entries)
	d.logger.Info("discovery complete",
		logging.Int("days", stats.Days),
		logging.Int("queries", stats.Queries),
		logging.Int("failed_queries", stats.FailedQueries),
		logging.Int("records", stats.Records),
		logging.Int("shows", stats.Shows),
		logging.Int("excluded_shows", len(excluded)))
	return entries, stats, nil
}
