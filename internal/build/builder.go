package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"weeklyschedule/internal/catalog"
	"weeklyschedule/internal/config"
	"weeklyschedule/internal/discovery"
	"weeklyschedule/internal/fetch"
	"weeklyschedule/internal/filter"
	"weeklyschedule/internal/logging"
	"weeklyschedule/internal/metrics"
	"weeklyschedule/internal/resolve"
	"weeklyschedule/internal/tmdb"
	"weeklyschedule/internal/tvmaze"
	"weeklyschedule/internal/window"
)

// ErrBuildLocked is returned when another build holds the artifact lock.
var ErrBuildLocked = errors.New("another build is already running for this output")

// Summary describes a finished run.
type Summary struct {
	Today         time.Time
	OutputPath    string
	Discovery     discovery.Stats
	OutsideWindow int
	Unresolved    int
	DuplicateIDs  int
	Resolved      map[resolve.Source]int
	Metas         int
	Videos        int
	Duration      time.Duration
}

// Builder wires the pipeline components from configuration.
type Builder struct {
	cfg        *config.Config
	logger     *slog.Logger
	now        func() time.Time
	httpClient *http.Client
	recorder   *metrics.Recorder
	discoverer *discovery.Discoverer
	resolver   *resolve.Resolver
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock overrides the wall clock used to determine today.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithHTTPClient overrides the HTTP client shared by both upstream clients.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Builder) {
		if client != nil {
			b.httpClient = client
		}
	}
}

// New validates cfg and constructs a Builder.
func New(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, errors.New("build requires config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		cfg:      cfg,
		logger:   logging.NewNop(),
		now:      time.Now,
		recorder: metrics.NewRecorder(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.httpClient == nil {
		b.httpClient = &http.Client{Timeout: cfg.HTTPTimeout()}
	}
	baseLogger := b.logger
	b.logger = logging.NewComponentLogger(baseLogger, "build")

	limiter := fetch.NewRateLimiter(cfg.TVMazeMinInterval())
	fetcher := fetch.New(
		fetch.WithHTTPClient(b.httpClient),
		fetch.WithRateLimiter(limiter, cfg.TVMazeHost()),
		fetch.WithUserAgent(cfg.HTTP.UserAgent),
		fetch.WithLogger(baseLogger),
		fetch.WithObserver(b.recorder),
	)

	schedule, err := tvmaze.New(cfg.TVMaze.BaseURL, cfg.TVMaze.Country, tvmaze.WithFetcher(fetcher))
	if err != nil {
		return nil, fmt.Errorf("tvmaze client: %w", err)
	}
	b.discoverer = discovery.New(schedule, filter.NewPolicy(cfg.Filter), discovery.WithLogger(baseLogger))

	var lookup tmdb.Lookup
	if cfg.TMDB.APIKey != "" {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithFetcher(fetcher))
		if err != nil {
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
		lookup = client
	} else {
		logging.WarnWithContext(b.logger, "tmdb api key not configured", "tmdb_disabled",
			logging.String(logging.FieldErrorHint, "set tmdb.api_key or TMDB_API_KEY"),
			logging.String(logging.FieldImpact, "shows without an imdb id are dropped"))
	}
	b.resolver = resolve.New(lookup, resolve.WithLogger(baseLogger))
	return b, nil
}

// Run performs one full rebuild and replaces the artifact.
func (b *Builder) Run(ctx context.Context) (Summary, error) {
	start := b.now()
	summary, err := b.run(ctx)
	summary.Duration = b.now().Sub(start)

	b.recorder.BuildFinished(summary.Duration, b.now(), err == nil)
	if err != nil {
		logging.ErrorWithContext(b.logger, "build failed", "build_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, failureHint(err)),
			logging.String(logging.FieldImpact, "previous catalog left in place"))
	}
	if path := b.cfg.Metrics.TextfilePath; path != "" {
		if werr := b.recorder.WriteTextfile(path); werr != nil {
			logging.WarnWithContext(b.logger, "metrics textfile not written", "metrics_write_failed",
				logging.String("path", path),
				logging.Error(werr),
				logging.String(logging.FieldImpact, "run metrics unavailable to the collector"))
		}
	}
	return summary, err
}

func (b *Builder) run(ctx context.Context) (Summary, error) {
	outputPath := b.cfg.OutputPath()
	summary := Summary{OutputPath: outputPath, Resolved: make(map[resolve.Source]int)}

	lockPath := b.cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return summary, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("acquire build lock: %w", err)
	}
	if !ok {
		return summary, ErrBuildLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			b.logger.Warn("failed to release build lock", logging.Error(err))
		}
	}()

	today := window.Today(b.now())
	summary.Today = today
	days := b.cfg.Window.Days
	b.logger.Info("build started",
		logging.String("today", today.Format(tvmaze.DateLayout)),
		logging.Int("window_days", days),
		logging.String("output", outputPath))

	entries, stats, err := b.discoverer.Discover(ctx, days, today)
	summary.Discovery = stats
	if err != nil {
		return summary, fmt.Errorf("discover schedule: %w", err)
	}
	for reason, n := range stats.Excluded {
		b.recorder.ShowsExcluded(reason, n)
	}

	metas, err := b.assemble(ctx, entries, days, today, &summary)
	if err != nil {
		return summary, err
	}
	catalog.Sort(metas)

	data, err := catalog.Encode(metas)
	if err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if err := catalog.Write(outputPath, data); err != nil {
		return summary, err
	}

	summary.Metas = len(metas)
	for _, m := range metas {
		summary.Videos += len(m.Videos)
	}
	b.recorder.CatalogWritten(summary.Metas, summary.Videos)
	b.logger.Info("build complete",
		logging.Int("metas", summary.Metas),
		logging.Int("videos", summary.Videos),
		logging.Int("unresolved", summary.Unresolved),
		logging.Int("outside_window", summary.OutsideWindow),
		logging.String("output", outputPath))
	return summary, nil
}

// assemble windows, resolves, and builds metas in ascending show id order.
func (b *Builder) assemble(ctx context.Context, entries map[int64]*discovery.ShowEntry, days int, today time.Time, summary *Summary) ([]catalog.Meta, error) {
	ids := make([]int64, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	metas := make([]catalog.Meta, 0, len(ids))
	emitted := make(map[string]int64, len(ids))
	for _, showID := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry := entries[showID]
		recent := window.FilterRecent(entry.Episodes, days, today)
		if len(recent) == 0 {
			summary.OutsideWindow++
			b.recorder.ShowOutsideWindow()
			continue
		}

		canonical, source := b.resolver.Resolve(ctx, entry.Show)
		if source == resolve.SourceNone {
			summary.Unresolved++
			b.recorder.ShowUnresolved()
			b.dropShow(entry.Show, "unresolved_id", "no identifier found")
			continue
		}
		if owner, dup := emitted[canonical]; dup {
			summary.DuplicateIDs++
			b.dropShow(entry.Show, "duplicate_id", fmt.Sprintf("identifier %s already used by show %d", canonical, owner))
			continue
		}

		meta, ok := catalog.BuildMeta(canonical, entry.Show, recent)
		if !ok {
			summary.OutsideWindow++
			b.recorder.ShowOutsideWindow()
			continue
		}
		emitted[canonical] = showID
		summary.Resolved[source]++
		b.recorder.ShowResolved(string(source))
		b.logger.Debug("show added",
			logging.Int64(logging.FieldShowID, showID),
			logging.String("show", entry.Show.Name),
			logging.String("id", canonical),
			logging.String("id_source", string(source)),
			logging.Int("videos", len(meta.Videos)))
		metas = append(metas, meta)
	}
	return metas, nil
}

func (b *Builder) dropShow(show tvmaze.Show, result, reason string) {
	attrs := append(logging.DecisionAttrs("catalog_inclusion", result, reason),
		logging.Int64(logging.FieldShowID, show.ID),
		logging.String("show", show.Name),
		logging.String(logging.FieldImpact, "show omitted from catalog"))
	b.logger.Info("show dropped", logging.Args(attrs...)...)
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, ErrBuildLocked):
		return "wait for the running build or remove a stale lock"
	case errors.Is(err, context.Canceled):
		return "build was interrupted; rerun it"
	default:
		return "check output permissions and upstream reachability"
	}
}
