package resolve

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"weeklyschedule/internal/logging"
	"weeklyschedule/internal/tmdb"
	"weeklyschedule/internal/tvmaze"
)

// Source names the step of the chain that produced an identifier.
type Source string

const (
	SourceNone       Source = ""
	SourceIMDb       Source = "imdb"
	SourceTMDBFind   Source = "tmdb_find"
	SourceTMDBSearch Source = "tmdb_search"
)

// TMDBPrefix namespaces identifiers resolved through TMDB.
const TMDBPrefix = "tmdb:"

// Resolver resolves canonical identifiers. A nil lookup disables the TMDB
// steps.
type Resolver struct {
	lookup tmdb.Lookup
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver.
func New(lookup tmdb.Lookup, opts ...Option) *Resolver {
	r := &Resolver{lookup: lookup, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "resolve")
	return r
}

// ResolveID returns the canonical identifier of show, or false when every
// step failed.
func (r *Resolver) ResolveID(ctx context.Context, show tvmaze.Show) (string, bool) {
	id, source := r.Resolve(ctx, show)
	return id, source != SourceNone
}

// Resolve is ResolveID that also reports which step succeeded.
func (r *Resolver) Resolve(ctx context.Context, show tvmaze.Show) (string, Source) {
	if imdb := strings.TrimSpace(show.Externals.IMDb); imdb != "" {
		return show.Externals.IMDb, SourceIMDb
	}
	if r.lookup == nil {
		return "", SourceNone
	}

	if tvdb := show.Externals.TheTVDB; tvdb > 0 {
		resp, err := r.lookup.FindByTVDB(ctx, tvdb)
		switch {
		case err != nil:
			r.lookupFailed(show, SourceTMDBFind, err)
		case resp != nil && len(resp.TVResults) > 0 && resp.TVResults[0].ID > 0:
			return tmdbID(resp.TVResults[0].ID), SourceTMDBFind
		}
	}

	name := strings.TrimSpace(show.Name)
	if name == "" {
		return "", SourceNone
	}
	resp, err := r.lookup.SearchTV(ctx, name, show.PremiereYear())
	switch {
	case err != nil:
		r.lookupFailed(show, SourceTMDBSearch, err)
	case resp != nil && len(resp.Results) > 0 && resp.Results[0].ID > 0:
		return tmdbID(resp.Results[0].ID), SourceTMDBSearch
	}
	return "", SourceNone
}

func (r *Resolver) lookupFailed(show tvmaze.Show, step Source, err error) {
	r.logger.Debug("identifier lookup failed",
		logging.String(logging.FieldEventType, "id_lookup_failed"),
		logging.Int64(logging.FieldShowID, show.ID),
		logging.String("show", show.Name),
		logging.String("step", string(step)),
		logging.Error(err),
		logging.String(logging.FieldImpact, "falling through to the next resolution step"))
}

func tmdbID(id int64) string {
	return TMDBPrefix + strconv.FormatInt(id, 10)
}
