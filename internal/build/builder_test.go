package build_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"weeklyschedule/internal/build"
	"weeklyschedule/internal/catalog"
	"weeklyschedule/internal/config"
	"weeklyschedule/internal/resolve"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

const (
	imdbShow = `{"id":1,"name":"Alpha","summary":"<p>Alpha &amp; friends</p>","image":{"medium":"a-m.jpg","original":"a-o.jpg"},
		"network":{"name":"NBC","country":{"code":"US"}},"externals":{"imdb":"tt0000001","thetvdb":11}}`
	tvdbShow = `{"id":2,"name":"Bravo","network":{"name":"BBC One","country":{"code":"GB"}},"externals":{"thetvdb":70327}}`
	foreign  = `{"id":3,"name":"Charlie","network":{"name":"ZDF","country":{"code":"DE"}},"externals":{"imdb":"tt0000003"}}`
	orphan   = `{"id":4,"name":"Delta","premiered":"2020-01-01","webChannel":{"name":"Peacock"},"externals":{}}`
	stale    = `{"id":5,"name":"Echo","network":{"name":"CBS","country":{"code":"US"}},"externals":{"imdb":"tt0000005"}}`
)

type upstream struct {
	tmdbCalls atomic.Int32
}

func (u *upstream) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/schedule":
			switch date {
			case "2024-03-09":
				fmt.Fprintf(w, `[{"id":10,"name":"A1","season":1,"number":1,"airdate":"2024-03-09","show":%s},
					{"id":50,"name":"E0","season":1,"number":1,"airdate":"2024-01-01","show":%s}]`, imdbShow, stale)
			case "2024-03-10":
				fmt.Fprintf(w, `[{"id":11,"name":"A2","season":1,"number":2,"airdate":"2024-03-10","show":%s},
					{"id":30,"name":"C1","season":1,"number":1,"airdate":"2024-03-10","show":%s}]`, imdbShow, foreign)
			default:
				_, _ = w.Write([]byte(`[]`))
			}
		case "/schedule/web":
			if date == "2024-03-10" {
				fmt.Fprintf(w, `[{"id":40,"name":"D1","season":3,"number":null,"airdate":"0000-00-00","airstamp":"2024-03-10T03:00:00+00:00","_embedded":{"show":%s}}]`, orphan)
				return
			}
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/schedule/full":
			if date == "2024-03-09" {
				fmt.Fprintf(w, `[{"id":10,"name":"A1","season":1,"number":1,"airdate":"2024-03-09","_embedded":{"show":%s}},
					{"id":20,"name":"B1","season":2,"number":5,"airdate":"2024-03-09","_embedded":{"show":%s}}]`, imdbShow, tvdbShow)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		case "/find/70327":
			u.tmdbCalls.Add(1)
			if r.URL.Query().Get("api_key") != "key" {
				t.Errorf("expected api key on tmdb request, got %q", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"tv_results":[{"id":1408}]}`))
		case "/search/tv":
			u.tmdbCalls.Add(1)
			_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Window.Days = 2
	cfg.TVMaze.BaseURL = serverURL
	cfg.TVMaze.MinIntervalMS = 0
	cfg.TMDB.BaseURL = serverURL
	cfg.TMDB.APIKey = "key"
	cfg.Output.Dir = t.TempDir()
	return &cfg
}

func newServer(t *testing.T) (*upstream, *httptest.Server) {
	t.Helper()
	u := &upstream{}
	server := httptest.NewServer(u.handler(t))
	t.Cleanup(server.Close)
	return u, server
}

func newBuilder(t *testing.T, cfg *config.Config) *build.Builder {
	t.Helper()
	b, err := build.New(cfg, build.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("build.New returned error: %v", err)
	}
	return b
}

func TestRunBuildsCatalog(t *testing.T) {
	_, server := newServer(t)
	cfg := newConfig(t, server.URL)

	summary, err := newBuilder(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	doc, err := catalog.Read(cfg.OutputPath())
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if len(doc.Metas) != 2 {
		t.Fatalf("expected two metas, got %+v", doc.Metas)
	}
	alpha, bravo := doc.Metas[0], doc.Metas[1]
	if alpha.ID != "tt0000001" || bravo.ID != "tmdb:1408" {
		t.Fatalf("unexpected meta order/ids: %s, %s", alpha.ID, bravo.ID)
	}
	if len(alpha.Videos) != 2 {
		t.Fatalf("expected duplicate variant episode collapsed to two videos, got %d", len(alpha.Videos))
	}
	if alpha.Videos[0].ID != "tt0000001:1:2" || alpha.Videos[0].Released != "2024-03-10" {
		t.Fatalf("expected newest video first, got %+v", alpha.Videos[0])
	}
	if alpha.Description != "Alpha & friends" || alpha.Poster == nil || *alpha.Poster != "a-o.jpg" {
		t.Fatalf("unexpected alpha fields %+v", alpha)
	}
	if bravo.Videos[0].ID != "tmdb:1408:2:5" {
		t.Fatalf("unexpected bravo video id %q", bravo.Videos[0].ID)
	}

	if summary.Metas != 2 || summary.Videos != 3 {
		t.Fatalf("unexpected summary totals %+v", summary)
	}
	if summary.Unresolved != 1 || summary.OutsideWindow != 1 {
		t.Fatalf("expected one unresolved and one stale show, got %+v", summary)
	}
	if summary.Resolved[resolve.SourceIMDb] != 1 || summary.Resolved[resolve.SourceTMDBFind] != 1 {
		t.Fatalf("unexpected resolution sources %v", summary.Resolved)
	}
	if summary.Discovery.FailedQueries != 1 {
		t.Fatalf("expected one failed query, got %d", summary.Discovery.FailedQueries)
	}
	if summary.Discovery.Excluded["foreign"] != 1 {
		t.Fatalf("expected foreign show excluded, got %v", summary.Discovery.Excluded)
	}
	if !summary.Today.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected today %v", summary.Today)
	}
}

func TestRunIsByteIdenticalAcrossRuns(t *testing.T) {
	_, server := newServer(t)
	cfg := newConfig(t, server.URL)

	if _, err := newBuilder(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := os.ReadFile(cfg.OutputPath())
	if err != nil {
		t.Fatalf("read first artifact: %v", err)
	}
	if _, err := newBuilder(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, err := os.ReadFile(cfg.OutputPath())
	if err != nil {
		t.Fatalf("read second artifact: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical artifacts:\n%s\n---\n%s", first, second)
	}
}

func TestRunWithoutTMDBKeySkipsLookups(t *testing.T) {
	u, server := newServer(t)
	cfg := newConfig(t, server.URL)
	cfg.TMDB.APIKey = ""

	summary, err := newBuilder(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if u.tmdbCalls.Load() != 0 {
		t.Fatalf("expected no tmdb calls without a key, got %d", u.tmdbCalls.Load())
	}
	if summary.Metas != 1 || summary.Unresolved != 2 {
		t.Fatalf("expected only the imdb show, got %+v", summary)
	}
}

func TestRunDropsLaterShowWithDuplicateID(t *testing.T) {
	first := `{"id":21,"name":"Original","network":{"name":"NBC","country":{"code":"US"}},"externals":{"imdb":"tt0000021"}}`
	second := `{"id":22,"name":"Reboot","network":{"name":"NBC","country":{"code":"US"}},"externals":{"imdb":"tt0000021"}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/schedule" && r.URL.Query().Get("date") == "2024-03-10" {
			fmt.Fprintf(w, `[{"id":220,"name":"R1","season":1,"number":1,"airdate":"2024-03-10","show":%s},
				{"id":210,"name":"O1","season":4,"number":2,"airdate":"2024-03-10","show":%s}]`, second, first)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)
	cfg := newConfig(t, server.URL)

	summary, err := newBuilder(t, cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.DuplicateIDs != 1 || summary.Metas != 1 {
		t.Fatalf("expected one meta and one duplicate, got %+v", summary)
	}

	doc, err := catalog.Read(cfg.OutputPath())
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if len(doc.Metas) != 1 {
		t.Fatalf("expected a single meta, got %+v", doc.Metas)
	}
	meta := doc.Metas[0]
	if meta.ID != "tt0000021" || meta.Name != "Original" {
		t.Fatalf("expected lower show id to keep the identifier, got %s %q", meta.ID, meta.Name)
	}
	if len(meta.Videos) != 1 || meta.Videos[0].ID != "tt0000021:4:2" {
		t.Fatalf("expected only the original's episode, got %+v", meta.Videos)
	}
}

func TestRunKeepsLockOutOfCatalogTree(t *testing.T) {
	_, server := newServer(t)
	cfg := newConfig(t, server.URL)

	if _, err := newBuilder(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	err := filepath.WalkDir(cfg.Output.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, ".lock") {
			t.Errorf("unexpected lock file in catalog tree: %s", path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk output dir: %v", err)
	}
}

func TestRunRefusesWhenLocked(t *testing.T) {
	_, server := newServer(t)
	cfg := newConfig(t, server.URL)
	if err := os.MkdirAll(filepath.Dir(cfg.LockPath()), 0o755); err != nil {
		t.Fatalf("create output dir: %v", err)
	}
	held := flock.New(cfg.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("expected to hold lock, ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	b, err := build.New(cfg, build.WithClock(func() time.Time { return fixedNow }), build.WithLogger(logger))
	if err != nil {
		t.Fatalf("build.New returned error: %v", err)
	}
	_, err = b.Run(context.Background())
	if !errors.Is(err, build.ErrBuildLocked) {
		t.Fatalf("expected ErrBuildLocked, got %v", err)
	}
	for _, want := range []string{`"msg":"build failed"`, `"event_type":"build_failed"`, `"error_hint":"wait for the running build`} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("expected %s in logs, got %q", want, logs.String())
		}
	}
	if _, statErr := os.Stat(cfg.OutputPath()); !os.IsNotExist(statErr) {
		t.Fatalf("expected no artifact while locked, got %v", statErr)
	}
}

func TestRunCancelledLeavesPreviousArtifact(t *testing.T) {
	_, server := newServer(t)
	cfg := newConfig(t, server.URL)
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath()), 0o755); err != nil {
		t.Fatalf("create output dir: %v", err)
	}
	previous := []byte("{\n  \"metas\": []\n}\n")
	if err := os.WriteFile(cfg.OutputPath(), previous, 0o644); err != nil {
		t.Fatalf("seed artifact: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newBuilder(t, cfg).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	got, err := os.ReadFile(cfg.OutputPath())
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !bytes.Equal(got, previous) {
		t.Fatalf("expected previous artifact untouched, got %s", got)
	}
}

func TestRunFailsWhenOutputUnwritable(t *testing.T) {
	_, server := newServer(t)
	cfg := newConfig(t, server.URL)
	blocker := filepath.Join(cfg.Output.Dir, "catalog")
	if err := os.WriteFile(blocker, []byte("file in the way"), 0o644); err != nil {
		t.Fatalf("seed blocker: %v", err)
	}

	if _, err := newBuilder(t, cfg).Run(context.Background()); err == nil {
		t.Fatal("expected error when output directory cannot be created")
	}
}

func TestRunWritesMetricsTextfile(t *testing.T) {
	_, server := newServer(t)
	cfg := newConfig(t, server.URL)
	cfg.Metrics.TextfilePath = filepath.Join(t.TempDir(), "weeklyschedule.prom")

	if _, err := newBuilder(t, cfg).Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	content, err := os.ReadFile(cfg.Metrics.TextfilePath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	for _, want := range []string{
		"weeklyschedule_catalog_metas 2",
		`weeklyschedule_shows_excluded_total{reason="foreign"} 1`,
		`outcome="status"`,
	} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("expected %q in metrics:\n%s", want, content)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Window.Days = 0
	if _, err := build.New(&cfg); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := build.New(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
