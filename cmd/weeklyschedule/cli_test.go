package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weeklyschedule/internal/catalog"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TMDB_API_KEY", "")
	t.Chdir(t.TempDir())
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func newScheduleServer(t *testing.T) *httptest.Server {
	t.Helper()
	show := `{"id":7,"name":"Night Court","network":{"name":"NBC","country":{"code":"US"}},"externals":{"imdb":"tt0000007"}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		date := r.URL.Query().Get("date")
		if r.URL.Path == "/schedule" {
			fmt.Fprintf(w, `[{"id":1,"name":"Ep","season":1,"number":1,"airdate":%q,"show":%s}]`, date, show)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/schedule/") {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestConfigInitWritesSample(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	requireContains(t, string(data), "[tvmaze]")

	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("expected overwrite to succeed, got %v", err)
	}
}

func TestConfigValidateReportsPath(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, "[window]\ndays = 5\n")

	out, _, err := runCLI(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+path)
	requireContains(t, out, "TMDB key not set")
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsBadWindow(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, "[window]\ndays = 0\n")

	if _, _, err := runCLI(t, "-c", path, "config", "validate"); err == nil {
		t.Fatal("expected validation error for zero-day window")
	}
}

func TestBuildWritesCatalogAndInspectSummarizes(t *testing.T) {
	isolateHome(t)
	server := newScheduleServer(t)
	outDir := t.TempDir()
	path := writeConfig(t, fmt.Sprintf(`[window]
days = 3

[tvmaze]
base_url = %q
min_interval_ms = 0

[output]
dir = %q

[logging]
level = "error"
`, server.URL, outDir))

	out, _, err := runCLI(t, "-c", path, "build")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "[OK]")
	requireContains(t, out, "Series written")

	artifact := filepath.Join(outDir, "catalog", "series", "tvmaze_weekly_schedule.json")
	doc, err := catalog.Read(artifact)
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	if len(doc.Metas) != 1 || doc.Metas[0].ID != "tt0000007" {
		t.Fatalf("expected single resolved meta, got %+v", doc.Metas)
	}

	out, _, err = runCLI(t, "-c", path, "inspect")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "1 series")
	requireContains(t, out, "Night Court")
	requireContains(t, out, "tt0000007")
}

func TestInspectExplicitPathEmptyCatalog(t *testing.T) {
	isolateHome(t)
	artifact := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(artifact, []byte("{\"metas\": []}\n"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	out, _, err := runCLI(t, "inspect", artifact)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "[EMPTY]")
}

func TestInspectMissingCatalog(t *testing.T) {
	isolateHome(t)

	_, _, err := runCLI(t, "inspect", filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "no catalog at") {
		t.Fatalf("expected missing catalog error, got %v", err)
	}
}

func TestCheckReportsFailures(t *testing.T) {
	isolateHome(t)
	server := newScheduleServer(t)
	path := writeConfig(t, fmt.Sprintf("[tvmaze]\nbase_url = %q\n\n[output]\ndir = %q\n", server.URL, t.TempDir()))

	out, _, err := runCLI(t, "-c", path, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "TVmaze")
	requireContains(t, out, "fallbacks disabled")

	down := writeConfig(t, fmt.Sprintf("[tvmaze]\nbase_url = %q\n", server.URL+"/missing"))
	out, _, err = runCLI(t, "-c", down, "check")
	if err == nil {
		t.Fatalf("expected failing check, got:\n%s", out)
	}
	requireContains(t, out, "[FAIL]")
}
