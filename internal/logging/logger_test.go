package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weeklyschedule/internal/config"
	"weeklyschedule/internal/logging"
)

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "discovery").Info("schedule fetched", logging.Int("records", 3))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
	if !strings.Contains(line, "INFO [discovery] – schedule fetched") {
		t.Fatalf("expected component header, got %q", line)
	}
	if !strings.Contains(line, "records=3") {
		t.Fatalf("expected key=value attribute, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("expected component to be lifted into the header, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerQuotesValuesWithSpaces(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "quotes.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("show dropped", logging.String("name", "The Daily Show"), logging.String("reason", ""))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `name="The Daily Show"`) {
		t.Fatalf("expected quoted value, got %q", content)
	}
	if !strings.Contains(string(content), `reason=""`) {
		t.Fatalf("expected empty value to be quoted, got %q", content)
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("tmdb disabled")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, want := range []string{`"ts":`, `"level":"warn"`, `"msg":"tmdb disabled"`} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("expected %s in %q", want, content)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigTeesToFileWithRunID(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "info"
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "weeklyschedule.log")

	logger, err := logging.NewFromConfig(&cfg, "run-123")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("build complete", logging.Int("metas", 4))
	logger.Debug("filtered by level")

	content, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, `"run_id":"run-123"`) {
		t.Fatalf("expected run_id in file output, got %q", text)
	}
	if !strings.Contains(text, `"metas":4`) {
		t.Fatalf("expected attributes in file output, got %q", text)
	}
	if strings.Contains(text, "filtered by level") {
		t.Fatalf("expected debug record to be dropped at info level, got %q", text)
	}
}

func TestNewRunIDIsUnique(t *testing.T) {
	a, b := logging.NewRunID(), logging.NewRunID()
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty run ids, got %q and %q", a, b)
	}
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "tmdb lookups disabled", "tmdb_disabled",
		logging.String(logging.FieldImpact, "shows without an imdb id are dropped"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{`"event_type":"tmdb_disabled"`, `"error_hint":`, `"impact":"shows without an imdb id are dropped"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %s in %q", want, text)
		}
	}
}

func TestErrorWithContextKeepsExplicitHint(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "error.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.ErrorWithContext(logger, "build failed", "build_failed",
		logging.String(logging.FieldErrorHint, "rerun the build"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{`"level":"error"`, `"event_type":"build_failed"`, `"error_hint":"rerun the build"`} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %s in %q", want, text)
		}
	}
	if strings.Count(text, "error_hint") != 1 {
		t.Fatalf("expected a single error_hint, got %q", text)
	}
}
