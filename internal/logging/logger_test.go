package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("merge complete", logging.Int("rows", 3))

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		t.Fatalf("log file is not JSON: %v (%q)", err, content)
	}
	if payload["msg"] != "merge complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["rows"] != float64(3) {
		t.Fatalf("unexpected rows: %v", payload["rows"])
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if content := readLog(t, logPath); strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller")

	if content := readLog(t, logPath); !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPrefixesComponentAndSource(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "merge").Info("source merged",
		logging.Source("kenpom"),
		logging.String("team", "Saint Mary's"),
	)

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO merge [kenpom]: source merged") {
		t.Fatalf("expected component and source prefix, got %q", content)
	}
	if !strings.Contains(content, `team="Saint Mary's"`) {
		t.Fatalf("expected quoted value with spaces, got %q", content)
	}
}

func TestConsoleShortensRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "0f8e2c41-7a9b-4c1d-8e2f-5a6b7c8d9e0f")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "pipeline")).Info("run started")

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO pipeline run=0f8e2c41: run started") {
		t.Fatalf("expected shortened run id in prefix, got %q", content)
	}
}

func TestJSONCallerDoesNotShadowSource(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "caller.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("row dropped", logging.Source("bpi"))

	var payload map[string]any
	if err := json.Unmarshal([]byte(readLog(t, logPath)), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[logging.FieldSource] != "bpi" {
		t.Fatalf("source = %v", payload[logging.FieldSource])
	}
	if caller, _ := payload["caller"].(string); !strings.HasPrefix(caller, "logger_test.go:") {
		t.Fatalf("caller = %v", payload["caller"])
	}
}

func TestNewJSONLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("stale snapshot")

	content := readLog(t, logPath)
	if !strings.Contains(content, `"level":"warn"`) || !strings.Contains(content, `"ts":`) {
		t.Fatalf("unexpected json output %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "verbose", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("shown")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden") || !strings.Contains(content, "shown") {
		t.Fatalf("expected info level filtering, got %q", content)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logging.WithSource(logging.WithRunID(context.Background(), "run-1"), "ap")
	logging.WithContext(ctx, base).Info("resolved")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[logging.FieldRunID] != "run-1" || payload[logging.FieldSource] != "ap" {
		t.Fatalf("missing context fields: %v", payload)
	}
}

func TestWithContextWithoutFieldsReturnsLogger(t *testing.T) {
	base := logging.NewNop()
	if got := logging.WithContext(context.Background(), base); got != base {
		t.Fatal("expected the same logger when context carries no fields")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "source failed", "source_failed", logging.Impact("column left unrated"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[logging.FieldEventType] != "source_failed" {
		t.Fatalf("event_type = %v", payload[logging.FieldEventType])
	}
	if payload[logging.FieldErrorHint] == nil {
		t.Fatal("expected default error_hint")
	}
	if payload[logging.FieldImpact] != "column left unrated" {
		t.Fatalf("impact overridden: %v", payload[logging.FieldImpact])
	}
}

func TestTeeHandlerDuplicatesRecords(t *testing.T) {
	var first, second bytes.Buffer
	handler := logging.TeeHandler(
		slog.NewTextHandler(&first, nil),
		nil,
		slog.NewTextHandler(&second, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(handler)

	logger.Info("info line")
	logger.Warn("warn line")

	if !strings.Contains(first.String(), "info line") || !strings.Contains(first.String(), "warn line") {
		t.Fatalf("first handler missing records: %q", first.String())
	}
	if strings.Contains(second.String(), "info line") || !strings.Contains(second.String(), "warn line") {
		t.Fatalf("second handler level filtering failed: %q", second.String())
	}
}

func TestTeeHandlerEmptyIsNoop(t *testing.T) {
	if _, ok := logging.TeeHandler(nil).(logging.NoopHandler); !ok {
		t.Fatal("expected NoopHandler when no handlers are provided")
	}
}
