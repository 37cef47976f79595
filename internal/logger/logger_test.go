package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/witcherai/savescan/internal/config"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewWithCore(core), logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  *config.LoggingConfig
	}{
		{"json to stderr", &config.LoggingConfig{Level: "info", Format: "json", Output: "stderr"}},
		{"text to stdout", &config.LoggingConfig{Level: "debug", Format: "text", Output: "stdout"}},
		{"file output", &config.LoggingConfig{Level: "warn", Format: "json", Output: filepath.Join(dir, "savescan.log")}},
		{"defaults", &config.LoggingConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if logger == nil || logger.SugaredLogger == nil {
				t.Fatal("New() returned an unusable logger")
			}
		})
	}
}

func TestNewDefaultAndNop(t *testing.T) {
	if NewDefault() == nil {
		t.Error("NewDefault() returned nil")
	}

	nop := NewNop()
	nop.WithTitle("Witcher 2").Infof("discarded %d", 1)
	if err := nop.Sync(); err != nil {
		t.Errorf("NewNop().Sync() error = %v", err)
	}
}

func TestContextHelpers(t *testing.T) {
	logger, logs := observed(zapcore.InfoLevel)

	logger.WithRun("run-1").WithTitle("Witcher 2").WithFile("/saves/a.sav").Info("scanned")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	want := map[string]string{
		FieldRun:   "run-1",
		FieldTitle: "Witcher 2",
		FieldFile:  "/saves/a.sav",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %q = %v, expected %q", k, fields[k], v)
		}
	}
}

func TestWithFields(t *testing.T) {
	logger, logs := observed(zapcore.InfoLevel)

	logger.WithFields(map[string]interface{}{
		"matches": 12,
		"driver":  "sqlite",
	}).Info("recorded")

	fields := logs.All()[0].ContextMap()
	if fields["matches"] != int64(12) {
		t.Errorf("matches = %v (%T), expected 12", fields["matches"], fields["matches"])
	}
	if fields["driver"] != "sqlite" {
		t.Errorf("driver = %v, expected sqlite", fields["driver"])
	}
}

func TestDerivedLoggersDoNotLeakContext(t *testing.T) {
	logger, logs := observed(zapcore.InfoLevel)

	logger.WithTitle("Witcher 3").Info("with title")
	logger.Info("plain")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if _, ok := entries[1].ContextMap()[FieldTitle]; ok {
		t.Error("parent logger should not carry the title field")
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, logs := observed(zapcore.WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warnf("shown %s", "warn")
	logger.Error("shown")

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries at warn level, got %d", logs.Len())
	}
	if logs.All()[0].Message != "shown warn" {
		t.Errorf("unexpected message %q", logs.All()[0].Message)
	}
}

func TestBuildWritersFileFallback(t *testing.T) {
	// A directory cannot be opened for append; buildWriters falls back to stderr.
	if buildWriters(t.TempDir()) == nil {
		t.Error("buildWriters(dir) returned nil")
	}
}

func TestLoggingOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savescan.json")

	logger, err := New(&config.LoggingConfig{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("run started")
	logger.Debug("not written")
	logger.WithTitle("Witcher 1").Warn("no saves")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	out := string(content)
	for _, want := range []string{"run started", "no saves", `"title":"Witcher 1"`, `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log file should contain %q", want)
		}
	}
	if strings.Contains(out, "not written") {
		t.Error("debug message written at info level")
	}
}
