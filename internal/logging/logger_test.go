package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel/internal/config"
	"reel/internal/logging"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("startup", logging.String("component", "test"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "reel.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "[test] startup") {
		t.Errorf("log output = %q", content)
	}
}

func TestConsoleFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	scoped := logger.With(logging.String("component", "ircd"))
	scoped.Info("connected", logging.String("server", "irc.example.org"), logging.Int("port", 6667))
	scoped.Warn("reconnecting")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), content)
	}
	if !strings.Contains(lines[0], "INFO [ircd] connected server=irc.example.org port=6667") {
		t.Errorf("info line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "WARN [ircd] reconnecting") {
		t.Errorf("warn line = %q", lines[1])
	}
}

func TestLevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "filtered.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("dropped debug")
	logger.Info("dropped info")
	logger.Error("kept error")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "dropped") {
		t.Errorf("suppressed levels reached the output: %q", content)
	}
	if !strings.Contains(string(content), "ERROR kept error") {
		t.Errorf("error line missing: %q", content)
	}
}

func TestJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("payload", logging.String("key", "value"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"payload"`) || !strings.Contains(string(content), `"key":"value"`) {
		t.Errorf("json output = %q", content)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Error("unsupported format accepted")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("never seen", logging.Error(nil))
	if logger.Enabled(t.Context(), 8) {
		t.Error("nop logger reports enabled")
	}
}
