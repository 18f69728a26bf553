package main

import (
	"path/filepath"
	"testing"

	"reel/internal/config"
)

func TestBuildSocketPath(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(t.TempDir(), "data")

	expected := filepath.Join(cfg.Paths.DataDir, "reeld.sock")
	if got := buildSocketPath(&cfg); got != expected {
		t.Fatalf("expected socket path %q, got %q", expected, got)
	}

	cfg.Paths.Socket = "/tmp/custom.sock"
	if got := buildSocketPath(&cfg); got != "/tmp/custom.sock" {
		t.Fatalf("expected custom socket path, got %q", got)
	}

	if got := buildSocketPath(nil); got == "" {
		t.Fatal("expected fallback socket path")
	}
}
