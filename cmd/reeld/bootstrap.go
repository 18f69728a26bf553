package main

import (
	"os"
	"path/filepath"

	"reel/internal/config"
)

func buildSocketPath(cfg *config.Config) string {
	if cfg == nil {
		return filepath.Join(os.TempDir(), "reeld.sock")
	}
	return cfg.SocketPath()
}
