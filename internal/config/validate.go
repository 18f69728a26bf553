package config

import (
	"errors"
	"fmt"
	"strings"
)

var validFilterStates = map[string]bool{
	"":            true,
	"Active":      true,
	"Downloading": true,
	"Seeding":     true,
	"Queued":      true,
	"Paused":      true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for unusable values. It reports the
// first problem found with enough context to fix the config file.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir is required")
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Deluge.Port <= 0 || c.Deluge.Port > 65535 {
		return fmt.Errorf("deluge.port: %d out of range", c.Deluge.Port)
	}
	if c.Deluge.WebPort <= 0 || c.Deluge.WebPort > 65535 {
		return fmt.Errorf("deluge.web_port: %d out of range", c.Deluge.WebPort)
	}
	if !validFilterStates[c.Deluge.FilterState] {
		return fmt.Errorf("deluge.filter_state: unsupported value %q", c.Deluge.FilterState)
	}
	if c.Deluge.MaxUpSpeed < 0 || c.Deluge.MaxDownSpeed < 0 {
		return errors.New("deluge: speed limits must not be negative")
	}
	if c.Deluge.StopRatio < 0 {
		return errors.New("deluge.stop_ratio must not be negative")
	}

	seen := make(map[string]bool, len(c.IRC.Connections))
	for _, conn := range c.IRC.Connections {
		if seen[conn.Name] {
			return fmt.Errorf("irc: duplicate connection name %q", conn.Name)
		}
		seen[conn.Name] = true
		if conn.Server == "" {
			return fmt.Errorf("irc connection %q: server required", conn.Name)
		}
		if conn.Port <= 0 || conn.Port > 65535 {
			return fmt.Errorf("irc connection %q: port %d out of range", conn.Name, conn.Port)
		}
	}
	return nil
}
