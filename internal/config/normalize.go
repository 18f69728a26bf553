package config

import (
	"fmt"
	"strings"
)

// normalize expands paths and canonicalizes enumerated values so the rest
// of the system never sees raw user input.
func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.Socket) != "" {
		if c.Paths.Socket, err = expandPath(c.Paths.Socket); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.Deluge.ConfigPath) != "" {
		if c.Deluge.ConfigPath, err = expandPath(c.Deluge.ConfigPath); err != nil {
			return err
		}
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	// The torrent daemon stores labels lowercased and state filters
	// capitalized; canonicalize here so adapters pass them through as-is.
	c.Deluge.FilterLabel = strings.ToLower(strings.TrimSpace(c.Deluge.FilterLabel))
	if state := strings.TrimSpace(c.Deluge.FilterState); state != "" {
		c.Deluge.FilterState = strings.ToUpper(state[:1]) + strings.ToLower(state[1:])
	}

	c.Trakt.BaseURL = strings.TrimRight(strings.TrimSpace(c.Trakt.BaseURL), "/")

	for i := range c.IRC.Connections {
		conn := &c.IRC.Connections[i]
		conn.Name = strings.TrimSpace(conn.Name)
		conn.Server = strings.TrimSpace(conn.Server)
		if conn.Port == 0 {
			conn.Port = 6667
		}
		if conn.Name == "" {
			return fmt.Errorf("irc connection %d: name required", i)
		}
	}
	return nil
}
