package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	Socket  string `toml:"socket"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Deluge contains connection and adapter settings for the torrent daemon.
// The daemon itself is reached through its web UI JSON endpoint, which
// has its own port and password.
type Deluge struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	Username    string   `toml:"username"`
	Password    string   `toml:"password"`
	WebPort     int      `toml:"web_port"`
	WebPassword string   `toml:"web_password"`
	ConfigPath  string   `toml:"config_path"`
	Label       string   `toml:"label"`
	MoveDone    string   `toml:"move_done"`
	Path        string   `toml:"path"`
	AddPaused   bool     `toml:"add_paused"`
	ExtraKeys   []string `toml:"extra_keys"`

	// Zero leaves the daemon default in place.
	MaxUpSpeed   float64 `toml:"max_up_speed"`
	MaxDownSpeed float64 `toml:"max_down_speed"`
	StopRatio    float64 `toml:"stop_ratio"`

	FilterLabel string `toml:"filter_label"`
	FilterState string `toml:"filter_state"`
}

// Trakt contains configuration for the Trakt metadata provider. Username
// enables the user rating fields against that user's public ratings.
type Trakt struct {
	BaseURL  string `toml:"base_url"`
	ClientID string `toml:"client_id"`
	Username string `toml:"username"`
}

// IRCConnection defines one tracked IRC daemon connection.
type IRCConnection struct {
	Name     string   `toml:"name"`
	Server   string   `toml:"server"`
	Port     int      `toml:"port"`
	Nick     string   `toml:"nick"`
	Channels []string `toml:"channels"`
}

// IRC groups the daemon's IRC connection definitions.
type IRC struct {
	Connections []IRCConnection `toml:"connections"`
}

// Config encapsulates all configuration values for reel.
//
// Configuration sections by subsystem:
//   - Paths: data/log directories and the daemon control socket
//   - Logging: log format and level
//   - Deluge: torrent daemon connection and add/filter options
//   - Trakt: metadata provider credentials
//   - IRC: announce-channel connection definitions
type Config struct {
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
	Deluge  Deluge  `toml:"deluge"`
	Trakt   Trakt   `toml:"trakt"`
	IRC     IRC     `toml:"irc"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SocketPath returns the daemon control socket path.
func (c *Config) SocketPath() string {
	if strings.TrimSpace(c.Paths.Socket) != "" {
		return c.Paths.Socket
	}
	return filepath.Join(c.Paths.DataDir, "reeld.sock")
}

// Connection returns the IRC connection definition with the given name.
func (c *Config) Connection(name string) (IRCConnection, bool) {
	for _, conn := range c.IRC.Connections {
		if conn.Name == name {
			return conn, true
		}
	}
	return IRCConnection{}, false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
