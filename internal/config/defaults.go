package config

// Default returns the repository default configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: "~/.local/share/reel",
			LogDir:  "~/.local/share/reel/logs",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
		Deluge: Deluge{
			Host:    "localhost",
			Port:    58846,
			WebPort: 8112,
		},
		Trakt: Trakt{
			BaseURL: "https://api.trakt.tv",
		},
	}
}
