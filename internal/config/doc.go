// Package config loads, normalizes, and validates reel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemon and CLI need: data directories, torrent daemon credentials,
// metadata provider settings, and IRC connection definitions.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
