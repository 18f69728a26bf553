// Package logs provides log file tailing shared by the CLI and daemon.
//
// It reads log files with bounded memory usage, supports negative
// offsets for "last N lines" requests, and powers follow mode for
// `reel logs --follow`. Callers supply context deadlines so polling
// shuts down cleanly when the CLI exits.
package logs
