// Package daemon coordinates the long-running services behind reeld and
// enforces single-instance execution.
package daemon
