// Package main hosts the reel CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC
// calls against the daemon: IRC connection control, persistence store
// maintenance, status reporting, and configuration scaffolding. It
// centralizes configuration resolution and socket discovery so
// subcommands can focus on user experience instead of wiring.
package main
