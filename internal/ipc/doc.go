// Package ipc exposes daemon control over JSON-RPC on a Unix domain
// socket, with a matching client for the CLI.
package ipc
