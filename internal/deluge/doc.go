// Package deluge adapts a Deluge torrent daemon session to pipeline
// entries.
//
// The Input adapter turns the daemon's torrent status dicts into entries
// through a declarative field mapping; the Output adapter adds accepted
// entries to the daemon and applies post-add options such as labels, move
// locations, and queue position. The session itself is an opaque RPC
// capability; the wire protocol belongs to the client implementation.
package deluge
