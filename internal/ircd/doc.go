// Package ircd supervises named IRC connections for the daemon.
//
// The Manager runs one worker per configured connection, dialing through
// a Dialer capability and keeping the connection joined to its channels
// until stopped. The IRC protocol itself belongs to the Dialer
// implementation; the manager only tracks lifecycle and exposes status
// snapshots for the control surface.
package ircd
