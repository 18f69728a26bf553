// Package trakt looks up series, season, episode, and movie metadata from
// the Trakt API and exposes it on pipeline entries as lazily resolved
// fields.
//
// The plugin registers one lazy binding per field map; nothing is fetched
// until a covered field is read. Lookup misses and transport failures
// leave the covered fields absent rather than failing the entry, so
// downstream consumers decide whether a missing identifier disqualifies a
// record.
package trakt
