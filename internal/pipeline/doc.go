// Package pipeline composes the adapters into a single processing pass:
// an input produces entries, metadata plugins register lazy bindings on
// them, previously handled entries are filtered through the persistence
// store, and the remainder goes to the output.
package pipeline
