// Package simplepersist provides a scoped key/value store for plugins,
// backed by SQLite.
//
// Values are addressed by (scope, namespace, key): scope identifies a
// pipeline run or task, namespace identifies the plugin writing the value,
// and key is caller-chosen. Writes and deletes accumulate in an in-memory
// overlay; deletes are tombstones that hide the row until Flush commits all
// pending changes in one transaction. A write followed by a delete and a
// flush never resurrects the value.
//
// The store is owned by the run context and passed by handle; plugins hold
// a ScopedStore bound to their (scope, namespace) pair.
package simplepersist
