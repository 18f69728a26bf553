// Package entry models the unit of work flowing through the pipeline: a
// mutable named-field record whose derived fields can be resolved lazily.
//
// Plugins register lazy bindings that cover one or more fields. The first
// read of any covered field invokes the binding's resolver exactly once and
// materializes every covered field from the returned source through a
// declarative field mapping. A resolver failure leaves the covered fields
// absent and the binding is never retried; callers fall back to defaults.
//
// Mappings translate an external object's attribute names into internal
// field names, with optional per-field value transforms. Attribute-access
// and transform failures are recovered per mapping entry, so partial
// materialization is the normal case rather than an error.
package entry
