package entry

import "fmt"

// Transform converts a source attribute value before it is written to the
// record. Returning an error skips the mapping entry.
type Transform func(value any) (any, error)

// Field is one mapping entry: a direct rename when Transform is nil, a
// transformed rename otherwise.
type Field struct {
	Internal  string
	Source    string
	Transform Transform
}

// Direct maps a source attribute verbatim onto an internal field.
func Direct(internal, source string) Field {
	return Field{Internal: internal, Source: source}
}

// Transformed maps a source attribute onto an internal field through fn.
func Transformed(internal, source string, fn Transform) Field {
	return Field{Internal: internal, Source: source, Transform: fn}
}

// Mapping is a declarative table translating external attributes to
// internal field names. Every internal field produced by resolution traces
// back to exactly one entry; unmapped source attributes are ignored.
type Mapping []Field

// Fields returns the internal field names the mapping can produce.
func (m Mapping) Fields() []string {
	names := make([]string, 0, len(m))
	for _, f := range m {
		names = append(names, f.Internal)
	}
	return names
}

// Apply materializes mapped fields from src onto e. Failures are recovered
// per entry: a missing or nil source attribute, or a transform error,
// leaves that internal field absent and mapping continues. Partial success
// is the normal case with schema-unstable providers.
func (m Mapping) Apply(src Source, e *Entry) {
	if src == nil || e == nil {
		return
	}
	for _, f := range m {
		value, ok := src.Field(f.Source)
		if !ok || value == nil {
			e.logger().Debug("mapping attribute missing",
				"source", f.Source, "field", f.Internal)
			continue
		}
		if f.Transform != nil {
			transformed, err := f.Transform(value)
			if err != nil {
				e.logger().Debug("mapping transform failed",
					"source", f.Source, "field", f.Internal, "error", err)
				continue
			}
			value = transformed
		}
		e.Set(f.Internal, value)
	}
}

// Merge returns a mapping containing the entries of m followed by others.
func (m Mapping) Merge(others ...Mapping) Mapping {
	merged := make(Mapping, 0, len(m))
	merged = append(merged, m...)
	for _, other := range others {
		merged = append(merged, other...)
	}
	return merged
}

// SourceFields returns the external attribute names the mapping reads.
func (m Mapping) SourceFields() []string {
	names := make([]string, 0, len(m))
	for _, f := range m {
		names = append(names, f.Source)
	}
	return names
}

func (f Field) String() string {
	if f.Transform != nil {
		return fmt.Sprintf("%s<-transform(%s)", f.Internal, f.Source)
	}
	return fmt.Sprintf("%s<-%s", f.Internal, f.Source)
}
