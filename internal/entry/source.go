package entry

// Source exposes attribute access on an external object. Implementations
// report whether the named attribute exists; a nil value with ok=true is
// treated as absent by Mapping.Apply so optional provider fields never
// materialize as nulls.
type Source interface {
	Field(name string) (any, bool)
}

// MapSource adapts a plain map, such as a torrent daemon status dict, to
// the Source interface.
type MapSource map[string]any

// Field returns the value stored under name.
func (m MapSource) Field(name string) (any, bool) {
	value, ok := m[name]
	return value, ok
}
