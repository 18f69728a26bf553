package entry

import "sync"

// Resolver fetches the external object backing a lazy binding. Resolvers
// may read other entry fields, but must not read fields the binding itself
// covers.
type Resolver func(e *Entry) (Source, error)

type bindingState int

const (
	bindingPending bindingState = iota
	bindingEvaluated
	bindingFailed
)

// binding associates a set of field names with a resolver and the mapping
// applied to its result. Evaluation happens at most once; concurrent
// readers of covered fields block on the in-flight evaluation instead of
// re-invoking the resolver.
type binding struct {
	once     sync.Once
	fields   []string
	resolver Resolver
	mapping  Mapping

	state bindingState // guarded by the owning entry's mutex
}

// RegisterLazy records that reading any of fields must first invoke
// resolver and apply mapping to its result. Registration is deferred; the
// resolver is not invoked until a covered field is read. A later
// registration for an already-covered field replaces the earlier binding
// for that field only.
func (e *Entry) RegisterLazy(fields []string, resolver Resolver, mapping Mapping) error {
	if len(fields) == 0 {
		return ErrNoFields
	}
	b := &binding{
		fields:   append([]string(nil), fields...),
		resolver: resolver,
		mapping:  mapping,
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, field := range fields {
		e.bindings[field] = b
	}
	return nil
}

// RegisterLazyMapping registers a binding covering every internal field the
// mapping produces.
func (e *Entry) RegisterLazyMapping(mapping Mapping, resolver Resolver) error {
	return e.RegisterLazy(mapping.Fields(), resolver, mapping)
}

func (b *binding) evaluate(e *Entry) {
	b.once.Do(func() {
		src, err := b.resolver(e)
		if err != nil {
			e.logger().Debug("lazy lookup failed",
				"fields", b.fields, "error", err)
			e.setBindingState(b, bindingFailed)
			return
		}
		b.mapping.Apply(src, e)
		e.setBindingState(b, bindingEvaluated)
	})
}

func (e *Entry) setBindingState(b *binding, state bindingState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b.state = state
}

func (b *binding) stateLocked() bindingState {
	return b.state
}
