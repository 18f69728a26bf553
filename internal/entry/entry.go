package entry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"reel/internal/logging"
)

// Entry is a mutable named-field record. Fields are either materialized or
// pending behind a lazy binding. Entries are owned by a single pipeline
// stage at a time; the internal mutex only serializes binding evaluation
// when an implementation parallelizes across records.
type Entry struct {
	mu       sync.Mutex
	fields   map[string]any
	bindings map[string]*binding
	log      *slog.Logger
}

// New returns an empty entry.
func New() *Entry {
	return &Entry{
		fields:   make(map[string]any),
		bindings: make(map[string]*binding),
	}
}

// NewWithFields returns an entry seeded with the given fields.
func NewWithFields(fields map[string]any) *Entry {
	e := New()
	for name, value := range fields {
		e.fields[name] = value
	}
	return e
}

// SetLogger attaches a logger used for lazy-resolution observations.
func (e *Entry) SetLogger(log *slog.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = log
}

func (e *Entry) logger() *slog.Logger {
	e.mu.Lock()
	log := e.log
	e.mu.Unlock()
	if log == nil {
		return logging.NewNop()
	}
	return log
}

// Set materializes a field value, replacing any previous value.
func (e *Entry) Set(field string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fields[field] = value
}

// Get returns the materialized value for field. If the field is pending
// behind a lazy binding the binding is evaluated first; subsequent reads of
// any field covered by the same binding never re-invoke the resolver.
// Reading an absent field with no covering binding returns ErrFieldNotFound.
func (e *Entry) Get(field string) (any, error) {
	e.mu.Lock()
	if value, ok := e.fields[field]; ok {
		e.mu.Unlock()
		return value, nil
	}
	b := e.bindings[field]
	e.mu.Unlock()

	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, field)
	}
	b.evaluate(e)

	e.mu.Lock()
	defer e.mu.Unlock()
	if value, ok := e.fields[field]; ok {
		return value, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, field)
}

// GetDefault returns the field value, evaluating a covering binding when
// needed, or def when the field cannot be materialized.
func (e *Entry) GetDefault(field string, def any) any {
	value, err := e.Get(field)
	if err != nil {
		return def
	}
	return value
}

// GetString returns the field value as a string when present.
func (e *Entry) GetString(field string) (string, bool) {
	value, err := e.Get(field)
	if err != nil {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// GetDefaultString returns the field value as a string, or def when the
// field is absent or holds another type.
func (e *Entry) GetDefaultString(field, def string) string {
	s, ok := e.GetString(field)
	if !ok {
		return def
	}
	return s
}

// Peek returns the materialized value without triggering lazy evaluation.
func (e *Entry) Peek(field string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	value, ok := e.fields[field]
	return value, ok
}

// Has reports whether the field is materialized or still resolvable
// through a binding that has not failed.
func (e *Entry) Has(field string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.fields[field]; ok {
		return true
	}
	if b, ok := e.bindings[field]; ok {
		return b.stateLocked() != bindingFailed
	}
	return false
}

// IsLazy reports whether the field is pending behind an unevaluated binding.
func (e *Entry) IsLazy(field string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.fields[field]; ok {
		return false
	}
	b, ok := e.bindings[field]
	return ok && b.stateLocked() == bindingPending
}

// Fields returns the sorted names of all materialized fields.
func (e *Entry) Fields() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Entry) String() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fmt.Sprintf("Entry(title=%v, fields=%d)", e.fields["title"], len(e.fields))
}
