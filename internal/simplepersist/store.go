package simplepersist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"reel/internal/config"
	"reel/internal/logging"
)

// Store manages scoped key/value persistence backed by SQLite. Reads fill
// an in-memory overlay; writes and tombstones stay in the overlay until
// Flush commits them.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	overlay map[entryKey]overlayValue
	gen     uint64
}

type entryKey struct {
	scope     string
	namespace string
	key       string
}

type overlayValue struct {
	value     any
	tombstone bool
	dirty     bool
	gen       uint64
}

// Open initializes or connects to the persistence database and verifies
// the schema.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "persistence.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:      db,
		path:    dbPath,
		logger:  logger.With(logging.String("component", "simplepersist")),
		overlay: make(map[entryKey]overlayValue),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection. Pending overlay changes
// are discarded; call Flush first to commit them.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Set stages a value under (scope, namespace, key). The write is not
// visible in the database until Flush.
func (s *Store) Set(scope, namespace, key string, value any) {
	s.logger.Debug("setting key",
		logging.String("scope", scope),
		logging.String("namespace", namespace),
		logging.String("key", key))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.overlay[entryKey{scope, namespace, key}] = overlayValue{value: value, dirty: true, gen: s.gen}
}

// Delete stages a tombstone for (scope, namespace, key). The row stays in
// the database until Flush, but Get treats the key as missing immediately.
func (s *Store) Delete(scope, namespace, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.overlay[entryKey{scope, namespace, key}] = overlayValue{tombstone: true, dirty: true, gen: s.gen}
}

// Get returns the value under (scope, namespace, key), consulting the
// overlay first and falling back to the database. A tombstoned or absent
// key yields ErrKeyMissing.
func (s *Store) Get(ctx context.Context, scope, namespace, key string) (any, error) {
	ek := entryKey{scope, namespace, key}

	s.mu.Lock()
	if cached, ok := s.overlay[ek]; ok {
		s.mu.Unlock()
		if cached.tombstone {
			return nil, fmt.Errorf("%w: %s/%s/%s", ErrKeyMissing, scope, namespace, key)
		}
		return cached.value, nil
	}
	s.mu.Unlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM simple_persistence WHERE scope = ? AND namespace = ? AND key = ?`,
		scope, namespace, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrKeyMissing, scope, namespace, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("decode stored value: %w", err)
	}

	s.mu.Lock()
	// A write staged while the row was being read takes precedence over
	// the cached database value.
	if _, staged := s.overlay[ek]; !staged {
		s.overlay[ek] = overlayValue{value: value}
	}
	s.mu.Unlock()
	return value, nil
}

// Flush commits staged writes and tombstones in one transaction. Flushing
// with nothing pending is a no-op.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	pending := make(map[entryKey]overlayValue)
	for ek, ov := range s.overlay {
		if ov.dirty {
			pending[ek] = ov
		}
	}
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	s.logger.Debug("flushing persistence updates", logging.Int("pending", len(pending)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin flush tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for ek, ov := range pending {
		if ov.tombstone {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM simple_persistence WHERE scope = ? AND namespace = ? AND key = ?`,
				ek.scope, ek.namespace, ek.key,
			); err != nil {
				return fmt.Errorf("flush delete: %w", err)
			}
			continue
		}
		encoded, err := json.Marshal(ov.value)
		if err != nil {
			return fmt.Errorf("encode value for %s/%s/%s: %w", ek.scope, ek.namespace, ek.key, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO simple_persistence (scope, namespace, key, value, added)
             VALUES (?, ?, ?, ?, ?)
             ON CONFLICT (scope, namespace, key) DO UPDATE SET value = excluded.value, added = excluded.added`,
			ek.scope, ek.namespace, ek.key, string(encoded), now,
		); err != nil {
			return fmt.Errorf("flush write: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit flush: %w", err)
	}

	s.mu.Lock()
	for ek, ov := range pending {
		// Entries re-staged while the transaction ran stay dirty for the
		// next flush; only the snapshot that was committed is cleaned up.
		current, ok := s.overlay[ek]
		if !ok || current.gen != ov.gen {
			continue
		}
		if ov.tombstone {
			delete(s.overlay, ek)
			continue
		}
		ov.dirty = false
		s.overlay[ek] = ov
	}
	s.mu.Unlock()
	return nil
}

// Scoped returns a store handle bound to (scope, namespace).
func (s *Store) Scoped(scope, namespace string) *ScopedStore {
	return &ScopedStore{store: s, scope: scope, namespace: namespace}
}

// ScopedStore is a plugin-facing handle bound to one (scope, namespace)
// pair.
type ScopedStore struct {
	store     *Store
	scope     string
	namespace string
}

// Get returns the value stored under key.
func (s *ScopedStore) Get(ctx context.Context, key string) (any, error) {
	return s.store.Get(ctx, s.scope, s.namespace, key)
}

// Set stages a value under key.
func (s *ScopedStore) Set(key string, value any) {
	s.store.Set(s.scope, s.namespace, key, value)
}

// Delete stages a tombstone for key.
func (s *ScopedStore) Delete(key string) {
	s.store.Delete(s.scope, s.namespace, key)
}

// Flush commits all pending changes on the underlying store.
func (s *ScopedStore) Flush(ctx context.Context) error {
	return s.store.Flush(ctx)
}
