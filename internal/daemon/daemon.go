package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reel/internal/config"
	"reel/internal/ircd"
	"reel/internal/logging"
	"reel/internal/simplepersist"
)

// Daemon ties together the persistence store and the IRC connection
// manager, and enforces single-instance execution through a lock file.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *simplepersist.Store
	manager *ircd.Manager

	lockPath string
	lock     *flock.Flock
	logPath  string

	// mu guards the run state below; IPC handlers read it from their own
	// goroutines while Start and Stop mutate it.
	mu      sync.Mutex
	running bool
	runID   string
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	RunID        string
	StartedAt    time.Time
	StoreDBPath  string
	LockFilePath string
	SocketPath   string
	IRC          []ircd.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *simplepersist.Store, manager *ircd.Manager, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || manager == nil {
		return nil, errors.New("daemon requires config, store, and irc manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "reeld.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		manager:  manager,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		logPath:  filepath.Join(cfg.Paths.LogDir, "reel.log"),
	}, nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Start acquires the daemon lock and launches the IRC workers. Each
// start gets a fresh run identifier.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reel daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.runID = uuid.NewString()
	d.started = time.Now()
	d.manager.StartAll(d.ctx)

	d.running = true
	d.logger.Info("reel daemon started",
		logging.String("run_id", d.runID),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the IRC workers, flushes staged store writes, and
// releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	cancel := d.cancel
	d.cancel = nil
	d.ctx = nil
	d.mu.Unlock()

	d.manager.StopAll()
	if err := d.store.Flush(context.Background()); err != nil {
		d.logger.Warn("failed to flush persistence store", logging.Error(err))
	}
	if cancel != nil {
		cancel()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.logger.Info("reel daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	running, runID, started := d.running, d.runID, d.started
	d.mu.Unlock()
	return Status{
		Running:      running,
		PID:          os.Getpid(),
		RunID:        runID,
		StartedAt:    started,
		StoreDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
		SocketPath:   d.cfg.SocketPath(),
		IRC:          d.manager.StatusAll(),
	}
}

// IRCStatus returns snapshots for one named connection, or all
// connections when name is empty or "all".
func (d *Daemon) IRCStatus(name string) ([]ircd.Status, error) {
	if name == "" || name == "all" {
		return d.manager.StatusAll(), nil
	}
	status, err := d.manager.Status(name)
	if err != nil {
		return nil, err
	}
	return []ircd.Status{status}, nil
}

// IRCRestart restarts one named connection, or all of them.
func (d *Daemon) IRCRestart(name string) error {
	d.mu.Lock()
	ctx := d.ctx
	d.mu.Unlock()
	if ctx == nil {
		return errors.New("daemon not running")
	}
	if name == "" || name == "all" {
		d.manager.RestartAll(ctx)
		return nil
	}
	return d.manager.Restart(ctx, name)
}

// IRCStop stops one named connection, or all of them.
func (d *Daemon) IRCStop(name string) error {
	if name == "" || name == "all" {
		d.manager.StopAll()
		return nil
	}
	return d.manager.Stop(name)
}

// StoreGet reads one value from the persistence store.
func (d *Daemon) StoreGet(ctx context.Context, scope, namespace, key string) (any, error) {
	return d.store.Get(ctx, scope, namespace, key)
}

// StoreSet stages one value in the persistence store.
func (d *Daemon) StoreSet(scope, namespace, key string, value any) {
	d.store.Set(scope, namespace, key, value)
}

// StoreDelete stages one deletion in the persistence store.
func (d *Daemon) StoreDelete(scope, namespace, key string) {
	d.store.Delete(scope, namespace, key)
}

// StoreFlush commits staged writes and deletions.
func (d *Daemon) StoreFlush(ctx context.Context) error {
	return d.store.Flush(ctx)
}
