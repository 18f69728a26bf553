package ircd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reel/internal/config"
	"reel/internal/logging"
)

// ErrUnknownConnection indicates the named connection is not configured.
var ErrUnknownConnection = errors.New("ircd: unknown connection")

// reconnectDelay spaces out redial attempts after a dropped connection.
const reconnectDelay = 30 * time.Second

// Conn is a live IRC connection handed out by a Dialer. Done yields the
// terminal error once the connection drops; Close releases it.
type Conn interface {
	Join(channel string) error
	Done() <-chan error
	Close() error
}

// Dialer establishes IRC connections. Implementations own the protocol.
type Dialer interface {
	Dial(ctx context.Context, conn config.IRCConnection) (Conn, error)
}

// Status is a point-in-time snapshot of one managed connection.
type Status struct {
	Name      string
	Server    string
	Port      int
	Alive     bool
	Channels  []string
	Connected []string
	LastError string
}

// Manager supervises the configured connections.
type Manager struct {
	dialer Dialer
	logger *slog.Logger

	mu    sync.Mutex
	conns map[string]*connection
	order []string
}

type connection struct {
	cfg config.IRCConnection

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	connected []string
	lastErr   error
}

// NewManager creates a manager for the given connections. Nothing is
// dialed until StartAll.
func NewManager(conns []config.IRCConnection, dialer Dialer, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		dialer: dialer,
		logger: logger.With(logging.String("component", "ircd")),
		conns:  make(map[string]*connection, len(conns)),
	}
	for _, cfg := range conns {
		m.conns[cfg.Name] = &connection{cfg: cfg}
		m.order = append(m.order, cfg.Name)
	}
	return m
}

// StartAll launches a worker for every configured connection. Workers
// run until StopAll or ctx cancellation.
func (m *Manager) StartAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range m.order {
		m.startLocked(ctx, m.conns[name])
	}
}

// Start launches the worker for one connection.
func (m *Manager) Start(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.conns[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConnection, name)
	}
	m.startLocked(ctx, conn)
	return nil
}

func (m *Manager) startLocked(ctx context.Context, conn *connection) {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.cancel != nil {
		return
	}
	workerCtx, cancel := context.WithCancel(ctx)
	conn.cancel = cancel
	conn.done = make(chan struct{})
	go m.run(workerCtx, conn)
}

// Stop shuts down one connection's worker and waits for it to exit.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	conn, ok := m.conns[name]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConnection, name)
	}
	conn.stop()
	return nil
}

// StopAll shuts down every worker and waits for them to exit.
func (m *Manager) StopAll() {
	m.mu.Lock()
	names := append([]string(nil), m.order...)
	m.mu.Unlock()
	for _, name := range names {
		m.conns[name].stop()
	}
}

// Restart stops one connection and starts it again.
func (m *Manager) Restart(ctx context.Context, name string) error {
	if err := m.Stop(name); err != nil {
		return err
	}
	return m.Start(ctx, name)
}

// RestartAll restarts every configured connection.
func (m *Manager) RestartAll(ctx context.Context) {
	m.StopAll()
	m.StartAll(ctx)
}

// Status reports the snapshot for one connection.
func (m *Manager) Status(name string) (Status, error) {
	m.mu.Lock()
	conn, ok := m.conns[name]
	m.mu.Unlock()
	if !ok {
		return Status{}, fmt.Errorf("%w: %s", ErrUnknownConnection, name)
	}
	return conn.status(), nil
}

// StatusAll reports snapshots for every connection in configuration
// order.
func (m *Manager) StatusAll() []Status {
	m.mu.Lock()
	names := append([]string(nil), m.order...)
	m.mu.Unlock()
	statuses := make([]Status, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, m.conns[name].status())
	}
	return statuses
}

func (m *Manager) run(ctx context.Context, conn *connection) {
	defer func() {
		conn.mu.Lock()
		conn.cancel = nil
		close(conn.done)
		conn.mu.Unlock()
	}()

	log := m.logger.With(logging.String("connection", conn.cfg.Name))
	for {
		if err := m.serve(ctx, conn, log); err != nil {
			conn.setError(err)
			log.Warn("connection dropped", logging.Error(err))
		}
		conn.setConnected(nil)
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (m *Manager) serve(ctx context.Context, conn *connection, log *slog.Logger) error {
	c, err := m.dialer.Dial(ctx, conn.cfg)
	if err != nil {
		return fmt.Errorf("dial %s: %w", conn.cfg.Server, err)
	}
	defer c.Close()

	var joined []string
	for _, channel := range conn.cfg.Channels {
		if err := c.Join(channel); err != nil {
			log.Warn("failed to join channel",
				logging.String("channel", channel),
				logging.Error(err))
			continue
		}
		joined = append(joined, channel)
	}
	conn.setConnected(joined)
	conn.setError(nil)
	log.Info("connected",
		logging.String("server", conn.cfg.Server),
		logging.Int("channels", len(joined)))

	select {
	case <-ctx.Done():
		return nil
	case err := <-c.Done():
		return err
	}
}

func (c *connection) stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *connection) status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := Status{
		Name:      c.cfg.Name,
		Server:    c.cfg.Server,
		Port:      c.cfg.Port,
		Alive:     c.cancel != nil,
		Channels:  append([]string(nil), c.cfg.Channels...),
		Connected: append([]string(nil), c.connected...),
	}
	if c.lastErr != nil {
		status.LastError = c.lastErr.Error()
	}
	return status
}

func (c *connection) setConnected(channels []string) {
	c.mu.Lock()
	c.connected = channels
	c.mu.Unlock()
}

func (c *connection) setError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
