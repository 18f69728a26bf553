package daemon

import (
	"context"
	"sync"
	"testing"

	"reel/internal/config"
	"reel/internal/ircd"
	"reel/internal/testsupport"
)

type idleConn struct{ done chan error }

func (c *idleConn) Join(channel string) error { return nil }
func (c *idleConn) Done() <-chan error        { return c.done }
func (c *idleConn) Close() error              { return nil }

type idleDialer struct{}

func (idleDialer) Dial(ctx context.Context, cfg config.IRCConnection) (ircd.Conn, error) {
	return &idleConn{done: make(chan error)}, nil
}

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithIRCConnections(
		config.IRCConnection{Name: "tracker", Server: "irc.example.org", Port: 6667, Nick: "reel", Channels: []string{"#announce"}},
	))
	store := testsupport.MustOpenStore(t, cfg)
	manager := ircd.NewManager(cfg.IRC.Connections, idleDialer{}, nil)
	d, err := New(cfg, store, manager, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestDaemonStartStop(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	if err := d.Start(ctx); err == nil {
		t.Error("second Start did not fail")
	}

	status := d.Status()
	if !status.Running {
		t.Error("status not running")
	}
	if status.RunID == "" {
		t.Error("missing run id")
	}
	if status.LockFilePath == "" || status.StoreDBPath == "" || status.SocketPath == "" {
		t.Errorf("incomplete status: %+v", status)
	}
	if len(status.IRC) != 1 || status.IRC[0].Name != "tracker" {
		t.Errorf("irc status = %+v", status.IRC)
	}

	d.Stop()
	if d.Status().Running {
		t.Error("still running after Stop")
	}
	if err := d.Start(ctx); err != nil {
		t.Fatalf("restart after Stop: %v", err)
	}
	d.Stop()
}

func TestDaemonStatusDuringLifecycleChanges(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	// Status and IRC control run on IPC goroutines while Start and Stop
	// cycle the run state; the race detector flags unguarded access.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = d.Status()
				_, _ = d.IRCStatus("all")
				_ = d.IRCRestart("tracker")
			}
		}()
	}

	for i := 0; i < 20; i++ {
		if err := d.Start(ctx); err != nil {
			t.Fatalf("Start cycle %d: %v", i, err)
		}
		d.Stop()
	}
	close(stop)
	wg.Wait()

	if d.Status().Running {
		t.Error("running after final Stop")
	}
}

func TestDaemonStoreOps(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	d.StoreSet("run-1", "deluge", "last_hash", "abc123")
	value, err := d.StoreGet(ctx, "run-1", "deluge", "last_hash")
	if err != nil {
		t.Fatalf("StoreGet: %v", err)
	}
	if value != "abc123" {
		t.Errorf("value = %v", value)
	}
	if err := d.StoreFlush(ctx); err != nil {
		t.Fatalf("StoreFlush: %v", err)
	}
	d.StoreDelete("run-1", "deluge", "last_hash")
	if _, err := d.StoreGet(ctx, "run-1", "deluge", "last_hash"); err == nil {
		t.Error("deleted key still readable")
	}
}

func TestDaemonIRCControl(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	if err := d.IRCRestart("tracker"); err == nil {
		t.Error("IRCRestart before Start did not fail")
	}

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Close()

	statuses, err := d.IRCStatus("all")
	if err != nil {
		t.Fatalf("IRCStatus: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses", len(statuses))
	}
	if err := d.IRCRestart("tracker"); err != nil {
		t.Errorf("IRCRestart: %v", err)
	}
	if err := d.IRCStop("tracker"); err != nil {
		t.Errorf("IRCStop: %v", err)
	}
	if _, err := d.IRCStatus("bogus"); err == nil {
		t.Error("unknown connection status did not fail")
	}
}
