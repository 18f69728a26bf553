package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reel/internal/config"
	"reel/internal/daemon"
	"reel/internal/ipc"
	"reel/internal/ircd"
	"reel/internal/logging"
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

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithIRCConnections(
		config.IRCConnection{Name: "tracker", Server: "irc.example.org", Port: 6667, Nick: "reel", Channels: []string{"#announce"}},
	))
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	manager := ircd.NewManager(cfg.IRC.Connections, idleDialer{}, logger)
	d, err := daemon.New(cfg, store, manager, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	socket := filepath.Join(cfg.Paths.DataDir, "reel.sock")
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if status.RunID == "" {
		t.Fatal("expected a run id")
	}
	if len(status.IRC) != 1 || status.IRC[0].Name != "tracker" {
		t.Fatalf("unexpected irc status: %#v", status.IRC)
	}

	ircResp, err := client.IRCStatus("tracker")
	if err != nil {
		t.Fatalf("IRCStatus failed: %v", err)
	}
	if len(ircResp.Connections) != 1 || ircResp.Connections[0].Server != "irc.example.org" {
		t.Fatalf("unexpected connections: %#v", ircResp.Connections)
	}
	if _, err := client.IRCStatus("bogus"); err == nil {
		t.Fatal("expected unknown connection error")
	}

	restartResp, err := client.IRCRestart("tracker")
	if err != nil {
		t.Fatalf("IRCRestart failed: %v", err)
	}
	if !restartResp.Restarted {
		t.Fatal("expected restarted response")
	}

	setResp, err := client.StoreSet("run-1", "trakt", "last_lookup", "breaking bad")
	if err != nil {
		t.Fatalf("StoreSet failed: %v", err)
	}
	if !setResp.Staged {
		t.Fatal("expected staged response")
	}
	getResp, err := client.StoreGet("run-1", "trakt", "last_lookup")
	if err != nil {
		t.Fatalf("StoreGet failed: %v", err)
	}
	if !getResp.Found || getResp.Value != "breaking bad" {
		t.Fatalf("unexpected value: %#v", getResp)
	}
	if _, err := client.StoreFlush(); err != nil {
		t.Fatalf("StoreFlush failed: %v", err)
	}
	if _, err := client.StoreDelete("run-1", "trakt", "last_lookup"); err != nil {
		t.Fatalf("StoreDelete failed: %v", err)
	}
	getResp, err = client.StoreGet("run-1", "trakt", "last_lookup")
	if err != nil {
		t.Fatalf("StoreGet after delete failed: %v", err)
	}
	if getResp.Found {
		t.Fatalf("deleted key still found: %#v", getResp)
	}

	stopResp, err := client.IRCStop("all")
	if err != nil {
		t.Fatalf("IRCStop failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected stopped response")
	}
	ircResp, err = client.IRCStatus("all")
	if err != nil {
		t.Fatalf("IRCStatus after stop failed: %v", err)
	}
	if ircResp.Connections[0].Alive {
		t.Fatal("connection still alive after stop")
	}
}
