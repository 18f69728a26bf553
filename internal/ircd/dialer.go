package ircd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"reel/internal/config"
)

const dialTimeout = 30 * time.Second

// NetDialer dials IRC servers over TCP and handles the registration
// handshake and server pings. Everything beyond keeping the connection
// alive is ignored.
type NetDialer struct{}

// Dial connects, registers the configured nick, and starts the reader.
func (NetDialer) Dial(ctx context.Context, cfg config.IRCConnection) (Conn, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	raw, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	conn := &netConn{
		conn: raw,
		done: make(chan error, 1),
	}
	if err := conn.send("NICK " + cfg.Nick); err != nil {
		raw.Close()
		return nil, err
	}
	if err := conn.send(fmt.Sprintf("USER %s 0 * :%s", cfg.Nick, cfg.Nick)); err != nil {
		raw.Close()
		return nil, err
	}
	go conn.read()
	return conn, nil
}

type netConn struct {
	conn net.Conn
	done chan error

	mu     sync.Mutex
	closed bool
}

func (c *netConn) Join(channel string) error {
	return c.send("JOIN " + channel)
}

func (c *netConn) Done() <-chan error {
	return c.done
}

func (c *netConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *netConn) send(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return net.ErrClosed
	}
	_, err := fmt.Fprintf(c.conn, "%s\r\n", line)
	return err
}

// read drains server traffic and answers pings so the server does not
// drop the connection.
func (c *netConn) read() {
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "PING") {
			_ = c.send("PONG" + strings.TrimPrefix(line, "PING"))
		}
	}
	err := scanner.Err()
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}
	if err == nil {
		err = errors.New("server closed connection")
	}
	c.done <- err
}
