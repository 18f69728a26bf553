package deluge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"sync/atomic"
	"time"

	"reel/internal/config"
	"reel/internal/logging"
)

// WebSession drives the daemon through the web UI's JSON endpoint. The
// web UI proxies core.* and label.* methods to whichever daemon host it
// is connected to, so the adapters work unchanged on top of it.
type WebSession struct {
	endpoint  string
	password  string
	client    *http.Client
	logger    *slog.Logger
	connected bool
	nextID    atomic.Int64
}

var _ Session = (*WebSession)(nil)

// NewWebSession creates a session against the web UI configured in cfg.
// Connect must succeed before Call is usable.
func NewWebSession(cfg config.Deluge, logger *slog.Logger) (*WebSession, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	return &WebSession{
		endpoint: fmt.Sprintf("http://%s:%d/json", host, cfg.WebPort),
		password: cfg.WebPassword,
		client:   &http.Client{Jar: jar, Timeout: 30 * time.Second},
		logger:   logger.With(logging.String("component", "deluge_web")),
	}, nil
}

// Connect authenticates against the web UI and makes sure it has a
// daemon host connected, attaching to the first known host if not.
func (s *WebSession) Connect(ctx context.Context) error {
	raw, err := s.call(ctx, "auth.login", s.password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if ok, _ := raw.(bool); !ok {
		return errors.New("deluge: web ui rejected the password")
	}

	raw, err = s.call(ctx, "web.connected")
	if err != nil {
		return fmt.Errorf("check daemon connection: %w", err)
	}
	if connected, _ := raw.(bool); !connected {
		if err := s.connectFirstHost(ctx); err != nil {
			return err
		}
	}
	s.connected = true
	return nil
}

func (s *WebSession) connectFirstHost(ctx context.Context) error {
	raw, err := s.call(ctx, "web.get_hosts")
	if err != nil {
		return fmt.Errorf("list daemon hosts: %w", err)
	}
	hosts, _ := raw.([]any)
	if len(hosts) == 0 {
		return errors.New("deluge: web ui has no daemon hosts configured")
	}
	// Each host record is [id, address, port, status].
	record, _ := hosts[0].([]any)
	if len(record) == 0 {
		return errors.New("deluge: malformed daemon host record")
	}
	id, _ := record[0].(string)
	if id == "" {
		return errors.New("deluge: malformed daemon host record")
	}
	if _, err := s.call(ctx, "web.connect", id); err != nil {
		return fmt.Errorf("connect daemon host: %w", err)
	}
	s.logger.Info("connected to daemon host", logging.String("host_id", id))
	return nil
}

// Close drops the session. The web UI keeps its own daemon connection;
// only the authenticated state of this client is discarded.
func (s *WebSession) Close() error {
	s.connected = false
	return nil
}

// Call invokes one RPC method through the web UI.
func (s *WebSession) Call(ctx context.Context, method string, args ...any) (any, error) {
	if !s.connected {
		return nil, ErrNotConnected
	}
	return s.call(ctx, method, args...)
}

type webError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (s *WebSession) call(ctx context.Context, method string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	payload, err := json.Marshal(map[string]any{
		"method": method,
		"params": args,
		"id":     s.nextID.Add(1),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("call %s: unexpected status %s", method, resp.Status)
	}

	var decoded struct {
		Result any       `json:"result"`
		Error  *webError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("deluge: %s failed: %s (code %d)", method, decoded.Error.Message, decoded.Error.Code)
	}
	return decoded.Result, nil
}
