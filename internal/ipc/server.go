package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"reel/internal/daemon"
	"reel/internal/ircd"
	"reel/internal/logging"
	"reel/internal/logs"
	"reel/internal/simplepersist"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Reel", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String("component", "ipc"))
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	resp.Running = status.Running
	resp.PID = status.PID
	resp.RunID = status.RunID
	if !status.StartedAt.IsZero() {
		resp.StartedAt = status.StartedAt.Format(time.RFC3339)
	}
	resp.StoreDBPath = status.StoreDBPath
	resp.LockPath = status.LockFilePath
	resp.SocketPath = status.SocketPath
	resp.IRC = convertIRCStatuses(status.IRC)
	return nil
}

func (s *service) IRCStatus(req IRCStatusRequest, resp *IRCStatusResponse) error {
	statuses, err := s.daemon.IRCStatus(req.Name)
	if err != nil {
		return err
	}
	resp.Connections = convertIRCStatuses(statuses)
	return nil
}

func (s *service) IRCRestart(req IRCRestartRequest, resp *IRCRestartResponse) error {
	s.log().Debug("irc restart requested", logging.String("connection", req.Name))
	if err := s.daemon.IRCRestart(req.Name); err != nil {
		return err
	}
	resp.Restarted = true
	return nil
}

func (s *service) IRCStop(req IRCStopRequest, resp *IRCStopResponse) error {
	s.log().Debug("irc stop requested", logging.String("connection", req.Name))
	if err := s.daemon.IRCStop(req.Name); err != nil {
		return err
	}
	resp.Stopped = true
	return nil
}

func (s *service) StoreGet(req StoreGetRequest, resp *StoreGetResponse) error {
	value, err := s.daemon.StoreGet(s.ctx, req.Scope, req.Namespace, req.Key)
	if err != nil {
		if errors.Is(err, simplepersist.ErrKeyMissing) {
			resp.Found = false
			return nil
		}
		return err
	}
	resp.Found = true
	resp.Value = value
	return nil
}

func (s *service) StoreSet(req StoreSetRequest, resp *StoreSetResponse) error {
	s.daemon.StoreSet(req.Scope, req.Namespace, req.Key, req.Value)
	resp.Staged = true
	return nil
}

func (s *service) StoreDelete(req StoreDeleteRequest, resp *StoreDeleteResponse) error {
	s.daemon.StoreDelete(req.Scope, req.Namespace, req.Key)
	resp.Staged = true
	return nil
}

func (s *service) StoreFlush(_ StoreFlushRequest, resp *StoreFlushResponse) error {
	if err := s.daemon.StoreFlush(s.ctx); err != nil {
		return err
	}
	resp.Flushed = true
	return nil
}

func convertIRCStatuses(statuses []ircd.Status) []IRCStatus {
	out := make([]IRCStatus, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, IRCStatus{
			Name:      status.Name,
			Server:    status.Server,
			Port:      status.Port,
			Alive:     status.Alive,
			Channels:  status.Channels,
			Connected: status.Connected,
			LastError: status.LastError,
		})
	}
	return out
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.Options{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}
