package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Reel.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IRCStatus retrieves connection snapshots.
func (c *Client) IRCStatus(name string) (*IRCStatusResponse, error) {
	var resp IRCStatusResponse
	if err := c.client.Call("Reel.IRCStatus", IRCStatusRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IRCRestart restarts one connection, or all.
func (c *Client) IRCRestart(name string) (*IRCRestartResponse, error) {
	var resp IRCRestartResponse
	if err := c.client.Call("Reel.IRCRestart", IRCRestartRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IRCStop stops one connection, or all.
func (c *Client) IRCStop(name string) (*IRCStopResponse, error) {
	var resp IRCStopResponse
	if err := c.client.Call("Reel.IRCStop", IRCStopRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StoreGet reads one persisted value.
func (c *Client) StoreGet(scope, namespace, key string) (*StoreGetResponse, error) {
	var resp StoreGetResponse
	req := StoreGetRequest{Scope: scope, Namespace: namespace, Key: key}
	if err := c.client.Call("Reel.StoreGet", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StoreSet stages one persisted value.
func (c *Client) StoreSet(scope, namespace, key string, value any) (*StoreSetResponse, error) {
	var resp StoreSetResponse
	req := StoreSetRequest{Scope: scope, Namespace: namespace, Key: key, Value: value}
	if err := c.client.Call("Reel.StoreSet", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StoreDelete stages one deletion.
func (c *Client) StoreDelete(scope, namespace, key string) (*StoreDeleteResponse, error) {
	var resp StoreDeleteResponse
	req := StoreDeleteRequest{Scope: scope, Namespace: namespace, Key: key}
	if err := c.client.Call("Reel.StoreDelete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StoreFlush commits staged writes and deletions.
func (c *Client) StoreFlush() (*StoreFlushResponse, error) {
	var resp StoreFlushResponse
	if err := c.client.Call("Reel.StoreFlush", StoreFlushRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Reel.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
