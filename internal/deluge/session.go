package deluge

import (
	"context"
	"errors"
)

// ErrNotConnected indicates a call was made before Connect succeeded.
var ErrNotConnected = errors.New("deluge: session not connected")

// Session is the opaque RPC capability the adapters drive. Calls fail
// with the client's own transport or lookup errors; the adapters treat
// any call failure as a failure of the current operation only.
type Session interface {
	Connect(ctx context.Context) error
	Close() error
	Call(ctx context.Context, method string, args ...any) (any, error)
}
