package simplepersist

import "errors"

// ErrKeyMissing indicates the requested key has no value, either because
// it was never written or because a tombstone hides it.
var ErrKeyMissing = errors.New("key missing")
