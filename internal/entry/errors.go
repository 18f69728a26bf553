package entry

import "errors"

// ErrFieldNotFound indicates a read of a field with no value and no
// covering lazy binding.
var ErrFieldNotFound = errors.New("field not found")

// ErrLookupFailed indicates a lazy binding's resolver could not produce a
// result. It is recovered locally; covered fields stay absent.
var ErrLookupFailed = errors.New("lookup failed")

// ErrNoFields indicates a lazy binding was registered without field names.
var ErrNoFields = errors.New("lazy binding requires at least one field")
