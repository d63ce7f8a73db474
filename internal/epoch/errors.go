package epoch

import "errors"

// ErrGuardReleased is the panic value when a Guard is used (Unpin or
// DeferDestroy) after it has already been unpinned. It indicates a bug in
// the caller: each Guard returned by Pin must be unpinned exactly once, and
// never touched afterward.
var ErrGuardReleased = errors.New("epoch: guard already released")
