package park

import "errors"

// ErrTokenClosed is the panic value when Park or Unpark is called on a
// Token after Close. A Token is single-use: once the owning goroutine is
// done waiting, it must not be parked on again.
var ErrTokenClosed = errors.New("park: token already closed")
