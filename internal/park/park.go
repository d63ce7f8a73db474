package park

import "fmt"

// Token is a single-use-per-wait parking handle, owned by the goroutine that
// calls Park. Unpark may be called from any goroutine, any number of times,
// before or during a Park call; calls are coalesced, so the caller must
// re-check its own ready condition in a loop around Park rather than
// counting wakes.
type Token struct {
	impl   *platformToken
	closed bool
}

// NewToken creates a Token ready to Park.
func NewToken() *Token {
	return &Token{impl: newPlatformToken()}
}

// Park blocks the calling goroutine until Unpark has been called at least
// once since Token was created or last drained by a prior Park call. It may
// return without an intervening Unpark on platforms whose underlying
// primitive admits spurious wake (the Linux build does not, but callers must
// not rely on that).
func (t *Token) Park() {
	if t.closed {
		panic(fmt.Errorf("park: Park: %w", ErrTokenClosed))
	}
	t.impl.park()
}

// Unpark wakes a goroutine blocked in Park, or arranges for the next Park
// call to return immediately if none is currently blocked. Idempotent calls
// before the corresponding Park are coalesced into a single wake.
func (t *Token) Unpark() {
	if t.closed {
		panic(fmt.Errorf("park: Unpark: %w", ErrTokenClosed))
	}
	t.impl.unpark()
}

// Close releases any OS resources backing the token. Idempotent; safe to
// call once the token is no longer needed. Park or Unpark after Close
// indicates the caller kept using a token it had already retired.
func (t *Token) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.impl.close()
}
