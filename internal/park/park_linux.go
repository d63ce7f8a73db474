//go:build linux

package park

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// platformToken backs Token on Linux using an eventfd. A blocking read on
// the eventfd drains its counter and returns the sum of every write since
// the last read, which is exactly the coalescing behavior Unpark requires.
type platformToken struct {
	fd int
	// ch is a fallback used only if Eventfd creation failed; kept so a
	// degraded environment (e.g. an exhausted fd table) still gets a
	// correct, if less efficient, Token rather than a crash.
	ch chan struct{}
}

func newPlatformToken() *platformToken {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return &platformToken{fd: -1, ch: make(chan struct{}, 1)}
	}
	return &platformToken{fd: fd}
}

func (t *platformToken) park() {
	if t.fd < 0 {
		<-t.ch
		return
	}
	var buf [8]byte
	for {
		n, err := unix.Read(t.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil || n != len(buf) {
			return
		}
		return
	}
}

func (t *platformToken) unpark() {
	if t.fd < 0 {
		select {
		case t.ch <- struct{}{}:
		default:
		}
		return
	}
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	for {
		_, err := unix.Write(t.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		return
	}
}

func (t *platformToken) close() {
	if t.fd >= 0 {
		_ = unix.Close(t.fd)
		t.fd = -1
	}
}
