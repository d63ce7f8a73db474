// Package park provides a one-shot parking primitive for a single
// goroutine: a token a parked goroutine sleeps on until some other
// goroutine unparks it.
//
// A Linux implementation is backed by golang.org/x/sys/unix's eventfd, with
// a portable channel-based fallback for every other GOOS.
package park
