package msqueue

// defaultSpinLimit bounds the number of retries Pop's fast path makes before
// it publishes a waiter node and parks.
const defaultSpinLimit = 64

type config struct {
	spinLimit int
}

// Option configures a Queue at construction.
type Option func(*config)

// WithSpinLimit overrides the number of attempt-pop-data retries Pop will
// make on its fast path before publishing a waiter node. n must be
// positive; non-positive values are ignored and the default is kept.
func WithSpinLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.spinLimit = n
		}
	}
}
