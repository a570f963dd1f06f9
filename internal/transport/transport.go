// Package transport implements spec.md component C5: the two-operation
// abstraction the rest of the core sends and receives bytes through, plus
// the hardware and mock backends behind it.
package transport

import "time"

// Transport is anything that can move one framed packet at a time; the
// core never inspects bytes beyond delivering one packet per Send when
// addressed to a single device slot.
type Transport interface {
	SendPacket(pkt []byte) error
	ReceivePacket(timeout time.Duration) ([]byte, error)
}

// Config holds the tunables spec.md §9 says belong on the transport rather
// than the fragmenter: inter-fragment delay is a timing concern of whatever
// moves bytes, not of splitting them into chunks.
type Config struct {
	// InterFragmentDelay is paced between consecutive fragment sends of
	// the same message.
	InterFragmentDelay time.Duration
	// DefaultTimeout is used by ReceivePacket callers that don't pick
	// their own (internal/session's per-command timeout).
	DefaultTimeout time.Duration
}

// DefaultInterFragmentDelay is spec.md §4.4's 5 ms target.
const DefaultInterFragmentDelay = 5 * time.Millisecond

// DefaultCommandTimeout is spec.md §5's 2 s per-command default.
const DefaultCommandTimeout = 2 * time.Second

// Option configures a Config via functional options, the way the teacher's
// internal/cmd subcommands thread flag values into a run-time struct.
type Option func(*Config)

// WithInterFragmentDelay overrides the default 5 ms pacing between
// fragments.
func WithInterFragmentDelay(d time.Duration) Option {
	return func(c *Config) { c.InterFragmentDelay = d }
}

// WithDefaultTimeout overrides the default 2 s per-command timeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(c *Config) { c.DefaultTimeout = d }
}

// NewConfig builds a Config from its defaults plus any opts.
func NewConfig(opts ...Option) Config {
	c := Config{
		InterFragmentDelay: DefaultInterFragmentDelay,
		DefaultTimeout:     DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
