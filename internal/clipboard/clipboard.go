// Package clipboard copies the document buffer to the system clipboard
// using the OSC 52 terminal escape sequence.
//
// OSC 52 works over SSH and inside tmux or screen, so no platform
// clipboard helper is needed. Terminals that do not support it ignore
// the sequence.
package clipboard

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrTooLarge indicates the buffer exceeds the configured limit.
var ErrTooLarge = errors.New("clipboard content too large")

// Mode selects the escape wrapping for terminal multiplexers.
type Mode int

const (
	// ModeDefault writes a bare OSC 52 sequence.
	ModeDefault Mode = iota

	// ModeTmux wraps the sequence in a tmux passthrough.
	ModeTmux

	// ModeScreen wraps the sequence for GNU screen.
	ModeScreen
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeTmux:
		return "tmux"
	case ModeScreen:
		return "screen"
	default:
		return "unknown"
	}
}

// DetectMode picks the mode from the TMUX and TERM environment variables.
func DetectMode() Mode {
	if os.Getenv("TMUX") != "" {
		return ModeTmux
	}
	if strings.HasPrefix(os.Getenv("TERM"), "screen") {
		return ModeScreen
	}
	return ModeDefault
}

// OSC52 writes clipboard sequences to a terminal.
type OSC52 struct {
	mu      sync.Mutex
	out     io.Writer
	mode    Mode
	primary bool
	limit   int
}

// Option configures an OSC52 clipboard.
type Option func(*OSC52)

// WithMode sets the multiplexer mode.
func WithMode(m Mode) Option {
	return func(c *OSC52) {
		c.mode = m
	}
}

// WithPrimary targets the primary selection instead of the clipboard.
func WithPrimary(primary bool) Option {
	return func(c *OSC52) {
		c.primary = primary
	}
}

// WithLimit rejects buffers longer than n bytes. Zero means no limit.
func WithLimit(n int) Option {
	return func(c *OSC52) {
		c.limit = n
	}
}

// New creates a clipboard writing to out.
func New(out io.Writer, opts ...Option) *OSC52 {
	c := &OSC52{out: out}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy sends buffer to the clipboard.
func (c *OSC52) Copy(buffer string) error {
	if c.limit > 0 && len(buffer) > c.limit {
		return ErrTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.sequence(buffer).WriteTo(c.out)
	return err
}

// sequence builds the escape sequence for buffer.
func (c *OSC52) sequence(buffer string) osc52.Sequence {
	seq := osc52.New(buffer)
	switch c.mode {
	case ModeTmux:
		seq = seq.Tmux()
	case ModeScreen:
		seq = seq.Screen()
	}
	if c.primary {
		seq = seq.Primary()
	}
	return seq
}
