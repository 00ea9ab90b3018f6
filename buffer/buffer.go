// ABOUTME: Fragment accumulator that queues HTML output from producers and drains it into a buffer.
// ABOUTME: Producers enqueue concurrently; a single consumer drains, reads, and resets between renders.
package buffer

import (
	"log"
	"strings"
	"sync"
)

// Buffer collects HTML fragments. Enqueued fragments wait in a FIFO queue
// until the next Drain or Read appends them, in order, to the accumulated text.
//
// Reset only empties the accumulated text. Fragments still queued at that
// moment survive and show up on the next Read.
type Buffer struct {
	mu       sync.Mutex
	pending  []string
	text     strings.Builder
	closed   bool
	exceeded bool

	maxSize    int
	maxPending int
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithMaxSize sets a soft ceiling on the accumulated text in bytes. Going
// over it logs a warning; nothing is truncated or rejected. Zero disables it.
func WithMaxSize(n int) Option {
	return func(b *Buffer) {
		b.maxSize = n
	}
}

// WithMaxPending caps the number of undrained fragments. Enqueue fails with
// ErrQueueFull once the cap is reached. Zero means unlimited.
func WithMaxPending(n int) Option {
	return func(b *Buffer) {
		b.maxPending = n
	}
}

// New creates an empty Buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var defaultBuffer = New()

// Default returns the process-wide buffer used by the package-level formatters.
func Default() *Buffer {
	return defaultBuffer
}

// Enqueue appends a fragment to the pending queue. It never blocks.
func (b *Buffer) Enqueue(fragment string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return &BufferWriteError{Size: len(fragment), Err: ErrClosed}
	}
	if b.maxPending > 0 && len(b.pending) >= b.maxPending {
		return &BufferWriteError{Size: len(fragment), Err: ErrQueueFull}
	}
	b.pending = append(b.pending, fragment)
	return nil
}

// Drain moves every pending fragment into the accumulated text in
// insertion order. An empty queue leaves the text untouched.
func (b *Buffer) Drain() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drainLocked()
}

func (b *Buffer) drainLocked() {
	if len(b.pending) == 0 {
		return
	}
	for _, f := range b.pending {
		b.text.WriteString(f)
	}
	clear(b.pending)
	b.pending = b.pending[:0]

	if b.maxSize > 0 && b.text.Len() > b.maxSize {
		b.exceeded = true
		log.Printf("component=buffer action=size_ceiling size=%d max=%d", b.text.Len(), b.maxSize)
	}
}

// Read drains the queue and returns the full accumulated text.
func (b *Buffer) Read() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drainLocked()
	return b.text.String()
}

// Reset empties the accumulated text. Pending fragments are kept.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text.Reset()
	b.exceeded = false
}

// Close makes later Enqueue calls fail with ErrClosed. Fragments already
// queued can still be read.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// Len returns the size of the accumulated text without draining.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text.Len()
}

// Pending returns the number of fragments waiting to be drained.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Exceeded reports whether the text has gone over the size ceiling since
// the last Reset.
func (b *Buffer) Exceeded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exceeded
}
