// ABOUTME: Error types for the fragment buffer: sentinel causes and the BufferWriteError wrapper.
// ABOUTME: Callers match causes with errors.Is and the wrapper with errors.As.
package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueFull is the cause when the pending queue has reached its configured cap.
	ErrQueueFull = errors.New("buffer: pending queue full")

	// ErrClosed is the cause when a fragment is enqueued after Close.
	ErrClosed = errors.New("buffer: closed")
)

// BufferWriteError reports a fragment that could not be enqueued.
type BufferWriteError struct {
	Size int // length of the rejected fragment
	Err  error
}

func (e *BufferWriteError) Error() string {
	return fmt.Sprintf("buffer write failed (fragment %d bytes): %v", e.Size, e.Err)
}

func (e *BufferWriteError) Unwrap() error {
	return e.Err
}
