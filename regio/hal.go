package regio

import "fmt"

// HALFunc is a blocking full-duplex exchange primitive in the style of a
// board support layer: it transfers n bytes and returns 0 on success and
// any other value on failure. rx may be nil.
type HALFunc func(tx, rx []byte, n int) int

// StatusBus adapts a HALFunc to the Bus interface.
type StatusBus struct {
	exchange HALFunc
}

// NewStatusBus returns a Bus that forwards every exchange to fn.
func NewStatusBus(fn HALFunc) *StatusBus {
	return &StatusBus{exchange: fn}
}

func (b *StatusBus) Exchange(tx, rx []byte) error {
	if len(tx) == 0 || (rx != nil && len(rx) != len(tx)) {
		return fmt.Errorf("%w: tx %d bytes, rx %d bytes", ErrArgument, len(tx), len(rx))
	}
	if status := b.exchange(tx, rx, len(tx)); status != 0 {
		return &StatusError{Status: status}
	}
	return nil
}
