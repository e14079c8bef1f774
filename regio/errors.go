package regio

import (
	"errors"
	"fmt"
)

var (
	// ErrIO reports a failed bus exchange. Timeouts, bus faults and NACKs
	// are not told apart.
	ErrIO = errors.New("regio: i/o error")

	// ErrArgument reports a malformed request detected before any bus
	// access.
	ErrArgument = errors.New("regio: invalid argument")
)

// StatusError carries the non-zero status code returned by a HAL exchange.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exchange status %d", e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrIO
}

func ioError(frame byte, err error) error {
	if errors.Is(err, ErrIO) || errors.Is(err, ErrArgument) {
		return fmt.Errorf("register 0x%02x: %w", frame&addrMask, err)
	}
	return fmt.Errorf("register 0x%02x: %w: %w", frame&addrMask, ErrIO, err)
}
