// Package spibus provides regio.Bus handles backed by a host SPI
// controller, either through periph.io or through go-rpio.
package spibus

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	c "lautenbacher.net/goaccel/config"
	"lautenbacher.net/goaccel/regio"
	"periph.io/x/conn/v3/gpio"
)

var ErrClosed = errors.New("spibus: bus is closed")

// csPin is the part of a GPIO pin used as software chip select.
type csPin interface {
	Out(l gpio.Level) error
	Halt() error
}

// Bus is a handle to one SPI peripheral. Exchanges on the same Bus are
// serialised.
type Bus struct {
	name   string
	mu     sync.Mutex
	tx     func(w, r []byte) error
	closer func() error
	cs     csPin
	closed bool
}

// Open opens the SPI peripheral described by conf with the library it
// names.
func Open(conf c.BusConfig) (*Bus, error) {
	slog.Info("Initialise Spi...", "library", conf.Library, "device", conf.Device, "frequency", conf.Frequency, "mode", conf.Mode)
	switch conf.Library {
	case c.LibraryPeriph, "":
		return openPeriph(conf)
	case c.LibraryRpio:
		return openRpio(conf)
	default:
		return nil, fmt.Errorf("unknown SPI library: %s", conf.Library)
	}
}

func (b *Bus) String() string {
	return b.name
}

// Exchange performs one full-duplex transfer. A nil rx discards the
// received bytes.
func (b *Bus) Exchange(tx, rx []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if rx == nil {
		rx = make([]byte, len(tx))
	} else if len(rx) != len(tx) {
		return fmt.Errorf("spibus: rx length %d does not match tx length %d: %w", len(rx), len(tx), regio.ErrArgument)
	}

	if b.cs != nil {
		if err := b.cs.Out(gpio.Low); err != nil {
			return fmt.Errorf("failed to select chip: %w", err)
		}
		defer func() {
			if err := b.cs.Out(gpio.High); err != nil {
				slog.Error("Failed to release chip select", "bus", b.name, "error", err)
			}
		}()
	}

	if err := b.tx(tx, rx); err != nil {
		slog.Debug("spi transaction failed", "bus", b.name, "error", err)
		return err
	}
	return nil
}

// Close releases the peripheral. Further exchanges fail with ErrClosed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if b.cs != nil {
		if err := b.cs.Out(gpio.High); err != nil {
			errs = append(errs, err)
		}
		if err := b.cs.Halt(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.closer != nil {
		if err := b.closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// pinNumber extracts the number from a pin name like "GPIO8" or "8".
func pinNumber(name string) (int, error) {
	num, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(name), "GPIO"))
	if err != nil || num < 0 {
		return 0, fmt.Errorf("invalid pin name %q", name)
	}
	return num, nil
}
