package spibus

import (
	"fmt"

	c "lautenbacher.net/goaccel/config"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func openPeriph(conf c.BusConfig) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to init periph: %w", err)
	}

	port, err := spireg.Open(conf.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to open spi: %w", err)
	}

	var cs csPin
	if conf.ChipSelect != "" {
		pin := gpioreg.ByName(conf.ChipSelect)
		if pin == nil {
			port.Close()
			return nil, fmt.Errorf("failed to find pin %s", conf.ChipSelect)
		}
		cs = pin
	}

	bus, err := newPeriph(port, conf, cs)
	if err != nil {
		port.Close()
		return nil, err
	}
	return bus, nil
}

// NewPeriph builds a Bus on an already opened periph.io port. The Bus takes
// ownership of port and closes it on Close.
func NewPeriph(port spi.PortCloser, conf c.BusConfig) (*Bus, error) {
	return newPeriph(port, conf, nil)
}

func newPeriph(port spi.PortCloser, conf c.BusConfig, cs csPin) (*Bus, error) {
	conn, err := port.Connect(physic.Frequency(conf.Frequency)*physic.Hertz, spi.Mode(conf.Mode), 8)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to spi device: %w", err)
	}

	if cs != nil {
		if err := cs.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("failed to set chip select pin to output: %w", err)
		}
	}

	return &Bus{
		name:   fmt.Sprintf("periph.io:%s", conf.Device),
		tx:     conn.Tx,
		closer: port.Close,
		cs:     cs,
	}, nil
}
