package spibus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stianeikeland/go-rpio/v4"
	c "lautenbacher.net/goaccel/config"
	"periph.io/x/conn/v3/gpio"
)

// rpioPin drives a go-rpio pin through the gpio.Level interface.
type rpioPin struct {
	pin rpio.Pin
}

func (p rpioPin) Out(l gpio.Level) error {
	if l == gpio.High {
		p.pin.High()
	} else {
		p.pin.Low()
	}
	return nil
}

func (p rpioPin) Halt() error {
	p.pin.Input()
	return nil
}

func openRpio(conf c.BusConfig) (*Bus, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open rpio: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("failed to begin spi: %w", err)
	}

	rpio.SpiSpeed(conf.Frequency)
	rpio.SpiMode(uint8(conf.Mode>>1)&1, uint8(conf.Mode)&1)
	rpio.SpiChipSelect(rpioChipSelect(conf.Device))

	closer := func() error {
		rpio.SpiEnd(rpio.Spi0)
		return rpio.Close()
	}

	var cs csPin
	if conf.ChipSelect != "" {
		num, err := pinNumber(conf.ChipSelect)
		if err != nil {
			closer()
			return nil, err
		}
		pin := rpio.Pin(num)
		pin.Output()
		pin.High()
		cs = rpioPin{pin: pin}
	}

	return &Bus{
		name: fmt.Sprintf("rpio:spi0.%d", rpioChipSelect(conf.Device)),
		tx: func(w, r []byte) error {
			// go-rpio exchanges in place.
			copy(r, w)
			rpio.SpiExchange(r)
			return nil
		},
		closer: closer,
		cs:     cs,
	}, nil
}

// rpioChipSelect derives the hardware chip enable line from a spidev style
// device name, "/dev/spidev0.1" selects CE1. Anything else selects CE0.
func rpioChipSelect(device string) uint8 {
	idx := strings.LastIndex(device, ".")
	if idx < 0 {
		return 0
	}
	ce, err := strconv.Atoi(device[idx+1:])
	if err != nil || ce < 0 || ce > 2 {
		return 0
	}
	return uint8(ce)
}
