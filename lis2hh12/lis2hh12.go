// Package lis2hh12 provides a driver for the LIS2HH12 3-axis accelerometer
// made by STMicroelectronics, attached over SPI.
//
// Datasheet:
// https://www.st.com/resource/en/datasheet/lis2hh12.pdf
package lis2hh12

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"lautenbacher.net/goaccel/regio"
)

var ErrNotDetected = errors.New("lis2hh12: device not detected")

// settleDelay is the pause after the CTRL5 soft reset.
var settleDelay = 100 * time.Millisecond

// Opts holds the settings applied by New. Fields are applied as given:
// a zero ODR is ODROff and leaves the sensor powered down. Start from
// DefaultOpts to change a single setting. A zero Unit falls back to UnitSI
// since it would scale every sample to zero.
type Opts struct {
	ODR       ODR
	FullScale FullScale
	Unit      Unit
}

// DefaultOpts are 100 Hz, ±2g and m/s².
var DefaultOpts = Opts{
	ODR:       ODR100Hz,
	FullScale: FS2G,
	Unit:      UnitSI,
}

// Vector is an acceleration in the unit chosen by Opts.Unit.
type Vector struct {
	X, Y, Z float64
}

// Register is one named register value.
type Register struct {
	Addr  uint8
	Name  string
	Value uint8
}

// Dev is a handle to a LIS2HH12.
type Dev struct {
	mu   sync.Mutex
	t    *regio.Transport
	so   float64
	unit Unit
}

// New probes the device on t, writes the start-up configuration and
// applies opts. A nil opts uses DefaultOpts.
func New(t *regio.Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{t: t, unit: opts.Unit}
	if d.unit == 0 {
		d.unit = UnitSI
	}

	who, err := d.WhoAmI()
	if err != nil {
		return nil, err
	}
	if who != WHO_AM_I_RESPONSE {
		return nil, fmt.Errorf("%w: WHO_AM_I returned 0x%02x, want 0x%02x", ErrNotDetected, who, WHO_AM_I_RESPONSE)
	}

	if err := t.WriteReg8(CTRL5, initCTRL5); err != nil {
		return nil, fmt.Errorf("failed to reset device: %w", err)
	}
	time.Sleep(settleDelay)
	for _, w := range []struct{ reg, val uint8 }{
		{CTRL4, initCTRL4},
		{CTRL2, initCTRL2},
		{CTRL1, initCTRL1},
	} {
		if err := t.WriteReg8(w.reg, w.val); err != nil {
			return nil, fmt.Errorf("failed to initialise %s: %w", registerNames[w.reg], err)
		}
	}

	if err := d.SetODR(opts.ODR); err != nil {
		return nil, err
	}
	if err := d.SetFullScale(opts.FullScale); err != nil {
		return nil, err
	}
	slog.Debug("LIS2HH12 initialised", "odr", fmt.Sprintf("0x%02x", uint8(opts.ODR)), "fs", fmt.Sprintf("0x%02x", uint8(opts.FullScale)), "unit", d.unit.String())
	return d, nil
}

// WhoAmI returns the WHO_AM_I register, 0x41 for a LIS2HH12.
func (d *Dev) WhoAmI() (uint8, error) {
	who, err := d.t.ReadReg8(WHO_AM_I)
	if err != nil {
		return 0, fmt.Errorf("failed to read WHO_AM_I: %w", err)
	}
	return who, nil
}

// SetODR changes the output data rate, leaving the other CTRL1 bits alone.
func (d *Dev) SetODR(odr ODR) error {
	if uint8(odr)&^odrMask != 0 {
		return fmt.Errorf("invalid output data rate setting 0x%02x", uint8(odr))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateBits(CTRL1, odrMask, uint8(odr))
}

// SetFullScale changes the measurement range and the sensitivity used to
// scale Acceleration.
func (d *Dev) SetFullScale(fs FullScale) error {
	so, err := fs.sensitivity()
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.updateBits(CTRL4, fsMask, uint8(fs)); err != nil {
		return err
	}
	d.so = so
	return nil
}

// SetUnit changes the unit Acceleration reports in.
func (d *Dev) SetUnit(u Unit) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unit = u
}

// Unit returns the unit Acceleration reports in.
func (d *Dev) Unit() Unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.unit
}

func (d *Dev) updateBits(reg, mask, value uint8) error {
	cur, err := d.t.ReadReg8(reg)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", registerNames[reg], err)
	}
	if err := d.t.WriteReg8(reg, (cur&^mask)|value); err != nil {
		return fmt.Errorf("failed to write %s: %w", registerNames[reg], err)
	}
	return nil
}

// Raw returns the unscaled axis outputs.
func (d *Dev) Raw() (regio.Triplet, error) {
	xyz, err := d.t.ReadReg16x3(OUT_X_L)
	if err != nil {
		return regio.Triplet{}, fmt.Errorf("failed to read acceleration: %w", err)
	}
	return xyz, nil
}

// Acceleration returns the measured acceleration of all three axes.
// The full scale cannot change between the read and the scaling.
func (d *Dev) Acceleration() (Vector, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	xyz, err := d.Raw()
	if err != nil {
		return Vector{}, err
	}
	f := d.so * float64(d.unit)
	return Vector{
		X: float64(xyz.X) * f,
		Y: float64(xyz.Y) * f,
		Z: float64(xyz.Z) * f,
	}, nil
}

// Temperature returns the die temperature in degrees Celsius.
func (d *Dev) Temperature() (float64, error) {
	raw, err := d.t.ReadReg16(TEMP_L)
	if err != nil {
		return 0, fmt.Errorf("failed to read temperature: %w", err)
	}
	return float64(raw)/256.0 + 25.0, nil
}

// Dump reads every named register in address order.
func (d *Dev) Dump() ([]Register, error) {
	return DumpRegisters(d.t)
}

// DumpRegisters reads every named register in address order without
// touching the device configuration.
func DumpRegisters(t *regio.Transport) ([]Register, error) {
	addrs := maps.Keys(registerNames)
	slices.Sort(addrs)
	regs := make([]Register, 0, len(addrs))
	for _, addr := range addrs {
		val, err := t.ReadReg8(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", registerNames[addr], err)
		}
		regs = append(regs, Register{Addr: addr, Name: registerNames[addr], Value: val})
	}
	return regs, nil
}

// RegisterByName looks up a register address by its name, e.g. "CTRL1".
func RegisterByName(name string) (uint8, bool) {
	for _, addr := range maps.Keys(registerNames) {
		if registerNames[addr] == name {
			return addr, true
		}
	}
	return 0, false
}
