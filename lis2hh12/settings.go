package lis2hh12

import (
	"fmt"
	"strings"
)

// ODR is an output data rate setting of CTRL1.
type ODR uint8

const (
	ODROff   ODR = 0b0000_0000
	ODR10Hz  ODR = 0b0001_0000
	ODR50Hz  ODR = 0b0010_0000
	ODR100Hz ODR = 0b0011_0000
	ODR200Hz ODR = 0b0100_0000
	ODR400Hz ODR = 0b0101_0000
	ODR800Hz ODR = 0b0110_0000
)

var odrByHz = map[int]ODR{
	0:   ODROff,
	10:  ODR10Hz,
	50:  ODR50Hz,
	100: ODR100Hz,
	200: ODR200Hz,
	400: ODR400Hz,
	800: ODR800Hz,
}

// ODRFromHz maps a rate in Hz to its ODR setting.
func ODRFromHz(hz int) (ODR, error) {
	odr, ok := odrByHz[hz]
	if !ok {
		return 0, fmt.Errorf("unsupported output data rate %d Hz", hz)
	}
	return odr, nil
}

// FullScale is a measurement range setting of CTRL4.
type FullScale uint8

const (
	FS2G FullScale = 0b0000_0000
	FS4G FullScale = 0b0010_0000
	FS8G FullScale = 0b0011_0000
)

// FullScaleFromG maps a range in g to its FullScale setting.
func FullScaleFromG(g int) (FullScale, error) {
	switch g {
	case 2:
		return FS2G, nil
	case 4:
		return FS4G, nil
	case 8:
		return FS8G, nil
	}
	return 0, fmt.Errorf("unsupported full scale ±%dg", g)
}

// sensitivity returns mg per digit.
func (fs FullScale) sensitivity() (float64, error) {
	switch fs {
	case FS2G:
		return so2G, nil
	case FS4G:
		return so4G, nil
	case FS8G:
		return so8G, nil
	}
	return 0, fmt.Errorf("invalid full scale setting 0x%02x", uint8(fs))
}

// Unit scales milli-g to the unit acceleration is reported in.
type Unit float64

const (
	UnitG  Unit = 0.001      // 1 mg = 0.001 g
	UnitSI Unit = 0.00980665 // 1 mg = 0.00980665 m/s²
)

// UnitFromName accepts "g" and "si".
func UnitFromName(name string) (Unit, error) {
	switch strings.ToLower(name) {
	case "g":
		return UnitG, nil
	case "si", "":
		return UnitSI, nil
	}
	return 0, fmt.Errorf("unknown unit %q", name)
}

func (u Unit) String() string {
	if u == UnitG {
		return "g"
	}
	return "m/s²"
}
