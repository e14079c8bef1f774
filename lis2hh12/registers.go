package lis2hh12

// Register addresses.
const (
	TEMP_L   = 0x0B
	TEMP_H   = 0x0C
	WHO_AM_I = 0x0F
	CTRL1    = 0x20
	CTRL2    = 0x21
	CTRL3    = 0x22
	CTRL4    = 0x23
	CTRL5    = 0x24
	CTRL6    = 0x25
	CTRL7    = 0x26
	STATUS   = 0x27
	OUT_X_L  = 0x28
	OUT_X_H  = 0x29
	OUT_Y_L  = 0x2A
	OUT_Y_H  = 0x2B
	OUT_Z_L  = 0x2C
	OUT_Z_H  = 0x2D
)

const WHO_AM_I_RESPONSE = 0x41

// CTRL1 output data rate bits
const odrMask = 0b0111_0000

// CTRL4 full-scale bits
const fsMask = 0b0011_0000

// Sensitivity in mg/digit per full-scale setting.
const (
	so2G = 0.061
	so4G = 0.122
	so8G = 0.244
)

// Start-up register values written by New.
const (
	initCTRL5 = 0x43
	initCTRL4 = 0x06
	initCTRL2 = 0x40
	initCTRL1 = 0xBF
)

var registerNames = map[uint8]string{
	TEMP_L:   "TEMP_L",
	TEMP_H:   "TEMP_H",
	WHO_AM_I: "WHO_AM_I",
	CTRL1:    "CTRL1",
	CTRL2:    "CTRL2",
	CTRL3:    "CTRL3",
	CTRL4:    "CTRL4",
	CTRL5:    "CTRL5",
	CTRL6:    "CTRL6",
	CTRL7:    "CTRL7",
	STATUS:   "STATUS",
	OUT_X_L:  "OUT_X_L",
	OUT_X_H:  "OUT_X_H",
	OUT_Y_L:  "OUT_Y_L",
	OUT_Y_H:  "OUT_Y_H",
	OUT_Z_L:  "OUT_Z_L",
	OUT_Z_H:  "OUT_Z_H",
}
