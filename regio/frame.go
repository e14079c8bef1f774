package regio

const (
	addrMask = 0x7F
	readBit  = 0x80
)

// EncodeWrite8 builds the 2-byte frame writing value to reg.
func EncodeWrite8(reg uint8, value uint8) []byte {
	return []byte{reg & addrMask, value}
}

// EncodeWrite16 builds the 3-byte frame writing value to reg, low byte
// first.
func EncodeWrite16(reg uint8, value uint16) []byte {
	return []byte{reg & addrMask, byte(value), byte(value >> 8)}
}

// EncodeRead builds an n byte read frame: the address with the read bit
// set followed by n-1 zero filler bytes.
func EncodeRead(reg uint8, n int) []byte {
	frame := make([]byte, n)
	frame[0] = (reg & addrMask) | readBit
	return frame
}

// DecodeInt16 reassembles a little endian two's complement value.
func DecodeInt16(lo, hi byte) int16 {
	return int16(uint16(lo) | uint16(hi)<<8)
}
