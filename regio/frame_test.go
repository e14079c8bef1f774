package regio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeInt16(t *testing.T) {
	cases := []struct {
		lo, hi byte
		want   int16
	}{
		{0x00, 0x00, 0},
		{0x01, 0x00, 1},
		{0xFF, 0xFF, -1},
		{0x00, 0x80, -32768},
		{0xFF, 0x7F, 32767},
		{0xD8, 0xFF, -40},
		{0x34, 0x12, 0x1234},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DecodeInt16(c.lo, c.hi), "lo=0x%02x hi=0x%02x", c.lo, c.hi)
	}
}

func TestDecodeInt16_MatchesWrapRule(t *testing.T) {
	for v := 0; v <= 0xFFFF; v += 0x101 {
		lo, hi := byte(v&0xFF), byte(v>>8)
		want := int(lo) + int(hi)*256
		if want >= 32768 {
			want -= 65536
		}
		if got := DecodeInt16(lo, hi); int(got) != want {
			t.Fatalf("DecodeInt16(0x%02x, 0x%02x) = %d, want %d", lo, hi, got, want)
		}
	}
}

func TestEncodeRead(t *testing.T) {
	assert.Equal(t, []byte{0x8F, 0}, EncodeRead(0x0F, 2))
	assert.Equal(t, []byte{0xA8, 0, 0, 0, 0, 0, 0}, EncodeRead(0x28, 7))
	assert.Equal(t, []byte{0xFF, 0, 0}, EncodeRead(0x7F, 3))
}

func TestEncodeWrite16_LittleEndian(t *testing.T) {
	for v := 0; v <= 0xFFFF; v += 0x3FF {
		frame := EncodeWrite16(0x21, uint16(v))
		assert.Equal(t, []byte{0x21, byte(v & 0xFF), byte((v >> 8) & 0xFF)}, frame)
	}
}
