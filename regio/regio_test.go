package regio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockBus struct {
	sent     [][]byte
	rxNil    []bool
	response []byte
	err      error
}

func (m *mockBus) Exchange(tx, rx []byte) error {
	frame := make([]byte, len(tx))
	copy(frame, tx)
	m.sent = append(m.sent, frame)
	m.rxNil = append(m.rxNil, rx == nil)
	if m.err != nil {
		return m.err
	}
	if rx != nil {
		copy(rx, m.response)
	}
	return nil
}

func TestWriteReg8(t *testing.T) {
	bus := &mockBus{}
	err := WriteReg8(bus, 0x20, 0x67)
	assert.NoError(t, err)
	assert.Equal(t, [][]byte{{0x20, 0x67}}, bus.sent)
	assert.True(t, bus.rxNil[0], "writes should not ask for the response")
}

func TestWriteReg8_AllRegisters(t *testing.T) {
	for reg := 0; reg <= 127; reg++ {
		for _, value := range []uint8{0x00, 0x01, 0x7F, 0x80, 0xFF} {
			bus := &mockBus{}
			assert.NoError(t, WriteReg8(bus, uint8(reg), value))
			frame := bus.sent[0]
			assert.Equal(t, byte(0), frame[0]&0x80, "write bit must be clear")
			assert.Equal(t, byte(reg), frame[0]&0x7F)
			assert.Equal(t, value, frame[1])
		}
	}
}

func TestReadReg8(t *testing.T) {
	bus := &mockBus{response: []byte{0x00, 0x3C}}
	val, err := ReadReg8(bus, 0x0F)
	assert.NoError(t, err)
	assert.Equal(t, uint8(60), val)
	assert.Equal(t, [][]byte{{0x8F, 0x00}}, bus.sent)
}

func TestReadReg8_ReadBit(t *testing.T) {
	for reg := 0; reg <= 127; reg++ {
		bus := &mockBus{response: []byte{0, 0}}
		_, err := ReadReg8(bus, uint8(reg))
		assert.NoError(t, err)
		assert.Equal(t, byte(reg)|0x80, bus.sent[0][0])
	}
}

func TestReadReg8_HighAddressBitIgnored(t *testing.T) {
	bus := &mockBus{response: []byte{0, 0}}
	_, err := ReadReg8(bus, 0x8F)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x8F), bus.sent[0][0])

	bus = &mockBus{}
	assert.NoError(t, WriteReg8(bus, 0xA0, 1))
	assert.Equal(t, byte(0x20), bus.sent[0][0])
}

func TestWriteReg16(t *testing.T) {
	cases := []uint16{0, 1, 0x00FF, 0x0100, 0x1234, 0x8000, 0xFFFF}
	for _, value := range cases {
		bus := &mockBus{}
		assert.NoError(t, WriteReg16(bus, 0x2E, value))
		assert.Equal(t, []byte{0x2E, byte(value & 0xFF), byte((value >> 8) & 0xFF)}, bus.sent[0])
		assert.True(t, bus.rxNil[0])
	}
}

func TestReadReg16(t *testing.T) {
	bus := &mockBus{response: []byte{0x00, 0xD8, 0xFF}}
	val, err := ReadReg16(bus, 0x28)
	assert.NoError(t, err)
	assert.Equal(t, int16(-40), val)
	assert.Equal(t, [][]byte{{0xA8, 0x00, 0x00}}, bus.sent)
}

func TestReadReg16x3(t *testing.T) {
	bus := &mockBus{response: []byte{0x00, 0xFF, 0xFF, 0x00, 0x80, 0xFF, 0x7F}}
	val, err := ReadReg16x3(bus, 0x28)
	assert.NoError(t, err)
	assert.Equal(t, Triplet{X: -1, Y: -32768, Z: 32767}, val)
	assert.Equal(t, [][]byte{{0xA8, 0, 0, 0, 0, 0, 0}}, bus.sent)
}

func TestOperations_IOError(t *testing.T) {
	busErr := errors.New("bus fault")

	bus := &mockBus{err: busErr, response: []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11}}
	tr := New(bus)

	err := tr.WriteReg8(0x20, 1)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, busErr)

	v8, err := tr.ReadReg8(0x0F)
	assert.ErrorIs(t, err, ErrIO)
	assert.Zero(t, v8)

	err = tr.WriteReg16(0x20, 1)
	assert.ErrorIs(t, err, ErrIO)

	v16, err := tr.ReadReg16(0x28)
	assert.ErrorIs(t, err, ErrIO)
	assert.Zero(t, v16)

	v3, err := tr.ReadReg16x3(0x28)
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, Triplet{}, v3)

	assert.Len(t, bus.sent, 5, "no retries expected")
}

func TestYieldHook(t *testing.T) {
	bus := &mockBus{response: []byte{0, 0x41}}
	var trace []string
	hook := func(exchange func() error) error {
		trace = append(trace, "release")
		err := exchange()
		trace = append(trace, "acquire")
		return err
	}
	tr := New(bus, WithYieldHook(hook))

	val, err := tr.ReadReg8(0x0F)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x41), val)
	assert.Equal(t, []string{"release", "acquire"}, trace)
	assert.Same(t, Bus(bus), tr.Bus())
}

func TestYieldHook_ErrorIsIOError(t *testing.T) {
	bus := &mockBus{err: errors.New("timeout")}
	hook := func(exchange func() error) error {
		return exchange()
	}
	_, err := New(bus, WithYieldHook(hook)).ReadReg16(0x0B)
	assert.ErrorIs(t, err, ErrIO)
}
