package regio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusBus(t *testing.T) {
	var gotTx []byte
	var gotN int
	bus := NewStatusBus(func(tx, rx []byte, n int) int {
		gotTx = append([]byte(nil), tx...)
		gotN = n
		if rx != nil {
			rx[1] = 0x41
		}
		return 0
	})

	val, err := ReadReg8(bus, 0x0F)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x41), val)
	assert.Equal(t, []byte{0x8F, 0}, gotTx)
	assert.Equal(t, 2, gotN)
}

func TestStatusBus_NonZeroStatus(t *testing.T) {
	for _, status := range []int{1, -1, 110} {
		bus := NewStatusBus(func(tx, rx []byte, n int) int { return status })

		err := WriteReg16(bus, 0x20, 0xBEEF)
		assert.ErrorIs(t, err, ErrIO)
		var se *StatusError
		if assert.ErrorAs(t, err, &se) {
			assert.Equal(t, status, se.Status)
		}

		v, err := ReadReg16(bus, 0x28)
		assert.ErrorIs(t, err, ErrIO)
		assert.Zero(t, v)
	}
}

func TestStatusBus_LengthMismatch(t *testing.T) {
	called := false
	bus := NewStatusBus(func(tx, rx []byte, n int) int {
		called = true
		return 0
	})

	err := bus.Exchange([]byte{0x8F, 0}, make([]byte, 1))
	assert.ErrorIs(t, err, ErrArgument)
	assert.NotErrorIs(t, err, ErrIO)

	err = bus.Exchange(nil, nil)
	assert.ErrorIs(t, err, ErrArgument)
	assert.False(t, called, "HAL must not be touched on argument errors")
}
