// Package regio implements register access over a full-duplex SPI
// exchange: one exchange per call, bit 7 of the first byte selecting read
// (1) or write (0), 16-bit registers little endian and two's complement.
package regio

// Bus is a handle to one physical SPI peripheral. Exchange clocks out tx
// and, when rx is not nil, stores the bytes clocked in at the same time.
// rx is either nil or exactly len(tx) long.
//
// Implementations need not be safe for concurrent use: callers serialise
// access to one bus.
type Bus interface {
	Exchange(tx, rx []byte) error
}

// YieldHook wraps the blocking bus exchange. A host embedding the transport
// can use it to drop and reacquire its own lock around the hardware access.
type YieldHook func(exchange func() error) error

// Triplet holds three consecutive signed 16-bit registers, usually the X, Y
// and Z axis outputs of a sensor.
type Triplet struct {
	X, Y, Z int16
}

// Transport performs register reads and writes on a Bus. It keeps no state
// between calls and never retries.
type Transport struct {
	bus   Bus
	yield YieldHook
}

// Option configures a Transport.
type Option func(*Transport)

// WithYieldHook installs h around every bus exchange.
func WithYieldHook(h YieldHook) Option {
	return func(t *Transport) {
		t.yield = h
	}
}

// New returns a Transport using bus. The bus is borrowed, not owned.
func New(bus Bus, opts ...Option) *Transport {
	t := &Transport{bus: bus}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Bus returns the bus the transport was created with.
func (t *Transport) Bus() Bus {
	return t.bus
}

func (t *Transport) exchange(tx, rx []byte) error {
	run := func() error {
		return t.bus.Exchange(tx, rx)
	}
	var err error
	if t.yield != nil {
		err = t.yield(run)
	} else {
		err = run()
	}
	if err != nil {
		return ioError(tx[0], err)
	}
	return nil
}

// WriteReg8 writes the 8-bit register reg.
func (t *Transport) WriteReg8(reg uint8, value uint8) error {
	return t.exchange(EncodeWrite8(reg, value), nil)
}

// ReadReg8 reads the 8-bit register reg. On error the returned value is 0
// and carries no meaning.
func (t *Transport) ReadReg8(reg uint8) (uint8, error) {
	rx := make([]byte, 2)
	if err := t.exchange(EncodeRead(reg, 2), rx); err != nil {
		return 0, err
	}
	return rx[1], nil
}

// WriteReg16 writes value to the 16-bit register pair starting at reg, low
// byte first.
func (t *Transport) WriteReg16(reg uint8, value uint16) error {
	return t.exchange(EncodeWrite16(reg, value), nil)
}

// ReadReg16 reads the signed 16-bit register pair starting at reg.
func (t *Transport) ReadReg16(reg uint8) (int16, error) {
	rx := make([]byte, 3)
	if err := t.exchange(EncodeRead(reg, 3), rx); err != nil {
		return 0, err
	}
	return DecodeInt16(rx[1], rx[2]), nil
}

// ReadReg16x3 reads three signed 16-bit values from the six registers
// starting at reg in a single exchange. Either all three values are valid or
// an error is returned together with a zero Triplet.
func (t *Transport) ReadReg16x3(reg uint8) (Triplet, error) {
	rx := make([]byte, 7)
	if err := t.exchange(EncodeRead(reg, 7), rx); err != nil {
		return Triplet{}, err
	}
	return Triplet{
		X: DecodeInt16(rx[1], rx[2]),
		Y: DecodeInt16(rx[3], rx[4]),
		Z: DecodeInt16(rx[5], rx[6]),
	}, nil
}

// WriteReg8 writes an 8-bit register on bus.
func WriteReg8(bus Bus, reg uint8, value uint8) error {
	return New(bus).WriteReg8(reg, value)
}

// ReadReg8 reads an 8-bit register on bus.
func ReadReg8(bus Bus, reg uint8) (uint8, error) {
	return New(bus).ReadReg8(reg)
}

// WriteReg16 writes a 16-bit register pair on bus.
func WriteReg16(bus Bus, reg uint8, value uint16) error {
	return New(bus).WriteReg16(reg, value)
}

// ReadReg16 reads a signed 16-bit register pair on bus.
func ReadReg16(bus Bus, reg uint8) (int16, error) {
	return New(bus).ReadReg16(reg)
}

// ReadReg16x3 reads three signed 16-bit register pairs on bus.
func ReadReg16x3(bus Bus, reg uint8) (Triplet, error) {
	return New(bus).ReadReg16x3(reg)
}
