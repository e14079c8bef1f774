package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"lautenbacher.net/goaccel/lis2hh12"
	"lautenbacher.net/goaccel/regio"
)

var (
	readCmd = &cobra.Command{
		Use:   "read REG",
		Short: "Read an 8-bit register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := parseRegister(args[0])
			if err != nil {
				return err
			}
			return withTransport(func(t *regio.Transport) error {
				val, err := t.ReadReg8(reg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "0x%02x: 0x%02x (%d)\n", reg, val, val)
				return nil
			})
		},
	}

	writeCmd = &cobra.Command{
		Use:   "write REG VALUE",
		Short: "Write an 8-bit register",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := parseRegister(args[0])
			if err != nil {
				return err
			}
			val, err := parseValue(args[1], 8)
			if err != nil {
				return err
			}
			return withTransport(func(t *regio.Transport) error {
				return t.WriteReg8(reg, uint8(val))
			})
		},
	}

	read16Cmd = &cobra.Command{
		Use:   "read16 REG",
		Short: "Read a signed 16-bit register pair, low byte first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := parseRegister(args[0])
			if err != nil {
				return err
			}
			return withTransport(func(t *regio.Transport) error {
				val, err := t.ReadReg16(reg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "0x%02x: %d\n", reg, val)
				return nil
			})
		},
	}

	write16Cmd = &cobra.Command{
		Use:   "write16 REG VALUE",
		Short: "Write a 16-bit register pair, low byte first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := parseRegister(args[0])
			if err != nil {
				return err
			}
			val, err := parseValue(args[1], 16)
			if err != nil {
				return err
			}
			return withTransport(func(t *regio.Transport) error {
				return t.WriteReg16(reg, uint16(val))
			})
		},
	}

	read16x3Cmd = &cobra.Command{
		Use:   "read16x3 REG",
		Short: "Read three signed 16-bit register pairs in one exchange",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := parseRegister(args[0])
			if err != nil {
				return err
			}
			return withTransport(func(t *regio.Transport) error {
				xyz, err := t.ReadReg16x3(reg)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "0x%02x: %d %d %d\n", reg, xyz.X, xyz.Y, xyz.Z)
				return nil
			})
		},
	}
)

func withTransport(fn func(t *regio.Transport) error) error {
	bus, t, err := openTransport()
	if err != nil {
		return err
	}
	defer closeBus(bus)
	return fn(t)
}

// parseRegister accepts a register name like "CTRL1" or a number in
// decimal, hex (0x) or binary (0b) notation between 0 and 127.
func parseRegister(s string) (uint8, error) {
	if addr, ok := lis2hh12.RegisterByName(s); ok {
		return addr, nil
	}
	v, err := strconv.ParseUint(s, 0, 7)
	if err != nil {
		return 0, fmt.Errorf("%w: register %q must be a name or a number between 0 and 127", regio.ErrArgument, s)
	}
	return uint8(v), nil
}

func parseValue(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: value %q must fit in %d bits", regio.ErrArgument, s, bits)
	}
	return v, nil
}
