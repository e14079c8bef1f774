package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"lautenbacher.net/goaccel/lis2hh12"
	"lautenbacher.net/goaccel/regio"
)

var (
	accelOpts = struct {
		raw   bool
		count int
	}{}

	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Read the WHO_AM_I register without configuring the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTransport(func(t *regio.Transport) error {
				who, err := t.ReadReg8(lis2hh12.WHO_AM_I)
				if err != nil {
					return err
				}
				detected := "not a LIS2HH12"
				if who == lis2hh12.WHO_AM_I_RESPONSE {
					detected = "LIS2HH12"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "WHO_AM_I: 0x%02x (%s)\n", who, detected)
				return nil
			})
		},
	}

	accelCmd = &cobra.Command{
		Use:   "accel",
		Short: "Read the acceleration of all three axes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDevice(func(dev *lis2hh12.Dev) error {
				for i := 0; i < accelOpts.count; i++ {
					if i > 0 {
						time.Sleep(conf.Monitor.Interval)
					}
					if accelOpts.raw {
						xyz, err := dev.Raw()
						if err != nil {
							return err
						}
						fmt.Fprintf(cmd.OutOrStdout(), "%d %d %d\n", xyz.X, xyz.Y, xyz.Z)
						continue
					}
					acc, err := dev.Acceleration()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%.4f %.4f %.4f %s\n", acc.X, acc.Y, acc.Z, dev.Unit())
				}
				return nil
			})
		},
	}

	tempCmd = &cobra.Command{
		Use:   "temp",
		Short: "Read the die temperature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDevice(func(dev *lis2hh12.Dev) error {
				temp, err := dev.Temperature()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%.2f °C\n", temp)
				return nil
			})
		},
	}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print all named registers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTransport(func(t *regio.Transport) error {
				regs, err := lis2hh12.DumpRegisters(t)
				if err != nil {
					return err
				}
				for _, r := range regs {
					fmt.Fprintf(cmd.OutOrStdout(), "0x%02x %-9s 0x%02x %08b\n", r.Addr, r.Name, r.Value, r.Value)
				}
				return nil
			})
		},
	}
)

func init() {
	accelCmd.Flags().BoolVarP(&accelOpts.raw, "raw", "r", false, "Print raw register values instead of scaled acceleration")
	accelCmd.Flags().IntVarP(&accelOpts.count, "count", "n", 1, "Number of readings, spaced by Monitor.Interval")
}

func withDevice(fn func(dev *lis2hh12.Dev) error) error {
	return withTransport(func(t *regio.Transport) error {
		dev, err := openDevice(t)
		if err != nil {
			return err
		}
		return fn(dev)
	})
}
