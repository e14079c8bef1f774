package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	c "lautenbacher.net/goaccel/config"
	"lautenbacher.net/goaccel/lis2hh12"
	"lautenbacher.net/goaccel/logging"
	"lautenbacher.net/goaccel/regio"
	"lautenbacher.net/goaccel/spibus"
)

var (
	configFile string
	conf       *c.Config

	rootCmd = &cobra.Command{
		Use:           "lis2hh12ctl",
		Short:         "Talk to a LIS2HH12 accelerometer over SPI",
		Long:          "Read and write LIS2HH12 registers, read acceleration and temperature, or watch the sensor live.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			conf, err = loadConfig(configFile, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			return logging.Init(conf.Logging, false)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", c.CONFILE, "Config file")
	rootCmd.AddCommand(readCmd, writeCmd, read16Cmd, write16Cmd, read16x3Cmd)
	rootCmd.AddCommand(whoamiCmd, accelCmd, tempCmd, dumpCmd, monitorCmd)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line in args and returns the exit code: 0 on
// success, 3 for a failed bus exchange and 1 for anything else. The log file
// is closed whatever the outcome.
func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if cerr := logging.Close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Error closing log:", cerr)
	}
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, regio.ErrIO) {
		return 3
	}
	return 1
}

// loadConfig reads cfile. A missing default config file is not an error,
// the built-in defaults are used instead.
func loadConfig(cfile string, explicit bool) (*c.Config, error) {
	conf, err := c.ReadConfig(cfile)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return c.Default(), nil
	}
	return conf, err
}

func openTransport() (*spibus.Bus, *regio.Transport, error) {
	bus, err := spibus.Open(conf.Bus)
	if err != nil {
		return nil, nil, err
	}
	return bus, regio.New(bus), nil
}

func closeBus(bus *spibus.Bus) {
	if err := bus.Close(); err != nil {
		slog.Error("Error closing spi bus", "error", err)
	}
}

// sensorOpts converts the sensor section of the config.
func sensorOpts(sc c.SensorConfig) (*lis2hh12.Opts, error) {
	odr, err := lis2hh12.ODRFromHz(sc.ODR)
	if err != nil {
		return nil, err
	}
	scale, err := lis2hh12.FullScaleFromG(sc.FullScale)
	if err != nil {
		return nil, err
	}
	unit, err := lis2hh12.UnitFromName(sc.Unit)
	if err != nil {
		return nil, err
	}
	return &lis2hh12.Opts{ODR: odr, FullScale: scale, Unit: unit}, nil
}

// applySensorSettings pushes a changed sensor config to a running device.
func applySensorSettings(dev *lis2hh12.Dev, sc c.SensorConfig) error {
	opts, err := sensorOpts(sc)
	if err != nil {
		return err
	}
	if err := dev.SetODR(opts.ODR); err != nil {
		return err
	}
	if err := dev.SetFullScale(opts.FullScale); err != nil {
		return err
	}
	dev.SetUnit(opts.Unit)
	return nil
}

func openDevice(t *regio.Transport) (*lis2hh12.Dev, error) {
	opts, err := sensorOpts(conf.Sensor)
	if err != nil {
		return nil, err
	}
	return lis2hh12.New(t, opts)
}
