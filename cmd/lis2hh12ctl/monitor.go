package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	c "lautenbacher.net/goaccel/config"
	"lautenbacher.net/goaccel/lis2hh12"
	"lautenbacher.net/goaccel/logging"
	"lautenbacher.net/goaccel/monitor"
	"lautenbacher.net/goaccel/regio"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Show live acceleration and temperature",
	Long:  "Show live acceleration and temperature. Changes to the Sensor and Monitor sections of the config file are applied while running.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withDevice(func(dev *lis2hh12.Dev) error {
			return runMonitor(ctx, dev)
		})
	},
}

func runMonitor(ctx context.Context, dev *lis2hh12.Dev) error {
	mon := monitor.New(dev, conf.Monitor)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if conf.Configfile != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := c.Watch(ctx, conf.Configfile, func(nc *c.Config) {
				if err := applySensorSettings(dev, nc.Sensor); err != nil {
					slog.Error("Failed to apply sensor settings", "error", err, "io", errors.Is(err, regio.ErrIO))
					return
				}
				mon.SetInterval(nc.Monitor.Interval)
			})
			if err != nil {
				slog.Error("Config watcher stopped", "error", err)
			}
		}()
	}

	// The TUI owns the terminal, hold log output back until it is gone.
	logging.BufferOutput()
	err := mon.Run(ctx)
	cancel()
	wg.Wait()
	if ferr := logging.SetOutput(os.Stderr); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
