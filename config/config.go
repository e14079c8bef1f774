package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const CONFILE = "config.yml"

const (
	LibraryPeriph = "periph.io"
	LibraryRpio   = "rpio"
)

type Config struct {
	Configfile string        `yaml:"-"`
	Bus        BusConfig     `yaml:"Bus"`
	Sensor     SensorConfig  `yaml:"Sensor"`
	Monitor    MonitorConfig `yaml:"Monitor"`
	Logging    LoggingConfig `yaml:"Logging"`
}

// BusConfig selects the SPI peripheral the sensor is attached to.
type BusConfig struct {
	Library    string `yaml:"Library"`
	Device     string `yaml:"Device"`
	Frequency  int    `yaml:"Frequency"`
	Mode       int    `yaml:"Mode"`
	ChipSelect string `yaml:"ChipSelect"`
}

// SensorConfig holds the LIS2HH12 settings applied at start-up. ODR is in
// Hz, FullScale in g, Unit is either "si" (m/s²) or "g".
type SensorConfig struct {
	ODR       int    `yaml:"ODR"`
	FullScale int    `yaml:"FullScale"`
	Unit      string `yaml:"Unit"`
}

type MonitorConfig struct {
	Interval time.Duration `yaml:"Interval"`
	History  int           `yaml:"History"`
}

type LoggingConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

var validODR = map[int]bool{0: true, 10: true, 50: true, 100: true, 200: true, 400: true, 800: true}

var validFullScale = map[int]bool{2: true, 4: true, 8: true}

// Default returns the configuration used when no file is given. It matches
// the defaults of the LIS2HH12 driver: 5 MHz clock, 100 Hz, ±2g, m/s².
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Library:   LibraryPeriph,
			Device:    "/dev/spidev0.0",
			Frequency: 5000000,
			Mode:      3,
		},
		Sensor: SensorConfig{
			ODR:       100,
			FullScale: 2,
			Unit:      "si",
		},
		Monitor: MonitorConfig{
			Interval: 100 * time.Millisecond,
			History:  500,
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}

// ReadConfig decodes cfile on top of the defaults and validates the result.
func ReadConfig(cfile string) (*Config, error) {
	f, err := os.Open(cfile)
	if err != nil {
		return nil, fmt.Errorf("can't open config file %s: %w", cfile, err)
	}
	defer f.Close()

	conf := Default()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(conf); err != nil {
		return nil, fmt.Errorf("can't decode config file %s: %w", cfile, err)
	}
	conf.Configfile = cfile

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", cfile, err)
	}
	return conf, nil
}

// Validate checks the whole configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	switch c.Bus.Library {
	case LibraryPeriph, LibraryRpio:
	default:
		errs = append(errs, fmt.Errorf("Bus.Library must be %q or %q, got %q", LibraryPeriph, LibraryRpio, c.Bus.Library))
	}
	if c.Bus.Library == LibraryPeriph && c.Bus.Device == "" {
		errs = append(errs, errors.New("Bus.Device must be set when using periph.io"))
	}
	if c.Bus.Frequency <= 0 {
		errs = append(errs, fmt.Errorf("Bus.Frequency must be positive, got %d", c.Bus.Frequency))
	}
	if c.Bus.Mode < 0 || c.Bus.Mode > 3 {
		errs = append(errs, fmt.Errorf("Bus.Mode must be between 0 and 3, got %d", c.Bus.Mode))
	}

	if !validODR[c.Sensor.ODR] {
		errs = append(errs, fmt.Errorf("Sensor.ODR must be one of 0, 10, 50, 100, 200, 400, 800, got %d", c.Sensor.ODR))
	}
	if !validFullScale[c.Sensor.FullScale] {
		errs = append(errs, fmt.Errorf("Sensor.FullScale must be one of 2, 4, 8, got %d", c.Sensor.FullScale))
	}
	switch strings.ToLower(c.Sensor.Unit) {
	case "si", "g":
	default:
		errs = append(errs, fmt.Errorf("Sensor.Unit must be \"si\" or \"g\", got %q", c.Sensor.Unit))
	}

	if c.Monitor.Interval <= 0 {
		errs = append(errs, fmt.Errorf("Monitor.Interval must be positive, got %s", c.Monitor.Interval))
	}
	if c.Monitor.History <= 0 {
		errs = append(errs, fmt.Errorf("Monitor.History must be positive, got %d", c.Monitor.History))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("Logging.Format must be \"text\" or \"json\", got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
