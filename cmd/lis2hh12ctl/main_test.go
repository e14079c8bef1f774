package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	c "lautenbacher.net/goaccel/config"
	"lautenbacher.net/goaccel/lis2hh12"
	"lautenbacher.net/goaccel/regio"
)

func TestParseRegister(t *testing.T) {
	cases := map[string]uint8{
		"0x0F":       0x0F,
		"15":         15,
		"0b00101000": 0x28,
		"127":        127,
		"CTRL1":      lis2hh12.CTRL1,
		"OUT_X_L":    lis2hh12.OUT_X_L,
	}
	for in, want := range cases {
		got, err := parseRegister(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"128", "0x80", "-1", "ctrl", ""} {
		_, err := parseRegister(in)
		assert.ErrorIs(t, err, regio.ErrArgument, in)
	}
}

func TestParseValue(t *testing.T) {
	v, err := parseValue("0xFF", 8)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0xFF), v)

	_, err = parseValue("256", 8)
	assert.ErrorIs(t, err, regio.ErrArgument)

	v, err = parseValue("65535", 16)
	assert.NoError(t, err)
	assert.Equal(t, uint64(65535), v)

	_, err = parseValue("0x10000", 16)
	assert.ErrorIs(t, err, regio.ErrArgument)
}

func TestArityIsCheckedBeforeBusAccess(t *testing.T) {
	// cobra runs Args before RunE, so none of these reach spibus.Open.
	assert.Error(t, writeCmd.Args(writeCmd, []string{"0x20"}))
	assert.Error(t, readCmd.Args(readCmd, []string{}))
	assert.Error(t, read16x3Cmd.Args(read16x3Cmd, []string{"0x28", "1"}))
	assert.Error(t, whoamiCmd.Args(whoamiCmd, []string{"x"}))
	assert.NoError(t, write16Cmd.Args(write16Cmd, []string{"0x20", "1"}))
}

func TestSensorOpts(t *testing.T) {
	opts, err := sensorOpts(c.SensorConfig{ODR: 800, FullScale: 8, Unit: "g"})
	assert.NoError(t, err)
	assert.Equal(t, &lis2hh12.Opts{ODR: lis2hh12.ODR800Hz, FullScale: lis2hh12.FS8G, Unit: lis2hh12.UnitG}, opts)

	_, err = sensorOpts(c.SensorConfig{ODR: 5, FullScale: 2, Unit: "g"})
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yml")

	conf, err := loadConfig(missing, false)
	assert.NoError(t, err, "a missing default config falls back to defaults")
	assert.Equal(t, c.Default(), conf)

	_, err = loadConfig(missing, true)
	assert.Error(t, err, "an explicitly named config must exist")

	assert.NoError(t, os.WriteFile(missing, []byte("Sensor:\n  ODR: 3\n"), 0o644))
	_, err = loadConfig(missing, false)
	assert.Error(t, err, "an invalid config is never replaced by defaults")
}

func TestRun_ClosesLogFileOnError(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "lis2hh12ctl.log")
	cfile := filepath.Join(dir, "config.yml")
	assert.NoError(t, os.WriteFile(cfile, []byte("Logging:\n  File: "+logFile+"\n"), 0o644))

	code := run([]string{"--config", cfile, "read", "0x200"})
	assert.Equal(t, 1, code, "a bad register is an argument error")

	slog.Info("logged after exit")
	data, err := os.ReadFile(logFile)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "logged after exit", "log file must be closed after a failed command")
}
