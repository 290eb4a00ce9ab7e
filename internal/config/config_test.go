package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/sstat/internal/config"
	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps Load from finding configuration outside the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SSTAT_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "sstat.toml")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, "n/a", cfg.Unknown)
	assert.Equal(t, config.DefaultFormat, cfg.Format)
	assert.Equal(t, []config.Field{
		{Name: "cpu_perc"},
		{Name: "ram_perc"},
		{Name: "datetime", Arg: "%F %T"},
	}, cfg.Fields)
	assert.Equal(t, config.OutputXRoot, cfg.Output)
	assert.Equal(t, "muted", cfg.Volume.Mute)
	assert.Equal(t, "%d%%", cfg.Volume.Format)
	assert.Equal(t, "+", cfg.Battery.Charging)
	assert.Equal(t, "sstat", cfg.Pulse.ClientName)
	assert.Equal(t, logger.WarnLevel, cfg.Level())
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
interval = "2s"
unknown = "?"
format = "vol: %s | %.5s"
output = "stdout"
log_level = "info"

[[fields]]
name = "vol_perc"

[[fields]]
name = "datetime"
arg = "%H:%M"

[pulse]
sink = "alsa_output.usb"

[[pulse.icons]]
device = "alsa_output.usb"
icon = "H"
`)
	t.Setenv("SSTAT_CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, "?", cfg.Unknown)
	assert.Equal(t, config.OutputStdout, cfg.Output)
	assert.Equal(t, []config.Field{{Name: "vol_perc"}, {Name: "datetime", Arg: "%H:%M"}}, cfg.Fields)
	assert.Equal(t, "alsa_output.usb", cfg.Pulse.Sink)
	assert.Equal(t, []config.Icon{{Device: "alsa_output.usb", Icon: "H"}}, cfg.Pulse.Icons)
	assert.Equal(t, logger.InfoLevel, cfg.Level())
	assert.Equal(t, path, cfg.ConfigFile)
	assert.True(t, cfg.HasField("vol_perc", "pulse_profile"))
	assert.False(t, cfg.HasField("gpu_"))
}

func TestLoadSearchesXDGConfigHome(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "xdg", "sstat"), `unknown = "-"`)

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "-", cfg.Unknown)
}

func TestLoadFlags(t *testing.T) {
	isolate(t)

	cfg, err := config.Load([]string{"-o", "--interval", "500ms", "--debug", "-v"})
	require.NoError(t, err)

	assert.Equal(t, config.OutputStdout, cfg.Output)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.True(t, cfg.Version)
	assert.Equal(t, logger.DebugLevel, cfg.Level())
}

func TestLoadHelp(t *testing.T) {
	isolate(t)

	_, err := config.Load([]string{"--help"})
	require.ErrorIs(t, err, config.ErrHelp)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "This is not a valid TOML file\n")

	_, err := config.Load([]string{"--config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := config.Load([]string{"-c", filepath.Join(dir, "missing.toml")})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLoadInvalidLogLevel(t *testing.T) {
	isolate(t)

	_, err := config.Load([]string{"--log-level", "loud"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Interval: time.Second,
			Format:   "%s %s",
			Fields:   []config.Field{{Name: "cpu_perc"}, {Name: "ram_perc"}},
			Volume:   config.VolumeText{Format: "%d%%"},
			Output:   config.OutputXRoot,
			LogLevel: "warning",
		}
	}

	tests := []struct {
		name   string
		modify func(c *config.Config)
		code   errors.ErrorCode
	}{
		{"zero interval", func(c *config.Config) { c.Interval = 0 }, errors.ErrInvalidInterval},
		{"unknown output", func(c *config.Config) { c.Output = "bar" }, errors.ErrInvalidOutput},
		{"too few fields", func(c *config.Config) { c.Fields = c.Fields[:1] }, errors.ErrInvalidFormat},
		{"integer verb", func(c *config.Config) { c.Format = "%s %d" }, errors.ErrInvalidFormat},
		{"empty field name", func(c *config.Config) { c.Fields[1].Name = "" }, errors.ErrUnknownField},
		{"volume without verb", func(c *config.Config) { c.Volume.Format = "loud" }, errors.ErrInvalidFormat},
		{"volume string verb", func(c *config.Config) { c.Volume.Format = "%s" }, errors.ErrInvalidFormat},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(c)

			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), err.Error())
		})
	}
}
