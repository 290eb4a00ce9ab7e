package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/logger"
	"codeberg.org/mutker/sstat/internal/render"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval = time.Second
	DefaultUnknown  = "n/a"
	DefaultFormat   = "cpu: %s mem: %s | %s"
	DefaultLogLevel = "warning"

	OutputXRoot  = "xroot"
	OutputStdout = "stdout"

	envPrefix  = "SSTAT"
	configName = "sstat"
	configType = "toml"
)

// ErrHelp is returned by Load when -h/--help was requested.
var ErrHelp = pflag.ErrHelp

type Config struct {
	Interval time.Duration `mapstructure:"interval"`
	Unknown  string        `mapstructure:"unknown"`
	Format   string        `mapstructure:"format"`
	Fields   []Field       `mapstructure:"fields"`
	Volume   VolumeText    `mapstructure:"volume"`
	Battery  BatteryText   `mapstructure:"battery"`
	Pulse    Pulse         `mapstructure:"pulse"`
	Output   string        `mapstructure:"output"`
	Daemon   bool          `mapstructure:"daemon"`
	PIDFile  string        `mapstructure:"pid_file"`
	LogLevel string        `mapstructure:"log_level"`
	Debug    bool          `mapstructure:"debug"`
	Verbose  bool          `mapstructure:"verbose"`

	// Version is only ever set from the command line.
	Version bool `mapstructure:"-"`
	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `mapstructure:"-"`
}

// Field is one slot of the status line: a provider name and its argument.
type Field struct {
	Name string `mapstructure:"name"`
	Arg  string `mapstructure:"arg"`
}

type VolumeText struct {
	Mute   string `mapstructure:"mute"`
	Zero   string `mapstructure:"zero"`
	Format string `mapstructure:"format"`
}

type BatteryText struct {
	Charging    string `mapstructure:"charging"`
	Discharging string `mapstructure:"discharging"`
	Full        string `mapstructure:"full"`
	Unknown     string `mapstructure:"unknown"`
}

type Pulse struct {
	Server     string `mapstructure:"server"`
	Sink       string `mapstructure:"sink"`
	Source     string `mapstructure:"source"`
	ClientName string `mapstructure:"client_name"`
	Icons      []Icon `mapstructure:"icons"`
}

// Icon maps a sink name to the text shown by pulse_profile_icon.
type Icon struct {
	Device string `mapstructure:"device"`
	Icon   string `mapstructure:"icon"`
}

// Load reads configuration from the config file, the environment and
// the given command line arguments (without the program name).
func Load(args []string) (*Config, error) {
	errFactory := errors.New()
	v := viper.New()
	setDefaults(v)

	fs := NewFlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if err := bindFlags(v, fs); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configFile, _ := fs.GetString("config")
	if configFile == "" {
		configFile = os.Getenv(envPrefix + "_CONFIG")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.Version, _ = fs.GetBool("version")
	if stdout, _ := fs.GetBool("stdout"); stdout {
		cfg.Output = OutputStdout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewFlagSet returns the command line flags understood by Load.
func NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("sstat", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.BoolP("stdout", "o", false, "Print status instead of setting it as root window name")
	fs.BoolP("daemon", "d", false, "Start daemonized")
	fs.BoolP("version", "v", false, "Print version info and exit")
	fs.StringP("config", "c", "", "Path to the configuration file")
	fs.Duration("interval", DefaultInterval, "Interval between status updates")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")

	return fs
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"daemon":    "daemon",
		"interval":  "interval",
		"log_level": "log-level",
		"debug":     "debug",
		"verbose":   "verbose",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return err
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("unknown", DefaultUnknown)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("fields", []map[string]any{
		{"name": "cpu_perc"},
		{"name": "ram_perc"},
		{"name": "datetime", "arg": "%F %T"},
	})
	v.SetDefault("volume.mute", "muted")
	v.SetDefault("volume.zero", "0%")
	v.SetDefault("volume.format", "%d%%")
	v.SetDefault("battery.charging", "+")
	v.SetDefault("battery.discharging", "-")
	v.SetDefault("battery.full", "=")
	v.SetDefault("battery.unknown", "?")
	v.SetDefault("pulse.client_name", "sstat")
	v.SetDefault("output", OutputXRoot)
	v.SetDefault("log_level", DefaultLogLevel)
}

func searchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, configName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", configName))
	}

	return append(paths, "/etc")
}

// Validate checks the loaded configuration for values the program cannot run with.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Output != OutputXRoot && c.Output != OutputStdout {
		return errFactory.WithData(errors.ErrInvalidOutput, c.Output)
	}

	verbs, err := render.CountVerbs(c.Format)
	if err != nil {
		return errFactory.Wrap(errors.ErrInvalidFormat, err)
	}
	if verbs != len(c.Fields) {
		return errFactory.WithData(errors.ErrInvalidFormat, struct {
			Verbs  int
			Fields int
		}{
			Verbs:  verbs,
			Fields: len(c.Fields),
		})
	}

	for i, f := range c.Fields {
		if f.Name == "" {
			return errFactory.WithData(errors.ErrUnknownField, struct {
				Position int
			}{
				Position: i,
			})
		}
	}

	if verbs, err := render.Verbs(c.Volume.Format); err != nil || len(verbs) != 1 || (verbs[0] != 'd' && verbs[0] != 'v') {
		return errFactory.WithData(errors.ErrInvalidFormat, struct {
			Key    string
			Format string
		}{
			Key:    "volume.format",
			Format: c.Volume.Format,
		})
	}

	return nil
}

// Level returns the effective log level; --debug and --verbose win over log_level.
func (c *Config) Level() logger.LogLevel {
	switch {
	case c.Debug:
		return logger.DebugLevel
	case c.Verbose:
		return logger.InfoLevel
	}
	level, _ := logger.ParseLevel(c.LogLevel)

	return level
}

// HasField reports whether any configured field name starts with prefix.
func (c *Config) HasField(prefixes ...string) bool {
	for _, f := range c.Fields {
		for _, p := range prefixes {
			if strings.HasPrefix(f.Name, p) {
				return true
			}
		}
	}

	return false
}
