// Package config loads the command-line host configuration from an optional
// file, PROPERTYSHEET_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PROPERTYSHEET_LOG_LEVEL.
const EnvPrefix = "PROPERTYSHEET"

// ErrInvalid wraps validation failures of a loaded configuration.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the root configuration structure.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Sheet  SheetConfig  `mapstructure:"sheet"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" default:"info"`
	Format string `mapstructure:"format" default:"json"`
}

// ServerConfig contains HTTP host settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" default:":8080"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"10s"`
}

// SheetConfig selects the demo record and its inputs.
type SheetConfig struct {
	// Kind names the demo record: "render" or "environment".
	Kind string `mapstructure:"kind" default:"render"`
	// Values is an optional YAML or JSON file with initial values.
	Values string `mapstructure:"values"`
	// Overlays is an optional directory of overlay documents.
	Overlays string `mapstructure:"overlays"`
	Label    string `mapstructure:"label"`
}

// Keys lists every configuration key, in file order.
var Keys = []string{
	"log.level",
	"log.format",
	"server.addr",
	"server.shutdown_timeout",
	"sheet.kind",
	"sheet.values",
	"sheet.overlays",
	"sheet.label",
}

// Default returns the configuration populated with its declared defaults.
func Default() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults: %v", err))
	}
	return cfg
}

// Load reads the configuration. file may be empty; flags may be nil. Flag
// names match keys with dots replaced by dashes ("log-level").
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	base := Default()
	for key, value := range flatten(base) {
		v.SetDefault(key, value)
	}

	if flags != nil {
		for _, key := range Keys {
			if flag := flags.Lookup(strings.ReplaceAll(key, ".", "-")); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("config: bind flag %s: %w", flag.Name, err)
				}
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	if strings.TrimSpace(c.Sheet.Kind) == "" {
		return fmt.Errorf("%w: sheet.kind is required", ErrInvalid)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must not be negative", ErrInvalid)
	}
	return nil
}

func flatten(cfg Config) map[string]any {
	return map[string]any{
		"log.level":               cfg.Log.Level,
		"log.format":              cfg.Log.Format,
		"server.addr":             cfg.Server.Addr,
		"server.shutdown_timeout": cfg.Server.ShutdownTimeout,
		"sheet.kind":              cfg.Sheet.Kind,
		"sheet.values":            cfg.Sheet.Values,
		"sheet.overlays":          cfg.Sheet.Overlays,
		"sheet.label":             cfg.Sheet.Label,
	}
}
