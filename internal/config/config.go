// Package config loads pm settings from an optional YAML file and PM_*
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. PM_LOG_LEVEL
const EnvPrefix = "PM"

// Config is the top-level pm configuration
type Config struct {
	// DBPath is the sqlite file holding the state slots. Empty means the
	// default location under the XDG data directory.
	DBPath     string    `mapstructure:"db_path"`
	StorageKey string    `mapstructure:"storage_key" validate:"required"`
	Log        LogConfig `mapstructure:"log"`
}

// LogConfig controls the zerolog output
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	// File redirects logs away from stderr; empty means stderr
	File string `mapstructure:"file"`
}

// DefaultPath is $XDG_CONFIG_HOME/pm/config.yaml, or ~/.config/pm/config.yaml
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "pm", "config.yaml")
}

// Load reads the config file at path, then applies environment overrides.
// An empty path falls back to DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	v := newViper()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return decode(v)
}

// Parse builds a Config from YAML bytes plus environment overrides
func Parse(data []byte) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// every key needs a default so AutomaticEnv sees it during Unmarshal
	v.SetDefault("db_path", "")
	v.SetDefault("storage_key", "project-manager-data")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return val
}

// validate reports every failing field by its config key
func (c *Config) validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: validation failed: %w", err)
	}

	errs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		if i := strings.IndexByte(key, '.'); i >= 0 {
			key = key[i+1:]
		}
		switch fe.Tag() {
		case "required":
			errs = append(errs, key+" is required")
		case "oneof":
			errs = append(errs, fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value()))
		default:
			errs = append(errs, fmt.Sprintf("%s failed %s", key, fe.Tag()))
		}
	}
	return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
}
