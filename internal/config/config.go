// Package config resolves runtime settings. VITALDAY_* environment variables
// override vitalday.yaml, which overrides the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandeepkv93/vitalday/internal/planner"
	"github.com/sandeepkv93/vitalday/internal/source"
	"github.com/spf13/viper"
)

const envPrefix = "VITALDAY"

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	User            string
	DBPath          string
	CatalogPath     string
	Locale          source.Locale
	WindowVariant   planner.Variant
	Reminders       bool
	ReminderLead    time.Duration
	SchedulerBuffer int
	LogLevel        string
	LogFile         string
	// File is the config file that was read, empty when none was found.
	File string
}

func defaultUser() string {
	if u := strings.TrimSpace(os.Getenv("USER")); u != "" {
		return u
	}
	return "me"
}

func dataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "vitalday")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "vitalday")
	}
	return "."
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "vitalday")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "vitalday")
	}
	return "."
}

// DefaultLogFile is where the TUI logs when log.file is unset, so output
// does not land on the alternate screen.
func DefaultLogFile() string {
	return filepath.Join(dataDir(), "vitalday.log")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("user", defaultUser())
	v.SetDefault("db", filepath.Join(dataDir(), "vitalday.db"))
	v.SetDefault("catalog", filepath.Join(configDir(), "catalog"))
	v.SetDefault("locale", string(source.LocaleEN))
	v.SetDefault("window_variant", string(planner.VariantStandard))
	v.SetDefault("reminders", true)
	v.SetDefault("reminder_lead_minutes", 10)
	v.SetDefault("scheduler_buffer", 64)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path, or searches for vitalday.yaml in the
// config directory and the working directory when path is empty. A missing
// searched-for file is not an error.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(expandHome(path))
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("vitalday")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading vitalday.yaml: %w", err)
			}
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	locale, err := source.ParseLocale(v.GetString("locale"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	variant, err := planner.ParseVariant(v.GetString("window_variant"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg := Config{
		User:            strings.TrimSpace(v.GetString("user")),
		DBPath:          expandHome(v.GetString("db")),
		CatalogPath:     expandHome(v.GetString("catalog")),
		Locale:          locale,
		WindowVariant:   variant,
		Reminders:       v.GetBool("reminders"),
		ReminderLead:    time.Duration(v.GetInt("reminder_lead_minutes")) * time.Minute,
		SchedulerBuffer: v.GetInt("scheduler_buffer"),
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		LogFile:         expandHome(v.GetString("log.file")),
		File:            v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.User == "" || strings.Contains(c.User, "/"):
		return fmt.Errorf("%w: user %q", ErrInvalidConfig, c.User)
	case c.DBPath == "":
		return fmt.Errorf("%w: db path is empty", ErrInvalidConfig)
	case c.ReminderLead < 0:
		return fmt.Errorf("%w: reminder lead must not be negative", ErrInvalidConfig)
	case c.SchedulerBuffer <= 0:
		return fmt.Errorf("%w: scheduler buffer must be positive", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
