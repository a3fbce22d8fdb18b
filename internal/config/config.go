package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/ofxsheet/internal/common"
	"github.com/Veraticus/ofxsheet/internal/locale"
)

// Configuration keys shared between flags, environment and config file.
const (
	KeyLogLevel  = "logging.level"
	KeyLogFormat = "logging.format"
	KeyLocale    = "report.locale"
)

// EnvPrefix prefixes every environment override, e.g. OFXSHEET_REPORT_LOCALE.
const EnvPrefix = "OFXSHEET"

// Config holds the resolved settings for a run.
type Config struct {
	Logging Logging
	Report  Report
}

// Logging configures the process logger.
type Logging struct {
	Level  string
	Format string
}

// Report configures the generated workbook.
type Report struct {
	Locale string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLocale, locale.Default)
}

// BindEnv makes every key overridable from the environment.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile reads the config file at path, or searches the default locations when
// path is empty. A missing file in the default locations is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(ExpandPath(path))
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("%w: failed to read config: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

// Load extracts and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Logging: Logging{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		},
		Report: Report{
			Locale: strings.TrimSpace(v.GetString(KeyLocale)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting names a supported value.
func (c Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json", "":
	default:
		return fmt.Errorf("%w: invalid log format: %s", common.ErrInvalidConfig, c.Logging.Format)
	}
	if _, err := locale.Lookup(c.Report.Locale); err != nil {
		return err
	}
	return nil
}

// Labels returns the locale labels selected by the report settings.
func (c Config) Labels() (locale.Labels, error) {
	return locale.Lookup(c.Report.Locale)
}
