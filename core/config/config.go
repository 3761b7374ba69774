package config

import (
	"fmt"
	"reflect"
	"strings"

	"calendar-agent/core/calendar"
	"calendar-agent/core/database"
	"calendar-agent/core/feed"
	"calendar-agent/core/logger"
	"calendar-agent/core/rules"
	"calendar-agent/core/server"
	"calendar-agent/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP intake server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage receiving the feed.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Rules holds the property policy: timezone, check-in and buffers.
	Rules rules.Config `mapstructure:"rules"`
	// Calendar selects the store driver and names the managed calendars.
	Calendar calendar.Config `mapstructure:"calendar"`
	// Feed controls the published ICS feed of blocked dates.
	Feed feed.Config `mapstructure:"feed"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. RULES_TIMEZONE -> rules.timezone)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings that would only fail later, mid-pass.
func (c *Config) Validate() error {
	switch c.Calendar.Driver {
	case calendar.DriverMemory, calendar.DriverSQL, calendar.DriverGoogle:
	default:
		return fmt.Errorf("config: unknown calendar driver %q", c.Calendar.Driver)
	}
	if c.Calendar.Blocks == "" {
		return fmt.Errorf("config: calendar.blocks is required")
	}
	if len(c.Calendar.Locations()) == 0 {
		return fmt.Errorf("config: at least one bookings calendar is required")
	}
	if _, err := c.Rules.Policy(); err != nil {
		return err
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
