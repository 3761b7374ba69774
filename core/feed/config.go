package feed

import "time"

// Config controls the published block feed.
type Config struct {
	// Enabled schedules publishing from the start command.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Schedule is a five-field cron expression.
	Schedule string `mapstructure:"schedule" default:"*/15 * * * *"`
	// Object is the object name of the feed in the storage bucket.
	Object string `mapstructure:"object" default:"blocks.ics"`
	// HorizonDays is how far ahead holds are exported.
	HorizonDays int `mapstructure:"horizon_days" default:"365"`
	// Name is the calendar name shown by importing clients.
	Name string `mapstructure:"name" default:"Blocked dates"`
}

// Horizon returns the export horizon.
func (c Config) Horizon() time.Duration {
	if c.HorizonDays <= 0 {
		return 365 * 24 * time.Hour
	}
	return time.Duration(c.HorizonDays) * 24 * time.Hour
}
