package calendar

import "time"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQL    = "sql"
	DriverGoogle = "google"
)

// Config selects the calendar backend and names the managed calendars.
type Config struct {
	// Driver is memory, sql or google.
	Driver string `mapstructure:"driver" default:"sql"`
	// CredentialsFile is the service account key used by the google driver.
	CredentialsFile string `mapstructure:"credentials_file" default:"credentials.json"`
	// Disco is the bookings calendar of the Disco space.
	Disco string `mapstructure:"disco" default:"Disco Bookings"`
	// Upstairs is the bookings calendar of the Upstairs unit.
	Upstairs string `mapstructure:"upstairs" default:"Upstairs Bookings"`
	// Blocks is the calendar of all-day holds exported to the rental platform.
	Blocks string `mapstructure:"blocks" default:"Block on Airbnb"`
	// SweepWindowDays bounds the update sweep around a booking.
	SweepWindowDays int `mapstructure:"sweep_window_days" default:"90"`
	// LookbackDays bounds a cancellation without an explicit window.
	LookbackDays int `mapstructure:"lookback_days" default:"365"`
}

// Locations maps each location name to its bookings calendar.
func (c Config) Locations() map[string]string {
	out := make(map[string]string, 2)
	if c.Disco != "" {
		out["Disco"] = c.Disco
	}
	if c.Upstairs != "" {
		out["Upstairs"] = c.Upstairs
	}
	return out
}

// SweepWindow returns the update sweep window.
func (c Config) SweepWindow() time.Duration {
	return days(c.SweepWindowDays, 90)
}

// Lookback returns the default cancellation window.
func (c Config) Lookback() time.Duration {
	return days(c.LookbackDays, 365)
}

func days(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * 24 * time.Hour
}
