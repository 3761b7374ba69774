package rules

import (
	"fmt"
	"time"
)

// Config holds the property constants the rules are evaluated against.
type Config struct {
	// Timezone is the IANA zone of the properties; local days are computed in it.
	Timezone string `mapstructure:"timezone" default:"America/Detroit"`
	// CheckIn is the standard check-in wall-clock time (HH:MM).
	CheckIn string `mapstructure:"check_in" default:"16:00"`
	// CheckOut is the standard check-out wall-clock time (HH:MM).
	CheckOut string `mapstructure:"check_out" default:"11:00"`
	// PostActivityBufferHours pads the end of an activity before the next check-in.
	PostActivityBufferHours int `mapstructure:"post_activity_buffer_hours" default:"2"`
	// BufferLocation is the location stamped on event and photoshoot buffers.
	BufferLocation string `mapstructure:"buffer_location" default:"1-hr buffer"`
}

// Policy is the parsed, ready-to-evaluate form of Config.
type Policy struct {
	Location           *time.Location
	CheckIn            time.Duration
	CheckOut           time.Duration
	PostActivityBuffer time.Duration
	BufferLocation     string
}

// DefaultPolicy returns the standard property policy in loc.
func DefaultPolicy(loc *time.Location) Policy {
	return Policy{
		Location:           loc,
		CheckIn:            16 * time.Hour,
		CheckOut:           11 * time.Hour,
		PostActivityBuffer: 2 * time.Hour,
		BufferLocation:     "1-hr buffer",
	}
}

// Policy parses the configuration.
func (c Config) Policy() (Policy, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return Policy{}, fmt.Errorf("rules: timezone %q: %w", c.Timezone, err)
	}
	checkIn, err := parseClock(c.CheckIn)
	if err != nil {
		return Policy{}, fmt.Errorf("rules: check_in: %w", err)
	}
	checkOut, err := parseClock(c.CheckOut)
	if err != nil {
		return Policy{}, fmt.Errorf("rules: check_out: %w", err)
	}
	if c.PostActivityBufferHours < 0 {
		return Policy{}, fmt.Errorf("rules: post_activity_buffer_hours must not be negative")
	}
	return Policy{
		Location:           loc,
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		PostActivityBuffer: time.Duration(c.PostActivityBufferHours) * time.Hour,
		BufferLocation:     c.BufferLocation,
	}, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
