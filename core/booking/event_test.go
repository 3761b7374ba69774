package booking_test

import (
	"testing"
	"time"

	"calendar-agent/core/booking"

	"github.com/stretchr/testify/assert"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		in      string
		want    booking.Source
		wantErr bool
	}{
		{"lodging-platform", booking.SourceLodgingPlatform, false},
		{"Airbnb", booking.SourceLodgingPlatform, false},
		{"peerspace", booking.SourceEventPlatform, false},
		{" gmail ", booking.SourceEmail, false},
		{"fax", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := booking.ParseSource(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, booking.KindEvent, booking.ParseKind("EVENT"))
	assert.Equal(t, booking.KindPhotoshoot, booking.ParseKind("shoot"))
	assert.Equal(t, booking.KindLodging, booking.ParseKind("stay"))
	assert.Equal(t, booking.Kind("concert"), booking.ParseKind("Concert"))
}

func TestEventValidate(t *testing.T) {
	start := time.Date(2025, 12, 1, 19, 0, 0, 0, time.UTC)
	ev := booking.Event{
		Source:     booking.SourceEventPlatform,
		Kind:       booking.KindEvent,
		ExternalID: "Alex",
		Start:      start,
		End:        start.Add(3 * time.Hour),
	}
	assert.NoError(t, ev.Validate())

	ev.ExternalID = "  "
	assert.ErrorIs(t, ev.Validate(), booking.ErrMissingExternalID)
}
