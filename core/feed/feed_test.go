package feed_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"calendar-agent/core/calendar"
	"calendar-agent/core/feed"
	"calendar-agent/core/storage/mocks"

	ics "github.com/arran4/golang-ical"
	"github.com/minio/minio-go/v7"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const blocks = "Block on Airbnb"

func detroit(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Detroit")
	require.NoError(t, err)
	return loc
}

func seed(t *testing.T, loc *time.Location) *calendar.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := calendar.NewMemoryStore(loc)
	records := []calendar.Record{
		{ID: "past", Summary: "EVENT", AllDay: true, Date: calendar.Date{Year: 2025, Month: time.October, Day: 1}},
		{ID: "h1", Summary: "EVENT + PHOTOSHOOT", AllDay: true, Date: calendar.Date{Year: 2025, Month: time.December, Day: 1}},
		{ID: "h2", Summary: "PHOTOSHOOT", AllDay: true, Date: calendar.Date{Year: 2025, Month: time.December, Day: 5}},
		{ID: "t1", Summary: "CHECK-IN BUFFER", Start: time.Date(2025, 12, 3, 14, 0, 0, 0, loc), End: time.Date(2025, 12, 3, 16, 0, 0, 0, loc)},
	}
	for _, r := range records {
		_, err := store.Insert(ctx, blocks, r)
		require.NoError(t, err)
	}
	return store
}

func TestRender(t *testing.T) {
	holds := []calendar.Record{
		{ID: "h1", Summary: "EVENT + 2X PHOTOSHOOTS", AllDay: true, Date: calendar.Date{Year: 2025, Month: time.December, Day: 1}},
	}
	out := feed.Render("Blocked dates", holds, time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC))

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "h1", ev.GetProperty(ics.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "EVENT + 2X PHOTOSHOOTS", ev.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "20251201", ev.GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20251202", ev.GetProperty(ics.ComponentPropertyDtEnd).Value)
	assert.Contains(t, out, "X-WR-CALNAME:Blocked dates")
}

func TestPublish(t *testing.T) {
	loc := detroit(t)
	store := seed(t, loc)
	client := new(mocks.Client)

	var body string
	client.On("PutObject", mock.Anything, "feeds", "blocks.ics", mock.Anything, mock.AnythingOfType("int64"),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return strings.HasPrefix(o.ContentType, "text/calendar") })).
		Run(func(args mock.Arguments) {
			b, err := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
			body = string(b)
		}).
		Return(minio.UploadInfo{ETag: "etag"}, nil)

	p := feed.NewPublisher(store, client, "feeds", blocks, loc, feed.Config{Object: "blocks.ics", HorizonDays: 30}, nil)
	p.SetClock(func() time.Time { return time.Date(2025, 11, 15, 12, 0, 0, 0, loc) })

	res, err := p.Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Events)
	assert.Equal(t, int64(len(body)), res.Bytes)
	assert.Contains(t, body, "UID:h1")
	assert.Contains(t, body, "UID:h2")
	assert.NotContains(t, body, "UID:past")
	assert.NotContains(t, body, "CHECK-IN BUFFER")
	client.AssertExpectations(t)
}

func TestPublishUploadFails(t *testing.T) {
	loc := detroit(t)
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "feeds", "blocks.ics", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	p := feed.NewPublisher(calendar.NewMemoryStore(loc), client, "feeds", blocks, loc, feed.Config{}, nil)
	_, err := p.Publish(context.Background())
	assert.ErrorContains(t, err, "access denied")
}

func TestSchedule(t *testing.T) {
	loc := detroit(t)
	c := cron.New()
	p := feed.NewPublisher(calendar.NewMemoryStore(loc), new(mocks.Client), "feeds", blocks, loc, feed.Config{Schedule: "*/5 * * * *"}, nil)

	id, err := p.Schedule(c, time.Minute)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	bad := feed.NewPublisher(calendar.NewMemoryStore(loc), new(mocks.Client), "feeds", blocks, loc, feed.Config{Schedule: "whenever"}, nil)
	_, err = bad.Schedule(c, time.Minute)
	assert.Error(t, err)
}

func TestConfig_Horizon(t *testing.T) {
	assert.Equal(t, 365*24*time.Hour, feed.Config{}.Horizon())
	assert.Equal(t, 7*24*time.Hour, feed.Config{HorizonDays: 7}.Horizon())
}
