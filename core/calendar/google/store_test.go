package google_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"calendar-agent/core/calendar"
	"calendar-agent/core/calendar/google"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var ctx = context.Background()

type fakeAPI struct {
	listCalls     atomic.Int32
	calendarPages map[string]gcal.CalendarList
	events        []*gcal.Event
	lastQuery     string
	inserted      *gcal.Event
	patched       *gcal.Event
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		f.listCalls.Add(1)
		writeJSON(w, f.calendarPages[r.URL.Query().Get("pageToken")])
	})
	mux.HandleFunc("GET /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery = r.URL.RawQuery
		prop := r.URL.Query().Get("privateExtendedProperty")
		var items []*gcal.Event
		for _, ev := range f.events {
			if prop != "" {
				if ev.ExtendedProperties == nil || "identity="+ev.ExtendedProperties.Private["identity"] != prop {
					continue
				}
			}
			items = append(items, ev)
		}
		writeJSON(w, gcal.Events{Items: items})
	})
	mux.HandleFunc("POST /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		var ev gcal.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		ev.Id = "new-1"
		f.inserted = &ev
		writeJSON(w, ev)
	})
	mux.HandleFunc("PATCH /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		var ev gcal.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		f.patched = &ev
		out := *f.events[0]
		if ev.Summary != "" {
			out.Summary = ev.Summary
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("DELETE /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]any{"error": map[string]any{"code": 404, "message": "Not Found"}})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func setup(t *testing.T, api *fakeAPI) (*google.Store, *time.Location) {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	loc, err := time.LoadLocation("America/Detroit")
	require.NoError(t, err)

	svc, err := google.NewService(ctx, "", option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	return google.New(svc, loc, nil), loc
}

func TestResolveCalendarPagesAndCaches(t *testing.T) {
	api := &fakeAPI{calendarPages: map[string]gcal.CalendarList{
		"":   {Items: []*gcal.CalendarListEntry{{Id: "a@group", Summary: "Upstairs Bookings"}}, NextPageToken: "p2"},
		"p2": {Items: []*gcal.CalendarListEntry{{Id: "b@group", Summary: "Disco Bookings"}}},
	}}
	s, _ := setup(t, api)

	id, err := s.ResolveCalendar(ctx, "Disco Bookings")
	require.NoError(t, err)
	assert.Equal(t, "b@group", id)
	calls := api.listCalls.Load()
	assert.Equal(t, int32(2), calls)

	id, err = s.ResolveCalendar(ctx, "Disco Bookings")
	require.NoError(t, err)
	assert.Equal(t, "b@group", id)
	assert.Equal(t, calls, api.listCalls.Load())

	direct, err := s.ResolveCalendar(ctx, "x@group.calendar.google.com")
	require.NoError(t, err)
	assert.Equal(t, "x@group.calendar.google.com", direct)

	_, err = s.ResolveCalendar(ctx, "Nowhere")
	assert.ErrorIs(t, err, google.ErrCalendarNotFound)
}

func TestFindByIdentityUsesPrivateProperty(t *testing.T) {
	api := &fakeAPI{events: []*gcal.Event{
		{
			Id: "e1", Summary: "EVENT", Location: "1-hr buffer", Status: "confirmed",
			Start:              &gcal.EventDateTime{DateTime: "2025-12-01T18:00:00-05:00"},
			End:                &gcal.EventDateTime{DateTime: "2025-12-02T00:00:00-05:00"},
			ExtendedProperties: &gcal.EventExtendedProperties{Private: map[string]string{"identity": "ps|Alex|event|2025-12-01|buffer"}},
		},
		{
			Id: "e2", Summary: "EVENT", Status: "confirmed",
			Start: &gcal.EventDateTime{DateTime: "2025-12-01T10:00:00-05:00"},
			End:   &gcal.EventDateTime{DateTime: "2025-12-01T11:00:00-05:00"},
		},
	}}
	s, loc := setup(t, api)

	rec, err := s.FindByIdentity(ctx, "disco@group", "ps|Alex|event|2025-12-01|buffer")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "e1", rec.ID)
	assert.True(t, rec.Start.Equal(time.Date(2025, 12, 1, 18, 0, 0, 0, loc)))
	assert.Contains(t, api.lastQuery, "privateExtendedProperty=identity")
	assert.Contains(t, api.lastQuery, "singleEvents=true")

	missing, err := s.FindByIdentity(ctx, "disco@group", "ps|Sam|event")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindAnyAllDay(t *testing.T) {
	api := &fakeAPI{events: []*gcal.Event{
		{Id: "b1", Summary: "EVENT", Status: "confirmed",
			Start: &gcal.EventDateTime{Date: "2025-12-01"}, End: &gcal.EventDateTime{Date: "2025-12-02"}},
		{Id: "b0", Summary: "gone", Status: "cancelled",
			Start: &gcal.EventDateTime{Date: "2025-12-01"}, End: &gcal.EventDateTime{Date: "2025-12-02"}},
	}}
	s, _ := setup(t, api)

	rec, err := s.FindAnyAllDay(ctx, "blocks@group", calendar.Date{Year: 2025, Month: time.December, Day: 1})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "b1", rec.ID)
	assert.True(t, rec.AllDay)
	assert.Contains(t, api.lastQuery, "timeMin=")
}

func TestInsertAllDaySendsDates(t *testing.T) {
	api := &fakeAPI{}
	s, _ := setup(t, api)

	rec, err := s.Insert(ctx, "blocks@group", calendar.Record{
		Summary:    "EVENT",
		AllDay:     true,
		Date:       calendar.Date{Year: 2025, Month: time.December, Day: 31},
		Properties: map[string]string{calendar.PropIdentity: "k"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new-1", rec.ID)
	require.NotNil(t, api.inserted)
	assert.Equal(t, "2025-12-31", api.inserted.Start.Date)
	assert.Equal(t, "2026-01-01", api.inserted.End.Date)
	assert.Equal(t, "k", api.inserted.ExtendedProperties.Private["identity"])
}

func TestPatchSendsOnlyChangedFields(t *testing.T) {
	api := &fakeAPI{events: []*gcal.Event{
		{Id: "b1", Summary: "EVENT", Status: "confirmed",
			Start: &gcal.EventDateTime{Date: "2025-12-01"}, End: &gcal.EventDateTime{Date: "2025-12-02"}},
	}}
	s, _ := setup(t, api)

	summary := "EVENT + PHOTOSHOOT"
	rec, err := s.Patch(ctx, "blocks@group", "b1", calendar.Patch{
		Summary:    &summary,
		Properties: map[string]string{calendar.PropContributions: "a=EVENT;b=PHOTOSHOOT"},
	})
	require.NoError(t, err)
	assert.Equal(t, summary, rec.Summary)
	require.NotNil(t, api.patched)
	assert.Nil(t, api.patched.Start)
	assert.Equal(t, "a=EVENT;b=PHOTOSHOOT", api.patched.ExtendedProperties.Private[calendar.PropContributions])
}

func TestDeleteNotFound(t *testing.T) {
	s, _ := setup(t, &fakeAPI{})
	err := s.Delete(ctx, "blocks@group", "missing")
	assert.ErrorIs(t, err, calendar.ErrNotFound)
}
