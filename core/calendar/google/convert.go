package google

import (
	"fmt"
	"time"

	"calendar-agent/core/calendar"

	gcal "google.golang.org/api/calendar/v3"
)

func toEvent(r calendar.Record, loc *time.Location) *gcal.Event {
	ev := &gcal.Event{
		Summary:     r.Summary,
		Location:    r.Location,
		Description: r.Description,
		Status:      r.Status,
	}
	if r.AllDay {
		ev.Start = &gcal.EventDateTime{Date: r.Date.String()}
		ev.End = &gcal.EventDateTime{Date: r.Date.AddDays(1).String()}
	} else {
		ev.Start = dateTime(r.Start, loc)
		ev.End = dateTime(r.End, loc)
	}
	if len(r.Properties) > 0 {
		ev.ExtendedProperties = &gcal.EventExtendedProperties{Private: calendar.CloneProperties(r.Properties)}
	}
	return ev
}

func patchEvent(p calendar.Patch, loc *time.Location) *gcal.Event {
	ev := &gcal.Event{}
	if p.Summary != nil {
		ev.Summary = *p.Summary
		if *p.Summary == "" {
			ev.ForceSendFields = append(ev.ForceSendFields, "Summary")
		}
	}
	if p.Start != nil {
		ev.Start = dateTime(*p.Start, loc)
	}
	if p.End != nil {
		ev.End = dateTime(*p.End, loc)
	}
	if len(p.Properties) > 0 {
		// Private properties are merged key by key by the API.
		ev.ExtendedProperties = &gcal.EventExtendedProperties{Private: calendar.CloneProperties(p.Properties)}
	}
	return ev
}

func dateTime(t time.Time, loc *time.Location) *gcal.EventDateTime {
	return &gcal.EventDateTime{
		DateTime: t.In(loc).Format(time.RFC3339),
		TimeZone: loc.String(),
	}
}

func fromEvent(ev *gcal.Event, loc *time.Location) (calendar.Record, error) {
	r := calendar.Record{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Location:    ev.Location,
		Description: ev.Description,
		Status:      ev.Status,
	}
	if ev.ExtendedProperties != nil && len(ev.ExtendedProperties.Private) > 0 {
		r.Properties = calendar.CloneProperties(ev.ExtendedProperties.Private)
	}
	if ev.Start == nil || ev.End == nil {
		return r, fmt.Errorf("event %s has no start or end", ev.Id)
	}

	if ev.Start.Date != "" {
		d, err := calendar.ParseDate(ev.Start.Date)
		if err != nil {
			return r, fmt.Errorf("event %s: %w", ev.Id, err)
		}
		r.AllDay = true
		r.Date = d
		return r, nil
	}

	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return r, fmt.Errorf("event %s start: %w", ev.Id, err)
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		return r, fmt.Errorf("event %s end: %w", ev.Id, err)
	}
	r.Start = start.In(loc)
	r.End = end.In(loc)
	return r, nil
}
