package mocks

import (
	"context"
	"time"

	"calendar-agent/core/calendar"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of calendar.Store
type Store struct {
	mock.Mock
}

func (m *Store) FindByIdentity(ctx context.Context, calendarID, key string) (*calendar.Record, error) {
	args := m.Called(ctx, calendarID, key)
	if r, ok := args.Get(0).(*calendar.Record); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) FindBySummaryLocationDay(ctx context.Context, calendarID, summary, location string, day calendar.Date) ([]calendar.Record, error) {
	args := m.Called(ctx, calendarID, summary, location, day)
	if rs, ok := args.Get(0).([]calendar.Record); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) FindAnyAllDay(ctx context.Context, calendarID string, day calendar.Date) (*calendar.Record, error) {
	args := m.Called(ctx, calendarID, day)
	if r, ok := args.Get(0).(*calendar.Record); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Insert(ctx context.Context, calendarID string, r calendar.Record) (calendar.Record, error) {
	args := m.Called(ctx, calendarID, r)
	return args.Get(0).(calendar.Record), args.Error(1)
}

func (m *Store) Patch(ctx context.Context, calendarID, id string, p calendar.Patch) (calendar.Record, error) {
	args := m.Called(ctx, calendarID, id, p)
	return args.Get(0).(calendar.Record), args.Error(1)
}

func (m *Store) Delete(ctx context.Context, calendarID, id string) error {
	args := m.Called(ctx, calendarID, id)
	return args.Error(0)
}

func (m *Store) ListBetween(ctx context.Context, calendarID string, start, end time.Time) ([]calendar.Record, error) {
	args := m.Called(ctx, calendarID, start, end)
	if rs, ok := args.Get(0).([]calendar.Record); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}
