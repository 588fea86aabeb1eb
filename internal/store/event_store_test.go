package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pvesely/webplanner/internal/store"
	"github.com/pvesely/webplanner/tests/testutil"
)

func TestEventLifecycle(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	later := start.Add(2 * time.Hour)
	event, err := s.CreateEvent(ctx, user.ID, store.EventUpdate{
		Title: "Dentist", StartAt: start.Add(time.Hour), EndAt: &later,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateEvent(ctx, user.ID, store.EventUpdate{
		Title: "Standup", StartAt: start,
	}); err != nil {
		t.Fatal(err)
	}

	events, err := s.GetEvents(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Title != "Standup" || events[1].Title != "Dentist" {
		t.Fatalf("events should sort by start, got %+v", events)
	}

	upd := store.EventUpdate{Title: "Dentist (moved)", StartAt: start.Add(3 * time.Hour)}
	if err := s.UpdateEvent(ctx, user.ID, event.ID, upd); err != nil {
		t.Fatal(err)
	}

	bob := testutil.NewUser(t, s, "bob@example.com")
	if err := s.DeleteEvent(ctx, bob.ID, event.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign delete: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteEvent(ctx, user.ID, event.ID); err != nil {
		t.Fatal(err)
	}
}

func TestCreateEventValidation(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	if _, err := s.CreateEvent(ctx, user.ID, store.EventUpdate{StartAt: start}); err == nil {
		t.Fatal("missing title should be rejected")
	}
	if _, err := s.CreateEvent(ctx, user.ID, store.EventUpdate{
		Title: "Backwards", StartAt: start, EndAt: &before,
	}); err == nil {
		t.Fatal("end before start should be rejected")
	}
}
