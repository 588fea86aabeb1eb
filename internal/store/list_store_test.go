package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pvesely/webplanner/internal/store"
	"github.com/pvesely/webplanner/tests/testutil"
)

func TestCreateListValidation(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")

	if _, err := s.CreateList(ctx, user.ID, "   "); err == nil {
		t.Fatal("blank title should be rejected")
	}

	if _, err := s.CreateList(ctx, user.ID, "Groceries"); err != nil {
		t.Fatal(err)
	}
	_, err := s.CreateList(ctx, user.ID, "Groceries")
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate title: got %v, want ErrConflict", err)
	}

	// The same title under another owner is fine.
	bob := testutil.NewUser(t, s, "bob@example.com")
	if _, err := s.CreateList(ctx, bob.ID, "Groceries"); err != nil {
		t.Fatal(err)
	}
}

func TestGetListsOrderedByTitle(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	testutil.NewList(t, s, user.ID, "Work")
	testutil.NewList(t, s, user.ID, "Errands")

	lists, err := s.GetLists(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(lists) != 2 || lists[0].Title != "Errands" || lists[1].Title != "Work" {
		t.Fatalf("lists should sort by title, got %+v", lists)
	}
}

func TestDeleteListIsOwnerScoped(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "alice@example.com")
	bob := testutil.NewUser(t, s, "bob@example.com")
	list := testutil.NewList(t, s, alice.ID, "Groceries")

	if err := s.DeleteList(ctx, bob.ID, list.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign delete: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteList(ctx, alice.ID, list.ID); err != nil {
		t.Fatal(err)
	}
}
