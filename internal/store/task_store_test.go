package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pvesely/webplanner/internal/model"
	"github.com/pvesely/webplanner/internal/store"
	"github.com/pvesely/webplanner/tests/testutil"
)

func dateOffset(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(model.DueDateLayout)
}

// edit applies a TaskUpdate while keeping the task's current title.
func edit(t *testing.T, s *store.SQLiteStore, task model.Task, upd store.TaskUpdate) {
	t.Helper()
	if upd.Title == "" {
		upd.Title = task.Title
	}
	if err := s.UpdateTask(context.Background(), task.UserID, task.ID, upd); err != nil {
		t.Fatalf("updating task %s: %v", task.Title, err)
	}
}

func titles(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func assertOrder(t *testing.T, got []model.Task, want ...string) {
	t.Helper()
	gotTitles := titles(got)
	if len(gotTitles) != len(want) {
		t.Fatalf("got %d tasks %v, want %d %v", len(gotTitles), gotTitles, len(want), want)
	}
	for i := range want {
		if gotTitles[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, gotTitles, want)
		}
	}
}

func TestByListViewUnknownOrForeignListIsNotFound(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "alice@example.com")
	bob := testutil.NewUser(t, s, "bob@example.com")
	list := testutil.NewList(t, s, alice.ID, "Groceries")

	_, err := s.GetTasks(ctx, bob.ID, store.TaskQuery{View: store.ViewByList, ListID: list.ID})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign list: got %v, want ErrNotFound", err)
	}

	_, err = s.GetTasks(ctx, alice.ID, store.TaskQuery{View: store.ViewByList, ListID: "no-such-list"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown list: got %v, want ErrNotFound", err)
	}
}

func TestCompletedSortAfterIncompleteForEverySortKey(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")

	done := testutil.NewTask(t, s, user.ID, list.ID, "Aardvark")
	edit(t, s, done, store.TaskUpdate{Completed: true})
	testutil.NewTask(t, s, user.ID, list.ID, "Zebra")

	keys := []string{
		store.SortTitleAsc, store.SortTitleDesc,
		store.SortDueAsc, store.SortDueDesc,
		store.SortCreatedAsc, store.SortCreatedDesc,
		"", "bogus",
	}
	for _, key := range keys {
		tasks, err := s.GetTasks(ctx, user.ID, store.TaskQuery{
			View: store.ViewByList, ListID: list.ID, Sort: key,
		})
		if err != nil {
			t.Fatalf("sort %q: %v", key, err)
		}
		assertOrder(t, tasks, "Zebra", "Aardvark")
	}
}

func TestImportantBeforeUnimportantInDefaultOrder(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")

	testutil.NewTask(t, s, user.ID, list.ID, "Plain")
	starred := testutil.NewTask(t, s, user.ID, list.ID, "Starred")
	edit(t, s, starred, store.TaskUpdate{Important: true})

	tasks, err := s.GetTasks(ctx, user.ID, store.TaskQuery{View: store.ViewByList, ListID: list.ID})
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, tasks, "Starred", "Plain")
}

func TestImportantViewReturnsOnlyImportant(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")

	testutil.NewTask(t, s, user.ID, list.ID, "Plain")
	starred := testutil.NewTask(t, s, user.ID, list.ID, "Starred")
	edit(t, s, starred, store.TaskUpdate{Important: true})

	tasks, err := s.GetTasks(ctx, user.ID, store.TaskQuery{View: store.ViewImportant})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || !tasks[0].Important || tasks[0].Title != "Starred" {
		t.Fatalf("got %v, want only the important task", titles(tasks))
	}
}

func TestOverdueViewExcludesTodayAndCompleted(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")

	today := dateOffset(0)
	yesterday := dateOffset(-1)

	dueToday := testutil.NewTask(t, s, user.ID, list.ID, "Due today")
	edit(t, s, dueToday, store.TaskUpdate{Due: &today})

	lateDone := testutil.NewTask(t, s, user.ID, list.ID, "Late but done")
	edit(t, s, lateDone, store.TaskUpdate{Due: &yesterday, Completed: true})

	late := testutil.NewTask(t, s, user.ID, list.ID, "Late")
	edit(t, s, late, store.TaskUpdate{Due: &yesterday})

	testutil.NewTask(t, s, user.ID, list.ID, "No due date")

	tasks, err := s.GetTasks(ctx, user.ID, store.TaskQuery{View: store.ViewOverdue})
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, tasks, "Late")
}

func TestDueTodayViewScenario(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "alice@example.com")
	bob := testutil.NewUser(t, s, "bob@example.com")
	groceries := testutil.NewList(t, s, alice.ID, "Groceries")

	today := dateOffset(0)
	milk := testutil.NewTask(t, s, alice.ID, groceries.ID, "Buy milk")
	edit(t, s, milk, store.TaskUpdate{Due: &today})

	// A task with no due date must never show up in the day view.
	testutil.NewTask(t, s, alice.ID, groceries.ID, "Someday")

	tasks, err := s.GetTasks(ctx, alice.ID, store.TaskQuery{View: store.ViewDueToday})
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, tasks, "Buy milk")
	if tasks[0].ListTitle == nil || *tasks[0].ListTitle != "Groceries" {
		t.Fatalf("quick view should carry the list title, got %v", tasks[0].ListTitle)
	}

	bobTasks, err := s.GetTasks(ctx, bob.ID, store.TaskQuery{View: store.ViewDueToday})
	if err != nil {
		t.Fatal(err)
	}
	if len(bobTasks) != 0 {
		t.Fatalf("user B should see no tasks, got %v", titles(bobTasks))
	}
}

func TestTitleAscIsCaseInsensitive(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")

	testutil.NewTask(t, s, user.ID, list.ID, "banana")
	testutil.NewTask(t, s, user.ID, list.ID, "Apple")
	testutil.NewTask(t, s, user.ID, list.ID, "cherry")

	tasks, err := s.GetTasks(ctx, user.ID, store.TaskQuery{
		View: store.ViewByList, ListID: list.ID, Sort: store.SortTitleAsc,
	})
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, tasks, "Apple", "banana", "cherry")
}

func TestDueAscPutsMissingDatesLast(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")

	tomorrow := dateOffset(1)
	nextWeek := dateOffset(7)

	testutil.NewTask(t, s, user.ID, list.ID, "Undated")
	soon := testutil.NewTask(t, s, user.ID, list.ID, "Soon")
	edit(t, s, soon, store.TaskUpdate{Due: &tomorrow})
	later := testutil.NewTask(t, s, user.ID, list.ID, "Later")
	edit(t, s, later, store.TaskUpdate{Due: &nextWeek})

	tasks, err := s.GetTasks(ctx, user.ID, store.TaskQuery{
		View: store.ViewByList, ListID: list.ID, Sort: store.SortDueAsc,
	})
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, tasks, "Soon", "Later", "Undated")
}

func TestDueDateRoundTrip(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")

	due := "2024-06-01"
	task := testutil.NewTask(t, s, user.ID, list.ID, "Taxes")
	edit(t, s, task, store.TaskUpdate{Due: &due})

	tasks, err := s.GetTasks(ctx, user.ID, store.TaskQuery{View: store.ViewByList, ListID: list.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Due == nil || *tasks[0].Due != "2024-06-01" {
		t.Fatalf("due date did not round-trip: %+v", tasks[0].Due)
	}
}

func TestByListViewOmitsListTitle(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")
	testutil.NewTask(t, s, user.ID, list.ID, "Sweep")

	tasks, err := s.GetTasks(ctx, user.ID, store.TaskQuery{View: store.ViewByList, ListID: list.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ListTitle != nil {
		t.Fatalf("by-list view should not carry a list title, got %+v", tasks)
	}
}

func TestDueRemindersSelectionAndIdempotence(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")
	now := time.Now().UTC().Truncate(time.Second)

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	dueTask := testutil.NewTask(t, s, user.ID, list.ID, "Call dentist")
	edit(t, s, dueTask, store.TaskUpdate{RemindAt: &past})

	doneTask := testutil.NewTask(t, s, user.ID, list.ID, "Done already")
	edit(t, s, doneTask, store.TaskUpdate{RemindAt: &past, Completed: true})

	laterTask := testutil.NewTask(t, s, user.ID, list.ID, "Not yet")
	edit(t, s, laterTask, store.TaskUpdate{RemindAt: &future})

	due, err := s.DueReminders(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, due, "Call dentist")

	changed, err := s.MarkNotified(ctx, dueTask.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("first MarkNotified should report a change")
	}

	// The next sweep must not select the task again.
	due, err = s.DueReminders(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Fatalf("second selection should be empty, got %v", titles(due))
	}

	changed, err = s.MarkNotified(ctx, dueTask.ID)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Fatal("second MarkNotified should be a no-op")
	}
}

func TestUpdateTaskNewReminderRearmsNotification(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Chores")
	now := time.Now().UTC().Truncate(time.Second)

	past := now.Add(-time.Minute)
	task := testutil.NewTask(t, s, user.ID, list.ID, "Water plants")
	edit(t, s, task, store.TaskUpdate{RemindAt: &past})

	if _, err := s.MarkNotified(ctx, task.ID); err != nil {
		t.Fatal(err)
	}

	// Re-saving with the same reminder keeps the notified state.
	edit(t, s, task, store.TaskUpdate{RemindAt: &past})
	due, err := s.DueReminders(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Fatalf("unchanged reminder must stay notified, got %v", titles(due))
	}

	// A new reminder instant re-arms delivery.
	newPast := now.Add(-30 * time.Second)
	edit(t, s, task, store.TaskUpdate{RemindAt: &newPast})
	due, err = s.DueReminders(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, due, "Water plants")
}

func TestDeleteListCascadesToTasks(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	user := testutil.NewUser(t, s, "alice@example.com")
	list := testutil.NewList(t, s, user.ID, "Groceries")
	testutil.NewTask(t, s, user.ID, list.ID, "Buy milk")
	testutil.NewTask(t, s, user.ID, list.ID, "Buy bread")

	if err := s.DeleteList(ctx, user.ID, list.ID); err != nil {
		t.Fatal(err)
	}

	_, err := s.GetTasks(ctx, user.ID, store.TaskQuery{View: store.ViewByList, ListID: list.ID})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("deleted list should read as not found, got %v", err)
	}

	all, err := s.GetTasks(ctx, user.ID, store.TaskQuery{View: store.ViewAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("cascade should remove the list's tasks, got %v", titles(all))
	}
}

func TestTaskMutationsAreOwnerScoped(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "alice@example.com")
	bob := testutil.NewUser(t, s, "bob@example.com")
	list := testutil.NewList(t, s, alice.ID, "Chores")
	task := testutil.NewTask(t, s, alice.ID, list.ID, "Sweep")

	if err := s.SetTaskCompleted(ctx, bob.ID, task.ID, true); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign toggle: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteTask(ctx, bob.ID, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign delete: got %v, want ErrNotFound", err)
	}

	got, err := s.GetTaskByID(ctx, alice.ID, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed {
		t.Fatal("foreign toggle must not change the task")
	}
}
