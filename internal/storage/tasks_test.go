package storage

import (
	"strings"
	"testing"
)

func TestTaskCreateDefaults(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	task, err := tasks.Create("Ship release", "", 3, "", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if task.Status != StatusPending {
		t.Errorf("Expected status pending, got %q", task.Status)
	}
	if task.Priority != 3 {
		t.Errorf("Expected priority 3, got %d", task.Priority)
	}
	if task.DueAt != nil {
		t.Errorf("Expected nil due_at, got %v", *task.DueAt)
	}
	if len(task.Tags) != 0 {
		t.Errorf("Expected empty tags, got %v", task.Tags)
	}
}

func TestTaskCreateClampsPriority(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	low, _ := tasks.Create("low", "", -7, "", "", nil)
	if low.Priority != 1 {
		t.Errorf("Expected priority clamped to 1, got %d", low.Priority)
	}
	zero, _ := tasks.Create("zero", "", 0, "", "", nil)
	if zero.Priority != 1 {
		t.Errorf("Expected priority 0 clamped to 1, got %d", zero.Priority)
	}
	high, _ := tasks.Create("high", "", 99, "", "", nil)
	if high.Priority != 5 {
		t.Errorf("Expected priority clamped to 5, got %d", high.Priority)
	}
}

func TestTaskCreateWithStatus(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	started, err := tasks.Create("started", "", 3, "", "In Progress", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if started.Status != StatusInProgress {
		t.Errorf("Expected status in_progress, got %q", started.Status)
	}

	_, err = tasks.Create("bogus", "", 3, "", "bogus", nil)
	if CodeOf(err) != InvalidStatus {
		t.Fatalf("Expected InvalidStatus, got %v", err)
	}
	want := "invalid status: bogus. Use [canceled done in_progress pending]"
	if MessageOf(err) != want {
		t.Errorf("Error message = %q, want %q", MessageOf(err), want)
	}

	page, err := tasks.List(TaskFilters{}, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Count != 1 {
		t.Errorf("Rejected create must not insert a row, got %d tasks", page.Count)
	}
}

func TestTaskCreateBlankDueStoresNull(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	task, err := tasks.Create("t", "", 3, "   ", "", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if task.DueAt != nil {
		t.Errorf("Expected nil due_at for blank input, got %v", *task.DueAt)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pending", "pending"},
		{"  DONE  ", "done"},
		{"In Progress", "in_progress"},
		{"CANCELED", "canceled"},
	}
	for _, tt := range tests {
		got, err := NormalizeStatus(tt.in)
		if err != nil {
			t.Errorf("NormalizeStatus(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	_, err := NormalizeStatus("blocked")
	if CodeOf(err) != InvalidStatus {
		t.Fatalf("Expected InvalidStatus, got %v", err)
	}
	// The message names the offending value and enumerates the enum.
	msg := MessageOf(err)
	if !strings.Contains(msg, "blocked") || !strings.Contains(msg, "in_progress") {
		t.Errorf("Unhelpful message: %q", msg)
	}
}

func TestTaskListUrgencyOrder(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	undated, _ := tasks.Create("undated", "", 5, "", "", nil)
	later, _ := tasks.Create("later", "", 3, "2026-09-10", "", nil)
	soonLow, _ := tasks.Create("soon low", "", 2, "2026-09-03", "", nil)
	soonHigh, _ := tasks.Create("soon high", "", 4, "2026-09-03", "", nil)

	page, err := tasks.List(TaskFilters{}, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	order := []int64{soonHigh.ID, soonLow.ID, later.ID, undated.ID}
	if page.Count != len(order) {
		t.Fatalf("Expected %d tasks, got %d", len(order), page.Count)
	}
	for i, want := range order {
		if page.Records[i].ID != want {
			t.Errorf("Position %d: expected id %d, got %d", i, want, page.Records[i].ID)
		}
	}
}

func TestTaskListFilters(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	open, _ := tasks.Create("open", "", 3, "", "", "work")
	done, _ := tasks.Create("done one", "", 3, "", "", nil)
	if _, err := tasks.Complete(done.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	pending, err := tasks.List(TaskFilters{Status: "Pending"}, 0, 0)
	if err != nil {
		t.Fatalf("List by status failed: %v", err)
	}
	if pending.Count != 1 || pending.Records[0].ID != open.ID {
		t.Errorf("Status filter returned wrong rows: %+v", pending.Records)
	}

	if _, err := tasks.List(TaskFilters{Status: "nope"}, 0, 0); CodeOf(err) != InvalidStatus {
		t.Errorf("Expected InvalidStatus, got %v", err)
	}

	tagged, err := tasks.List(TaskFilters{Tag: "work"}, 0, 0)
	if err != nil {
		t.Fatalf("List by tag failed: %v", err)
	}
	if tagged.Count != 1 || tagged.Records[0].ID != open.ID {
		t.Errorf("Tag filter returned wrong rows: %+v", tagged.Records)
	}
}

func TestTaskSearch(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	byTitle, _ := tasks.Create("Renew passport", "", 3, "", "", nil)
	byDesc, _ := tasks.Create("Paperwork", "passport photos needed", 3, "", "", nil)

	results, err := tasks.Search("PASSPORT", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(results))
	}
	_, _ = byTitle, byDesc

	if _, err := tasks.Search("\t", 0); CodeOf(err) != EmptyQuery {
		t.Errorf("Expected EmptyQuery, got %v", err)
	}
}

func TestTaskUpdate(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	task, _ := tasks.Create("t", "", 3, "2026-09-10", "", "a")

	status := "In Progress"
	priority := 9
	updated, err := tasks.Update(task.ID, TaskPatch{Status: &status, Priority: &priority})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != StatusInProgress {
		t.Errorf("Expected in_progress, got %q", updated.Status)
	}
	if updated.Priority != 5 {
		t.Errorf("Expected priority clamped to 5, got %d", updated.Priority)
	}
	if updated.DueAt == nil || *updated.DueAt != "2026-09-10" {
		t.Errorf("Untouched due_at changed: %v", updated.DueAt)
	}

	// A present blank due date clears the field.
	blank := ""
	cleared, err := tasks.Update(task.ID, TaskPatch{DueAt: &blank})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if cleared.DueAt != nil {
		t.Errorf("Expected due_at cleared, got %v", *cleared.DueAt)
	}

	bad := "someday"
	if _, err := tasks.Update(task.ID, TaskPatch{Status: &bad}); CodeOf(err) != InvalidStatus {
		t.Errorf("Expected InvalidStatus, got %v", err)
	}
	if _, err := tasks.Update(task.ID, TaskPatch{}); CodeOf(err) != NoFields {
		t.Errorf("Expected NoFields, got %v", err)
	}
	if _, err := tasks.Update(9999, TaskPatch{Status: &status}); CodeOf(err) != NotFound {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestTaskStatusTransitionsArePermissive(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	task, _ := tasks.Create("t", "", 3, "", "", nil)
	for _, status := range []string{StatusDone, StatusPending, StatusCanceled, StatusInProgress} {
		s := status
		updated, err := tasks.Update(task.ID, TaskPatch{Status: &s})
		if err != nil {
			t.Fatalf("Transition to %s failed: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("Expected status %q, got %q", status, updated.Status)
		}
	}
}

func TestTaskComplete(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	task, _ := tasks.Create("t", "", 3, "", "", nil)
	done, err := tasks.Complete(task.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if done.Status != StatusDone {
		t.Errorf("Expected done, got %q", done.Status)
	}

	// Completing again succeeds and stays done.
	again, err := tasks.Complete(task.ID)
	if err != nil {
		t.Fatalf("Second complete failed: %v", err)
	}
	if again.Status != StatusDone {
		t.Errorf("Expected done, got %q", again.Status)
	}

	if _, err := tasks.Complete(9999); CodeOf(err) != NotFound {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestTaskDueSoonExcludesClosed(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	open, _ := tasks.Create("open", "", 3, "2026-09-02", "", nil)
	closed, _ := tasks.Create("closed", "", 3, "2026-09-02", "", nil)
	if _, err := tasks.Complete(closed.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := tasks.Create("far", "", 3, "2027-01-01", "", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	due, err := tasks.DueSoon("2026-09-30", 0)
	if err != nil {
		t.Fatalf("DueSoon failed: %v", err)
	}
	if len(due) != 1 || due[0].ID != open.ID {
		t.Errorf("Expected only the open near-due task, got %+v", due)
	}
}

func TestTaskDelete(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskRepository(db)

	task, _ := tasks.Create("doomed", "", 3, "", "", nil)
	if err := tasks.Delete(task.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := tasks.Delete(task.ID); CodeOf(err) != NotFound {
		t.Errorf("Expected NotFound on double delete, got %v", err)
	}
}
