package storage

import (
	"testing"
)

func TestEventCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)

	event, err := events.Create("Standup", "2026-09-02T09:00", "2026-09-02T09:15", "Zoom", "daily sync", false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if event.ID == 0 {
		t.Error("Expected a non-zero id")
	}
	if event.Start != "2026-09-02T09:00" || event.End != "2026-09-02T09:15" {
		t.Errorf("Times not stored verbatim: %q / %q", event.Start, event.End)
	}
	if event.AllDay {
		t.Error("Expected all_day=false")
	}

	got, err := events.Get(event.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Location != "Zoom" {
		t.Errorf("Expected location 'Zoom', got %q", got.Location)
	}
}

func TestEventCreateRejectsBlankTitle(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)

	if _, err := events.Create("  ", "2026-01-01", "2026-01-01", "", "", false); CodeOf(err) != TitleRequired {
		t.Errorf("Expected TitleRequired, got %v", err)
	}
}

func TestEventCreateAcceptsOpaqueTimes(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)

	// Times are stored as given, even when end precedes start or the value
	// is not a timestamp at all.
	event, err := events.Create("odd", "zzz", "aaa", "", "", false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if event.Start != "zzz" || event.End != "aaa" {
		t.Errorf("Expected verbatim storage, got %q / %q", event.Start, event.End)
	}
}

func TestEventListChronologicalWithWindow(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)

	late, _ := events.Create("late", "2026-09-03T10:00", "2026-09-03T11:00", "", "", false)
	early, _ := events.Create("early", "2026-09-01T10:00", "2026-09-01T11:00", "", "", false)
	mid, _ := events.Create("mid", "2026-09-02T10:00", "2026-09-02T11:00", "", "", false)

	page, err := events.List(EventFilters{}, 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Count != 3 {
		t.Fatalf("Expected 3 events, got %d", page.Count)
	}
	order := []int64{early.ID, mid.ID, late.ID}
	for i, want := range order {
		if page.Records[i].ID != want {
			t.Errorf("Position %d: expected id %d, got %d", i, want, page.Records[i].ID)
		}
	}

	windowed, err := events.List(EventFilters{From: "2026-09-02", To: "2026-09-02T23:59"}, 0, 0)
	if err != nil {
		t.Fatalf("Windowed list failed: %v", err)
	}
	if windowed.Count != 1 || windowed.Records[0].ID != mid.ID {
		t.Errorf("Window returned wrong rows: %+v", windowed.Records)
	}
}

func TestEventSearch(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)

	byTitle, _ := events.Create("Dentist", "2026-09-05T14:00", "2026-09-05T15:00", "", "", false)
	byLocation, _ := events.Create("Lunch", "2026-09-04T12:00", "2026-09-04T13:00", "Dentist street", "", false)
	byDesc, _ := events.Create("Errand", "2026-09-06T12:00", "2026-09-06T13:00", "", "pick up dentist forms", false)

	results, err := events.Search("dentist", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(results))
	}
	// Ordered by start.
	order := []int64{byLocation.ID, byTitle.ID, byDesc.ID}
	for i, want := range order {
		if results[i].ID != want {
			t.Errorf("Position %d: expected id %d, got %d", i, want, results[i].ID)
		}
	}

	if _, err := events.Search("", 0); CodeOf(err) != EmptyQuery {
		t.Errorf("Expected EmptyQuery, got %v", err)
	}
}

func TestEventUpcoming(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)

	past, _ := events.Create("past", "2026-08-01T10:00", "2026-08-01T11:00", "", "", false)
	future, _ := events.Create("future", "2026-09-02T10:00", "2026-09-02T11:00", "", "", false)
	_ = past

	upcoming, err := events.Upcoming("2026-09-01T00:00", 0)
	if err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != future.ID {
		t.Errorf("Expected only the future event, got %+v", upcoming)
	}
}

func TestEventOn(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)

	today, _ := events.Create("today", "2026-09-02T10:00", "2026-09-02T11:00", "", "", false)
	if _, err := events.Create("tomorrow", "2026-09-03T10:00", "2026-09-03T11:00", "", "", false); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	day, err := events.On("2026-09-02", 0)
	if err != nil {
		t.Fatalf("On failed: %v", err)
	}
	if len(day) != 1 || day[0].ID != today.ID {
		t.Errorf("Expected only today's event, got %+v", day)
	}
}

func TestEventUpdate(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)

	event, _ := events.Create("before", "2026-09-02T10:00", "2026-09-02T11:00", "", "", false)

	location := "Office"
	allDay := true
	updated, err := events.Update(event.ID, EventPatch{Location: &location, AllDay: &allDay})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Location != "Office" || !updated.AllDay {
		t.Errorf("Update not applied: %+v", updated)
	}
	if updated.Start != event.Start {
		t.Errorf("Untouched field changed: %q", updated.Start)
	}

	if _, err := events.Update(event.ID, EventPatch{}); CodeOf(err) != NoFields {
		t.Errorf("Expected NoFields, got %v", err)
	}
	blank := ""
	if _, err := events.Update(event.ID, EventPatch{Title: &blank}); CodeOf(err) != TitleRequired {
		t.Errorf("Expected TitleRequired, got %v", err)
	}
	if _, err := events.Update(9999, EventPatch{Location: &location}); CodeOf(err) != NotFound {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestEventDelete(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)

	event, _ := events.Create("doomed", "2026-09-02T10:00", "2026-09-02T11:00", "", "", false)
	if err := events.Delete(event.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := events.Delete(event.ID); CodeOf(err) != NotFound {
		t.Errorf("Expected NotFound on double delete, got %v", err)
	}
}
