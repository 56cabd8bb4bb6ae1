package storage

import (
	"database/sql"

	"lifeos/internal/tags"
)

// Note is the public shape of a notes row.
type Note struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Pinned    bool     `json:"pinned"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// Event is the public shape of an events row. Start and End are opaque
// date/time strings (ISO-8601 recommended, not enforced).
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Location    string `json:"location"`
	Description string `json:"description"`
	AllDay      bool   `json:"all_day"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Task is the public shape of a tasks row. DueAt is nil when the task has no
// due date.
type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    int      `json:"priority"`
	DueAt       *string  `json:"due_at"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// rowScanner abstracts *sql.Row and *sql.Rows for the codecs.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanNote decodes one notes row. Rows written before the updated_at column
// existed report it as null; the codec substitutes created_at.
func scanNote(row rowScanner) (*Note, error) {
	var n Note
	var rawTags string
	var pinned int
	var updatedAt sql.NullString

	if err := row.Scan(&n.ID, &n.Title, &n.Content, &rawTags, &pinned, &n.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	n.Tags = tags.ToList(rawTags)
	n.Pinned = pinned != 0
	n.UpdatedAt = n.CreatedAt
	if updatedAt.Valid && updatedAt.String != "" {
		n.UpdatedAt = updatedAt.String
	}
	return &n, nil
}

const noteColumns = "id, title, content, tags, pinned, created_at, updated_at"

func scanEvent(row rowScanner) (*Event, error) {
	var e Event
	var allDay int
	var updatedAt sql.NullString

	if err := row.Scan(&e.ID, &e.Title, &e.Start, &e.End, &e.Location, &e.Description, &allDay, &e.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	e.AllDay = allDay != 0
	e.UpdatedAt = e.CreatedAt
	if updatedAt.Valid && updatedAt.String != "" {
		e.UpdatedAt = updatedAt.String
	}
	return &e, nil
}

const eventColumns = `id, title, "start", "end", location, description, all_day, created_at, updated_at`

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var rawTags string
	var dueAt sql.NullString
	var updatedAt sql.NullString

	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &dueAt, &rawTags, &t.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	if dueAt.Valid {
		t.DueAt = &dueAt.String
	}
	t.Tags = tags.ToList(rawTags)
	t.UpdatedAt = t.CreatedAt
	if updatedAt.Valid && updatedAt.String != "" {
		t.UpdatedAt = updatedAt.String
	}
	return &t, nil
}

const taskColumns = "id, title, description, status, priority, due_at, tags, created_at, updated_at"

// clampLimit bounds a requested page size into [1, max], substituting def
// when the request is zero or negative garbage from the wire.
func clampLimit(requested, def, max int) int {
	if requested <= 0 {
		requested = def
	}
	if requested > max {
		return max
	}
	if requested < 1 {
		return 1
	}
	return requested
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// clampPriority forces a task priority into [1,5]. Out-of-range values are
// clamped silently, not rejected.
func clampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}
