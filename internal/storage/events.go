package storage

import (
	"database/sql"
	"strings"
)

const (
	eventListDefault     = 100
	eventListMax         = 500
	eventSearchDefault   = 50
	eventSearchMax       = 200
	eventUpcomingDefault = 20
	eventUpcomingMax     = 200
)

// EventPatch carries the optional fields of an event update.
type EventPatch struct {
	Title       *string
	Start       *string
	End         *string
	Location    *string
	Description *string
	AllDay      *bool
}

// EventFilters narrows a list query to a window of start times. Either bound
// may be empty. Values compare as strings, which orders correctly for
// ISO-8601 timestamps.
type EventFilters struct {
	From string
	To   string
}

// EventRepository provides CRUD and query operations over the events table.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates an event repository on the shared handle.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts an event and returns it re-read with defaults applied.
// Start and end are stored as given; no parsing or range check is applied.
func (r *EventRepository) Create(title, start, end, location, description string, allDay bool) (*Event, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errTitleRequired()
	}

	res, err := r.db.Exec(
		`INSERT INTO events (title, "start", "end", location, description, all_day, updated_at) VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		title, start, end, location, description, boolToInt(allDay),
	)
	if err != nil {
		return nil, wrapEngine("create event", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, wrapEngine("create event", err)
	}

	r.db.logger.Info("event created", "id", id, "title", title, "start", start)
	return r.Get(id)
}

// Get returns an event by id.
func (r *EventRepository) Get(id int64) (*Event, error) {
	row := r.db.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, errNotFound("event")
	}
	if err != nil {
		return nil, wrapEngine("get event", err)
	}
	return event, nil
}

// List returns events in chronological start order, optionally windowed.
func (r *EventRepository) List(filters EventFilters, limit, offset int) (*Page[*Event], error) {
	lim := clampLimit(limit, eventListDefault, eventListMax)
	off := clampOffset(offset)

	var where []string
	var params []interface{}
	if filters.From != "" {
		where = append(where, `"start" >= ?`)
		params = append(params, filters.From)
	}
	if filters.To != "" {
		where = append(where, `"start" <= ?`)
		params = append(params, filters.To)
	}

	query := "SELECT " + eventColumns + " FROM events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY "start" LIMIT ? OFFSET ?`
	params = append(params, lim, off)

	events, err := r.queryEvents(query, params...)
	if err != nil {
		return nil, err
	}
	return &Page[*Event]{Records: events, Count: len(events), NextOffset: off + len(events)}, nil
}

// Search matches the query against title, location, and description,
// case-insensitively, ordered by start time.
func (r *EventRepository) Search(query string, limit int) ([]*Event, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errEmptyQuery()
	}
	lim := clampLimit(limit, eventSearchDefault, eventSearchMax)
	pattern := "%" + query + "%"

	return r.queryEvents(
		"SELECT "+eventColumns+` FROM events WHERE title LIKE ? COLLATE NOCASE OR location LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE ORDER BY "start" LIMIT ?`,
		pattern, pattern, pattern, lim,
	)
}

// Upcoming returns events starting at or after the given instant, soonest
// first. The caller supplies now so the cutoff is testable.
func (r *EventRepository) Upcoming(now string, limit int) ([]*Event, error) {
	return r.queryEvents(
		"SELECT "+eventColumns+` FROM events WHERE "start" >= ? ORDER BY "start" LIMIT ?`,
		now, clampLimit(limit, eventUpcomingDefault, eventUpcomingMax),
	)
}

// Range returns events overlapping [start, end]: anything that begins
// before the window closes and ends after it opens.
func (r *EventRepository) Range(start, end string, limit int) ([]*Event, error) {
	return r.queryEvents(
		"SELECT "+eventColumns+` FROM events WHERE "start" <= ? AND "end" >= ? ORDER BY "start" LIMIT ?`,
		end, start, clampLimit(limit, eventListDefault, eventListMax),
	)
}

// On returns events whose start falls on the given day prefix, earliest
// first. The prefix is typically YYYY-MM-DD.
func (r *EventRepository) On(dayPrefix string, limit int) ([]*Event, error) {
	return r.queryEvents(
		"SELECT "+eventColumns+` FROM events WHERE "start" LIKE ? ORDER BY "start" LIMIT ?`,
		dayPrefix+"%", clampLimit(limit, eventListDefault, eventListMax),
	)
}

// Update applies the present fields of patch and bumps updated_at.
func (r *EventRepository) Update(id int64, patch EventPatch) (*Event, error) {
	var fields []string
	var params []interface{}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, errTitleRequired()
		}
		fields = append(fields, "title = ?")
		params = append(params, *patch.Title)
	}
	if patch.Start != nil {
		fields = append(fields, `"start" = ?`)
		params = append(params, *patch.Start)
	}
	if patch.End != nil {
		fields = append(fields, `"end" = ?`)
		params = append(params, *patch.End)
	}
	if patch.Location != nil {
		fields = append(fields, "location = ?")
		params = append(params, *patch.Location)
	}
	if patch.Description != nil {
		fields = append(fields, "description = ?")
		params = append(params, *patch.Description)
	}
	if patch.AllDay != nil {
		fields = append(fields, "all_day = ?")
		params = append(params, boolToInt(*patch.AllDay))
	}

	if len(fields) == 0 {
		return nil, errNoFields()
	}

	fields = append(fields, "updated_at = CURRENT_TIMESTAMP")
	params = append(params, id)

	res, err := r.db.Exec("UPDATE events SET "+strings.Join(fields, ", ")+" WHERE id = ?", params...)
	if err != nil {
		return nil, wrapEngine("update event", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, errNotFound("event")
	}
	return r.Get(id)
}

// Delete removes an event.
func (r *EventRepository) Delete(id int64) error {
	res, err := r.db.Exec("DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return wrapEngine("delete event", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errNotFound("event")
	}
	return nil
}

func (r *EventRepository) queryEvents(query string, params ...interface{}) ([]*Event, error) {
	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, wrapEngine("query events", err)
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, wrapEngine("scan event", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapEngine("query events", err)
	}
	return events, nil
}
