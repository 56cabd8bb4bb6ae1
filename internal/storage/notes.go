package storage

import (
	"database/sql"
	"strings"

	"lifeos/internal/tags"
)

// Note list/search limits.
const (
	noteListDefault   = 50
	noteListMax       = 200
	noteSearchDefault = 20
	noteSearchMax     = 100
)

// NotePatch carries the optional fields of an update. Nil means "leave
// unchanged"; present fields are folded into the statement in a fixed order.
type NotePatch struct {
	Title   *string
	Content *string
	Tags    tags.Input
	HasTags bool
	Pinned  *bool
}

// NoteFilters narrows a list query.
type NoteFilters struct {
	Tag        string
	PinnedOnly bool
}

// Page is a forward-paged list result. NextOffset is offset plus the number
// of records returned; concurrent writes between pages may skip or repeat
// rows, which is acceptable for single-operator use.
type Page[T any] struct {
	Records    []T
	Count      int
	NextOffset int
}

// NoteRepository provides CRUD and search operations over the notes table.
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a note repository on the shared handle.
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a note and returns it re-read with defaults applied.
func (r *NoteRepository) Create(title, content string, rawTags tags.Input, pinned bool) (*Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errTitleRequired()
	}

	res, err := r.db.Exec(
		"INSERT INTO notes (title, content, tags, pinned, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)",
		title, content, tags.Normalize(rawTags), boolToInt(pinned),
	)
	if err != nil {
		return nil, wrapEngine("create note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, wrapEngine("create note", err)
	}

	r.db.logger.Info("note created", "id", id, "title", title)
	return r.Get(id)
}

// Get returns a note by id.
func (r *NoteRepository) Get(id int64) (*Note, error) {
	row := r.db.QueryRow("SELECT "+noteColumns+" FROM notes WHERE id = ?", id)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, errNotFound("note")
	}
	if err != nil {
		return nil, wrapEngine("get note", err)
	}
	return note, nil
}

// List returns notes ordered pinned-first, then most recently updated.
func (r *NoteRepository) List(filters NoteFilters, limit, offset int) (*Page[*Note], error) {
	lim := clampLimit(limit, noteListDefault, noteListMax)
	off := clampOffset(offset)

	var where []string
	var params []interface{}
	if filters.PinnedOnly {
		where = append(where, "pinned = 1")
	}
	if filters.Tag != "" {
		where = append(where, "',' || tags || ',' LIKE ?")
		params = append(params, "%,"+strings.ToLower(strings.TrimSpace(filters.Tag))+",%")
	}

	query := "SELECT " + noteColumns + " FROM notes"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY pinned DESC, updated_at DESC, created_at DESC LIMIT ? OFFSET ?"
	params = append(params, lim, off)

	notes, err := r.queryNotes(query, params...)
	if err != nil {
		return nil, err
	}
	return &Page[*Note]{Records: notes, Count: len(notes), NextOffset: off + len(notes)}, nil
}

// Search matches the query as a case-insensitive substring of the title and,
// when inContent is set, the content. Results are ordered by recency.
func (r *NoteRepository) Search(query string, limit int, inContent bool) ([]*Note, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errEmptyQuery()
	}
	lim := clampLimit(limit, noteSearchDefault, noteSearchMax)
	pattern := "%" + query + "%"

	if inContent {
		return r.queryNotes(
			"SELECT "+noteColumns+" FROM notes WHERE (title LIKE ? COLLATE NOCASE OR content LIKE ? COLLATE NOCASE) ORDER BY updated_at DESC LIMIT ?",
			pattern, pattern, lim,
		)
	}
	return r.queryNotes(
		"SELECT "+noteColumns+" FROM notes WHERE title LIKE ? COLLATE NOCASE ORDER BY updated_at DESC LIMIT ?",
		pattern, lim,
	)
}

// Update applies the present fields of patch and bumps updated_at. An empty
// patch fails with NoFields before touching storage.
func (r *NoteRepository) Update(id int64, patch NotePatch) (*Note, error) {
	var fields []string
	var params []interface{}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, errTitleRequired()
		}
		fields = append(fields, "title = ?")
		params = append(params, *patch.Title)
	}
	if patch.Content != nil {
		fields = append(fields, "content = ?")
		params = append(params, *patch.Content)
	}
	if patch.HasTags {
		fields = append(fields, "tags = ?")
		params = append(params, tags.Normalize(patch.Tags))
	}
	if patch.Pinned != nil {
		fields = append(fields, "pinned = ?")
		params = append(params, boolToInt(*patch.Pinned))
	}

	if len(fields) == 0 {
		return nil, errNoFields()
	}

	fields = append(fields, "updated_at = CURRENT_TIMESTAMP")
	params = append(params, id)

	res, err := r.db.Exec("UPDATE notes SET "+strings.Join(fields, ", ")+" WHERE id = ?", params...)
	if err != nil {
		return nil, wrapEngine("update note", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, errNotFound("note")
	}
	return r.Get(id)
}

// Delete removes a note. Hard delete; no tombstone.
func (r *NoteRepository) Delete(id int64) error {
	res, err := r.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return wrapEngine("delete note", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errNotFound("note")
	}
	return nil
}

// AddTags merges new tags into the note's current set (read-merge-write).
func (r *NoteRepository) AddTags(id int64, rawTags tags.Input) (*Note, error) {
	note, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	merged := tags.Merge(strings.Join(note.Tags, ","), rawTags)
	return r.writeTags(id, merged)
}

// RemoveTags subtracts tags from the note's current set.
func (r *NoteRepository) RemoveTags(id int64, rawTags tags.Input) (*Note, error) {
	note, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	remaining := tags.Remove(strings.Join(note.Tags, ","), rawTags)
	return r.writeTags(id, remaining)
}

func (r *NoteRepository) writeTags(id int64, canonical string) (*Note, error) {
	_, err := r.db.Exec(
		"UPDATE notes SET tags = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		canonical, id,
	)
	if err != nil {
		return nil, wrapEngine("update note tags", err)
	}
	return r.Get(id)
}

// ByTag returns up to limit notes carrying the tag, most recent first.
func (r *NoteRepository) ByTag(tag string, limit int) ([]*Note, error) {
	return r.queryNotes(
		"SELECT "+noteColumns+" FROM notes WHERE ',' || tags || ',' LIKE ? ORDER BY updated_at DESC LIMIT ?",
		"%,"+strings.ToLower(strings.TrimSpace(tag))+",%", clampLimit(limit, noteListDefault, noteListMax),
	)
}

// CreatedRange returns notes created within [start, end], newest first.
func (r *NoteRepository) CreatedRange(start, end string, limit int) ([]*Note, error) {
	return r.queryNotes(
		"SELECT "+noteColumns+" FROM notes WHERE created_at >= ? AND created_at <= ? ORDER BY created_at DESC LIMIT ?",
		start, end, clampLimit(limit, noteListDefault, noteListMax),
	)
}

// Recent returns the most recently created notes.
func (r *NoteRepository) Recent(limit int) ([]*Note, error) {
	return r.queryNotes(
		"SELECT "+noteColumns+" FROM notes ORDER BY created_at DESC LIMIT ?",
		clampLimit(limit, 5, noteListMax),
	)
}

func (r *NoteRepository) queryNotes(query string, params ...interface{}) ([]*Note, error) {
	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, wrapEngine("query notes", err)
	}
	defer rows.Close()

	notes := make([]*Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, wrapEngine("scan note", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapEngine("query notes", err)
	}
	return notes, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
