package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"lifeos/internal/tags"
)

const (
	taskListDefault   = 100
	taskListMax       = 200
	taskSearchDefault = 50
	taskSearchMax     = 200
)

// Task status values. Any transition between them is allowed, including
// reopening a done task.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCanceled   = "canceled"
)

var validStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusDone:       {},
	StatusCanceled:   {},
}

// NormalizeStatus canonicalizes a status string: trimmed, lowercased, with
// internal spaces collapsed to underscores ("In Progress" becomes
// "in_progress"). Values outside the enum are rejected.
func NormalizeStatus(status string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(status))
	s = strings.ReplaceAll(s, " ", "_")
	if _, ok := validStatuses[s]; !ok {
		names := make([]string, 0, len(validStatuses))
		for name := range validStatuses {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", NewError(InvalidStatus, fmt.Sprintf("invalid status: %s. Use [%s]", status, strings.Join(names, " ")))
	}
	return s, nil
}

// TaskPatch carries the optional fields of a task update. DueAt pointing at
// an empty string clears the due date.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *int
	DueAt       *string
	Tags        tags.Input
	HasTags     bool
}

// TaskFilters narrows a list query.
type TaskFilters struct {
	Status string
	Tag    string
}

// TaskRepository provides CRUD and query operations over the tasks table.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a task repository on the shared handle.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task and returns it re-read with defaults applied. A blank
// dueAt stores NULL; a blank status starts as pending; priority is clamped
// into [1,5].
func (r *TaskRepository) Create(title, description string, priority int, dueAt, status string, rawTags tags.Input) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errTitleRequired()
	}
	if strings.TrimSpace(status) == "" {
		status = StatusPending
	}
	normalized, err := NormalizeStatus(status)
	if err != nil {
		return nil, err
	}

	var due interface{}
	if strings.TrimSpace(dueAt) != "" {
		due = dueAt
	}

	res, err := r.db.Exec(
		"INSERT INTO tasks (title, description, status, priority, due_at, tags, updated_at) VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)",
		title, description, normalized, clampPriority(priority), due, tags.Normalize(rawTags),
	)
	if err != nil {
		return nil, wrapEngine("create task", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, wrapEngine("create task", err)
	}

	r.db.logger.Info("task created", "id", id, "title", title)
	return r.Get(id)
}

// Get returns a task by id.
func (r *TaskRepository) Get(id int64) (*Task, error) {
	row := r.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, errNotFound("task")
	}
	if err != nil {
		return nil, wrapEngine("get task", err)
	}
	return task, nil
}

// List returns tasks ordered by urgency: dated tasks before undated, earliest
// due first, then higher priority, then recency.
func (r *TaskRepository) List(filters TaskFilters, limit, offset int) (*Page[*Task], error) {
	lim := clampLimit(limit, taskListDefault, taskListMax)
	off := clampOffset(offset)

	var where []string
	var params []interface{}
	if filters.Status != "" {
		status, err := NormalizeStatus(filters.Status)
		if err != nil {
			return nil, err
		}
		where = append(where, "status = ?")
		params = append(params, status)
	}
	if filters.Tag != "" {
		where = append(where, "',' || tags || ',' LIKE ?")
		params = append(params, "%,"+strings.ToLower(strings.TrimSpace(filters.Tag))+",%")
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY CASE WHEN due_at IS NULL THEN 1 ELSE 0 END, due_at, priority DESC, updated_at DESC LIMIT ? OFFSET ?"
	params = append(params, lim, off)

	tasks, err := r.queryTasks(query, params...)
	if err != nil {
		return nil, err
	}
	return &Page[*Task]{Records: tasks, Count: len(tasks), NextOffset: off + len(tasks)}, nil
}

// Search matches the query against title and description, case-insensitively,
// ordered by recency.
func (r *TaskRepository) Search(query string, limit int) ([]*Task, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errEmptyQuery()
	}
	lim := clampLimit(limit, taskSearchDefault, taskSearchMax)
	pattern := "%" + query + "%"

	return r.queryTasks(
		"SELECT "+taskColumns+" FROM tasks WHERE title LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE ORDER BY updated_at DESC LIMIT ?",
		pattern, pattern, lim,
	)
}

// Update applies the present fields of patch and bumps updated_at. Status is
// validated before any write; a present DueAt with a blank value clears the
// due date to NULL.
func (r *TaskRepository) Update(id int64, patch TaskPatch) (*Task, error) {
	var fields []string
	var params []interface{}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, errTitleRequired()
		}
		fields = append(fields, "title = ?")
		params = append(params, *patch.Title)
	}
	if patch.Description != nil {
		fields = append(fields, "description = ?")
		params = append(params, *patch.Description)
	}
	if patch.Status != nil {
		status, err := NormalizeStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		fields = append(fields, "status = ?")
		params = append(params, status)
	}
	if patch.Priority != nil {
		fields = append(fields, "priority = ?")
		params = append(params, clampPriority(*patch.Priority))
	}
	if patch.DueAt != nil {
		fields = append(fields, "due_at = ?")
		if strings.TrimSpace(*patch.DueAt) == "" {
			params = append(params, nil)
		} else {
			params = append(params, *patch.DueAt)
		}
	}
	if patch.HasTags {
		fields = append(fields, "tags = ?")
		params = append(params, tags.Normalize(patch.Tags))
	}

	if len(fields) == 0 {
		return nil, errNoFields()
	}

	fields = append(fields, "updated_at = CURRENT_TIMESTAMP")
	params = append(params, id)

	res, err := r.db.Exec("UPDATE tasks SET "+strings.Join(fields, ", ")+" WHERE id = ?", params...)
	if err != nil {
		return nil, wrapEngine("update task", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, errNotFound("task")
	}
	return r.Get(id)
}

// Complete marks a task done. Completing an already-done task is a no-op that
// still bumps updated_at.
func (r *TaskRepository) Complete(id int64) (*Task, error) {
	status := StatusDone
	return r.Update(id, TaskPatch{Status: &status})
}

// Delete removes a task.
func (r *TaskRepository) Delete(id int64) error {
	res, err := r.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return wrapEngine("delete task", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errNotFound("task")
	}
	return nil
}

// ByTag returns up to limit tasks carrying the tag, in urgency order.
func (r *TaskRepository) ByTag(tag string, limit int) ([]*Task, error) {
	return r.queryTasks(
		"SELECT "+taskColumns+" FROM tasks WHERE ',' || tags || ',' LIKE ? ORDER BY CASE WHEN due_at IS NULL THEN 1 ELSE 0 END, due_at, priority DESC, updated_at DESC LIMIT ?",
		"%,"+strings.ToLower(strings.TrimSpace(tag))+",%", clampLimit(limit, taskListDefault, taskListMax),
	)
}

// ByStatus returns up to limit tasks in the given status, in urgency order.
func (r *TaskRepository) ByStatus(status string, limit int) ([]*Task, error) {
	normalized, err := NormalizeStatus(status)
	if err != nil {
		return nil, err
	}
	return r.queryTasks(
		"SELECT "+taskColumns+" FROM tasks WHERE status = ? ORDER BY CASE WHEN due_at IS NULL THEN 1 ELSE 0 END, due_at, priority DESC, updated_at DESC LIMIT ?",
		normalized, clampLimit(limit, taskListDefault, taskListMax),
	)
}

// ByPriority returns up to limit tasks at the given priority, dated first.
// Out-of-range priorities are clamped the same way writes clamp them.
func (r *TaskRepository) ByPriority(priority, limit int) ([]*Task, error) {
	return r.queryTasks(
		"SELECT "+taskColumns+" FROM tasks WHERE priority = ? ORDER BY CASE WHEN due_at IS NULL THEN 1 ELSE 0 END, due_at, updated_at DESC LIMIT ?",
		clampPriority(priority), clampLimit(limit, taskListDefault, taskListMax),
	)
}

// DueNext returns the dated tasks with the earliest due dates, regardless of
// status.
func (r *TaskRepository) DueNext(limit int) ([]*Task, error) {
	return r.queryTasks(
		"SELECT "+taskColumns+" FROM tasks WHERE due_at IS NOT NULL ORDER BY due_at LIMIT ?",
		clampLimit(limit, 5, taskListMax),
	)
}

// DueRange returns dated tasks due within [start, end], earliest first.
func (r *TaskRepository) DueRange(start, end string, limit int) ([]*Task, error) {
	return r.queryTasks(
		"SELECT "+taskColumns+" FROM tasks WHERE due_at IS NOT NULL AND due_at >= ? AND due_at <= ? ORDER BY due_at, priority DESC LIMIT ?",
		start, end, clampLimit(limit, taskListDefault, taskListMax),
	)
}

// DueSoon returns open dated tasks due at or before the cutoff, earliest
// first. Done and canceled tasks are excluded.
func (r *TaskRepository) DueSoon(cutoff string, limit int) ([]*Task, error) {
	return r.queryTasks(
		"SELECT "+taskColumns+" FROM tasks WHERE due_at IS NOT NULL AND due_at <= ? AND status NOT IN (?, ?) ORDER BY due_at, priority DESC LIMIT ?",
		cutoff, StatusDone, StatusCanceled, clampLimit(limit, taskListDefault, taskListMax),
	)
}

// StatusCounts returns the number of tasks per status, including zero
// entries for statuses with no rows.
func (r *TaskRepository) StatusCounts() (map[string]int, error) {
	rows, err := r.db.Query("SELECT status, COUNT(*) FROM tasks GROUP BY status")
	if err != nil {
		return nil, wrapEngine("count tasks", err)
	}
	defer rows.Close()

	counts := map[string]int{
		StatusPending:    0,
		StatusInProgress: 0,
		StatusDone:       0,
		StatusCanceled:   0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, wrapEngine("count tasks", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *TaskRepository) queryTasks(query string, params ...interface{}) ([]*Task, error) {
	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, wrapEngine("query tasks", err)
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, wrapEngine("scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapEngine("query tasks", err)
	}
	return tasks, nil
}
