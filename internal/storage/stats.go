package storage

// Stats summarizes the store for health and info surfaces.
type Stats struct {
	Path   string         `json:"path"`
	Notes  int            `json:"notes"`
	Events int            `json:"events"`
	Tasks  int            `json:"tasks"`
	ByTask map[string]int `json:"tasks_by_status"`
}

// Stats counts the rows in each table.
func (db *DB) Stats() (*Stats, error) {
	s := &Stats{Path: db.dbPath}

	counts := []struct {
		table string
		dest  *int
	}{
		{"notes", &s.Notes},
		{"events", &s.Events},
		{"tasks", &s.Tasks},
	}
	for _, c := range counts {
		if err := db.conn.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dest); err != nil {
			return nil, wrapEngine("count "+c.table, err)
		}
	}

	byStatus, err := NewTaskRepository(db).StatusCounts()
	if err != nil {
		return nil, err
	}
	s.ByTask = byStatus
	return s, nil
}
