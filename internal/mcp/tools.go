package mcp

// Tool represents a LifeOS tool exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// RegisterTools wires every tool name to its handler
func (s *Server) RegisterTools() {
	s.tools["health"] = s.toolHealth
	s.tools["ping"] = s.toolPing
	s.tools["server_info"] = s.toolServerInfo

	s.tools["create_note"] = s.toolCreateNote
	s.tools["get_note"] = s.toolGetNote
	s.tools["list_notes"] = s.toolListNotes
	s.tools["search_notes"] = s.toolSearchNotes
	s.tools["update_note"] = s.toolUpdateNote
	s.tools["delete_note"] = s.toolDeleteNote
	s.tools["add_note_tags"] = s.toolAddNoteTags
	s.tools["remove_note_tags"] = s.toolRemoveNoteTags

	s.tools["create_event"] = s.toolCreateEvent
	s.tools["get_event"] = s.toolGetEvent
	s.tools["list_events"] = s.toolListEvents
	s.tools["search_events"] = s.toolSearchEvents
	s.tools["list_upcoming_events"] = s.toolListUpcomingEvents
	s.tools["update_event"] = s.toolUpdateEvent
	s.tools["delete_event"] = s.toolDeleteEvent

	s.tools["create_task"] = s.toolCreateTask
	s.tools["get_task"] = s.toolGetTask
	s.tools["list_tasks"] = s.toolListTasks
	s.tools["search_tasks"] = s.toolSearchTasks
	s.tools["update_task"] = s.toolUpdateTask
	s.tools["complete_task"] = s.toolCompleteTask
	s.tools["delete_task"] = s.toolDeleteTask

	s.tools["search_files"] = s.toolSearchFiles
	s.tools["list_dir"] = s.toolListDir
	s.tools["read_file"] = s.toolReadFile
}

func idProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": desc,
	}
}

func tagsProperty() map[string]interface{} {
	return map[string]interface{}{
		"description": "Tags as a list or a comma/semicolon separated string",
	}
}

// GetToolDefinitions returns all tool definitions
func (s *Server) GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "health",
			Description: "Service health payload (works on both stdio and HTTP transports)",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "ping",
			Description: "Simple connectivity check",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "server_info",
			Description: "Basic server metadata: name, transport, host, port",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "create_note",
			Description: "Create a new note",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":   map[string]interface{}{"type": "string", "description": "Note title (required, non-blank)"},
					"content": map[string]interface{}{"type": "string", "description": "Note body"},
					"tags":    tagsProperty(),
					"pinned":  map[string]interface{}{"type": "boolean", "default": false},
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        "get_note",
			Description: "Get a note by ID",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"note_id": idProperty("Note ID"),
				},
				"required": []string{"note_id"},
			},
		},
		{
			Name:        "list_notes",
			Description: "List notes, pinned first then most recently updated, optionally filtered by tag or pinned status",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit":       map[string]interface{}{"type": "integer", "default": 50, "maximum": 200},
					"offset":      map[string]interface{}{"type": "integer", "default": 0},
					"tag":         map[string]interface{}{"type": "string", "description": "Only notes carrying this tag"},
					"pinned_only": map[string]interface{}{"type": "boolean", "default": false},
				},
			},
		},
		{
			Name:        "search_notes",
			Description: "Search notes by title (and optionally content), case-insensitive substring match",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query":      map[string]interface{}{"type": "string"},
					"limit":      map[string]interface{}{"type": "integer", "default": 20, "maximum": 100},
					"in_content": map[string]interface{}{"type": "boolean", "default": true},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "update_note",
			Description: "Update note fields; omitted fields are left unchanged",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"note_id": idProperty("Note ID"),
					"title":   map[string]interface{}{"type": "string"},
					"content": map[string]interface{}{"type": "string"},
					"tags":    tagsProperty(),
					"pinned":  map[string]interface{}{"type": "boolean"},
				},
				"required": []string{"note_id"},
			},
		},
		{
			Name:        "delete_note",
			Description: "Delete a note by ID",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"note_id": idProperty("Note ID"),
				},
				"required": []string{"note_id"},
			},
		},
		{
			Name:        "add_note_tags",
			Description: "Merge tags into a note's existing tag set",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"note_id": idProperty("Note ID"),
					"tags":    tagsProperty(),
				},
				"required": []string{"note_id", "tags"},
			},
		},
		{
			Name:        "remove_note_tags",
			Description: "Remove tags from a note; absent tags are ignored",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"note_id": idProperty("Note ID"),
					"tags":    tagsProperty(),
				},
				"required": []string{"note_id", "tags"},
			},
		},
		{
			Name:        "create_event",
			Description: "Create a calendar event. Start and end are stored as given (ISO-8601 recommended)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":       map[string]interface{}{"type": "string"},
					"start":       map[string]interface{}{"type": "string", "description": "Start date/time"},
					"end":         map[string]interface{}{"type": "string", "description": "End date/time"},
					"location":    map[string]interface{}{"type": "string"},
					"description": map[string]interface{}{"type": "string"},
					"all_day":     map[string]interface{}{"type": "boolean", "default": false},
				},
				"required": []string{"title", "start", "end"},
			},
		},
		{
			Name:        "get_event",
			Description: "Get an event by ID",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"event_id": idProperty("Event ID"),
				},
				"required": []string{"event_id"},
			},
		},
		{
			Name:        "list_events",
			Description: "List events in chronological start order",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit":  map[string]interface{}{"type": "integer", "default": 100, "maximum": 500},
					"offset": map[string]interface{}{"type": "integer", "default": 0},
					"from":   map[string]interface{}{"type": "string", "description": "Only events starting at or after this instant"},
					"to":     map[string]interface{}{"type": "string", "description": "Only events starting at or before this instant"},
				},
			},
		},
		{
			Name:        "search_events",
			Description: "Search events by title, location, or description",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{"type": "string"},
					"limit": map[string]interface{}{"type": "integer", "default": 50, "maximum": 200},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "list_upcoming_events",
			Description: "List events starting today or later, soonest first",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{"type": "integer", "default": 20, "maximum": 200},
				},
			},
		},
		{
			Name:        "update_event",
			Description: "Update event fields; omitted fields are left unchanged",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"event_id":    idProperty("Event ID"),
					"title":       map[string]interface{}{"type": "string"},
					"start":       map[string]interface{}{"type": "string"},
					"end":         map[string]interface{}{"type": "string"},
					"location":    map[string]interface{}{"type": "string"},
					"description": map[string]interface{}{"type": "string"},
					"all_day":     map[string]interface{}{"type": "boolean"},
				},
				"required": []string{"event_id"},
			},
		},
		{
			Name:        "delete_event",
			Description: "Delete an event by ID",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"event_id": idProperty("Event ID"),
				},
				"required": []string{"event_id"},
			},
		},
		{
			Name:        "create_task",
			Description: "Create a task (status defaults to pending, priority 1-5, default 3)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":       map[string]interface{}{"type": "string"},
					"description": map[string]interface{}{"type": "string"},
					"priority":    map[string]interface{}{"type": "integer", "default": 3, "minimum": 1, "maximum": 5},
					"due_at":      map[string]interface{}{"type": "string", "description": "Due date/time; blank means no due date"},
					"status":      map[string]interface{}{"type": "string", "enum": []string{"pending", "in_progress", "done", "canceled"}, "default": "pending"},
					"tags":        tagsProperty(),
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        "get_task",
			Description: "Get a task by ID",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": idProperty("Task ID"),
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "list_tasks",
			Description: "List tasks in urgency order: dated before undated, earliest due first, then priority",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit":  map[string]interface{}{"type": "integer", "default": 100, "maximum": 200},
					"offset": map[string]interface{}{"type": "integer", "default": 0},
					"status": map[string]interface{}{"type": "string", "enum": []string{"pending", "in_progress", "done", "canceled"}},
					"tag":    map[string]interface{}{"type": "string"},
				},
			},
		},
		{
			Name:        "search_tasks",
			Description: "Search tasks by title or description",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{"type": "string"},
					"limit": map[string]interface{}{"type": "integer", "default": 50, "maximum": 200},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "update_task",
			Description: "Update task fields; omitted fields are left unchanged. A blank due_at clears the due date",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id":     idProperty("Task ID"),
					"title":       map[string]interface{}{"type": "string"},
					"description": map[string]interface{}{"type": "string"},
					"status":      map[string]interface{}{"type": "string", "enum": []string{"pending", "in_progress", "done", "canceled"}},
					"priority":    map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 5},
					"due_at":      map[string]interface{}{"type": "string"},
					"tags":        tagsProperty(),
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as done",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": idProperty("Task ID"),
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "delete_task",
			Description: "Delete a task by ID",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": idProperty("Task ID"),
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "search_files",
			Description: "Search files by name under an allow-listed root",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{"type": "string", "description": "Case-insensitive substring of the file name"},
					"root":  map[string]interface{}{"type": "string", "default": "."},
					"limit": map[string]interface{}{"type": "integer", "default": 25, "maximum": 100},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "list_dir",
			Description: "List entries of an allow-listed directory, directories first",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           map[string]interface{}{"type": "string", "default": "."},
					"limit":          map[string]interface{}{"type": "integer", "default": 500},
					"include_hidden": map[string]interface{}{"type": "boolean", "default": false},
				},
			},
		},
		{
			Name:        "read_file",
			Description: "Read a file from an allow-listed path, bounded by max_bytes",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      map[string]interface{}{"type": "string"},
					"max_bytes": map[string]interface{}{"type": "integer", "description": "Read at most this many bytes"},
					"encoding":  map[string]interface{}{"type": "string", "default": "utf-8", "description": "utf-8 or base64"},
				},
				"required": []string{"path"},
			},
		},
	}
}
