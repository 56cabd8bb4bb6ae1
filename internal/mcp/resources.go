package mcp

import (
	"strconv"
	"strings"
)

// maxTemplateResults caps every templated resource read.
const maxTemplateResults = 100

// Resource represents a static resource
type Resource struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// ResourceTemplate represents a dynamic resource with a URI template
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
}

// GetResourceDefinitions returns static resources and resource templates
func (s *Server) GetResourceDefinitions() ([]Resource, []ResourceTemplate) {
	resources := []Resource{
		{URI: "lifeos://notes/recent", Name: "Recent Notes"},
		{URI: "lifeos://events/upcoming", Name: "Upcoming Events"},
		{URI: "lifeos://tasks/summary", Name: "Task Summary"},
		{URI: "lifeos://stats/summary", Name: "Store Statistics"},
		{URI: "lifeos://sampling/default", Name: "Default Sampling Parameters"},
		{URI: "lifeos://templates/note", Name: "Note Template"},
		{URI: "lifeos://templates/event", Name: "Event Template"},
		{URI: "lifeos://templates/task", Name: "Task Template"},
		{URI: "lifeos://elicitations/note", Name: "Note Elicitation"},
		{URI: "lifeos://elicitations/event", Name: "Event Elicitation"},
		{URI: "lifeos://elicitations/task", Name: "Task Elicitation"},
		{URI: "lifeos://prompts/note_writer", Name: "Note Writer Prompt"},
		{URI: "lifeos://prompts/task_planner", Name: "Task Planner Prompt"},
		{URI: "lifeos://prompts/meeting_summary", Name: "Meeting Summary Prompt"},
	}

	templates := []ResourceTemplate{
		{URITemplate: "lifeos://notes/{note_id}", Name: "Note"},
		{URITemplate: "lifeos://notes/tag/{tag}", Name: "Notes by Tag"},
		{URITemplate: "lifeos://notes/search/{query}", Name: "Note Search"},
		{URITemplate: "lifeos://notes/range/{start}/{end}", Name: "Notes by Creation Range"},
		{URITemplate: "lifeos://events/{event_id}", Name: "Event"},
		{URITemplate: "lifeos://events/on/{date}", Name: "Events on Date"},
		{URITemplate: "lifeos://events/range/{start}/{end}", Name: "Events in Range"},
		{URITemplate: "lifeos://events/search/{query}", Name: "Event Search"},
		{URITemplate: "lifeos://tasks/{task_id}", Name: "Task"},
		{URITemplate: "lifeos://tasks/status/{status}", Name: "Tasks by Status"},
		{URITemplate: "lifeos://tasks/tag/{tag}", Name: "Tasks by Tag"},
		{URITemplate: "lifeos://tasks/search/{query}", Name: "Task Search"},
		{URITemplate: "lifeos://tasks/due/{start}/{end}", Name: "Tasks Due in Range"},
		{URITemplate: "lifeos://tasks/priority/{priority}", Name: "Tasks by Priority"},
	}

	return resources, templates
}

// resourceError is the wire shape for resource-level failures. Resources
// never fail at the protocol layer for domain reasons; the payload carries
// the error instead so a broken store cannot take down the session.
func resourceError(message string) map[string]interface{} {
	return map[string]interface{}{"error": message}
}

// handleResourceRead routes a lifeos:// URI to its producer.
func (s *Server) handleResourceRead(uri string) interface{} {
	if !strings.HasPrefix(uri, "lifeos://") {
		return resourceError("expected lifeos:// scheme")
	}

	path := strings.TrimPrefix(uri, "lifeos://")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return resourceError("empty resource path")
	}

	switch parts[0] {
	case "notes":
		return s.readNotesResource(parts[1:])
	case "events":
		return s.readEventsResource(parts[1:])
	case "tasks":
		return s.readTasksResource(parts[1:])
	case "stats":
		return s.readStatsResource(parts[1:])
	case "sampling":
		return readSamplingResource(parts[1:])
	case "templates":
		return readTemplateResource(parts[1:])
	case "elicitations":
		return readElicitationResource(parts[1:])
	case "prompts":
		return s.readPromptResource(parts[1:])
	default:
		return resourceError("unknown resource: " + parts[0])
	}
}

func (s *Server) readNotesResource(parts []string) interface{} {
	notes, _, _, err := s.repos()
	if err != nil {
		return resourceError(err.Error())
	}

	switch {
	case len(parts) == 1 && parts[0] == "recent":
		recent, err := notes.Recent(5)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"notes": recent}

	case len(parts) == 2 && parts[0] == "tag":
		tagged, err := notes.ByTag(parts[1], maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"notes": tagged, "count": len(tagged)}

	case len(parts) == 2 && parts[0] == "search":
		results, err := notes.Search(parts[1], maxTemplateResults, true)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"notes": results, "count": len(results)}

	case len(parts) == 3 && parts[0] == "range":
		ranged, err := notes.CreatedRange(parts[1], parts[2], maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"notes": ranged, "count": len(ranged)}

	case len(parts) == 1:
		id, convErr := strconv.ParseInt(parts[0], 10, 64)
		if convErr != nil {
			return resourceError("note_id must be an integer")
		}
		note, err := notes.Get(id)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"note": note}
	}

	return resourceError("unknown notes resource")
}

func (s *Server) readEventsResource(parts []string) interface{} {
	_, events, _, err := s.repos()
	if err != nil {
		return resourceError(err.Error())
	}

	switch {
	case len(parts) == 1 && parts[0] == "upcoming":
		today := s.now().UTC().Format("2006-01-02")
		upcoming, err := events.Upcoming(today, 5)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"events": upcoming}

	case len(parts) == 2 && parts[0] == "on":
		day, err := events.On(parts[1], maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"events": day, "count": len(day)}

	case len(parts) == 3 && parts[0] == "range":
		ranged, err := events.Range(parts[1], parts[2], maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"events": ranged, "count": len(ranged)}

	case len(parts) == 2 && parts[0] == "search":
		results, err := events.Search(parts[1], maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"events": results, "count": len(results)}

	case len(parts) == 1:
		id, convErr := strconv.ParseInt(parts[0], 10, 64)
		if convErr != nil {
			return resourceError("event_id must be an integer")
		}
		event, err := events.Get(id)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"event": event}
	}

	return resourceError("unknown events resource")
}

func (s *Server) readTasksResource(parts []string) interface{} {
	_, _, tasks, err := s.repos()
	if err != nil {
		return resourceError(err.Error())
	}

	switch {
	case len(parts) == 1 && parts[0] == "summary":
		counts, err := tasks.StatusCounts()
		if err != nil {
			return resourceError(err.Error())
		}
		dueSoon, err := tasks.DueNext(5)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"counts": counts, "due_soon": dueSoon}

	case len(parts) == 2 && parts[0] == "status":
		matched, err := tasks.ByStatus(parts[1], maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"tasks": matched, "count": len(matched)}

	case len(parts) == 2 && parts[0] == "tag":
		tagged, err := tasks.ByTag(parts[1], maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"tasks": tagged, "count": len(tagged)}

	case len(parts) == 2 && parts[0] == "search":
		results, err := tasks.Search(parts[1], maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"tasks": results, "count": len(results)}

	case len(parts) == 3 && parts[0] == "due":
		ranged, err := tasks.DueRange(parts[1], parts[2], maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"tasks": ranged, "count": len(ranged)}

	case len(parts) == 2 && parts[0] == "priority":
		priority, convErr := strconv.Atoi(parts[1])
		if convErr != nil {
			return resourceError("priority must be an integer")
		}
		matched, err := tasks.ByPriority(priority, maxTemplateResults)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"tasks": matched, "count": len(matched)}

	case len(parts) == 1:
		id, convErr := strconv.ParseInt(parts[0], 10, 64)
		if convErr != nil {
			return resourceError("task_id must be an integer")
		}
		task, err := tasks.Get(id)
		if err != nil {
			return resourceError(err.Error())
		}
		return map[string]interface{}{"task": task}
	}

	return resourceError("unknown tasks resource")
}

func (s *Server) readStatsResource(parts []string) interface{} {
	if len(parts) != 1 || parts[0] != "summary" {
		return resourceError("unknown stats resource")
	}

	db, err := s.store.Acquire()
	if err != nil {
		return resourceError(err.Error())
	}
	stats, err := db.Stats()
	if err != nil {
		return resourceError(err.Error())
	}
	return map[string]interface{}{
		"notes":  stats.Notes,
		"events": stats.Events,
		"tasks":  stats.Tasks,
	}
}

// readSamplingResource returns the sampling parameters clients should use
// when generating content for this store.
func readSamplingResource(parts []string) interface{} {
	if len(parts) != 1 || parts[0] != "default" {
		return resourceError("unknown sampling resource")
	}
	return map[string]interface{}{
		"temperature": 0.2,
		"top_p":       0.9,
		"max_tokens":  512,
	}
}

// readTemplateResource returns skeleton payloads clients can fill in when
// creating records.
func readTemplateResource(parts []string) interface{} {
	if len(parts) != 1 {
		return resourceError("unknown template")
	}
	switch parts[0] {
	case "note":
		return map[string]interface{}{
			"title":   "<title>",
			"content": "<content>",
			"tags":    []string{"tag1", "tag2"},
			"pinned":  false,
		}
	case "event":
		return map[string]interface{}{
			"title":       "<title>",
			"start":       "<ISO-8601>",
			"end":         "<ISO-8601>",
			"location":    "<location>",
			"description": "<details>",
			"all_day":     false,
		}
	case "task":
		return map[string]interface{}{
			"title":       "<title>",
			"description": "<details>",
			"due_at":      "<ISO-8601 or YYYY-MM-DD>",
			"priority":    3,
			"status":      "pending",
			"tags":        []string{"tag1", "tag2"},
		}
	}
	return resourceError("unknown template: " + parts[0])
}

// readElicitationResource returns the follow-up questions a client should
// ask before creating a record of each kind.
func readElicitationResource(parts []string) interface{} {
	if len(parts) != 1 {
		return resourceError("unknown elicitation")
	}
	switch parts[0] {
	case "note":
		return map[string]interface{}{
			"questions": []string{
				"What is the main idea?",
				"Any follow-up actions?",
			},
		}
	case "task":
		return map[string]interface{}{
			"questions": []string{
				"What is the desired outcome?",
				"Is there a due date or priority?",
				"Any dependencies or blockers?",
			},
		}
	case "event":
		return map[string]interface{}{
			"questions": []string{
				"Where is the event?",
				"Is it all-day or time-specific?",
				"Any preparation notes or agenda?",
			},
		}
	}
	return resourceError("unknown elicitation: " + parts[0])
}

func (s *Server) readPromptResource(parts []string) interface{} {
	if len(parts) != 1 {
		return resourceError("unknown prompt")
	}
	text, ok := promptTexts[parts[0]]
	if !ok {
		return resourceError("unknown prompt: " + parts[0])
	}
	return map[string]interface{}{"prompt": text}
}
