package mcp

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestResourcesList(t *testing.T) {
	s := newTestServer(t)

	resp := s.HandleMessage(request("resources/list", nil))
	if resp == nil || resp.Error != nil {
		t.Fatalf("resources/list failed: %+v", resp)
	}

	result := resp.Result.(map[string]interface{})
	resources := result["resources"].([]Resource)
	templates := result["resourceTemplates"].([]ResourceTemplate)

	if len(resources) != 14 {
		t.Errorf("Expected 14 static resources, got %d", len(resources))
	}
	if len(templates) != 14 {
		t.Errorf("Expected 14 resource templates, got %d", len(templates))
	}
	for _, r := range resources {
		if !strings.HasPrefix(r.URI, "lifeos://") {
			t.Errorf("Resource %s lacks lifeos:// scheme", r.URI)
		}
	}
}

func TestReadStaticResources(t *testing.T) {
	s := newTestServer(t)
	s.SetClock(func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	})

	callTool(t, s, "create_note", map[string]interface{}{"title": "n1"})
	callTool(t, s, "create_event", map[string]interface{}{
		"title": "e1", "start": "2026-09-02T10:00", "end": "2026-09-02T11:00",
	})
	callTool(t, s, "create_task", map[string]interface{}{"title": "t1", "due_at": "2026-09-04"})

	recent := readResource(t, s, "lifeos://notes/recent")
	if len(recent["notes"].([]interface{})) != 1 {
		t.Errorf("notes/recent: %v", recent)
	}

	upcoming := readResource(t, s, "lifeos://events/upcoming")
	if len(upcoming["events"].([]interface{})) != 1 {
		t.Errorf("events/upcoming: %v", upcoming)
	}

	summary := readResource(t, s, "lifeos://tasks/summary")
	counts := summary["counts"].(map[string]interface{})
	if counts["pending"].(float64) != 1 {
		t.Errorf("tasks/summary counts: %v", counts)
	}
	if len(summary["due_soon"].([]interface{})) != 1 {
		t.Errorf("tasks/summary due_soon: %v", summary)
	}

	stats := readResource(t, s, "lifeos://stats/summary")
	if stats["notes"].(float64) != 1 || stats["events"].(float64) != 1 || stats["tasks"].(float64) != 1 {
		t.Errorf("stats/summary: %v", stats)
	}

	sampling := readResource(t, s, "lifeos://sampling/default")
	if sampling["temperature"].(float64) != 0.2 || sampling["max_tokens"].(float64) != 512 {
		t.Errorf("sampling/default: %v", sampling)
	}
}

func TestReadTemplatedResources(t *testing.T) {
	s := newTestServer(t)

	created := callTool(t, s, "create_note", map[string]interface{}{
		"title": "Tagged", "tags": "work",
	})
	id := created["note"].(map[string]interface{})["id"].(float64)

	byId := readResource(t, s, "lifeos://notes/1")
	if byId["note"].(map[string]interface{})["id"].(float64) != id {
		t.Errorf("notes/{id}: %v", byId)
	}

	byTag := readResource(t, s, "lifeos://notes/tag/WORK")
	if byTag["count"].(float64) != 1 {
		t.Errorf("notes/tag: %v", byTag)
	}

	bySearch := readResource(t, s, "lifeos://notes/search/tagg")
	if bySearch["count"].(float64) != 1 {
		t.Errorf("notes/search: %v", bySearch)
	}

	callTool(t, s, "create_task", map[string]interface{}{
		"title": "p5", "priority": float64(5), "tags": "work", "due_at": "2026-09-10",
	})
	byPriority := readResource(t, s, "lifeos://tasks/priority/5")
	if byPriority["count"].(float64) != 1 {
		t.Errorf("tasks/priority: %v", byPriority)
	}
	byStatus := readResource(t, s, "lifeos://tasks/status/pending")
	if byStatus["count"].(float64) != 1 {
		t.Errorf("tasks/status: %v", byStatus)
	}
	dueRange := readResource(t, s, "lifeos://tasks/due/2026-09-01/2026-09-30")
	if dueRange["count"].(float64) != 1 {
		t.Errorf("tasks/due: %v", dueRange)
	}

	callTool(t, s, "create_event", map[string]interface{}{
		"title": "overlap", "start": "2026-09-02T10:00", "end": "2026-09-02T11:00",
	})
	overlap := readResource(t, s, "lifeos://events/range/2026-09-02/2026-09-03")
	if overlap["count"].(float64) != 1 {
		t.Errorf("events/range: %v", overlap)
	}
	onDay := readResource(t, s, "lifeos://events/on/2026-09-02")
	if onDay["count"].(float64) != 1 {
		t.Errorf("events/on: %v", onDay)
	}
}

func TestResourceErrorPayloads(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		uri  string
		want string
	}{
		{"other://notes/recent", "expected lifeos:// scheme"},
		{"lifeos://bogus/thing", "unknown resource: bogus"},
		{"lifeos://notes/abc", "note_id must be an integer"},
		{"lifeos://notes/999", "note not found"},
		{"lifeos://tasks/priority/high", "priority must be an integer"},
		{"lifeos://tasks/status/blocked", "invalid status: blocked. Use [canceled done in_progress pending]"},
	}
	for _, tt := range tests {
		payload := readResource(t, s, tt.uri)
		got, _ := payload["error"].(string)
		if got != tt.want {
			t.Errorf("%s: error = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestReadTemplateAndElicitationResources(t *testing.T) {
	s := newTestServer(t)

	note := readResource(t, s, "lifeos://templates/note")
	if note["title"] != "<title>" {
		t.Errorf("templates/note: %v", note)
	}
	task := readResource(t, s, "lifeos://templates/task")
	if task["status"] != "pending" || task["priority"].(float64) != 3 {
		t.Errorf("templates/task: %v", task)
	}

	elicit := readResource(t, s, "lifeos://elicitations/task")
	if len(elicit["questions"].([]interface{})) != 3 {
		t.Errorf("elicitations/task: %v", elicit)
	}

	prompt := readResource(t, s, "lifeos://prompts/note_writer")
	if prompt["prompt"] != promptTexts["note_writer"] {
		t.Errorf("prompts/note_writer: %v", prompt)
	}
}

func TestPromptsListAndGet(t *testing.T) {
	s := newTestServer(t)

	resp := s.HandleMessage(request("prompts/list", nil))
	if resp == nil || resp.Error != nil {
		t.Fatalf("prompts/list failed: %+v", resp)
	}
	prompts := resp.Result.(map[string]interface{})["prompts"].([]Prompt)
	if len(prompts) != 3 {
		t.Errorf("Expected 3 prompts, got %d", len(prompts))
	}

	resp = s.HandleMessage(request("prompts/get", map[string]interface{}{
		"name": "task_planner",
		"arguments": map[string]interface{}{
			"goals":       "learn go",
			"constraints": "one hour a day",
		},
	}))
	if resp == nil || resp.Error != nil {
		t.Fatalf("prompts/get failed: %+v", resp)
	}
	result := resp.Result.(map[string]interface{})
	messages := result["messages"].([]PromptMessage)
	if len(messages) != 2 || messages[0].Role != "system" || messages[1].Role != "user" {
		t.Fatalf("Unexpected messages: %+v", messages)
	}
	if !strings.Contains(messages[1].Content.Text, "learn go") ||
		!strings.Contains(messages[1].Content.Text, "Constraints: one hour a day") {
		t.Errorf("Arguments not folded into prompt: %q", messages[1].Content.Text)
	}

	resp = s.HandleMessage(request("prompts/get", map[string]interface{}{"name": "nope"}))
	if resp.Error == nil || resp.Error.Code != InvalidParams {
		t.Errorf("Expected InvalidParams for unknown prompt, got %+v", resp)
	}
}

func TestStdioLoop(t *testing.T) {
	s := newTestServer(t)

	lines := []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"ping","arguments":{}}}`,
	}
	var out bytes.Buffer
	s.SetStdin(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	s.SetStdout(&out)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	responses := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(responses) != 2 {
		t.Fatalf("Expected 2 responses (notification is silent), got %d: %v", len(responses), responses)
	}

	var first Message
	if err := json.Unmarshal([]byte(responses[0]), &first); err != nil {
		t.Fatalf("First response is not JSON: %v", err)
	}
	if first.Jsonrpc != "2.0" || first.Error != nil {
		t.Errorf("Unexpected first response: %+v", first)
	}

	var second Message
	if err := json.Unmarshal([]byte(responses[1]), &second); err != nil {
		t.Fatalf("Second response is not JSON: %v", err)
	}
	result := second.Result.(map[string]interface{})
	content := result["content"].([]interface{})
	text := content[0].(map[string]interface{})["text"].(string)
	if !strings.Contains(text, "pong") {
		t.Errorf("Expected pong payload, got %q", text)
	}
}
