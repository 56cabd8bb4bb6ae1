package mcp

import (
	"fmt"
	"strings"
)

// Prompt describes a reusable prompt exposed via prompts/list.
type Prompt struct {
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one prompt input.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// PromptMessage is one message of an assembled prompt.
type PromptMessage struct {
	Role    string        `json:"role"`
	Content PromptContent `json:"content"`
}

// PromptContent is the text content of a prompt message.
type PromptContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var promptTexts = map[string]string{
	"note_writer":     "Write clear, concise, searchable personal notes.",
	"task_planner":    "Turn goals into actionable tasks with priorities, due dates, and tags. Keep tasks small and well-scoped.",
	"meeting_summary": "Summarize a meeting into key decisions, action items, and follow-ups. Create tasks for each action item.",
}

// GetPromptDefinitions returns all prompt definitions
func (s *Server) GetPromptDefinitions() []Prompt {
	return []Prompt{
		{
			Name:        "note_writer",
			Title:       "Note Writer",
			Description: promptTexts["note_writer"],
			Arguments: []PromptArgument{
				{Name: "notes", Description: "Raw notes to rework", Required: false},
				{Name: "audience", Description: "Who the note is for", Required: false},
			},
		},
		{
			Name:        "task_planner",
			Title:       "Task Planner",
			Description: promptTexts["task_planner"],
			Arguments: []PromptArgument{
				{Name: "goals", Description: "Goals to break down", Required: false},
				{Name: "constraints", Description: "Time or resource constraints", Required: false},
			},
		},
		{
			Name:        "meeting_summary",
			Title:       "Meeting Summary",
			Description: promptTexts["meeting_summary"],
			Arguments: []PromptArgument{
				{Name: "transcript", Description: "Meeting transcript or raw notes", Required: false},
				{Name: "attendees", Description: "Who attended", Required: false},
			},
		},
	}
}

// handleGetPromptRequest assembles a prompt with the given arguments
func (s *Server) handleGetPromptRequest(msg *Message) *Message {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object", nil)
	}

	name, ok := params["name"].(string)
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: missing prompt name", nil)
	}

	args, ok := params["arguments"].(map[string]interface{})
	if !ok {
		args = make(map[string]interface{})
	}

	messages, err := buildPromptMessages(name, args)
	if err != nil {
		return NewErrorMessage(msg.Id, InvalidParams, err.Error(), nil)
	}

	return NewResultMessage(msg.Id, map[string]interface{}{
		"description": promptTexts[name],
		"messages":    messages,
	})
}

func buildPromptMessages(name string, args map[string]interface{}) ([]PromptMessage, error) {
	arg := func(key string) string {
		if v, ok := args[key].(string); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}

	switch name {
	case "note_writer":
		audience := arg("audience")
		if audience == "" {
			audience = "self"
		}
		user := fmt.Sprintf("%s\nAudience: %s", promptTexts[name], audience)
		if notes := arg("notes"); notes != "" {
			user += "\nNotes:\n" + notes
		}
		return promptPair("You are a LifeOS writing assistant.", user), nil

	case "task_planner":
		goals := arg("goals")
		if goals == "" {
			goals = "No specific goals provided."
		}
		user := fmt.Sprintf("%s\nGoals: %s", promptTexts[name], goals)
		if constraints := arg("constraints"); constraints != "" {
			user += "\nConstraints: " + constraints
		}
		return promptPair("You are a LifeOS planning assistant.", user), nil

	case "meeting_summary":
		transcript := arg("transcript")
		if transcript == "" {
			transcript = "No transcript provided."
		}
		user := promptTexts[name]
		if attendees := arg("attendees"); attendees != "" {
			user += "\nAttendees: " + attendees
		}
		user += "\nTranscript:\n" + transcript
		return promptPair("You are a LifeOS meeting assistant.", user), nil
	}

	return nil, fmt.Errorf("unknown prompt: %s", name)
}

func promptPair(system, user string) []PromptMessage {
	return []PromptMessage{
		{Role: "system", Content: PromptContent{Type: "text", Text: system}},
		{Role: "user", Content: PromptContent{Type: "text", Text: user}},
	}
}
