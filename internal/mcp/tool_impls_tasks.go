package mcp

import (
	"lifeos/internal/storage"
)

func (s *Server) toolCreateTask(params map[string]interface{}) (interface{}, error) {
	_, _, tasks, err := s.repos()
	if err != nil {
		return nil, err
	}

	rawTags, _ := tagsParam(params, "tags")
	task, err := tasks.Create(
		stringParam(params, "title", ""),
		stringParam(params, "description", ""),
		intParam(params, "priority", 3),
		stringParam(params, "due_at", ""),
		stringParam(params, "status", storage.StatusPending),
		rawTags,
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "task": task}, nil
}

func (s *Server) toolGetTask(params map[string]interface{}) (interface{}, error) {
	_, _, tasks, err := s.repos()
	if err != nil {
		return nil, err
	}

	task, err := tasks.Get(idParam(params, "task_id"))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"task": task}, nil
}

func (s *Server) toolListTasks(params map[string]interface{}) (interface{}, error) {
	_, _, tasks, err := s.repos()
	if err != nil {
		return nil, err
	}

	page, err := tasks.List(
		storage.TaskFilters{
			Status: stringParam(params, "status", ""),
			Tag:    stringParam(params, "tag", ""),
		},
		intParam(params, "limit", 0),
		intParam(params, "offset", 0),
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"tasks":       page.Records,
		"count":       page.Count,
		"next_offset": page.NextOffset,
	}, nil
}

func (s *Server) toolSearchTasks(params map[string]interface{}) (interface{}, error) {
	_, _, tasks, err := s.repos()
	if err != nil {
		return nil, err
	}

	results, err := tasks.Search(
		stringParam(params, "query", ""),
		intParam(params, "limit", 0),
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"results": results}, nil
}

func (s *Server) toolUpdateTask(params map[string]interface{}) (interface{}, error) {
	_, _, tasks, err := s.repos()
	if err != nil {
		return nil, err
	}

	patch := storage.TaskPatch{
		Title:       stringPtrParam(params, "title"),
		Description: stringPtrParam(params, "description"),
		Status:      stringPtrParam(params, "status"),
		Priority:    intPtrParam(params, "priority"),
		DueAt:       stringPtrParam(params, "due_at"),
	}
	patch.Tags, patch.HasTags = tagsParam(params, "tags")

	task, err := tasks.Update(idParam(params, "task_id"), patch)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "task": task}, nil
}

func (s *Server) toolCompleteTask(params map[string]interface{}) (interface{}, error) {
	_, _, tasks, err := s.repos()
	if err != nil {
		return nil, err
	}

	task, err := tasks.Complete(idParam(params, "task_id"))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "task": task}, nil
}

func (s *Server) toolDeleteTask(params map[string]interface{}) (interface{}, error) {
	_, _, tasks, err := s.repos()
	if err != nil {
		return nil, err
	}

	id := idParam(params, "task_id")
	if err := tasks.Delete(id); err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "deleted": id}, nil
}
