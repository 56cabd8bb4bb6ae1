package mcp

import (
	"lifeos/internal/storage"
)

func (s *Server) toolCreateNote(params map[string]interface{}) (interface{}, error) {
	notes, _, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	rawTags, _ := tagsParam(params, "tags")
	note, err := notes.Create(
		stringParam(params, "title", ""),
		stringParam(params, "content", ""),
		rawTags,
		boolParam(params, "pinned", false),
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "note": note}, nil
}

func (s *Server) toolGetNote(params map[string]interface{}) (interface{}, error) {
	notes, _, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	note, err := notes.Get(idParam(params, "note_id"))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"note": note}, nil
}

func (s *Server) toolListNotes(params map[string]interface{}) (interface{}, error) {
	notes, _, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	page, err := notes.List(
		storage.NoteFilters{
			Tag:        stringParam(params, "tag", ""),
			PinnedOnly: boolParam(params, "pinned_only", false),
		},
		intParam(params, "limit", 0),
		intParam(params, "offset", 0),
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"notes":       page.Records,
		"count":       page.Count,
		"next_offset": page.NextOffset,
	}, nil
}

func (s *Server) toolSearchNotes(params map[string]interface{}) (interface{}, error) {
	notes, _, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	results, err := notes.Search(
		stringParam(params, "query", ""),
		intParam(params, "limit", 0),
		boolParam(params, "in_content", true),
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"results": results}, nil
}

func (s *Server) toolUpdateNote(params map[string]interface{}) (interface{}, error) {
	notes, _, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	patch := storage.NotePatch{
		Title:   stringPtrParam(params, "title"),
		Content: stringPtrParam(params, "content"),
		Pinned:  boolPtrParam(params, "pinned"),
	}
	patch.Tags, patch.HasTags = tagsParam(params, "tags")

	note, err := notes.Update(idParam(params, "note_id"), patch)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "note": note}, nil
}

func (s *Server) toolDeleteNote(params map[string]interface{}) (interface{}, error) {
	notes, _, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	id := idParam(params, "note_id")
	if err := notes.Delete(id); err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "deleted": id}, nil
}

func (s *Server) toolAddNoteTags(params map[string]interface{}) (interface{}, error) {
	notes, _, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	rawTags, _ := tagsParam(params, "tags")
	note, err := notes.AddTags(idParam(params, "note_id"), rawTags)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "note": note}, nil
}

func (s *Server) toolRemoveNoteTags(params map[string]interface{}) (interface{}, error) {
	notes, _, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	rawTags, _ := tagsParam(params, "tags")
	note, err := notes.RemoveTags(idParam(params, "note_id"), rawTags)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "note": note}, nil
}
