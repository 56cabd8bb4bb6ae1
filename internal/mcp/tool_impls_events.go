package mcp

import (
	"lifeos/internal/storage"
)

func (s *Server) toolCreateEvent(params map[string]interface{}) (interface{}, error) {
	_, events, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	event, err := events.Create(
		stringParam(params, "title", ""),
		stringParam(params, "start", ""),
		stringParam(params, "end", ""),
		stringParam(params, "location", ""),
		stringParam(params, "description", ""),
		boolParam(params, "all_day", false),
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "event": event}, nil
}

func (s *Server) toolGetEvent(params map[string]interface{}) (interface{}, error) {
	_, events, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	event, err := events.Get(idParam(params, "event_id"))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"event": event}, nil
}

func (s *Server) toolListEvents(params map[string]interface{}) (interface{}, error) {
	_, events, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	page, err := events.List(
		storage.EventFilters{
			From: stringParam(params, "from", ""),
			To:   stringParam(params, "to", ""),
		},
		intParam(params, "limit", 0),
		intParam(params, "offset", 0),
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"events":      page.Records,
		"count":       page.Count,
		"next_offset": page.NextOffset,
	}, nil
}

func (s *Server) toolSearchEvents(params map[string]interface{}) (interface{}, error) {
	_, events, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	results, err := events.Search(
		stringParam(params, "query", ""),
		intParam(params, "limit", 0),
	)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"results": results}, nil
}

func (s *Server) toolListUpcomingEvents(params map[string]interface{}) (interface{}, error) {
	_, events, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	// The cutoff is today's date so events later today still count as
	// upcoming.
	today := s.now().UTC().Format("2006-01-02")
	upcoming, err := events.Upcoming(today, intParam(params, "limit", 0))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"events": upcoming,
		"count":  len(upcoming),
	}, nil
}

func (s *Server) toolUpdateEvent(params map[string]interface{}) (interface{}, error) {
	_, events, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	patch := storage.EventPatch{
		Title:       stringPtrParam(params, "title"),
		Start:       stringPtrParam(params, "start"),
		End:         stringPtrParam(params, "end"),
		Location:    stringPtrParam(params, "location"),
		Description: stringPtrParam(params, "description"),
		AllDay:      boolPtrParam(params, "all_day"),
	}

	event, err := events.Update(idParam(params, "event_id"), patch)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "event": event}, nil
}

func (s *Server) toolDeleteEvent(params map[string]interface{}) (interface{}, error) {
	_, events, _, err := s.repos()
	if err != nil {
		return nil, err
	}

	id := idParam(params, "event_id")
	if err := events.Delete(id); err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok", "deleted": id}, nil
}
