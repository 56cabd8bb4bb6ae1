package mcp

func (s *Server) toolHealth(params map[string]interface{}) (interface{}, error) {
	return map[string]interface{}{
		"status":  "ok",
		"service": s.info.Name,
	}, nil
}

func (s *Server) toolPing(params map[string]interface{}) (interface{}, error) {
	return map[string]interface{}{
		"result": "pong",
	}, nil
}

func (s *Server) toolServerInfo(params map[string]interface{}) (interface{}, error) {
	return s.info, nil
}
