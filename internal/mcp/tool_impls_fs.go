package mcp

func (s *Server) toolSearchFiles(params map[string]interface{}) (interface{}, error) {
	result, err := s.fs.Search(
		stringParam(params, "query", ""),
		stringParam(params, "root", "."),
		intParam(params, "limit", 0),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Server) toolListDir(params map[string]interface{}) (interface{}, error) {
	result, err := s.fs.List(
		stringParam(params, "path", "."),
		intParam(params, "limit", 0),
		boolParam(params, "include_hidden", false),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Server) toolReadFile(params map[string]interface{}) (interface{}, error) {
	result, err := s.fs.Read(
		stringParam(params, "path", ""),
		int64(intParam(params, "max_bytes", 0)),
		stringParam(params, "encoding", "utf-8"),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
