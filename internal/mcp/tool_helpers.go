package mcp

import (
	"encoding/json"
	"strconv"

	"lifeos/internal/tags"
)

// ToolHandler executes one tool call. Returned errors are folded into the
// tool payload, not surfaced as protocol errors.
type ToolHandler func(params map[string]interface{}) (interface{}, error)

// stringParam extracts a string argument, falling back to def when absent or
// the wrong type.
func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return def
}

// stringPtrParam extracts an optional string argument, distinguishing absent
// (nil) from present-but-empty.
func stringPtrParam(params map[string]interface{}, key string) *string {
	if v, ok := params[key].(string); ok {
		return &v
	}
	return nil
}

// intParam extracts an integer argument. JSON numbers arrive as float64.
func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// intPtrParam extracts an optional integer argument.
func intPtrParam(params map[string]interface{}, key string) *int {
	if _, ok := params[key]; !ok {
		return nil
	}
	n := intParam(params, key, 0)
	return &n
}

// idParam extracts a record id. Zero means absent or unparseable.
func idParam(params map[string]interface{}, key string) int64 {
	return int64(intParam(params, key, 0))
}

// boolParam extracts a boolean argument.
func boolParam(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

// boolPtrParam extracts an optional boolean argument.
func boolPtrParam(params map[string]interface{}, key string) *bool {
	if v, ok := params[key].(bool); ok {
		return &v
	}
	return nil
}

// tagsParam extracts a tags argument, which may be a string, a list, or
// absent. The second return reports presence so updates can distinguish
// "clear tags" from "leave unchanged".
func tagsParam(params map[string]interface{}, key string) (tags.Input, bool) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, ok
	}
	return v, true
}
