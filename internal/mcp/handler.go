package mcp

import (
	"encoding/json"
	"fmt"

	"lifeos/internal/storage"
)

// HandleMessage processes an incoming MCP message and returns a response, or
// nil when the message requires none. Exported so the HTTP transport can
// dispatch through the same path as the stdio loop.
func (s *Server) HandleMessage(msg *Message) *Message {
	if msg.IsRequest() {
		return s.handleRequest(msg)
	}

	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}

	return NewErrorMessage(msg.Id, InvalidRequest, "Invalid message: not a request or notification", nil)
}

// handleRequest handles a JSON-RPC request
func (s *Server) handleRequest(msg *Message) *Message {
	s.logger.Debug("Handling request",
		"method", msg.Method,
		"id", msg.Id,
	)

	switch msg.Method {
	case "initialize":
		return NewResultMessage(msg.Id, s.handleInitialize())
	case "ping":
		return NewResultMessage(msg.Id, map[string]interface{}{})
	case "tools/list":
		return NewResultMessage(msg.Id, map[string]interface{}{
			"tools": s.GetToolDefinitions(),
		})
	case "tools/call":
		return s.handleCallToolRequest(msg)
	case "resources/list":
		resources, templates := s.GetResourceDefinitions()
		return NewResultMessage(msg.Id, map[string]interface{}{
			"resources":         resources,
			"resourceTemplates": templates,
		})
	case "resources/read":
		return s.handleReadResourceRequest(msg)
	case "prompts/list":
		return NewResultMessage(msg.Id, map[string]interface{}{
			"prompts": s.GetPromptDefinitions(),
		})
	case "prompts/get":
		return s.handleGetPromptRequest(msg)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method), nil)
	}
}

// handleNotification handles a JSON-RPC notification
func (s *Server) handleNotification(msg *Message) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info("Client initialized")
	default:
		s.logger.Debug("Unknown notification",
			"method", msg.Method,
		)
	}
}

// handleInitialize returns server identity and capabilities
func (s *Server) handleInitialize() map[string]interface{} {
	return map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
			"prompts":   map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    s.info.Name,
			"version": s.version,
		},
	}
}

// handleCallToolRequest executes a tool. Domain failures surface inside the
// tool payload as {status: "error", error: <message>}; protocol-level errors
// are reserved for unknown tools and malformed requests.
func (s *Server) handleCallToolRequest(msg *Message) *Message {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object", nil)
	}

	toolName, ok := params["name"].(string)
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: missing tool name", nil)
	}

	toolParams, ok := params["arguments"].(map[string]interface{})
	if !ok {
		toolParams = make(map[string]interface{})
	}

	handler, exists := s.tools[toolName]
	if !exists {
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Tool not found: %s", toolName), nil)
	}

	s.logger.Info("Calling tool",
		"tool", toolName,
	)

	result, err := handler(toolParams)
	if err != nil {
		result = errorPayload(err)
	}

	return NewResultMessage(msg.Id, wrapToolResult(result))
}

// handleReadResourceRequest reads a resource by URI
func (s *Server) handleReadResourceRequest(msg *Message) *Message {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object", nil)
	}

	uri, ok := params["uri"].(string)
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: missing uri", nil)
	}

	s.logger.Info("Reading resource",
		"uri", uri,
	)

	result := s.handleResourceRead(uri)
	text, err := json.Marshal(result)
	if err != nil {
		return NewErrorMessage(msg.Id, InternalError, err.Error(), nil)
	}

	return NewResultMessage(msg.Id, map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"uri":      uri,
				"mimeType": "application/json",
				"text":     string(text),
			},
		},
	})
}

// errorPayload converts a domain error into the wire shape tools use.
func errorPayload(err error) map[string]interface{} {
	return map[string]interface{}{
		"status": "error",
		"error":  storage.MessageOf(err),
	}
}

// wrapToolResult encodes a tool payload as MCP text content.
func wrapToolResult(result interface{}) map[string]interface{} {
	text, err := json.Marshal(result)
	if err != nil {
		text, _ = json.Marshal(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	}
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": string(text),
			},
		},
	}
}
