package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"lifeos/internal/mcp"
)

// maxRequestBody bounds the size of a single JSON-RPC request body.
const maxRequestBody = 1024 * 1024

// Server wraps the MCP dispatcher in an HTTP transport. Every POST to /mcp
// carries one JSON-RPC message and gets one JSON-RPC response back, so the
// same handler serves stdio and HTTP clients.
type Server struct {
	mcp     *mcp.Server
	appName string
	version string
	router  *http.ServeMux
	server  *http.Server
	addr    string
	logger  *slog.Logger
}

// Options configures the HTTP server.
type Options struct {
	Addr          string
	AppName       string
	Version       string
	RequireAPIKey bool
	APIKey        string
}

// NewServer creates a new HTTP server for the given MCP dispatcher
func NewServer(dispatcher *mcp.Server, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		mcp:     dispatcher,
		appName: opts.AppName,
		version: opts.Version,
		router:  http.NewServeMux(),
		addr:    opts.Addr,
		logger:  logger,
	}

	s.routes()

	handler := s.applyMiddleware(s.router, opts)

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/mcp", s.handleMCP)
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/", s.handleRoot)
}

// applyMiddleware wraps the handler chain. Order matters: recovery sits
// innermost so panics in handlers are caught, request ID runs before logging
// so log lines carry it.
func (s *Server) applyMiddleware(h http.Handler, opts Options) http.Handler {
	handler := h
	handler = RecoveryMiddleware(s.logger)(handler)
	if opts.RequireAPIKey {
		handler = APIKeyMiddleware(opts.APIKey, s.logger)(handler)
	}
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	handler = CORSMiddleware()(handler)
	return handler
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// ServeHTTP implements http.Handler, mainly for tests
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// handleMCP accepts one JSON-RPC message per request body and returns the
// dispatcher's response. Notifications produce 202 with an empty body.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed, use POST")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var msg mcp.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		resp := mcp.NewErrorMessage(nil, mcp.ParseError, "Parse error: invalid JSON", nil)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp := s.mcp.HandleMessage(&msg)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.appName,
		"version": s.version,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s is running. MCP endpoint: /mcp\n", s.appName)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
