// Package mcp implements the Model Context Protocol surface of LifeOS:
// tools, resources, and prompts over line-delimited JSON-RPC.
package mcp

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"lifeos/internal/fsops"
	"lifeos/internal/storage"
)

// ServerInfo describes the running server for the server_info tool.
type ServerInfo struct {
	Name      string `json:"name"`
	Transport string `json:"transport"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
}

// Server handles MCP messages against the LifeOS store.
type Server struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	logger  *slog.Logger

	version string
	info    ServerInfo

	store *storage.Lazy
	fs    *fsops.Service
	tools map[string]ToolHandler

	// now is injectable so "upcoming" cutoffs are testable.
	now func() time.Time
}

// NewServer creates an MCP server. The store is opened lazily on the first
// operation that needs it, so a broken database path does not prevent the
// protocol handshake.
func NewServer(version string, info ServerInfo, store *storage.Lazy, fs *fsops.Service, logger *slog.Logger) *Server {
	server := &Server{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		logger:  logger,
		version: version,
		info:    info,
		store:   store,
		fs:      fs,
		tools:   make(map[string]ToolHandler),
		now:     time.Now,
	}

	server.RegisterTools()

	return server
}

// repos acquires the shared handle and returns the repository set.
func (s *Server) repos() (*storage.NoteRepository, *storage.EventRepository, *storage.TaskRepository, error) {
	db, err := s.store.Acquire()
	if err != nil {
		return nil, nil, nil, err
	}
	return storage.NewNoteRepository(db), storage.NewEventRepository(db), storage.NewTaskRepository(db), nil
}

// Start begins processing messages until stdin closes.
func (s *Server) Start() error {
	s.logger.Info("MCP server starting",
		"version", s.version,
		"transport", s.info.Transport,
	)

	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("MCP server shutting down (EOF)")
				return nil
			}
			s.logger.Error("Error reading message",
				"error", err.Error(),
			)

			if msg != nil && msg.Id != nil {
				_ = s.writeError(msg.Id, ParseError, fmt.Sprintf("Failed to parse message: %v", err))
			}
			continue
		}

		response := s.HandleMessage(msg)

		// Notifications don't generate responses
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logger.Error("Error writing response",
					"error", err.Error(),
				)
			}
		}
	}
}

// SetStdin sets the input stream (for testing)
func (s *Server) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing)
func (s *Server) SetStdout(w io.Writer) {
	s.stdout = w
}

// SetClock overrides the time source (for testing)
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}
