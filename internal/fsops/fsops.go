// Package fsops implements the filesystem tools. Every operation is
// restricted to an explicit allow list of base directories; an empty allow
// list refuses all paths.
package fsops

import (
	"encoding/base64"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Limits bound the filesystem tools.
type Limits struct {
	SearchDefault int
	SearchMax     int
	ListMax       int
	ReadMaxBytes  int64
}

// DefaultLimits mirrors the configuration defaults.
func DefaultLimits() Limits {
	return Limits{
		SearchDefault: 25,
		SearchMax:     100,
		ListMax:       500,
		ReadMaxBytes:  1024 * 1024,
	}
}

// Service runs allow-listed filesystem operations.
type Service struct {
	allowed []string
	limits  Limits
	logger  *slog.Logger
}

// NewService builds a Service. Base paths are resolved to absolute form once
// at construction; unresolvable entries are dropped.
func NewService(basePaths []string, limits Limits, logger *slog.Logger) *Service {
	if limits.SearchDefault <= 0 {
		limits.SearchDefault = DefaultLimits().SearchDefault
	}
	if limits.SearchMax <= 0 {
		limits.SearchMax = DefaultLimits().SearchMax
	}
	if limits.ListMax <= 0 {
		limits.ListMax = DefaultLimits().ListMax
	}
	if limits.ReadMaxBytes <= 0 {
		limits.ReadMaxBytes = DefaultLimits().ReadMaxBytes
	}

	var allowed []string
	for _, p := range basePaths {
		resolved, err := resolvePath(p)
		if err != nil {
			logger.Warn("dropping unresolvable base path", "path", p, "error", err.Error())
			continue
		}
		allowed = append(allowed, resolved)
	}

	return &Service{allowed: allowed, limits: limits, logger: logger}
}

// PathError reports a path the allow list rejects or an I/O precondition
// failure. The message is safe to surface to clients verbatim.
type PathError struct {
	Message string
}

func (e *PathError) Error() string {
	return e.Message
}

func errPathNotAllowed(what string) *PathError {
	return &PathError{Message: what + " is not allowed. Set ALLOWED_BASE_PATHS env var to include the directories you want to access."}
}

// resolvePath expands ~ and returns an absolute, symlink-resolved path.
func resolvePath(raw string) (string, error) {
	p := raw
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	// Resolve symlinks when the target exists; fall back to the lexical
	// form so non-existent paths still get a deterministic answer.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return filepath.Clean(abs), nil
}

// isAllowed reports whether resolved sits inside one of the allowed bases.
func (s *Service) isAllowed(resolved string) bool {
	for _, base := range s.allowed {
		if resolved == base || strings.HasPrefix(resolved, base+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// SearchResult is the outcome of a filename search.
type SearchResult struct {
	Files     []string `json:"files"`
	Truncated bool     `json:"truncated"`
}

// Search walks root and collects files whose name contains query,
// case-insensitively. The walk stops as soon as the limit is reached.
func (s *Service) Search(query, root string, limit int) (*SearchResult, error) {
	if root == "" {
		root = "."
	}
	resolved, err := resolvePath(root)
	if err != nil {
		return nil, &PathError{Message: err.Error()}
	}
	if !s.isAllowed(resolved) {
		return nil, errPathNotAllowed("root path")
	}

	if limit <= 0 {
		limit = s.limits.SearchDefault
	}
	if limit > s.limits.SearchMax {
		limit = s.limits.SearchMax
	}

	q := strings.ToLower(query)
	result := &SearchResult{Files: make([]string, 0)}

	err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtrees are skipped, not fatal.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.Contains(strings.ToLower(d.Name()), q) {
			result.Files = append(result.Files, path)
			if len(result.Files) >= limit {
				result.Truncated = true
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return nil, &PathError{Message: err.Error()}
	}

	if result.Truncated {
		s.logger.Warn("filesystem scan limit reached", "root", resolved, "limit", limit)
	}
	return result, nil
}

// DirEntry is one row of a directory listing.
type DirEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size *int64 `json:"size,omitempty"`
}

// ListResult is the outcome of a directory listing.
type ListResult struct {
	Entries   []DirEntry `json:"entries"`
	Count     int        `json:"count"`
	Truncated bool       `json:"truncated"`
}

// List returns the entries of an allow-listed directory, directories first,
// then files, each group sorted case-insensitively by name.
func (s *Service) List(path string, limit int, includeHidden bool) (*ListResult, error) {
	if path == "" {
		path = "."
	}
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, &PathError{Message: err.Error()}
	}
	if !s.isAllowed(resolved) {
		return nil, errPathNotAllowed("path")
	}

	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		return nil, &PathError{Message: "path does not exist"}
	}
	if err != nil {
		return nil, &PathError{Message: err.Error()}
	}
	if !info.IsDir() {
		return nil, &PathError{Message: "path is not a directory"}
	}

	if limit <= 0 || limit > s.limits.ListMax {
		limit = s.limits.ListMax
	}

	dirEntries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, &PathError{Message: err.Error()}
	}

	result := &ListResult{Entries: make([]DirEntry, 0)}
	for _, entry := range dirEntries {
		if !includeHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		row := DirEntry{
			Name: entry.Name(),
			Path: filepath.Join(resolved, entry.Name()),
			Type: "file",
		}
		if entry.IsDir() {
			row.Type = "dir"
		} else if fi, err := entry.Info(); err == nil {
			size := fi.Size()
			row.Size = &size
		}
		result.Entries = append(result.Entries, row)
		if len(result.Entries) >= limit {
			result.Truncated = true
			break
		}
	}

	sort.SliceStable(result.Entries, func(i, j int) bool {
		a, b := result.Entries[i], result.Entries[j]
		if a.Type != b.Type {
			return a.Type == "dir"
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	result.Count = len(result.Entries)
	return result, nil
}

// ReadResult is the outcome of a file read.
type ReadResult struct {
	Path      string `json:"path"`
	BytesRead int64  `json:"bytes_read"`
	Truncated bool   `json:"truncated"`
	Encoding  string `json:"encoding"`
	Content   string `json:"content"`
}

// Read returns up to maxBytes of an allow-listed file. The "base64" encoding
// returns the raw bytes encoded; any other value is treated as UTF-8 text
// with invalid sequences replaced.
func (s *Service) Read(path string, maxBytes int64, encoding string) (*ReadResult, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, &PathError{Message: err.Error()}
	}
	if !s.isAllowed(resolved) {
		return nil, errPathNotAllowed("path")
	}

	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		return nil, &PathError{Message: "file does not exist"}
	}
	if err != nil {
		return nil, &PathError{Message: err.Error()}
	}
	if info.IsDir() {
		return nil, &PathError{Message: "path is not a file"}
	}

	if maxBytes <= 0 || maxBytes > s.limits.ReadMaxBytes {
		maxBytes = s.limits.ReadMaxBytes
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, &PathError{Message: err.Error()}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil {
		return nil, &PathError{Message: err.Error()}
	}

	result := &ReadResult{
		Path:      resolved,
		BytesRead: int64(len(data)),
		Truncated: info.Size() > maxBytes,
		Encoding:  encoding,
	}
	if strings.EqualFold(encoding, "base64") {
		result.Content = base64.StdEncoding.EncodeToString(data)
	} else {
		if result.Encoding == "" {
			result.Encoding = "utf-8"
		}
		result.Content = replaceInvalidUTF8(data)
	}
	return result, nil
}

// replaceInvalidUTF8 substitutes U+FFFD for invalid byte sequences so the
// content always survives JSON encoding.
func replaceInvalidUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
