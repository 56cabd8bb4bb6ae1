package fsops

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lifeos/internal/slogutil"
)

func setupService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	// TempDir may sit behind a symlink (notably on macOS); resolve it so the
	// allow-list comparison sees the same form the service resolves to.
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}
	svc := NewService([]string{resolved}, DefaultLimits(), slogutil.NewDiscardLogger())
	return svc, resolved
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestSearchFindsByName(t *testing.T) {
	svc, dir := setupService(t)
	writeFile(t, filepath.Join(dir, "notes", "shopping-list.txt"), "x")
	writeFile(t, filepath.Join(dir, "notes", "deep", "LIST-archive.md"), "x")
	writeFile(t, filepath.Join(dir, "other.txt"), "x")

	result, err := svc.Search("list", dir, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Files) != 2 {
		t.Errorf("Expected 2 matches, got %v", result.Files)
	}
	if result.Truncated {
		t.Error("Expected truncated=false")
	}
}

func TestSearchTruncatesAtLimit(t *testing.T) {
	svc, dir := setupService(t)
	for i := 0; i < 5; i++ {
		writeFile(t, filepath.Join(dir, "match-"+strings.Repeat("a", i+1)+".txt"), "x")
	}

	result, err := svc.Search("match", dir, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Files) != 3 || !result.Truncated {
		t.Errorf("Expected 3 truncated matches, got %d truncated=%v", len(result.Files), result.Truncated)
	}
}

func TestSearchRejectsOutsideAllowList(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Search("anything", "/etc", 0)
	if err == nil {
		t.Fatal("Expected rejection for path outside allow list")
	}
	if !strings.Contains(err.Error(), "ALLOWED_BASE_PATHS") {
		t.Errorf("Unhelpful error: %v", err)
	}
}

func TestEmptyAllowListRefusesEverything(t *testing.T) {
	svc := NewService(nil, DefaultLimits(), slogutil.NewDiscardLogger())
	if _, err := svc.Search("x", "/", 0); err == nil {
		t.Error("Expected empty allow list to refuse")
	}
	if _, err := svc.List("/", 0, false); err == nil {
		t.Error("Expected empty allow list to refuse")
	}
}

func TestListEntriesSortedDirsFirst(t *testing.T) {
	svc, dir := setupService(t)
	writeFile(t, filepath.Join(dir, "b.txt"), "hello")
	writeFile(t, filepath.Join(dir, "sub", "inner.txt"), "x")
	writeFile(t, filepath.Join(dir, ".hidden"), "x")

	result, err := svc.List(dir, 0, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("Expected 2 entries (hidden excluded), got %d", result.Count)
	}
	if result.Entries[0].Type != "dir" || result.Entries[0].Name != "sub" {
		t.Errorf("Expected directory first, got %+v", result.Entries[0])
	}
	if result.Entries[1].Name != "b.txt" || result.Entries[1].Size == nil || *result.Entries[1].Size != 5 {
		t.Errorf("Expected b.txt with size 5, got %+v", result.Entries[1])
	}

	withHidden, err := svc.List(dir, 0, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if withHidden.Count != 3 {
		t.Errorf("Expected 3 entries with hidden, got %d", withHidden.Count)
	}
}

func TestListErrors(t *testing.T) {
	svc, dir := setupService(t)
	writeFile(t, filepath.Join(dir, "file.txt"), "x")

	if _, err := svc.List(filepath.Join(dir, "missing"), 0, false); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist', got %v", err)
	}
	if _, err := svc.List(filepath.Join(dir, "file.txt"), 0, false); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("Expected 'not a directory', got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	svc, dir := setupService(t)
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "hello world")

	result, err := svc.Read(path, 0, "utf-8")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if result.Content != "hello world" || result.BytesRead != 11 || result.Truncated {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestReadFileTruncation(t *testing.T) {
	svc, dir := setupService(t)
	path := filepath.Join(dir, "big.txt")
	writeFile(t, path, "0123456789")

	result, err := svc.Read(path, 4, "utf-8")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if result.Content != "0123" || !result.Truncated || result.BytesRead != 4 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestReadFileBase64(t *testing.T) {
	svc, dir := setupService(t)
	path := filepath.Join(dir, "bin.dat")
	raw := string([]byte{0x00, 0xff, 0x10})
	writeFile(t, path, raw)

	result, err := svc.Read(path, 0, "base64")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(result.Content)
	if err != nil {
		t.Fatalf("Content is not valid base64: %v", err)
	}
	if string(decoded) != raw {
		t.Errorf("Round trip mismatch: %v", decoded)
	}
}

func TestReadFileInvalidUTF8Replaced(t *testing.T) {
	svc, dir := setupService(t)
	path := filepath.Join(dir, "bad.txt")
	writeFile(t, path, "ok\xffok")

	result, err := svc.Read(path, 0, "utf-8")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.Contains(result.Content, "ok") || strings.Contains(result.Content, "\xff") {
		t.Errorf("Invalid bytes not replaced: %q", result.Content)
	}
}

func TestReadFileErrors(t *testing.T) {
	svc, dir := setupService(t)

	if _, err := svc.Read(filepath.Join(dir, "missing.txt"), 0, "utf-8"); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist', got %v", err)
	}
	if _, err := svc.Read(dir, 0, "utf-8"); err == nil || !strings.Contains(err.Error(), "not a file") {
		t.Errorf("Expected 'not a file', got %v", err)
	}
	if _, err := svc.Read("/etc/passwd", 0, "utf-8"); err == nil || !strings.Contains(err.Error(), "ALLOWED_BASE_PATHS") {
		t.Errorf("Expected allow-list rejection, got %v", err)
	}
}

func TestTraversalEscapeRejected(t *testing.T) {
	svc, dir := setupService(t)

	escape := filepath.Join(dir, "..", "outside.txt")
	if _, err := svc.Read(escape, 0, "utf-8"); err == nil || !strings.Contains(err.Error(), "ALLOWED_BASE_PATHS") {
		t.Errorf("Expected traversal rejection, got %v", err)
	}
}
