package sandbox

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ninobyte/airgap/internal/config"
)

func TestSearchTextFindsMatches(t *testing.T) {
	s, root := newTestSandbox(t, nil)
	writeFile(t, filepath.Join(root, "a.txt"), "first needle\nno hit\nsecond needle\n")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "buried needle\n")

	r := s.SearchText(root, "needle")
	if !r.Success {
		t.Fatalf("expected success, got error %q", r.Error)
	}
	if r.Method != "walk" {
		t.Fatalf("expected walk backend, got %q", r.Method)
	}
	if len(r.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(r.Matches))
	}
	if r.FilesScanned != 2 {
		t.Fatalf("expected 2 files scanned, got %d", r.FilesScanned)
	}

	m := r.Matches[0]
	if m.LineNumber == 0 || m.LineContent == "" {
		t.Fatalf("match missing position data: %+v", m)
	}
	if m.LineContent[m.MatchStart:m.MatchEnd] != "needle" {
		t.Fatalf("match offsets do not bracket the hit: %+v", m)
	}
}

func TestSearchTextRegexPattern(t *testing.T) {
	s, root := newTestSandbox(t, nil)
	writeFile(t, filepath.Join(root, "code.go"), "func Alpha() {}\nfunc Beta() {}\nvar x = 1\n")

	r := s.SearchText(root, `func \w+\(`)
	if !r.Success {
		t.Fatalf("expected success, got error %q", r.Error)
	}
	if len(r.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(r.Matches))
	}
}

func TestSearchTextInvalidPattern(t *testing.T) {
	s, root := newTestSandbox(t, nil)

	r := s.SearchText(root, "[unclosed")
	if r.Success {
		t.Fatal("invalid pattern must fail")
	}
	if r.Method != "none" {
		t.Fatalf("expected no backend for invalid pattern, got %q", r.Method)
	}
}

func TestSearchTextSkipsBlockedFiles(t *testing.T) {
	s, root := newTestSandbox(t, nil)
	writeFile(t, filepath.Join(root, ".env"), "needle here\n")
	writeFile(t, filepath.Join(root, "open.txt"), "needle too\n")

	r := s.SearchText(root, "needle")
	if !r.Success {
		t.Fatalf("expected success, got error %q", r.Error)
	}
	if len(r.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(r.Matches))
	}
	if filepath.Base(r.Matches[0].FilePath) != "open.txt" {
		t.Fatalf("blocked file leaked into results: %+v", r.Matches)
	}
	if r.FilesScanned != 1 {
		t.Fatalf("blocked file must not be scanned, got %d scanned", r.FilesScanned)
	}
}

func TestSearchTextSkipsOversizedFiles(t *testing.T) {
	s, root := newTestSandbox(t, func(c *config.Config) {
		c.MaxFileSizeBytes = 16
	})
	writeFile(t, filepath.Join(root, "big.txt"), "needle padded with lots of extra bytes\n")
	writeFile(t, filepath.Join(root, "small.txt"), "needle\n")

	r := s.SearchText(root, "needle")
	if !r.Success {
		t.Fatalf("expected success, got error %q", r.Error)
	}
	if len(r.Matches) != 1 {
		t.Fatalf("oversized file must be skipped, got %d matches", len(r.Matches))
	}
	if filepath.Base(r.Matches[0].FilePath) != "small.txt" {
		t.Fatalf("unexpected match source: %+v", r.Matches)
	}
}

func TestSearchTextStopsAtMaxResults(t *testing.T) {
	s, root := newTestSandbox(t, func(c *config.Config) {
		c.MaxResults = 2
	})
	writeFile(t, filepath.Join(root, "many.txt"), "hit\nhit\nhit\nhit\n")

	r := s.SearchText(root, "hit")
	if !r.Success {
		t.Fatalf("expected success, got error %q", r.Error)
	}
	if len(r.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(r.Matches))
	}
	if !r.Truncated {
		t.Fatal("capped search must report truncation")
	}
}

func TestSearchTextStopsAtMaxFilesScanned(t *testing.T) {
	s, root := newTestSandbox(t, func(c *config.Config) {
		c.MaxFilesScanned = 3
	})
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		writeFile(t, filepath.Join(root, name+".txt"), "nothing relevant\n")
	}

	r := s.SearchText(root, "absent-token")
	if !r.Success {
		t.Fatalf("expected success, got error %q", r.Error)
	}
	if r.FilesScanned != 3 {
		t.Fatalf("expected hard stop at 3 files, got %d", r.FilesScanned)
	}
	if !r.Truncated {
		t.Fatal("file-budget stop must report truncation")
	}
}

func TestSearchTextTimeoutIsTruncationNotError(t *testing.T) {
	s, root := newTestSandbox(t, func(c *config.Config) {
		c.TimeoutSeconds = 0.000001
	})
	writeFile(t, filepath.Join(root, "f.txt"), "data\n")
	time.Sleep(time.Millisecond)

	r := s.SearchText(root, "data")
	if !r.Success {
		t.Fatalf("timeout must not fail the search, got error %q", r.Error)
	}
	if !r.TimedOut {
		t.Fatal("expected timed_out flag")
	}
}

func TestSearchTextDeniedRoot(t *testing.T) {
	s, _ := newTestSandbox(t, nil)

	r := s.SearchText("/etc", "root")
	if r.Success {
		t.Fatal("search outside allowed roots must fail")
	}
	if r.Method != "none" {
		t.Fatalf("denied search must not pick a backend, got %q", r.Method)
	}
	if len(r.Matches) != 0 {
		t.Fatal("denied search must carry no matches")
	}
}

func TestSearchTextRootMustBeDirectory(t *testing.T) {
	s, root := newTestSandbox(t, nil)
	path := filepath.Join(root, "file.txt")
	writeFile(t, path, "x")

	r := s.SearchText(path, "x")
	if r.Success {
		t.Fatal("searching a file must fail")
	}
	if r.Error != "path is not a directory" {
		t.Fatalf("unexpected error %q", r.Error)
	}
}

func TestSearchTextSkipsNonRegularFiles(t *testing.T) {
	s, root := newTestSandbox(t, nil)
	writeFile(t, filepath.Join(root, "plain.txt"), "needle\n")
	if err := os.Symlink("/nonexistent-target", filepath.Join(root, "dangling")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	r := s.SearchText(root, "needle")
	if !r.Success {
		t.Fatalf("expected success, got error %q", r.Error)
	}
	if len(r.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(r.Matches))
	}
}
