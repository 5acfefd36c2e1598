package sandbox

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ninobyte/airgap/internal/timeout"
)

// SearchMatch is one pattern hit. Offsets are byte positions in the line.
type SearchMatch struct {
	FilePath    string `json:"file_path"`
	LineNumber  int    `json:"line_number"`
	LineContent string `json:"line_content"`
	MatchStart  int    `json:"match_start"`
	MatchEnd    int    `json:"match_end"`
}

// SearchResult is the outcome of a tree search. A timeout is a truncation
// signal, not an error: Success stays true with partial matches.
type SearchResult struct {
	Success      bool          `json:"success"`
	Pattern      string        `json:"pattern"`
	RootPath     string        `json:"root_path"`
	Matches      []SearchMatch `json:"matches"`
	FilesScanned int           `json:"files_scanned"`
	Method       string        `json:"method"` // ripgrep, walk, none
	Truncated    bool          `json:"truncated"`
	TimedOut     bool          `json:"timed_out"`
	Error        string        `json:"error,omitempty"`
}

// errWalkStop aborts the tree walk once a budget is exhausted.
var errWalkStop = errors.New("walk budget exhausted")

// SearchText searches for a regex pattern in files under root. The external
// ripgrep backend is preferred when available; on unavailability, error, or
// timeout the embedded walk backend takes over. Both run under one shared
// time budget.
func (s *Sandbox) SearchText(root, pattern string) SearchResult {
	v := s.sec.ValidatePath(root)
	if !v.Allowed {
		s.log.LogSearch(root, pattern, 0, 0, "none", false, string(v.Reason), false)
		return SearchResult{Pattern: pattern, RootPath: root, Matches: []SearchMatch{}, Method: "none", Error: "access denied: " + v.Detail}
	}
	canonical := v.CanonicalPath

	info, err := os.Stat(canonical)
	if err != nil || !info.IsDir() {
		s.log.LogSearch(canonical, pattern, 0, 0, "none", false, "not_a_directory", false)
		return SearchResult{Pattern: pattern, RootPath: canonical, Matches: []SearchMatch{}, Method: "none", Error: "path is not a directory"}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		s.log.LogSearch(canonical, pattern, 0, 0, "none", false, "", false)
		return SearchResult{Pattern: pattern, RootPath: canonical, Matches: []SearchMatch{}, Method: "none", Error: "invalid pattern: " + err.Error()}
	}

	tctx := timeout.New(s.cfg.Timeout())

	var result *SearchResult
	if s.rgPath != "" {
		result = s.searchRipgrep(canonical, pattern, re, tctx)
	}
	if result == nil {
		r := s.searchWalk(canonical, re, tctx)
		result = &r
	}
	result.Pattern = pattern

	s.log.LogSearch(canonical, pattern, result.FilesScanned, len(result.Matches), result.Method, result.Success, "", result.TimedOut)
	return *result
}

// searchWalk is the embedded backend: a lazy, non-materializing tree walk.
// Subdirectories failing the accessibility check are pruned before descent.
// The time budget is checked at directory, file, and line granularity, and
// max_files_scanned is a hard ceiling independent of the match and time
// budgets.
func (s *Sandbox) searchWalk(root string, re *regexp.Regexp, tctx *timeout.Context) SearchResult {
	result := SearchResult{
		Success:  true,
		RootPath: root,
		Matches:  []SearchMatch{},
		Method:   "walk",
	}

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			// Unreadable entries are skipped; one bad entry never aborts
			// the whole search.
			return nil
		}

		if d.IsDir() {
			if cerr := tctx.Check(); cerr != nil {
				return cerr
			}
			if p != root && !s.sec.EntryInScope(p) {
				return fs.SkipDir
			}
			return nil
		}

		if result.FilesScanned >= s.cfg.MaxFilesScanned {
			result.Truncated = true
			return errWalkStop
		}
		if !s.sec.ValidatePath(p).Allowed {
			return nil
		}
		result.FilesScanned++

		if cerr := tctx.Check(); cerr != nil {
			return cerr
		}

		info, serr := os.Stat(p)
		if serr != nil || !info.Mode().IsRegular() || info.Size() > int64(s.cfg.MaxFileSizeBytes) {
			return nil
		}

		if scanErr := s.scanFile(p, re, tctx, &result); scanErr != nil {
			return scanErr
		}
		if len(result.Matches) >= s.cfg.MaxResults {
			result.Truncated = true
			return errWalkStop
		}
		return nil
	})

	switch {
	case walkErr == nil:
	case errors.Is(walkErr, timeout.ErrExpired):
		result.TimedOut = true
	case errors.Is(walkErr, errWalkStop):
		// Truncated already recorded.
	default:
		result.Success = false
		result.Error = "error walking tree: " + walkErr.Error()
	}
	return result
}

// scanFile scans one file line by line, appending matches to the result.
// The budget is checked per line; unreadable or binary-hostile content is
// never fatal (lines are matched as raw bytes).
func (s *Sandbox) scanFile(path string, re *regexp.Regexp, tctx *timeout.Context, result *SearchResult) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	maxLine := s.cfg.MaxFileSizeBytes + 1
	if maxLine < 64*1024 {
		maxLine = 64 * 1024
	}
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if cerr := tctx.Check(); cerr != nil {
			return cerr
		}
		line := scanner.Text()
		for _, loc := range re.FindAllStringIndex(line, -1) {
			if len(result.Matches) >= s.cfg.MaxResults {
				return nil
			}
			result.Matches = append(result.Matches, SearchMatch{
				FilePath:    path,
				LineNumber:  lineNum,
				LineContent: line,
				MatchStart:  loc[0],
				MatchEnd:    loc[1],
			})
		}
		if len(result.Matches) >= s.cfg.MaxResults {
			return nil
		}
	}
	// A scan error here means an unreadable or over-long line: skip the
	// rest of this file and move on.
	return nil
}
