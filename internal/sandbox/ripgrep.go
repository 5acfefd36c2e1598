package sandbox

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/ninobyte/airgap/internal/timeout"
)

// searchRipgrep runs the external search utility with a fixed argument
// vector; the pattern and root are positional arguments after "--" and are
// never shell-interpreted. It returns nil whenever the embedded walk backend
// should take over: binary failure, malformed output, or deadline.
func (s *Sandbox) searchRipgrep(root, pattern string, re *regexp.Regexp, tctx *timeout.Context) *SearchResult {
	remaining := tctx.Remaining()
	if remaining <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), remaining)
	defer cancel()

	args := []string{
		"--no-follow",
		"--no-heading",
		"--line-number",
		"--column",
		"--max-count", strconv.Itoa(s.cfg.MaxResults),
		"--max-filesize", strconv.Itoa(s.cfg.MaxFileSizeBytes),
		"--",
		pattern,
		root,
	}
	cmd := exec.CommandContext(ctx, s.rgPath, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	err := cmd.Run()
	if ctx.Err() != nil {
		// Budget spent inside the subprocess; the walk backend will report
		// the timeout under whatever budget remains.
		return nil
	}
	if err != nil {
		// Exit status 1 means no matches; anything else is a real failure
		// and hands over to the walk backend.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return nil
		}
	}

	result := SearchResult{
		Success:  true,
		RootPath: root,
		Matches:  []SearchMatch{},
		Method:   "ripgrep",
	}
	seen := map[string]bool{}

	scanner := bufio.NewScanner(&stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), s.cfg.MaxFileSizeBytes+1)
	for scanner.Scan() {
		if len(result.Matches) >= s.cfg.MaxResults {
			result.Truncated = true
			break
		}
		m, ok := s.parseRipgrepLine(scanner.Text(), re)
		if !ok {
			continue
		}
		if !seen[m.FilePath] {
			seen[m.FilePath] = true
			result.FilesScanned++
		}
		result.Matches = append(result.Matches, m)
	}
	if scanner.Err() != nil {
		return nil
	}
	return &result
}

// parseRipgrepLine parses one "path:line:column:content" output line. Every
// reported path is validated again before being surfaced: the external tool
// follows no symlinks, but its output is not trusted either.
func (s *Sandbox) parseRipgrepLine(line string, re *regexp.Regexp) (SearchMatch, bool) {
	parts := strings.SplitN(line, ":", 4)
	if len(parts) != 4 {
		return SearchMatch{}, false
	}
	path := parts[0]
	lineNum, err := strconv.Atoi(parts[1])
	if err != nil {
		return SearchMatch{}, false
	}
	col, err := strconv.Atoi(parts[2])
	if err != nil {
		return SearchMatch{}, false
	}
	content := parts[3]

	v := s.sec.ValidatePath(path)
	if !v.Allowed {
		return SearchMatch{}, false
	}

	start, end := col-1, col-1
	if loc := re.FindStringIndex(content); loc != nil {
		start, end = loc[0], loc[1]
	}
	return SearchMatch{
		FilePath:    v.CanonicalPath,
		LineNumber:  lineNum,
		LineContent: content,
		MatchStart:  start,
		MatchEnd:    end,
	}, true
}
