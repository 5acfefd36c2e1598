package sandbox

import (
	"io"
	"os"
	"unicode/utf8"
)

// ReadFileResult is the outcome of a bounded byte-range read.
type ReadFileResult struct {
	Success   bool   `json:"success"`
	Path      string `json:"path"`
	Content   string `json:"content"`
	BytesRead int    `json:"bytes_read"`
	Offset    int64  `json:"offset"`
	Limit     int    `json:"limit"`
	Truncated bool   `json:"truncated"`
	Error     string `json:"error,omitempty"`
}

// ReadFile reads up to limit bytes of a regular file starting at offset.
// The limit is clamped server-side to max_file_size_bytes regardless of the
// caller's request, and the returned payload is additionally bounded by
// max_response_bytes; either cap sets the single Truncated flag. The audit
// record carries the byte count actually transferred, never the file size.
func (s *Sandbox) ReadFile(path string, offset int64, limit int) ReadFileResult {
	if limit <= 0 || limit > s.cfg.MaxFileSizeBytes {
		limit = s.cfg.MaxFileSizeBytes
	}
	if offset < 0 {
		offset = 0
	}

	v := s.sec.ValidatePath(path)
	if !v.Allowed {
		s.log.LogRead(path, 0, offset, limit, false, string(v.Reason))
		return ReadFileResult{Path: path, Offset: offset, Limit: limit, Error: "access denied: " + v.Detail}
	}
	canonical := v.CanonicalPath

	info, err := os.Stat(canonical)
	if err != nil {
		s.log.LogRead(canonical, 0, offset, limit, false, "os_error")
		return ReadFileResult{Path: canonical, Offset: offset, Limit: limit, Error: "cannot access file: " + err.Error()}
	}
	if !info.Mode().IsRegular() {
		s.log.LogRead(canonical, 0, offset, limit, false, "not_a_file")
		return ReadFileResult{Path: canonical, Offset: offset, Limit: limit, Error: "path is not a file"}
	}

	size := info.Size()
	// Reading past the end is defined behavior, not an error.
	if offset >= size {
		s.log.LogRead(canonical, 0, offset, limit, true, "")
		return ReadFileResult{Success: true, Path: canonical, Offset: offset, Limit: limit}
	}

	available := size - offset
	toRead := available
	if toRead > int64(limit) {
		toRead = int64(limit)
	}
	truncated := available > int64(limit)

	f, err := os.Open(canonical)
	if err != nil {
		s.log.LogRead(canonical, 0, offset, limit, false, "os_error")
		return ReadFileResult{Path: canonical, Offset: offset, Limit: limit, Error: "error reading file: " + err.Error()}
	}
	defer f.Close()

	buf := make([]byte, toRead)
	n, err := io.ReadFull(io.NewSectionReader(f, offset, toRead), buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		s.log.LogRead(canonical, 0, offset, limit, false, "os_error")
		return ReadFileResult{Path: canonical, Offset: offset, Limit: limit, Error: "error reading file: " + err.Error()}
	}

	content := decodeText(buf[:n])
	if len(content) > s.cfg.MaxResponseBytes {
		content = truncateToRuneBoundary(content, s.cfg.MaxResponseBytes)
		truncated = true
	}

	s.log.LogRead(canonical, n, offset, limit, true, "")
	return ReadFileResult{
		Success:   true,
		Path:      canonical,
		Content:   content,
		BytesRead: n,
		Offset:    offset,
		Limit:     limit,
		Truncated: truncated,
	}
}

// decodeText interprets raw bytes as UTF-8, falling back to a byte-preserving
// Latin-1 decoding. It always produces a string for any byte sequence.
func decodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

// truncateToRuneBoundary cuts s to at most max bytes without splitting a rune.
func truncateToRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[:len(s)-1]
			continue
		}
		break
	}
	return s
}
