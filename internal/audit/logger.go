// Package audit writes the AirGap operation log: newline-delimited JSON,
// append-only, SHA-256 hash-chained for tamper evidence. Logging is
// fail-open: a write failure never blocks or fails the operation being
// audited. Authorization stays fail-closed.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ninobyte/airgap/internal/config"
)

// GenesisHash is the prev_hash for the first entry in a new audit log.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// TimestampFormat is the UTC timestamp layout used in every entry.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Logger appends audit entries to a local JSONL file. A mutex serializes
// concurrent writers so the hash chain stays intact with multiple callers
// sharing one log. With no audit_log_path configured the Logger still builds
// entries but writes nothing.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	prevHash string
	redact   bool
}

// Open creates a Logger for the configured audit log path. If the file
// already exists its last line is read back to recover the chain tail.
func Open(cfg *config.Config) (*Logger, error) {
	l := &Logger{prevHash: GenesisHash, redact: cfg.RedactPathsInAudit}
	if cfg.AuditLogPath == "" {
		return l, nil
	}

	path := cfg.AuditLogPath
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("audit: create directory: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		tail, err := lastLine(path)
		if err != nil {
			return nil, err
		}
		if len(tail) > 0 {
			l.prevHash = HashLine(tail)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("audit: open file: %w", err)
	}
	l.file = file
	return l, nil
}

// Log appends one entry and returns it. Write failures are swallowed: the
// chain advances only past lines that actually reached the file.
func (l *Logger) Log(operation, path string, success bool, denialReason string, metadata map[string]any) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Timestamp:    time.Now().UTC().Format(TimestampFormat),
		Operation:    operation,
		Success:      success,
		DenialReason: denialReason,
		Metadata:     metadata,
		PrevHash:     l.prevHash,
	}
	if path != "" {
		if l.redact {
			entry.PathHash = HashPath(path)
		} else {
			entry.Path = path
		}
	}

	if l.file == nil {
		return entry
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return entry
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return entry
	}
	l.file.Sync()
	l.prevHash = HashLine(line)
	return entry
}

// LogRead records a file read. bytesRead must be the ACTUAL transferred byte
// count, never the nominal file size.
func (l *Logger) LogRead(path string, bytesRead int, offset int64, limit int, success bool, denialReason string) Entry {
	return l.Log("read_file", path, success, denialReason, map[string]any{
		"bytes_read": bytesRead,
		"offset":     offset,
		"limit":      limit,
	})
}

// LogListDir records a directory listing.
func (l *Logger) LogListDir(path string, entryCount int, success bool, denialReason string) Entry {
	return l.Log("list_dir", path, success, denialReason, map[string]any{
		"entry_count": entryCount,
	})
}

// LogSearch records a tree search. The raw pattern is never stored, only its
// hash, regardless of the path-redaction setting.
func (l *Logger) LogSearch(path, pattern string, filesScanned, matchesFound int, method string, success bool, denialReason string, timedOut bool) Entry {
	return l.Log("search_text", path, success, denialReason, map[string]any{
		"pattern_hash":  HashPath(pattern),
		"files_scanned": filesScanned,
		"matches_found": matchesFound,
		"method":        method,
		"timed_out":     timedOut,
	})
}

// LogDenied records a denied operation.
func (l *Logger) LogDenied(operation, path, reason string) Entry {
	return l.Log(operation, path, false, reason, nil)
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// HashPath returns a deterministic, non-reversible 16-hex-char digest used
// for redacted paths and search patterns.
func HashPath(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])[:16]
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}

func lastLine(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audit: read existing log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var last []byte
	for scanner.Scan() {
		last = append(last[:0], scanner.Bytes()...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: scan existing log: %w", err)
	}
	return last, nil
}
