package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ninobyte/airgap/internal/config"
)

func newTestLogger(t *testing.T, redact bool) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	cfg := config.Default()
	cfg.AuditLogPath = path
	cfg.RedactPathsInAudit = redact
	l, err := Open(cfg)
	if err != nil {
		t.Fatalf("open audit logger: %v", err)
	}
	return l, path
}

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("parse entry %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestSequentialWritesProduceValidChain(t *testing.T) {
	l, path := newTestLogger(t, false)
	for i := 0; i < 5; i++ {
		l.LogRead("/data/file.txt", 42, 0, 100, true, "")
	}
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 5 {
		t.Fatalf("expected 5 lines, got %d", result.Lines)
	}
}

func TestFirstEntryReferencesGenesis(t *testing.T) {
	l, path := newTestLogger(t, false)
	l.LogListDir("/data", 3, true, "")
	l.Close()

	entries := readEntries(t, path)
	if entries[0].PrevHash != GenesisHash {
		t.Fatalf("expected genesis prev_hash, got %s", entries[0].PrevHash)
	}
}

func TestRedactionReplacesPathWithHash(t *testing.T) {
	l, path := newTestLogger(t, true)
	l.LogRead("/data/secret-location/file.txt", 10, 0, 100, true, "")
	l.Close()

	entries := readEntries(t, path)
	e := entries[0]
	if e.Path != "" {
		t.Fatalf("expected no raw path under redaction, got %q", e.Path)
	}
	if len(e.PathHash) != 16 {
		t.Fatalf("expected 16-char path hash, got %q", e.PathHash)
	}
	if e.PathHash != HashPath("/data/secret-location/file.txt") {
		t.Fatal("path hash must be deterministic")
	}
	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "secret-location") {
		t.Fatal("raw path leaked into redacted log")
	}
}

func TestSearchPatternIsNeverLoggedRaw(t *testing.T) {
	// Redaction off still hashes the pattern.
	l, path := newTestLogger(t, false)
	l.LogSearch("/data", "password=hunter2", 12, 3, "ripgrep", true, "", false)
	l.Close()

	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "hunter2") {
		t.Fatal("raw search pattern leaked into log")
	}
	entries := readEntries(t, path)
	if entries[0].Metadata["pattern_hash"] != HashPath("password=hunter2") {
		t.Fatal("expected deterministic pattern hash in metadata")
	}
}

func TestReadEntryCarriesActualByteCount(t *testing.T) {
	l, path := newTestLogger(t, false)
	l.LogRead("/data/big.txt", 512, 1024, 512, true, "")
	l.Close()

	entries := readEntries(t, path)
	md := entries[0].Metadata
	// JSON numbers decode as float64.
	if md["bytes_read"].(float64) != 512 {
		t.Fatalf("expected bytes_read 512, got %v", md["bytes_read"])
	}
	if md["offset"].(float64) != 1024 {
		t.Fatalf("expected offset 1024, got %v", md["offset"])
	}
}

func TestDeniedEntryIsFailure(t *testing.T) {
	l, path := newTestLogger(t, false)
	l.LogDenied("list_dir", "/etc", "outside_allowed_roots")
	l.Close()

	entries := readEntries(t, path)
	e := entries[0]
	if e.Success {
		t.Fatal("denied entry must have success=false")
	}
	if e.DenialReason != "outside_allowed_roots" {
		t.Fatalf("expected denial reason, got %q", e.DenialReason)
	}
	if e.Operation != "list_dir" {
		t.Fatalf("expected operation list_dir, got %q", e.Operation)
	}
}

func TestNoLogPathIsFailOpen(t *testing.T) {
	cfg := config.Default()
	l, err := Open(cfg)
	if err != nil {
		t.Fatalf("open without path: %v", err)
	}
	e := l.LogRead("/data/f", 1, 0, 10, true, "")
	if e.Operation != "read_file" {
		t.Fatal("expected entry built even without a log file")
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestReopenContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	cfg := config.Default()
	cfg.AuditLogPath = path
	cfg.RedactPathsInAudit = false

	l1, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	l1.LogListDir("/data", 2, true, "")
	l1.LogListDir("/data", 2, true, "")
	l1.Close()

	l2, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	l2.LogListDir("/data", 5, true, "")
	l2.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain after reopen, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 3 {
		t.Fatalf("expected 3 lines, got %d", result.Lines)
	}
}

func TestConcurrentWritesSerialize(t *testing.T) {
	l, path := newTestLogger(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.LogRead("/data/f", 1, 0, 10, true, "")
		}()
	}
	wg.Wait()
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain after concurrent writes, got error at line %d: %s", result.ErrorLine, result.Error)
	}
	if result.Lines != 50 {
		t.Fatalf("expected 50 lines, got %d", result.Lines)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	l, path := newTestLogger(t, false)
	for i := 0; i < 3; i++ {
		l.LogRead("/data/f", i, 0, 10, true, "")
	}
	l.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	lines[1] = strings.Replace(lines[1], `"success":true`, `"success":false`, 1)
	os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600)

	result := Verify(path)
	if result.Valid {
		t.Fatal("expected tampered chain to be invalid")
	}
	if result.ErrorLine != 3 {
		t.Fatalf("expected error at line 3, got %d", result.ErrorLine)
	}
}

func TestVerifyEmptyLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	os.WriteFile(path, []byte{}, 0600)
	result := Verify(path)
	if !result.Valid || result.Lines != 0 {
		t.Fatalf("expected empty log valid with 0 lines, got %+v", result)
	}
}
