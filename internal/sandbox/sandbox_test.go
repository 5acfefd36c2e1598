package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ninobyte/airgap/internal/audit"
	"github.com/ninobyte/airgap/internal/config"
	"github.com/ninobyte/airgap/internal/pathsec"
)

// newTestSandbox builds a sandbox over one allowed temp root with the
// external search backend disabled. Callers mutate cfg via the tweak
// function before the security context is built.
func newTestSandbox(t *testing.T, tweak func(*config.Config)) (*Sandbox, string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp root: %v", err)
	}

	cfg := config.Default()
	cfg.AllowedRoots = []string{root}
	cfg.AuditLogPath = filepath.Join(t.TempDir(), "audit.jsonl")
	if tweak != nil {
		tweak(cfg)
	}

	sec := pathsec.NewContext(cfg)
	log, err := audit.Open(cfg)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	return New(cfg, sec, log, WithRipgrep("")), root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
