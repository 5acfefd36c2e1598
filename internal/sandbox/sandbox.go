// Package sandbox implements the audited read-only filesystem operations
// (read_file, list_dir, search_text) on top of the path security context
// and the audit log. Every operation asks for an
// authorization decision before any filesystem metadata call; on denial it
// audits and returns a structured failure, never an error.
package sandbox

import (
	"os/exec"

	"github.com/ninobyte/airgap/internal/audit"
	"github.com/ninobyte/airgap/internal/config"
	"github.com/ninobyte/airgap/internal/pathsec"
)

// Sandbox bundles the immutable per-configuration collaborators. The
// external search utility is probed exactly once at construction; there is
// no lazily-initialized global availability state.
type Sandbox struct {
	cfg    *config.Config
	sec    *pathsec.Context
	log    *audit.Logger
	rgPath string
}

// Option customizes a Sandbox at construction.
type Option func(*Sandbox)

// WithRipgrep overrides the probed ripgrep binary path. An empty string
// disables the external backend entirely.
func WithRipgrep(path string) Option {
	return func(s *Sandbox) { s.rgPath = path }
}

// AllowedRoots reports the canonical roots this sandbox grants access under.
func (s *Sandbox) AllowedRoots() []string {
	return s.sec.AllowedRoots()
}

// New builds a Sandbox. ripgrep is looked up on PATH once here; callers can
// override or disable it with WithRipgrep.
func New(cfg *config.Config, sec *pathsec.Context, log *audit.Logger, opts ...Option) *Sandbox {
	s := &Sandbox{cfg: cfg, sec: sec, log: log}
	if p, err := exec.LookPath("rg"); err == nil {
		s.rgPath = p
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
