// Package pathsec canonicalizes and authorizes filesystem paths against a set
// of allowed roots and blocked patterns. It is the single source of truth for
// every access decision in AirGap: operations ask for a decision before any
// filesystem metadata call.
package pathsec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ninobyte/airgap/internal/config"
)

// Context holds pre-canonicalized allowed roots and blocked patterns.
// It is immutable after construction and safe for concurrent use.
type Context struct {
	roots   []string
	blocked []string
}

// NewContext canonicalizes the configured roots once. Roots that cannot be
// resolved or are not directories are silently dropped: an empty set enforces
// total denial, not an error.
func NewContext(cfg *config.Config) *Context {
	c := &Context{blocked: append([]string{}, cfg.BlockedPatterns...)}
	for _, root := range cfg.AllowedRoots {
		expanded, err := expandHome(root)
		if err != nil {
			continue
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			continue
		}
		canonical, err := filepath.EvalSymlinks(abs)
		if err != nil {
			continue
		}
		info, err := os.Stat(canonical)
		if err != nil || !info.IsDir() {
			continue
		}
		c.roots = append(c.roots, canonical)
	}
	return c
}

// AllowedRoots returns a copy of the canonical root set.
func (c *Context) AllowedRoots() []string {
	return append([]string{}, c.roots...)
}

// ValidatePath runs the full validation pipeline with symlink resolution.
// The evaluation order is strict and first-match-wins:
//
//  1. raw ".." segment          -> traversal_detected
//  2. expand ~, make absolute
//  3. canonicalize (resolving symlinks)
//  4. blocked-pattern check     -> blocked_pattern (before existence/boundary)
//  5. allowed-root boundary     -> outside_allowed_roots
//  6. symlink target re-check   -> symlink_escape
func (c *Context) ValidatePath(path string) Result {
	return c.validate(path, true)
}

// ValidatePathNoFollow runs the same pipeline without dereferencing symlinks
// (lexical normalization only). It is the only primitive callers may use to
// test a directory entry's accessibility: it can answer "allowed?" without
// performing the very resolution a denial is meant to prevent.
func (c *Context) ValidatePathNoFollow(path string) Result {
	return c.validate(path, false)
}

// EntryInScope reports whether a directory entry is inside the allowed
// boundary without ever stat'ing or resolving it.
func (c *Context) EntryInScope(path string) bool {
	return c.ValidatePathNoFollow(path).Allowed
}

func (c *Context) validate(path string, followSymlinks bool) Result {
	if len(c.roots) == 0 {
		return denied(DenyOutsideAllowedRoots, "no allowed roots configured")
	}

	// Reject raw traversal segments before touching the filesystem.
	for _, seg := range strings.Split(path, string(filepath.Separator)) {
		if seg == ".." {
			return denied(DenyTraversalDetected, "path contains traversal sequence")
		}
	}

	expanded, err := expandHome(path)
	if err != nil {
		return denied(DenyPermissionDenied, err.Error())
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return denied(DenyPermissionDenied, err.Error())
	}

	var canonical string
	if followSymlinks {
		canonical, err = canonicalize(abs)
		if err != nil {
			return denied(DenyPermissionDenied, err.Error())
		}
	} else {
		canonical = filepath.Clean(abs)
	}

	// Blocked patterns are checked before existence or boundary checks.
	if pattern := c.matchBlockedPattern(canonical); pattern != "" {
		return deniedAt(canonical, DenyBlockedPattern, "matches blocked pattern: "+pattern)
	}

	if !c.underAllowedRoot(canonical) {
		// With symlink resolution the canonical form IS the resolved
		// target. A lexically in-root path whose resolution left the
		// boundary is a symlink escape, not a plain out-of-root path.
		if followSymlinks {
			if lexical := filepath.Clean(abs); lexical != canonical && c.underAllowedRoot(lexical) {
				return deniedAt(canonical, DenySymlinkEscape, "symlink target escapes allowed roots")
			}
		}
		return deniedAt(canonical, DenyOutsideAllowedRoots, "path is outside allowed roots")
	}

	return Result{Allowed: true, CanonicalPath: canonical}
}

// matchBlockedPattern checks the dual-mode blocked-pattern rule: a glob match
// against the basename, and for patterns containing a separator, a substring
// match against the slash-normalized full path (for patterns like
// ".git/config"). Returns the matching pattern, or "".
func (c *Context) matchBlockedPattern(path string) string {
	base := filepath.Base(path)
	normalized := filepath.ToSlash(path)
	for _, pattern := range c.blocked {
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return pattern
		}
		if strings.Contains(pattern, "/") && strings.Contains(normalized, pattern) {
			return pattern
		}
	}
	return ""
}

// underAllowedRoot requires equality or a separator-bounded descendant:
// bare string-prefix matching would let /home/user match /home/username.
func (c *Context) underAllowedRoot(canonical string) bool {
	for _, root := range c.roots {
		if canonical == root || strings.HasPrefix(canonical, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// canonicalize resolves symlinks like EvalSymlinks but tolerates a
// nonexistent tail: the longest existing ancestor is resolved and the
// remaining components are appended lexically. Blocked-pattern checks must
// run on nonexistent paths too, so resolution cannot require existence.
func canonicalize(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	cleaned := filepath.Clean(abs)
	parent := filepath.Dir(cleaned)
	if parent == cleaned {
		return cleaned, nil
	}
	resolvedParent, err := canonicalize(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(cleaned)), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand home: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
