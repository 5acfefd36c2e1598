package sandbox

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ninobyte/airgap/internal/pathsec"
)

// DirectoryEntry describes one entry of a listed directory. For an
// inaccessible entry the type is always "unknown" and the size is absent:
// no metadata was queried for it.
type DirectoryEntry struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	Type         string `json:"type"` // file, directory, symlink, unknown
	Accessible   bool   `json:"accessible"`
	Size         *int64 `json:"size,omitempty"`
	DenialReason string `json:"denial_reason,omitempty"`
}

// ListDirResult is the outcome of a directory listing.
type ListDirResult struct {
	Success   bool             `json:"success"`
	Path      string           `json:"path"`
	Entries   []DirectoryEntry `json:"entries"`
	Truncated bool             `json:"truncated"`
	Error     string           `json:"error,omitempty"`
}

// ListDir enumerates a directory with security-aware per-entry metadata.
// Entries are read in batches (never materialized as a whole), capped at
// max_results. Each entry's accessibility is decided by the no-follow
// validator before any stat; denied entries are never stat'd at all. A
// per-entry OS error degrades only that entry; an error on the directory
// itself fails the whole call.
func (s *Sandbox) ListDir(path string) ListDirResult {
	v := s.sec.ValidatePath(path)
	if !v.Allowed {
		s.log.LogDenied("list_dir", path, string(v.Reason))
		return ListDirResult{Path: path, Entries: []DirectoryEntry{}, Error: "access denied: " + v.Detail}
	}
	canonical := v.CanonicalPath

	info, err := os.Stat(canonical)
	if err != nil {
		s.log.LogDenied("list_dir", path, "os_error")
		return ListDirResult{Path: path, Entries: []DirectoryEntry{}, Error: "cannot access directory: " + err.Error()}
	}
	if !info.IsDir() {
		s.log.LogDenied("list_dir", path, "not_a_directory")
		return ListDirResult{Path: path, Entries: []DirectoryEntry{}, Error: "path is not a directory"}
	}

	dir, err := os.Open(canonical)
	if err != nil {
		s.log.LogDenied("list_dir", path, "os_error")
		return ListDirResult{Path: path, Entries: []DirectoryEntry{}, Error: "error reading directory: " + err.Error()}
	}
	defer dir.Close()

	entries := []DirectoryEntry{}
	truncated := false

scan:
	for {
		batch, err := dir.ReadDir(256)
		for _, de := range batch {
			if len(entries) >= s.cfg.MaxResults {
				truncated = true
				break scan
			}
			entries = append(entries, s.describeEntry(canonical, de))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			s.log.LogDenied("list_dir", path, "os_error")
			return ListDirResult{Path: path, Entries: []DirectoryEntry{}, Error: "error reading directory: " + err.Error()}
		}
	}

	s.log.LogListDir(canonical, len(entries), true, "")
	return ListDirResult{Success: true, Path: canonical, Entries: entries, Truncated: truncated}
}

func (s *Sandbox) describeEntry(parent string, de fs.DirEntry) DirectoryEntry {
	entryPath := filepath.Join(parent, de.Name())

	// Accessibility is decided without following the entry: a denial must
	// not trigger the very resolution it is meant to prevent.
	ev := s.sec.ValidatePathNoFollow(entryPath)
	if !ev.Allowed {
		return DirectoryEntry{
			Name:         de.Name(),
			Path:         entryPath,
			Type:         "unknown",
			Accessible:   false,
			DenialReason: string(ev.Reason),
		}
	}

	// Symlink-ness is checked before following.
	if de.Type()&fs.ModeSymlink != 0 {
		tv := s.sec.ValidatePath(entryPath)
		if !tv.Allowed {
			return DirectoryEntry{
				Name:         de.Name(),
				Path:         entryPath,
				Type:         "symlink",
				Accessible:   false,
				DenialReason: string(pathsec.DenySymlinkEscape),
			}
		}
		entryType := "symlink"
		if info, err := os.Stat(entryPath); err == nil {
			switch {
			case info.IsDir():
				entryType = "directory"
			case info.Mode().IsRegular():
				entryType = "file"
			}
		}
		return DirectoryEntry{Name: de.Name(), Path: entryPath, Type: entryType, Accessible: true}
	}

	info, err := de.Info()
	if err != nil {
		return DirectoryEntry{
			Name:         de.Name(),
			Path:         entryPath,
			Type:         "unknown",
			Accessible:   false,
			DenialReason: string(pathsec.DenyPermissionDenied),
		}
	}

	entry := DirectoryEntry{Name: de.Name(), Path: entryPath, Accessible: true}
	switch {
	case info.IsDir():
		entry.Type = "directory"
	case info.Mode().IsRegular():
		entry.Type = "file"
		size := info.Size()
		entry.Size = &size
	default:
		entry.Type = "unknown"
	}
	return entry
}
