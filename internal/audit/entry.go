package audit

// Entry is one line in the append-only JSONL audit log. Entries record
// metadata only: file content is never logged, and raw search patterns are
// always replaced by a hash. When path redaction is enabled, Path is empty
// and PathHash carries a deterministic, non-reversible digest instead.
type Entry struct {
	Timestamp    string         `json:"timestamp"`
	Operation    string         `json:"operation"`
	Path         string         `json:"path,omitempty"`
	PathHash     string         `json:"path_hash,omitempty"`
	Success      bool           `json:"success"`
	DenialReason string         `json:"denial_reason,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	PrevHash     string         `json:"prev_hash"`
}
