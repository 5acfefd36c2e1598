package config

// DefaultBlockedPatterns deny access to common secret-bearing files even
// inside allowed roots. Patterns are matched against a path's basename;
// patterns containing a separator are also matched against the full path.
var DefaultBlockedPatterns = []string{
	// Environment and secrets
	".env", ".env.*",
	// Private keys
	"*.pem", "*.key", "*.p12", "*.pfx", "*.jks",
	"id_rsa", "id_rsa.*", "id_ed25519", "id_ed25519.*", "id_ecdsa", "id_ecdsa.*",
	"authorized_keys", "known_hosts",
	// Credentials files
	"credentials", "credentials.*", "secrets", "secrets.*",
	"*_SECRET", "*_KEY", "*_TOKEN", "*_PASSWORD",
	// Databases
	"*.db", "*.sqlite", "*.sqlite3", "*.kdb", "*.kdbx",
	// Config files with potential secrets
	".git/config", ".npmrc", ".pypirc", ".docker/config.json",
	".aws/credentials", ".aws/config",
	// Kubernetes
	"*.kubeconfig", "kubeconfig",
}

// DefaultConfigYAML returns a commented scaffold written by `airgap init`.
func DefaultConfigYAML() string {
	return `# airgap configuration
# Generated by: airgap init
#
# AirGap is deny-by-default: with no allowed_roots, every access is refused.
# List the directories agents may read. Roots are canonicalized at startup;
# roots that cannot be resolved or are not directories are silently dropped.
allowed_roots: []
#  - /home/me/projects/docs

# Resource budgets. All limits must be positive.
max_file_size_bytes: 1048576   # per-file read cap (1 MiB)
max_response_bytes: 524288     # returned payload cap (512 KiB)
max_results: 100               # directory entries / search matches
max_files_scanned: 10000       # hard ceiling for one search
timeout_seconds: 30

# Audit log (newline-delimited JSON, append-only, hash-chained).
# Leave empty to disable file logging.
audit_log_path: ""
redact_paths_in_audit: true

# Glob patterns denied even inside allowed roots. Matched against the
# basename; patterns containing "/" also match against the full path.
# Omit to use the built-in default set.
#blocked_patterns:
#  - "*.pem"
#  - ".env"
`
}
