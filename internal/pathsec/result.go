package pathsec

// DenialReason is the closed set of reasons a path may be refused. The codes
// are stable: downstream audit tooling matches on them, so new values require
// versioning rather than silent reuse.
type DenialReason string

const (
	DenyOutsideAllowedRoots DenialReason = "outside_allowed_roots"
	DenyTraversalDetected   DenialReason = "traversal_detected"
	DenySymlinkEscape       DenialReason = "symlink_escape"
	DenyBlockedPattern      DenialReason = "blocked_pattern"
	DenyNotExists           DenialReason = "not_exists"
	DenyPermissionDenied    DenialReason = "permission_denied"
)

// Result is the outcome of a path validation. Denial is always a value, never
// an error: "found nothing" and "was not allowed to look" stay distinguishable.
//
// CanonicalPath is populated whenever it was computable, even on some denials,
// so audit records can reference it. Callers must not use it unless Allowed.
type Result struct {
	Allowed       bool
	CanonicalPath string
	Reason        DenialReason
	Detail        string
}

func denied(reason DenialReason, detail string) Result {
	return Result{Reason: reason, Detail: detail}
}

func deniedAt(canonical string, reason DenialReason, detail string) Result {
	return Result{CanonicalPath: canonical, Reason: reason, Detail: detail}
}
