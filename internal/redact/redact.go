// Package redact masks common secret shapes in text previews. It is
// deliberately stateless: input string in, redacted string out, no file or
// network access, so it can run on untrusted content without widening the
// sandbox surface.
package redact

import "regexp"

type pattern struct {
	re          *regexp.Regexp
	replacement string
	kind        string
}

// Patterns run in order; earlier, more specific shapes win over the generic
// password catch-all.
var patterns = []pattern{
	{
		re:          regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_\-]{20,})["']?`),
		replacement: "${1}=<REDACTED_API_KEY>",
		kind:        "api_key",
	},
	{
		re:          regexp.MustCompile(`(?i)(bearer)\s+([a-zA-Z0-9_\-.]+)`),
		replacement: "${1} <REDACTED_BEARER_TOKEN>",
		kind:        "bearer_token",
	},
	{
		re:          regexp.MustCompile(`(?i)(aws[_-]?(?:access[_-]?key[_-]?id|secret[_-]?access[_-]?key))\s*[:=]\s*["']?([A-Z0-9/+=]{16,})["']?`),
		replacement: "${1}=<REDACTED_AWS_KEY>",
		kind:        "aws_key",
	},
	{
		re:          regexp.MustCompile(`(?i)(password|passwd|pwd|secret|token)\s*[:=]\s*["']?([^\s"']{8,})["']?`),
		replacement: "${1}=<REDACTED>",
		kind:        "password",
	},
	{
		re:          regexp.MustCompile(`-----BEGIN\s+(?:RSA\s+)?PRIVATE\s+KEY-----[\s\S]*?-----END\s+(?:RSA\s+)?PRIVATE\s+KEY-----`),
		replacement: "<REDACTED_PRIVATE_KEY>",
		kind:        "private_key",
	},
	{
		re:          regexp.MustCompile(`(?i)((?:mongodb|postgres|mysql|redis|amqp)(?:\+\w+)?://[^:]+:)([^@]+)(@.+)`),
		replacement: "${1}<REDACTED>${3}",
		kind:        "connection_string",
	},
	{
		re:          regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		replacement: "<REDACTED_JWT>",
		kind:        "jwt",
	},
	{
		re:          regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36,}`),
		replacement: "<REDACTED_GITHUB_TOKEN>",
		kind:        "github_token",
	},
	{
		re:          regexp.MustCompile(`xox[baprs]-[a-zA-Z0-9-]+`),
		replacement: "<REDACTED_SLACK_TOKEN>",
		kind:        "slack_token",
	},
	{
		re:          regexp.MustCompile(`\b(?:\d{4}[- ]?){3}\d{4}\b`),
		replacement: "<REDACTED_CARD_NUMBER>",
		kind:        "credit_card",
	},
	{
		re:          regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		replacement: "<REDACTED_SSN>",
		kind:        "ssn",
	},
}

// Result reports what a redaction pass did. Types lists each triggered
// pattern kind once, in pattern order.
type Result struct {
	OriginalLength int      `json:"original_length"`
	RedactedLength int      `json:"redacted_length"`
	Applied        int      `json:"redactions_applied"`
	Types          []string `json:"redaction_types"`
	Content        string   `json:"content"`
}

// Preview redacts secret-shaped substrings from content.
func Preview(content string) Result {
	r := Result{
		OriginalLength: len(content),
		Types:          []string{},
	}
	out := content
	for _, p := range patterns {
		n := len(p.re.FindAllStringIndex(out, -1))
		if n > 0 {
			r.Applied += n
			r.Types = append(r.Types, p.kind)
			out = p.re.ReplaceAllString(out, p.replacement)
		}
	}
	r.Content = out
	r.RedactedLength = len(out)
	return r
}
