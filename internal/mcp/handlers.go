package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ninobyte/airgap/internal/redact"
	"github.com/ninobyte/airgap/internal/sandbox"
)

// --- Input/Output types ---

// ReadFileInput defines parameters for the airgap_read_file tool.
type ReadFileInput struct {
	Path   string `json:"path" jsonschema:"absolute path of the file to read"`
	Offset int64  `json:"offset,omitempty" jsonschema:"byte offset to start reading at"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum bytes to read, 0 for the server cap"`
}

// ListDirInput defines parameters for the airgap_list_dir tool.
type ListDirInput struct {
	Path string `json:"path" jsonschema:"absolute path of the directory to list"`
}

// SearchTextInput defines parameters for the airgap_search_text tool.
type SearchTextInput struct {
	Path    string `json:"path" jsonschema:"directory to search under"`
	Pattern string `json:"pattern" jsonschema:"regular expression to match"`
}

// RedactPreviewInput defines parameters for the airgap_redact_preview tool.
type RedactPreviewInput struct {
	Content string `json:"content" jsonschema:"text to redact"`
}

// --- Handlers ---
//
// Every handler returns a structured result; a denial or operation failure
// is an IsError tool result carrying the structured payload, never a
// transport-level error.

func (s *Server) handleReadFile(ctx context.Context, req *mcpsdk.CallToolRequest, input ReadFileInput) (*mcpsdk.CallToolResult, sandbox.ReadFileResult, error) {
	out := s.sandbox().ReadFile(input.Path, input.Offset, input.Limit)
	if !out.Success {
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func (s *Server) handleListDir(ctx context.Context, req *mcpsdk.CallToolRequest, input ListDirInput) (*mcpsdk.CallToolResult, sandbox.ListDirResult, error) {
	out := s.sandbox().ListDir(input.Path)
	if !out.Success {
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func (s *Server) handleSearchText(ctx context.Context, req *mcpsdk.CallToolRequest, input SearchTextInput) (*mcpsdk.CallToolResult, sandbox.SearchResult, error) {
	out := s.sandbox().SearchText(input.Path, input.Pattern)
	if !out.Success {
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func (s *Server) handleRedactPreview(ctx context.Context, req *mcpsdk.CallToolRequest, input RedactPreviewInput) (*mcpsdk.CallToolResult, redact.Result, error) {
	return nil, redact.Preview(input.Content), nil
}
