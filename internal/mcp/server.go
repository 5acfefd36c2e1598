// Package mcp exposes the sandbox operations as MCP tools over stdio. The
// server owns the security context and swaps it atomically on configuration
// reload; in-flight calls finish against the context they started with.
package mcp

import (
	"context"
	"fmt"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ninobyte/airgap/internal/audit"
	"github.com/ninobyte/airgap/internal/config"
	"github.com/ninobyte/airgap/internal/pathsec"
	"github.com/ninobyte/airgap/internal/sandbox"
)

// Config holds MCP server configuration.
type Config struct {
	// ConfigPath is the AirGap config file; empty falls back to the
	// default location.
	ConfigPath string
	// DisableRipgrep forces the embedded search backend.
	DisableRipgrep bool
}

// Server wraps the MCP SDK server around the audited sandbox operations.
type Server struct {
	mcpServer  *mcpsdk.Server
	configPath string
	noRipgrep  bool
	auditLog   *audit.Logger

	mu  sync.RWMutex
	cfg *config.Config
	box *sandbox.Sandbox
}

// New creates an MCP server with loaded configuration, security context,
// and registered tools.
func New(cfg Config) (*Server, error) {
	appCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	auditLog, err := audit.Open(appCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	s := &Server{
		configPath: cfg.ConfigPath,
		noRipgrep:  cfg.DisableRipgrep,
		auditLog:   auditLog,
		cfg:        appCfg,
		box:        buildSandbox(appCfg, auditLog, cfg.DisableRipgrep),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "airgap",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

func buildSandbox(cfg *config.Config, log *audit.Logger, noRipgrep bool) *sandbox.Sandbox {
	sec := pathsec.NewContext(cfg)
	var opts []sandbox.Option
	if noRipgrep {
		opts = append(opts, sandbox.WithRipgrep(""))
	}
	return sandbox.New(cfg, sec, log, opts...)
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the audit log.
func (s *Server) Close() error {
	return s.auditLog.Close()
}

// Reload re-reads the config file and swaps in a fresh security context and
// sandbox. On any load error the running configuration stays untouched. The
// audit log path is fixed for the process lifetime; changing it requires a
// restart.
func (s *Server) Reload() error {
	appCfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}

	box := buildSandbox(appCfg, s.auditLog, s.noRipgrep)

	s.mu.Lock()
	s.cfg = appCfg
	s.box = box
	s.mu.Unlock()
	return nil
}

// sandbox returns the current sandbox under the read lock.
func (s *Server) sandbox() *sandbox.Sandbox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.box
}

// AllowedRoots reports the canonical roots currently in force.
func (s *Server) AllowedRoots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.box.AllowedRoots()
}

// registerTools adds all airgap tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "airgap_read_file",
		Description: "Read a byte range of a file inside the allowed roots. Access outside the sandbox returns a denial, never file content.",
	}, s.handleReadFile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "airgap_list_dir",
		Description: "List a directory inside the allowed roots with per-entry accessibility. Denied entries carry no metadata.",
	}, s.handleListDir)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "airgap_search_text",
		Description: "Search files under an allowed root for a regex pattern. Results are bounded by match, file, and time budgets.",
	}, s.handleSearchText)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "airgap_redact_preview",
		Description: "Redact secret-shaped substrings (keys, tokens, passwords, PII) from a text snippet. Stateless: no file access.",
	}, s.handleRedactPreview)
}
