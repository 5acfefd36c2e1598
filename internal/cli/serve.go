package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	airgapmcp "github.com/ninobyte/airgap/internal/mcp"
)

var (
	serveWatch     bool
	serveNoRipgrep bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Hot-reload when the config file changes")
	serveCmd.Flags().BoolVar(&serveNoRipgrep, "no-ripgrep", false, "Force the embedded search backend")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP tool server on stdio",
	Long:  "Runs airgap as an MCP (Model Context Protocol) server over stdio.\nExposes the sandboxed tools: read_file, list_dir, search_text, redact_preview.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := airgapmcp.New(airgapmcp.Config{
		ConfigPath:     cfgPath,
		DisableRipgrep: serveNoRipgrep,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	if serveWatch {
		reloader, err := airgapmcp.NewReloader(srv, cfgPath)
		if err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
		go reloader.Run(ctx)
	}

	fmt.Fprintln(os.Stderr, "airgap MCP server running on stdio")
	roots := srv.AllowedRoots()
	if len(roots) == 0 {
		fmt.Fprintln(os.Stderr, "WARNING: no allowed roots configured; every access will be denied")
	} else {
		fmt.Fprintf(os.Stderr, "Allowed roots: %s\n", strings.Join(roots, ", "))
	}
	fmt.Fprintln(os.Stderr)

	return srv.Run(ctx)
}
