package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ninobyte/airgap/internal/audit"
	"github.com/ninobyte/airgap/internal/config"
	"github.com/ninobyte/airgap/internal/pathsec"
	"github.com/ninobyte/airgap/internal/sandbox"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "airgap",
	Short: "Read-only filesystem sandbox for AI agents",
	Long:  "Serves bounded read, list, and search operations over explicitly allowed\ndirectory roots. Everything outside the roots is denied, and every\noperation is recorded in a hash-chained audit log.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config YAML (default ~/.airgap/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSandbox builds the full operation stack from the configured file.
// The caller owns the returned audit logger.
func loadSandbox(opts ...sandbox.Option) (*sandbox.Sandbox, *audit.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := audit.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	sec := pathsec.NewContext(cfg)
	return sandbox.New(cfg, sec, log, opts...), log, nil
}
