package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ninobyte/airgap/internal/config"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the airgap configuration",
	Long: `Creates ~/.airgap/config.yaml with the default limits and blocked
patterns. Edit allowed_roots before serving: with no roots configured
every access is denied.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".airgap")
	path := filepath.Join(dir, "config.yaml")

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("%s already exists (use --force to overwrite).\n", path)
			return nil
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.DefaultConfigYAML()), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Println("airgap init complete.")
	fmt.Println()
	fmt.Printf("Created: %s\n", path)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit allowed_roots in the config")
	fmt.Println("  2. Verify with: airgap check <path>")
	fmt.Println("  3. Start the server: airgap serve")
	return nil
}
