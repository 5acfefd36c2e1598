package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ninobyte/airgap/internal/config"
	"github.com/ninobyte/airgap/internal/pathsec"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Check whether paths would be authorized without touching them",
	Long: "Runs each path through the full validation pipeline and prints the\n" +
		"decision. Nothing is read and nothing is audited.\n\n" +
		"Exit code 0 if all paths are allowed, 1 if any is denied.",
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	sec := pathsec.NewContext(cfg)

	anyDenied := false
	for _, path := range args {
		v := sec.ValidatePath(path)
		out := map[string]any{
			"path":    path,
			"allowed": v.Allowed,
		}
		if v.Allowed {
			out["canonical_path"] = v.CanonicalPath
		} else {
			out["reason"] = string(v.Reason)
			out["detail"] = v.Detail
			anyDenied = true
		}
		line, _ := json.Marshal(out)
		fmt.Println(string(line))
	}

	if anyDenied {
		os.Exit(1)
	}
	return nil
}
