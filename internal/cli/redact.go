package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ninobyte/airgap/internal/redact"
)

func init() {
	rootCmd.AddCommand(redactCmd)
}

var redactCmd = &cobra.Command{
	Use:   "redact",
	Short: "Redact secret-shaped substrings from stdin",
	Long:  "Reads text from stdin, masks API keys, tokens, passwords, private keys,\nand common PII shapes, and writes the result to stdout.",
	RunE:  runRedact,
}

func runRedact(cmd *cobra.Command, args []string) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	r := redact.Preview(string(data))
	fmt.Print(r.Content)
	if r.Applied > 0 {
		fmt.Fprintf(os.Stderr, "%d redactions applied (%v)\n", r.Applied, r.Types)
	}
	return nil
}
