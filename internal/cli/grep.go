package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ninobyte/airgap/internal/sandbox"
)

var grepNoRipgrep bool

func init() {
	rootCmd.AddCommand(grepCmd)
	grepCmd.Flags().BoolVar(&grepNoRipgrep, "no-ripgrep", false, "Force the embedded search backend")
}

var grepCmd = &cobra.Command{
	Use:   "grep <pattern> <path>",
	Short: "Search files through the sandbox",
	Long:  "Searches files under an allowed root for a regex pattern, bounded by the\nconfigured match, file, and time budgets.",
	Args:  cobra.ExactArgs(2),
	RunE:  runGrep,
}

func runGrep(cmd *cobra.Command, args []string) error {
	var opts []sandbox.Option
	if grepNoRipgrep {
		opts = append(opts, sandbox.WithRipgrep(""))
	}
	box, log, err := loadSandbox(opts...)
	if err != nil {
		return err
	}
	defer log.Close()

	r := box.SearchText(args[1], args[0])
	if !r.Success {
		return fmt.Errorf("%s", r.Error)
	}

	for _, m := range r.Matches {
		fmt.Printf("%s:%d:%s\n", m.FilePath, m.LineNumber, m.LineContent)
	}

	fmt.Fprintf(os.Stderr, "%d matches in %d files (%s)\n", len(r.Matches), r.FilesScanned, r.Method)
	if r.TimedOut {
		fmt.Fprintln(os.Stderr, "[search timed out; results are partial]")
	} else if r.Truncated {
		fmt.Fprintln(os.Stderr, "[search truncated by budget; results are partial]")
	}
	return nil
}
