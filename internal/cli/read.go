package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	readOffset int64
	readLimit  int
)

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().Int64Var(&readOffset, "offset", 0, "Byte offset to start reading at")
	readCmd.Flags().IntVar(&readLimit, "limit", 0, "Maximum bytes to read (0 uses the configured cap)")
}

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Read a file through the sandbox",
	Long:  "Reads a byte range of a file inside the allowed roots and writes the\ndecoded content to stdout. The read is audited like any agent access.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

func runRead(cmd *cobra.Command, args []string) error {
	box, log, err := loadSandbox()
	if err != nil {
		return err
	}
	defer log.Close()

	r := box.ReadFile(args[0], readOffset, readLimit)
	if !r.Success {
		return fmt.Errorf("%s", r.Error)
	}

	fmt.Print(r.Content)
	if r.Truncated {
		fmt.Fprintf(os.Stderr, "\n[truncated: %d bytes returned from offset %d]\n", r.BytesRead, r.Offset)
	}
	return nil
}
