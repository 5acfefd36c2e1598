package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var lsJSON bool

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "Print entries as JSON lines")
}

var lsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List a directory through the sandbox",
	Long:  "Lists a directory inside the allowed roots. Entries the sandbox refuses\nto touch are shown as inaccessible with the denial reason.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	box, log, err := loadSandbox()
	if err != nil {
		return err
	}
	defer log.Close()

	r := box.ListDir(args[0])
	if !r.Success {
		return fmt.Errorf("%s", r.Error)
	}

	for _, e := range r.Entries {
		if lsJSON {
			line, _ := json.Marshal(e)
			fmt.Println(string(line))
			continue
		}
		switch {
		case !e.Accessible:
			fmt.Printf("%-10s  %s  (denied: %s)\n", "-", e.Name, e.DenialReason)
		case e.Size != nil:
			fmt.Printf("%-10d  %s\n", *e.Size, e.Name)
		case e.Type == "directory":
			fmt.Printf("%-10s  %s/\n", "dir", e.Name)
		default:
			fmt.Printf("%-10s  %s\n", e.Type, e.Name)
		}
	}
	if r.Truncated {
		fmt.Fprintln(os.Stderr, "[listing truncated at max_results]")
	}
	return nil
}
