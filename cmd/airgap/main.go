// airgap is a read-only filesystem sandbox for AI agents.
// Serves bounded read, list, and search tools over explicitly allowed
// roots; everything else is denied and every access is audited.
package main

import "github.com/ninobyte/airgap/internal/cli"

func main() {
	cli.Execute()
}
