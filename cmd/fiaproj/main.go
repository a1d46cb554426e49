// Command fiaproj is a thin CLI shell around the projection, block, and
// reserve packages: it parses flags into already-built config structs
// and calls the core. It never contains projection logic itself — CSV
// ingestion and JSON serialization are out of core scope, so each
// subcommand builds its policy cell(s) directly from flags.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "fiaproj",
		Short: "FIA/GLWB monthly liability projection and CARVM reserving",
	}

	root.AddCommand(newProjectCmd())
	root.AddCommand(newBlockCmd())
	root.AddCommand(newReserveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
