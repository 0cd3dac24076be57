package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdgraph/mdgraph/internal/graph"
	"github.com/mdgraph/mdgraph/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the vault and print the full graph",
	Long: `Scan the vault once and build a complete graph snapshot.

Prints a styled summary by default, or the full snapshot as JSON with
--json. The JSON shape is the same one served on /graph and streamed to
websocket clients.`,
	Run: func(cmd *cobra.Command, args []string) {
		root := requireRoot()

		snap, err := graph.BuildFromDir(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(snap); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		fmt.Print(ui.ScanSummary(root, snap))
	},
}

func init() {
	scanCmd.Flags().Bool("json", false, "print the full snapshot as JSON")
}
