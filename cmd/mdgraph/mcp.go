package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/mdgraph/mdgraph/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve mdgraph tools over MCP (stdio)",
	Long: `Start an MCP server on stdio exposing graph operations to assistants.

Tools:
  scan_graph   full knowledge graph as JSON
  read_note    raw note content by node id
  create_note  create a note from the phantom-node template
  get_config   active configuration`,
	Run: func(cmd *cobra.Command, args []string) {
		s := server.NewMCPServer(
			"mdgraph",
			"1.0.0",
			server.WithToolCapabilities(true),
		)

		mcptools.Register(s, cfg)

		if err := server.ServeStdio(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}
