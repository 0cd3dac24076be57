package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mdgraph/mdgraph/internal/template"
)

var newCmd = &cobra.Command{
	Use:   "new <id>",
	Short: "Create a note from the phantom-node template",
	Long: `Create a new note in the vault from the configured template.

Template variables {{date}} and {{week}} are replaced with the current
date and ISO week number. Fails if the note already exists.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := requireRoot()
		if cfg.Template.PhantomNode == "" {
			fmt.Fprintln(os.Stderr, "Error: phantom node template not configured")
			os.Exit(1)
		}

		path := filepath.Join(root, args[0]+".md")
		if err := template.CreateNote(cfg.Template.PhantomNode, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created %s\n", path)
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <id>",
	Short: "Print a note's content",
	Long: `Print a note's raw markdown content, skipping the configured
previewer offset (e.g. front matter lines).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := requireRoot()

		path := filepath.Join(root, args[0]+".md")
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		lines := strings.Split(string(content), "\n")
		if offset := cfg.Previewer.Offset; offset > 0 {
			if offset >= len(lines) {
				lines = nil
			} else {
				lines = lines[offset:]
			}
		}
		fmt.Println(strings.Join(lines, "\n"))
	},
}
