// Package mcptools exposes mdgraph operations as MCP tools so assistants
// can query and extend the knowledge graph.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mdgraph/mdgraph/internal/config"
	"github.com/mdgraph/mdgraph/internal/graph"
	"github.com/mdgraph/mdgraph/internal/template"
)

// Register adds all mdgraph tools to the MCP server.
func Register(s *server.MCPServer, cfg *config.Config) {
	s.AddTool(scanGraphTool(), scanGraphHandler(cfg))
	s.AddTool(readNoteTool(), readNoteHandler(cfg))
	s.AddTool(createNoteTool(), createNoteHandler(cfg))
	s.AddTool(getConfigTool(), getConfigHandler(cfg))
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// --- scan_graph ---

func scanGraphTool() mcp.Tool {
	return mcp.NewTool("scan_graph",
		mcp.WithDescription("Scan the vault and return the full knowledge graph (nodes and edges) as JSON."),
		mcp.WithString("path",
			mcp.Description("Directory to scan. Defaults to the configured root directory."),
		),
	)
}

func scanGraphHandler(cfg *config.Config) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root := req.GetString("path", cfg.RootDir)
		if root == "" {
			return toolError(fmt.Errorf("root directory not configured"))
		}

		snap, err := graph.BuildFromDir(root)
		if err != nil {
			return toolError(err)
		}

		data, err := json.Marshal(snap)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// --- read_note ---

func readNoteTool() mcp.Tool {
	return mcp.NewTool("read_note",
		mcp.WithDescription("Read a note's raw markdown content by node id."),
		mcp.WithString("id",
			mcp.Description("Node id (file name without extension)"),
			mcp.Required(),
		),
	)
}

func readNoteHandler(cfg *config.Config) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}
		if cfg.RootDir == "" {
			return toolError(fmt.Errorf("root directory not configured"))
		}

		path := filepath.Join(cfg.RootDir, id+".md")
		content, err := os.ReadFile(path)
		if err != nil {
			return toolError(fmt.Errorf("failed to read note %s: %w", id, err))
		}

		text := string(content)
		if offset := cfg.Previewer.Offset; offset > 0 {
			lines := strings.Split(text, "\n")
			if offset >= len(lines) {
				lines = nil
			} else {
				lines = lines[offset:]
			}
			text = strings.Join(lines, "\n")
		}
		return mcp.NewToolResultText(text), nil
	}
}

// --- create_note ---

func createNoteTool() mcp.Tool {
	return mcp.NewTool("create_note",
		mcp.WithDescription("Create a note from the configured phantom-node template. Fails if the note already exists."),
		mcp.WithString("id",
			mcp.Description("Node id for the new note"),
			mcp.Required(),
		),
	)
}

func createNoteHandler(cfg *config.Config) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}
		if cfg.RootDir == "" {
			return toolError(fmt.Errorf("root directory not configured"))
		}
		if cfg.Template.PhantomNode == "" {
			return toolError(fmt.Errorf("phantom node template not configured"))
		}

		path := filepath.Join(cfg.RootDir, id+".md")
		if err := template.CreateNote(cfg.Template.PhantomNode, path); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("created " + path), nil
	}
}

// --- get_config ---

func getConfigTool() mcp.Tool {
	return mcp.NewTool("get_config",
		mcp.WithDescription("Return the active mdgraph configuration as JSON."),
	)
}

func getConfigHandler(cfg *config.Config) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
