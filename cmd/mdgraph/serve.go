package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mdgraph/mdgraph/internal/cache"
	"github.com/mdgraph/mdgraph/internal/scan"
	"github.com/mdgraph/mdgraph/internal/server"
	"github.com/mdgraph/mdgraph/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Watch the vault and serve live graph updates",
	Long: `Scan the vault, then watch it for changes and serve the graph to
visualization clients.

Endpoints:
  /ws       WebSocket stream of incremental change events
  /graph    full snapshot (rescans the vault on every request)
  /note/ID  raw note content with the configured preview offset
  /health   server health and client count
  /metrics  Prometheus metrics

Change events arrive in a fixed order per delta: node-removed,
edge-removed, node-added, node-updated, edge-added.`,
	Run: func(cmd *cobra.Command, args []string) {
		root := requireRoot()

		port, _ := cmd.Flags().GetInt("port")
		if !cmd.Flags().Changed("port") {
			port = cfg.Server.Port
		}

		// Seed the cache from an initial full scan.
		docs, err := scan.Dir(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning vault: %v\n", err)
			os.Exit(1)
		}
		c := cache.Seed(docs)
		fmt.Printf("Scanned %d notes under %s\n", len(docs), root)

		watchConfig := watch.DefaultConfig()
		if cfg.Watch.Debounce > 0 {
			watchConfig.Debounce = cfg.Watch.Debounce
		}
		watchConfig.Logger = log.New(logOutput, "[watch] ", log.LstdFlags)

		pipeline, err := watch.New(root, c, watchConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating watch pipeline: %v\n", err)
			os.Exit(1)
		}

		srv := server.NewServer(&server.Config{
			Port:          port,
			Root:          root,
			PreviewOffset: cfg.Previewer.Offset,
			Logger:        log.New(logOutput, "[server] ", log.LstdFlags),
		})

		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting server: %v\n", err)
			os.Exit(1)
		}
		if err := pipeline.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting watch pipeline: %v\n", err)
			_ = srv.Stop()
			os.Exit(1)
		}

		go srv.Relay(pipeline.Events())

		fmt.Printf("Serving graph on http://localhost%s\n", portSuffix(srv.Addr()))
		fmt.Printf("WebSocket endpoint: ws://localhost%s/ws\n", portSuffix(srv.Addr()))
		fmt.Println("\nPress Ctrl+C to stop...")

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		<-ctx.Done()

		fmt.Println("\nShutting down...")
		pipeline.Stop()
		if err := srv.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error stopping server: %v\n", err)
			os.Exit(1)
		}
	},
}

// portSuffix extracts ":port" from a listen address like "[::]:8080".
func portSuffix(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i:]
		}
	}
	return addr
}

func init() {
	serveCmd.Flags().Int("port", 8080, "port to listen on")
}
