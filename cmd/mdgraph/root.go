package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mdgraph/mdgraph/internal/config"
)

var (
	cfgFile  string
	rootFlag string

	cfg *config.Config

	// logOutput is where component loggers write; a rotating log file when
	// log.file is configured, stderr otherwise.
	logOutput io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "mdgraph",
	Short: "Live wiki-link graph engine for markdown vaults",
	Long: `mdgraph derives a directed graph from a directory of markdown notes
connected by [[wiki-links]] and keeps it synchronized with the filesystem
in real time.

Notes become nodes, wiki-links become directed edges, and links to notes
that do not exist yet become phantom nodes. A visualization client can
fetch a full snapshot once and then apply the ordered stream of
incremental change events.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./mdgraph.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "vault root directory (overrides config)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(catCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if rootFlag != "" {
		cfg.RootDir = rootFlag
	}

	if cfg.Log.File != "" {
		logOutput = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		}
		log.SetOutput(logOutput)
	}
}

// requireRoot exits with an error unless a vault root is configured.
func requireRoot() string {
	if cfg.RootDir == "" {
		fmt.Fprintln(os.Stderr, "Error: root directory not configured (use --root or set root_dir in the config file)")
		os.Exit(1)
	}
	return cfg.RootDir
}
