// Package config loads mdgraph configuration from file, environment, and
// defaults via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full mdgraph configuration.
type Config struct {
	// RootDir is the vault directory to scan and watch.
	RootDir string `mapstructure:"root_dir"`

	Template  TemplateConfig  `mapstructure:"template"`
	Previewer PreviewerConfig `mapstructure:"previewer"`
	Server    ServerConfig    `mapstructure:"server"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Log       LogConfig       `mapstructure:"log"`
}

// TemplateConfig configures template-backed note creation.
type TemplateConfig struct {
	// PhantomNode is the template file used when materializing a phantom
	// node as a real note.
	PhantomNode string `mapstructure:"phantom_node"`
}

// PreviewerConfig configures note content previews.
type PreviewerConfig struct {
	// Offset is the number of leading lines skipped when serving note
	// content, e.g. to hide front matter.
	Offset int `mapstructure:"offset"`
}

// ServerConfig configures the live event server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// WatchConfig configures the watch pipeline.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// File enables rotating log-file output when set.
	File string `mapstructure:"file"`
}

// Load reads configuration with the usual precedence: explicit file path,
// else an mdgraph config file discovered in the working directory or
// ~/.config/mdgraph, overridden by MDGRAPH_* environment variables. A
// missing config file is not an error unless the path was explicit.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a default registered so environment overrides are
	// visible to Unmarshal.
	v.SetDefault("root_dir", "")
	v.SetDefault("template.phantom_node", "")
	v.SetDefault("previewer.offset", 0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("watch.debounce", 300*time.Millisecond)
	v.SetDefault("log.file", "")

	v.SetEnvPrefix("MDGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading configuration file: %w", err)
		}
	} else {
		v.SetConfigName("mdgraph")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mdgraph")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading configuration file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}
	return &cfg, nil
}
