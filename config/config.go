// Package config loads qualifier settings, merged from several sources.
//
// Precedence, highest wins:
//
//  1. CLI flags (applied by the commands themselves)
//  2. Environment variables (QUALIFIER_*)
//  3. Project-level .qualifier.toml
//  4. User-level ~/.config/qualifier/config.toml
//  5. Defaults
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/qualdev/qualifier/graph"
	"github.com/qualdev/qualifier/logger"
)

// Config holds the merged qualifier settings.
type Config struct {
	// Graph is the path to the dependency graph file.
	Graph string `mapstructure:"graph"`
	// Author is the default author for new attestations. Empty means
	// detect from the VCS.
	Author string `mapstructure:"author"`
	// Format is the default output format, "human" or "json".
	Format string `mapstructure:"format"`
	// MinScore is the default threshold for the check command.
	MinScore int `mapstructure:"min_score"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Graph:    graph.DefaultFileName,
		Format:   "human",
		MinScore: 0,
	}
}

// Load merges all configuration sources. Missing config files are fine;
// malformed ones are logged and skipped rather than failing the command.
func Load(projectRoot string) Config {
	v := viper.New()
	v.SetDefault("graph", graph.DefaultFileName)
	v.SetDefault("author", "")
	v.SetDefault("format", "human")
	v.SetDefault("min_score", 0)

	if home, err := os.UserHomeDir(); err == nil {
		mergeFile(v, filepath.Join(home, ".config", "qualifier", "config.toml"))
	}
	if projectRoot != "" {
		mergeFile(v, filepath.Join(projectRoot, ".qualifier.toml"))
	}

	v.SetEnvPrefix("QUALIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Warnw("invalid configuration, using defaults", "error", err)
		return Default()
	}
	return cfg
}

func mergeFile(v *viper.Viper, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.MergeInConfig(); err != nil {
		logger.Warnw("skipping unreadable config file", "path", path, "error", err)
	}
}

// LoadGraph loads the dependency graph, falling back to an empty graph
// when the file is absent. An explicit path always wins over the default
// location under root.
func LoadGraph(explicitPath, root string) *graph.DependencyGraph {
	path := explicitPath
	if path == "" {
		if root == "" {
			return graph.Empty()
		}
		path = filepath.Join(root, graph.DefaultFileName)
		if _, err := os.Stat(path); err != nil {
			return graph.Empty()
		}
	}

	g, err := graph.Load(path)
	if err != nil {
		logger.Warnw("failed to load dependency graph", "path", path, "error", err)
		return graph.Empty()
	}
	return g
}
