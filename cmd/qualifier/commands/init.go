package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/graph"
	"github.com/qualdev/qualifier/vcs"
)

// InitCmd sets up qualifier in a repository: the graph file, the union
// merge rule for .qual files, and a starter config.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize qualifier in a repository",
	Long: `Initialize qualifier in the enclosing repository.

Creates an empty dependency graph file and, for git repositories, adds a
union merge rule for .qual files so concurrent attestations from
different branches merge without conflicts.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := projectRoot()

	graphPath := filepath.Join(root, graph.DefaultFileName)
	if _, err := os.Stat(graphPath); err == nil {
		fmt.Printf("  %s already exists\n", graph.DefaultFileName)
	} else {
		if err := os.WriteFile(graphPath, nil, 0o644); err != nil {
			return errors.Wrapf(err, "create %s", graphPath)
		}
		fmt.Printf("  Created %s (empty — populate with your dependency graph)\n", graph.DefaultFileName)
	}

	if err := initConfig(root); err != nil {
		return err
	}

	return initMergeRule(root)
}

// starterConfig is the .qualifier.toml written by init. Field values are
// the defaults, spelled out so they are discoverable.
type starterConfig struct {
	Graph    string `toml:"graph"`
	Author   string `toml:"author"`
	Format   string `toml:"format"`
	MinScore int    `toml:"min_score"`
}

func initConfig(root string) error {
	configPath := filepath.Join(root, ".qualifier.toml")
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("  .qualifier.toml already exists")
		return nil
	}

	data, err := toml.Marshal(starterConfig{
		Graph:  graph.DefaultFileName,
		Format: "human",
	})
	if err != nil {
		return errors.Wrap(err, "marshal starter config")
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "create %s", configPath)
	}
	fmt.Println("  Created .qualifier.toml with defaults")
	return nil
}

func initMergeRule(root string) error {
	switch vcsName := vcs.DetectVCS(root); vcsName {
	case "git":
		return initGitAttributes(root)
	case "hg":
		fmt.Println("  Detected VCS: hg")
		fmt.Println("  Add `**.qual = union` to your .hgrc merge patterns")
	case "":
		fmt.Println("  No VCS detected — skipping merge configuration")
	default:
		fmt.Printf("  Detected VCS: %s\n", vcsName)
		fmt.Println("  Configure your VCS to use union merge for *.qual files")
	}
	return nil
}

func initGitAttributes(root string) error {
	gitattributes := filepath.Join(root, ".gitattributes")

	content := ""
	if data, err := os.ReadFile(gitattributes); err == nil {
		content = string(data)
	}

	if strings.Contains(content, "*.qual") {
		fmt.Println("  .gitattributes already contains *.qual rule")
		return nil
	}

	file, err := os.OpenFile(gitattributes, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open %s", gitattributes)
	}
	defer file.Close()

	rule := "*.qual merge=union\n"
	if content != "" && !strings.HasSuffix(content, "\n") {
		rule = "\n" + rule
	}
	if _, err := file.WriteString(rule); err != nil {
		return errors.Wrapf(err, "append to %s", gitattributes)
	}

	fmt.Println("  Detected VCS: git")
	fmt.Println("  Added *.qual merge=union to .gitattributes")
	return nil
}
