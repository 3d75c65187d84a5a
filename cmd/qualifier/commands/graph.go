package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/graph"
)

// GraphCmd renders the dependency graph.
var GraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Visualize the dependency graph",
	Long: `Render the dependency graph as Graphviz DOT (pipe into dot -Tsvg)
or as canonical JSONL.`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func init() {
	GraphCmd.Flags().String("format", "dot", "Output format (dot, json)")
	GraphCmd.Flags().String("graph", "", "Path to the dependency graph file")
}

func runGraph(cmd *cobra.Command, args []string) error {
	graphPath, _ := cmd.Flags().GetString("graph")
	if graphPath == "" {
		graphPath = filepath.Join(projectRoot(), graph.DefaultFileName)
	}

	if _, err := os.Stat(graphPath); err != nil {
		return errors.NewValidationError("Graph file not found: %s (run `qualifier init` first)", graphPath)
	}

	g, err := graph.Load(graphPath)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "dot":
		fmt.Print(g.ToDOT())
	case "json":
		fmt.Print(g.ToJSONL())
	default:
		return errors.NewValidationError("Unknown format: %s (expected dot or json)", format)
	}
	return nil
}
