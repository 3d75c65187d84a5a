// Package commands implements the qualifier CLI subcommands.
package commands

import (
	"path/filepath"
	"sort"

	"github.com/qualdev/qualifier/config"
	"github.com/qualdev/qualifier/graph"
	"github.com/qualdev/qualifier/qualfile"
	"github.com/qualdev/qualifier/scoring"
	"github.com/qualdev/qualifier/vcs"
)

// workspace bundles everything a scoring command needs: the project root,
// merged configuration, the dependency graph, and every discovered .qual
// file under the root.
type workspace struct {
	Root      string
	Cfg       config.Config
	Graph     *graph.DependencyGraph
	QualFiles []*qualfile.QualFile
}

// projectRoot locates the enclosing project, falling back to the current
// directory when no graph file or VCS marker is found. Commands work fine
// in a bare directory; they just score whatever is underneath it.
func projectRoot() string {
	if root := vcs.FindProjectRoot("."); root != "" {
		return root
	}
	return "."
}

// loadWorkspace discovers the project state. graphFlag overrides the
// configured graph location when non-empty.
func loadWorkspace(graphFlag string) (*workspace, error) {
	root := projectRoot()
	cfg := config.Load(root)

	explicit := graphFlag
	if explicit == "" && cfg.Graph != graph.DefaultFileName {
		explicit = cfg.Graph
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(root, explicit)
		}
	}
	g := config.LoadGraph(explicit, root)

	qualFiles, err := qualfile.Discover(root)
	if err != nil {
		return nil, err
	}

	return &workspace{Root: root, Cfg: cfg, Graph: g, QualFiles: qualFiles}, nil
}

// reports computes the effective score report for every known artifact
// and returns the artifact names in sorted order.
func (ws *workspace) reports() (map[string]scoring.ScoreReport, []string) {
	reports := scoring.EffectiveScores(ws.Graph, ws.QualFiles)
	artifacts := make([]string, 0, len(reports))
	for artifact := range reports {
		artifacts = append(artifacts, artifact)
	}
	sort.Strings(artifacts)
	return reports, artifacts
}

// outputFormat resolves the output format: the flag wins when set,
// otherwise the configured default.
func (ws *workspace) outputFormat(flagValue string, flagChanged bool) string {
	if flagChanged {
		return flagValue
	}
	if ws.Cfg.Format != "" {
		return ws.Cfg.Format
	}
	return "human"
}
