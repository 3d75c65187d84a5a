// Package graph implements the dependency graph over qualified artifact
// names, loaded from qualifier.graph.jsonl. Scores propagate along these
// edges: an artifact is never healthier than what it depends on.
package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/qualdev/qualifier/errors"
)

// DefaultFileName is the graph file qualifier looks for at the project root.
const DefaultFileName = "qualifier.graph.jsonl"

// DependencyGraph is a directed graph over artifact names. Edges point
// from dependent to dependency. Construction rejects cycles, so a loaded
// graph is always a DAG.
type DependencyGraph struct {
	// edges maps each artifact to its direct dependencies, in insertion
	// order. Every artifact that appears anywhere has an entry.
	edges map[string][]string
	order []string
}

// entry is one line of the qualifier.graph.jsonl file.
type entry struct {
	Subject   string   `json:"subject"`
	DependsOn []string `json:"depends_on"`
}

// Empty creates a graph with no artifacts.
func Empty() *DependencyGraph {
	return &DependencyGraph{edges: make(map[string][]string)}
}

func (g *DependencyGraph) insert(name string) {
	if _, ok := g.edges[name]; !ok {
		g.edges[name] = nil
		g.order = append(g.order, name)
	}
}

func (g *DependencyGraph) addEdge(from, to string) {
	g.insert(from)
	g.insert(to)
	g.edges[from] = append(g.edges[from], to)
}

// Artifacts returns all artifact names in the graph, in first-seen order.
func (g *DependencyGraph) Artifacts() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Dependencies returns the direct dependencies of an artifact. Unknown
// artifacts have none.
func (g *DependencyGraph) Dependencies(artifact string) []string {
	return g.edges[artifact]
}

// Contains reports whether the artifact appears in the graph, as either
// a dependent or a dependency.
func (g *DependencyGraph) Contains(artifact string) bool {
	_, ok := g.edges[artifact]
	return ok
}

// Len returns the number of artifacts.
func (g *DependencyGraph) Len() int {
	return len(g.edges)
}

// IsEmpty reports whether the graph has no artifacts.
func (g *DependencyGraph) IsEmpty() bool {
	return len(g.edges) == 0
}

// Toposort returns the artifacts ordered dependencies-first, so each
// artifact appears after everything it depends on. Returns a cycle error
// naming an artifact on the cycle when no such ordering exists.
func (g *DependencyGraph) Toposort() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.edges))
	order := make([]string, 0, len(g.edges))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.NewCycleError("dependency graph", "cycle involving artifact '%s'", name)
		}
		state[name] = visiting
		for _, dep := range g.edges[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range g.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// ToDOT renders the graph in DOT format for Graphviz.
func (g *DependencyGraph) ToDOT() string {
	var out strings.Builder
	out.WriteString("digraph qualifier {\n")
	out.WriteString("  rankdir=LR;\n")
	out.WriteString("  node [shape=box];\n")

	for _, name := range g.order {
		fmt.Fprintf(&out, "  %q;\n", name)
		for _, dep := range g.edges[name] {
			fmt.Fprintf(&out, "  %q -> %q;\n", name, dep)
		}
	}

	out.WriteString("}\n")
	return out.String()
}

// ToJSONL serializes the graph back to its file format, artifacts and
// dependency lists both sorted for stable output.
func (g *DependencyGraph) ToJSONL() string {
	artifacts := g.Artifacts()
	sort.Strings(artifacts)

	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	for _, artifact := range artifacts {
		deps := append([]string{}, g.edges[artifact]...)
		sort.Strings(deps)
		// Encode never fails for this shape.
		_ = enc.Encode(entry{Subject: artifact, DependsOn: deps})
	}
	return out.String()
}

// Load reads a dependency graph from a qualifier.graph.jsonl file.
func Load(path string) (*DependencyGraph, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read graph file %s", path)
	}
	return Parse(string(content))
}

// Parse builds a dependency graph from JSONL content. Each line is an
// object {"subject": ..., "depends_on": [...]}; blank lines and lines
// starting with // are skipped. Parsing fails on malformed lines and on
// cyclic graphs.
func Parse(content string) (*DependencyGraph, error) {
	g := Empty()

	for lineNo, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		var e entry
		if err := json.Unmarshal([]byte(trimmed), &e); err != nil {
			return nil, errors.NewValidationError("graph line %d: %s", lineNo+1, err)
		}

		g.insert(e.Subject)
		for _, dep := range e.DependsOn {
			g.addEdge(e.Subject, dep)
		}
	}

	if _, err := g.Toposort(); err != nil {
		return nil, err
	}
	return g, nil
}
