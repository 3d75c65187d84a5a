package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/display"
	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/logger"
)

// ScoreCmd computes and displays artifact scores.
var ScoreCmd = &cobra.Command{
	Use:   "score [artifact...]",
	Short: "Compute and display scores",
	Long: `Compute raw and effective scores for artifacts.

The raw score sums an artifact's active attestations. The effective score
is floored by the effective scores of its dependencies, so an artifact
never scores higher than what it is built on. With no arguments every
known artifact is scored.`,
	RunE: runScore,
}

func init() {
	ScoreCmd.Flags().String("format", "human", "Output format (human, json)")
	ScoreCmd.Flags().String("graph", "", "Path to the dependency graph file")
	ScoreCmd.Flags().Bool("watch", false, "Re-render on .qual or graph file changes")
}

func runScore(cmd *cobra.Command, args []string) error {
	graphFlag, _ := cmd.Flags().GetString("graph")
	formatFlag, _ := cmd.Flags().GetString("format")
	formatChanged := cmd.Flags().Changed("format")

	render := func() error {
		ws, err := loadWorkspace(graphFlag)
		if err != nil {
			return err
		}
		return renderScores(ws, args, ws.outputFormat(formatFlag, formatChanged))
	}

	if err := render(); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchScores(render)
	}
	return nil
}

func renderScores(ws *workspace, filter []string, format string) error {
	reports, artifacts := ws.reports()

	if len(filter) > 0 {
		wanted := make(map[string]bool, len(filter))
		for _, artifact := range filter {
			wanted[artifact] = true
		}
		kept := artifacts[:0]
		for _, artifact := range artifacts {
			if wanted[artifact] {
				kept = append(kept, artifact)
			}
		}
		artifacts = kept
	}

	entries := make([]display.ArtifactScore, 0, len(artifacts))
	for _, artifact := range artifacts {
		entries = append(entries, display.ArtifactScore{Artifact: artifact, Report: reports[artifact]})
	}

	if format == "json" {
		out, err := display.ScoresJSON(entries)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No qualified artifacts")
		return nil
	}

	table, err := display.ScoreTable(entries)
	if err != nil {
		return err
	}
	fmt.Print(table)
	return nil
}

// watchScores re-renders whenever a .qual file or the dependency graph
// changes anywhere under the project root. Events are debounced since
// editors fire several per save.
func watchScores(render func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	root := projectRoot()
	if err := watchTree(watcher, root); err != nil {
		return err
	}
	logger.Infow("watching for changes", "root", root)

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Debugw("cannot watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if !relevantChange(event.Name) {
				continue
			}
			pending = time.After(200 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watch error", "error", err)
		case <-pending:
			pending = nil
			if err := render(); err != nil {
				logger.Errorw("render failed", "error", err)
			}
		}
	}
}

func relevantChange(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".qual") || base == "qualifier.graph.jsonl"
}

func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			logger.Debugw("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}
