package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qualdev/qualifier/cmd/qualifier/commands"
	"github.com/qualdev/qualifier/errors"
	"github.com/qualdev/qualifier/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qualifier",
	Short: "Deterministic quality attestations for software artifacts",
	Long: `qualifier - Deterministic quality attestations for software artifacts.

Attestations are append-only JSONL records stored in .qual files next to
the artifacts they judge. Scores accumulate per artifact and propagate
along the dependency graph: nothing scores higher than what it is built on.

Examples:
  qualifier init                                  # set up the repository
  qualifier attest src/parser.rs --kind pass \
      --summary "fuzzed for 24h"                  # add an attestation
  qualifier score                                 # score every artifact
  qualifier check --min-score 0                   # CI gate
  qualifier praise src/parser.rs                  # who attested, and why`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit diagnostics as structured JSON on stderr")

	rootCmd.AddCommand(commands.AttestCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.ScoreCmd)
	rootCmd.AddCommand(commands.LsCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.CompactCmd)
	rootCmd.AddCommand(commands.GraphCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.PraiseCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	// Detect if the user typed "blame" so we can print a hint. The
	// command still runs: blame is an alias for praise.
	if len(os.Args) > 1 && os.Args[1] == "blame" {
		fmt.Fprintln(os.Stderr, `hint: the command is "praise" — qualifier tracks who helped, not who to blame`)
	}

	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		if errors.IsCheckFailed(err) {
			fmt.Fprintf(os.Stderr, "\n%s\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "qualifier: %s\n", err)
		}
		os.Exit(1)
	}
}
