package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/mintin/internal/catalog"
	"github.com/example/mintin/internal/progress"
	"github.com/example/mintin/internal/session"
	"github.com/example/mintin/internal/terminal"
	"github.com/example/mintin/pkg/models"
)

var (
	progressPath    string
	outProgressPath string
	classic         bool
)

func init() {
	drillCmd.Flags().StringVarP(&progressPath, "progress", "p", "", "progress file to read; created when missing, not tracked when empty")
	drillCmd.Flags().StringVarP(&outProgressPath, "outprogress", "o", "", "progress file to write (defaults to --progress)")
	drillCmd.Flags().BoolVarP(&classic, "classic", "c", false, "no recall check of a just-learned entry")
}

var drillCmd = &cobra.Command{
	Use:   "drill <catalog>",
	Short: "Drill a catalog in the terminal",
	Long: `Drill a JSON catalog in the terminal.

Examples:
  # Drill without keeping progress
  mintin drill german.json

  # Keep progress between runs
  mintin drill german.json --progress german.progress.json

  # Start from a shared snapshot, write to a private one
  mintin drill german.json -p shared.json -o mine.json`,
	Args: cobra.ExactArgs(1),
	RunE: runDrill,
}

func runDrill(cmd *cobra.Command, args []string) error {
	items, err := catalog.LoadFile(args[0])
	if err != nil {
		return err
	}

	var store progress.Store
	if progressPath != "" || outProgressPath != "" {
		store = &progress.FileStore{InPath: progressPath, OutPath: outProgressPath}
	}
	table, err := progress.Open(store, items, models.DefaultScoreArgs)
	if err != nil {
		return err
	}

	s, err := session.New(table, items, session.Options{
		Classic:     classic || cfg.ClassicMode,
		AssessBatch: cfg.AssessSessions,
		LearnBatch:  cfg.LearnSessions,
		Store:       store,
		Logger:      logger.Named("session"),
	})
	if err != nil {
		return err
	}

	err = terminal.New(s, cmd.InOrStdin(), os.Stdout).Run(cmd.Context())
	if errors.Is(err, session.ErrNothingToDrill) {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to drill: the catalog is empty.")
		return nil
	}
	return err
}
