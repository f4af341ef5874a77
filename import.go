package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/mintin/internal/catalog"
)

var importCfg = catalog.DefaultImportConfig()

func init() {
	importCmd.Flags().StringVar(&importCfg.SheetName, "sheet", importCfg.SheetName, "sheet to read from an Excel file (empty for the active sheet)")
	importCmd.Flags().StringVar(&importCfg.PromptColumn, "prompt-column", importCfg.PromptColumn, "column holding the prompt")
	importCmd.Flags().StringVar(&importCfg.AnswerColumn, "answer-column", importCfg.AnswerColumn, "column holding the answer")
	importCmd.Flags().IntVar(&importCfg.StartRow, "start-row", importCfg.StartRow, "first row to import (1-based)")
	importCmd.Flags().BoolVar(&importCfg.StripNotes, "strip-notes", false, `drop parenthesised notes such as "go (went, gone)"`)
}

var importCmd = &cobra.Command{
	Use:   "import <src> <dst>",
	Short: "Convert an Excel or CSV word list into a catalog",
	Long: `Convert an .xlsx or .csv word list into a JSON catalog.

Examples:
  # Columns A and B of Sheet1, skipping the header row
  mintin import words.xlsx german.json

  # A CSV without header, answer in the third column
  mintin import words.csv german.json --start-row 1 --answer-column C`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	importCfg.FilePath = args[0]
	result, err := catalog.Import(importCfg)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		logger.Warn("skipped row", zap.String("reason", msg))
	}
	if err := catalog.WriteFile(args[1], result.Items); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %d rows (%d blank, %d duplicates, %d errors)\n",
		len(result.Items), result.TotalProcessed, result.Blank, result.Duplicates, len(result.Errors))
	return nil
}
