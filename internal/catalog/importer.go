package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/mintin/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath     string // Path to the Excel or CSV file
	PromptColumn string // Column with the prompt (lhs)
	AnswerColumn string // Column with the expected answer (rhs)
	SheetName    string // Name of the sheet to import
	StartRow     int    // The row to start importing from (1-based index)
	StripNotes   bool   // Drop parenthesised notes such as "go (went, gone)"
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		PromptColumn: "A",
		AnswerColumn: "B",
		SheetName:    "Sheet1",
		StartRow:     2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	Items          []models.Item
	TotalProcessed int
	Blank          int
	Duplicates     int
	Errors         []string
}

// Import reads prompt/answer pairs from an Excel or CSV file.
// Rows keep their order; blank rows and repeated pairs are skipped.
func Import(config ImportConfig) (*ImportResult, error) {
	if config.StartRow < 1 {
		config.StartRow = 1
	}
	promptCol, err := columnToIndex(config.PromptColumn)
	if err != nil {
		return nil, err
	}
	answerCol, err := columnToIndex(config.AnswerColumn)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Items:  make([]models.Item, 0, len(rows)),
		Errors: make([]string, 0),
	}
	seen := make(map[models.Item]bool)
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		prompt := cell(row, promptCol, config.StripNotes)
		answer := cell(row, answerCol, config.StripNotes)
		switch {
		case prompt == "" && answer == "":
			result.Blank++
		case prompt == "":
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: prompt cannot be empty", i+1))
		case answer == "":
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: answer cannot be empty", i+1))
		default:
			item := models.Item{Prompt: prompt, Answer: answer}
			if seen[item] {
				result.Duplicates++
				continue
			}
			seen[item] = true
			result.Items = append(result.Items, item)
		}
	}
	return result, nil
}

// readExcel returns all rows of the given sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get rows of sheet %q", sheet)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "error reading CSV")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cell(row []string, col int, stripNotes bool) string {
	if col >= len(row) {
		return ""
	}
	if stripNotes {
		return cleanWord(row[col])
	}
	return strings.TrimSpace(row[col])
}

// cleanWord removes a trailing parenthesised note: "go (went, gone)" → "go"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) (int, error) {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return 0, errors.New("empty column name")
	}
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return 0, errors.Errorf("invalid column name %q", column)
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1, nil
}
