package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/repository"
	"github.com/xuri/excelize/v2"
)

// Result summarizes one import run.
type Result struct {
	TotalRows int      `json:"total_rows"`
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

// Importer reads cards from spreadsheet files into a deck. Supported
// formats are .xlsx (first sheet) and .csv, two columns: front, back.
type Importer struct {
	cards repository.CardRepository
	decks repository.DeckRepository
}

// New creates a new Importer
func New(cards repository.CardRepository, decks repository.DeckRepository) *Importer {
	return &Importer{cards: cards, decks: decks}
}

// Import parses the file and inserts all valid rows as cards in one batch.
// The filename decides the format by extension.
func (i *Importer) Import(ctx context.Context, deckID int64, r io.Reader, filename string) (*Result, error) {
	log := logger.FromContext(ctx).WithPrefix("importer")
	log.Info("importing cards: deck_id=%d, file=%s", deckID, filename)

	deck, err := i.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, errors.NewValidationError("file", "unsupported format, expected .csv or .xlsx")
	}
	if err != nil {
		return nil, errors.NewBadRequestError(fmt.Sprintf("failed to parse %s: %v", filename, err))
	}

	result := &Result{}
	var cards []models.Card
	for n, row := range rows {
		// Header rows are common in exported sheets, skip the first row
		// when it does not look like card content.
		if n == 0 && isHeader(row) {
			continue
		}
		result.TotalRows++

		front, back := cell(row, 0), cell(row, 1)
		if front == "" || back == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: front and back must both be non-empty", n+1))
			continue
		}
		cards = append(cards, models.Card{DeckID: deckID, Front: front, Back: back})
	}

	if len(cards) > 0 {
		if _, err := i.cards.InsertBatch(ctx, cards); err != nil {
			log.Error("failed to insert imported cards: %v", err)
			return nil, errors.NewStorageError(err)
		}
	}
	result.Imported = len(cards)

	log.Info("import finished: deck_id=%d, imported=%d, skipped=%d", deckID, result.Imported, result.Skipped)
	return result, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isHeader(row []string) bool {
	front := strings.ToLower(cell(row, 0))
	back := strings.ToLower(cell(row, 1))
	return front == "front" && back == "back"
}
