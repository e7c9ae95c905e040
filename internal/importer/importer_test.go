package importer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	apperrors "github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/importer"
	"github.com/nmarques/flashdeck/internal/models"
	"github.com/nmarques/flashdeck/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newImporter() (*importer.Importer, *mocks.MockCardRepository, *mocks.MockDeckRepository) {
	cards := new(mocks.MockCardRepository)
	decks := new(mocks.MockDeckRepository)
	return importer.New(cards, decks), cards, decks
}

func TestImportCSV(t *testing.T) {
	imp, cards, decks := newImporter()
	decks.On("Get", mock.Anything, int64(3)).Return(&models.Deck{ID: 3}, nil)
	cards.On("InsertBatch", mock.Anything, mock.MatchedBy(func(batch []models.Card) bool {
		return len(batch) == 2 && batch[0].Front == "hola" && batch[1].Back == "goodbye"
	})).Return([]int64{1, 2}, nil)

	csv := "front,back\nhola,hello\nadios,goodbye\n"
	result, err := imp.Import(context.Background(), 3, strings.NewReader(csv), "cards.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	cards.AssertExpectations(t)
}

func TestImportCSVSkipsIncompleteRows(t *testing.T) {
	imp, cards, decks := newImporter()
	decks.On("Get", mock.Anything, int64(3)).Return(&models.Deck{ID: 3}, nil)
	cards.On("InsertBatch", mock.Anything, mock.Anything).Return([]int64{1}, nil)

	csv := "hola,hello\nmissing-back\n,only-back\n"
	result, err := imp.Import(context.Background(), 3, strings.NewReader(csv), "cards.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Errors, 2)
}

func TestImportXLSX(t *testing.T) {
	imp, cards, decks := newImporter()
	decks.On("Get", mock.Anything, int64(3)).Return(&models.Deck{ID: 3}, nil)
	cards.On("InsertBatch", mock.Anything, mock.MatchedBy(func(batch []models.Card) bool {
		return len(batch) == 2
	})).Return([]int64{1, 2}, nil)

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "front"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "back"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "uno"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "one"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "dos"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", "two"))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	result, err := imp.Import(context.Background(), 3, &buf, "cards.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	cards.AssertExpectations(t)
}

func TestImportUnsupportedFormat(t *testing.T) {
	imp, _, decks := newImporter()
	decks.On("Get", mock.Anything, int64(3)).Return(&models.Deck{ID: 3}, nil)

	_, err := imp.Import(context.Background(), 3, strings.NewReader("x"), "cards.pdf")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestImportDeckNotFound(t *testing.T) {
	imp, _, decks := newImporter()
	decks.On("Get", mock.Anything, int64(99)).Return(nil, nil)

	_, err := imp.Import(context.Background(), 99, strings.NewReader("a,b\n"), "cards.csv")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}
