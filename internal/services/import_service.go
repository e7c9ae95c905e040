package services

import (
	"context"
	"io"

	"github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/importer"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/worker"
)

// ImportService handles card import business logic
type ImportService interface {
	// ImportNow parses and inserts synchronously, returning the result.
	ImportNow(ctx context.Context, deckID int64, r io.Reader, filename string) (*importer.Result, error)
	// QueueImport runs the import in the background from a saved temp file.
	QueueImport(ctx context.Context, deckID int64, path, filename string) error
}

type importService struct {
	importer *importer.Importer
	pool     *worker.Pool
}

// NewImportService creates a new ImportService
func NewImportService(imp *importer.Importer, pool *worker.Pool) ImportService {
	return &importService{importer: imp, pool: pool}
}

func (s *importService) ImportNow(ctx context.Context, deckID int64, r io.Reader, filename string) (*importer.Result, error) {
	return s.importer.Import(ctx, deckID, r, filename)
}

func (s *importService) QueueImport(ctx context.Context, deckID int64, path, filename string) error {
	log := logger.FromContext(ctx)
	log.Info("queueing card import: deck_id=%d, file=%s", deckID, filename)

	job := &worker.ImportCardsJob{
		Importer: s.importer,
		DeckID:   deckID,
		Path:     path,
		Filename: filename,
	}
	if err := s.pool.Submit(job); err != nil {
		log.Error("failed to queue import: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
