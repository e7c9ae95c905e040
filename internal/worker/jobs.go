package worker

import (
	"context"
	"fmt"
	"os"

	"github.com/nmarques/flashdeck/internal/importer"
	"github.com/nmarques/flashdeck/internal/logger"
)

// ImportCardsJob imports a spreadsheet that was saved to a temp file by the
// upload handler. The temp file is removed when the job finishes.
type ImportCardsJob struct {
	Importer *importer.Importer
	DeckID   int64
	Path     string
	Filename string
}

func (j *ImportCardsJob) Name() string {
	return fmt.Sprintf("import-cards-deck-%d", j.DeckID)
}

func (j *ImportCardsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	defer func() {
		if err := os.Remove(j.Path); err != nil {
			log.Warn("failed to remove temp file %s: %v", j.Path, err)
		}
	}()

	f, err := os.Open(j.Path)
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	result, err := j.Importer.Import(ctx, j.DeckID, f, j.Filename)
	if err != nil {
		return err
	}

	log.Info("imported %d cards into deck %d (%d skipped)", result.Imported, j.DeckID, result.Skipped)
	for _, e := range result.Errors {
		log.Warn("import issue: %s", e)
	}
	return nil
}
