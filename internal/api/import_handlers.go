package api

import (
	"io"
	"net/http"
	"os"

	"github.com/nmarques/flashdeck/internal/errors"
	"github.com/nmarques/flashdeck/internal/logger"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// handleImportCards accepts a multipart upload ("file" field) of a .csv or
// .xlsx spreadsheet. By default the import runs in the background; pass
// ?sync=1 to wait for the result.
func (s *Server) handleImportCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	deck, err := s.loadOwnedDeck(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid multipart upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("missing file field"))
		return
	}
	defer file.Close()

	if r.URL.Query().Get("sync") == "1" {
		result, err := s.Imports.ImportNow(r.Context(), deck.ID, file, header.Filename)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
		return
	}

	// Background path: spool to a temp file the worker can re-open.
	tmp, err := os.CreateTemp("", "flashdeck-import-*")
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	if err := s.Imports.QueueImport(r.Context(), deck.ID, tmp.Name(), header.Filename); err != nil {
		os.Remove(tmp.Name())
		handleError(w, r, err)
		return
	}

	log.Info("import queued: deck_id=%d, file=%s", deck.ID, header.Filename)
	respondJSON(w, http.StatusAccepted, map[string]any{"status": "queued"})
}
