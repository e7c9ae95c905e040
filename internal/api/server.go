package api

import (
	"database/sql"

	"github.com/nmarques/flashdeck/internal/services"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	DB      *sql.DB
	Users   services.UserService
	Decks   services.DeckService
	Cards   services.CardService
	Reviews services.ReviewService
	Imports services.ImportService
}
