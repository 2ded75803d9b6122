package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/mnemo-api/internal/api/shared"
	"github.com/phrazzld/mnemo-api/internal/domain"
	"github.com/phrazzld/mnemo-api/internal/srs"
)

// DeckHandler serves the validated deck and aggregate scheduling stats.
type DeckHandler struct {
	deck   *domain.Deck
	mgr    *srs.Manager
	logger *slog.Logger
}

// NewDeckHandler creates a DeckHandler.
func NewDeckHandler(deck *domain.Deck, mgr *srs.Manager, log *slog.Logger) *DeckHandler {
	if deck == nil {
		panic("deck cannot be nil")
	}
	if mgr == nil {
		panic("srs manager cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &DeckHandler{
		deck:   deck,
		mgr:    mgr,
		logger: log.With(slog.String("component", "deck_handler")),
	}
}

// GetDeck handles GET /deck requests, returning the loaded content pack.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, DeckResponse{
		Version:     h.deck.Version,
		GeneratedAt: h.deck.GeneratedAt,
		Count:       h.deck.Size(),
		Cards:       h.deck.Cards(),
	})
}

// GetCard handles GET /deck/cards/{number} requests.
func (h *DeckHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	card, ok := h.deck.Card(number)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "No such card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// GetStats handles GET /stats requests, returning aggregate scheduling
// counts with the total derived from the deck.
func (h *DeckHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.mgr.Stats())
}
