package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/mnemo-api/internal/api/shared"
	"github.com/phrazzld/mnemo-api/internal/domain"
	"github.com/phrazzld/mnemo-api/internal/platform/logger"
	"github.com/phrazzld/mnemo-api/internal/session"
	"github.com/phrazzld/mnemo-api/internal/srs"
)

// SessionHandler handles session generation and answer recording.
type SessionHandler struct {
	mgr       *srs.Manager
	generator *session.Generator
	dateFacts []domain.DateFact
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(
	mgr *srs.Manager,
	generator *session.Generator,
	dateFacts []domain.DateFact,
	log *slog.Logger,
) *SessionHandler {
	if mgr == nil {
		panic("srs manager cannot be nil")
	}
	if generator == nil {
		panic("session generator cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &SessionHandler{
		mgr:       mgr,
		generator: generator,
		dateFacts: dateFacts,
		validate:  validator.New(),
		logger:    log.With(slog.String("component", "session_handler")),
	}
}

// GenerateSession handles POST /sessions requests. It produces one ordered
// practice session; generating a session introduces any selected new cards
// into the scheduler as a side effect.
func (h *SessionHandler) GenerateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	drills := h.generator.GenerateSession(h.dateFacts)

	log.Debug("session generated", slog.Int("drills", len(drills)))
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{
		SessionID: uuid.NewString(),
		Drills:    drills,
	})
}

// RecordAnswer handles POST /answers requests. It feeds one answered drill
// into the scheduler; state is persisted later, when the session completes.
func (h *SessionHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid answer payload")
		return
	}
	if !domain.IsValidNumber(req.Number) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Number must be a two-digit string")
		return
	}

	h.mgr.RecordAnswer(req.Number, req.IsCorrect, req.ChosenNumber)
	if req.VariantID != "" {
		h.mgr.SetPreferredVariant(req.Number, req.VariantID)
	}

	log.Debug("answer recorded",
		slog.String("number", req.Number),
		slog.Bool("is_correct", req.IsCorrect))
	w.WriteHeader(http.StatusNoContent)
}

// CompleteSession handles POST /sessions/complete requests. It summarizes
// the session's results and persists the scheduling snapshot. A failed save
// is non-fatal: the response reports it, in-memory progress stands, and no
// retry is attempted.
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CompleteSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	results := make([]domain.DrillResult, 0, len(req.Results))
	for _, o := range req.Results {
		results = append(results, domain.DrillResult{
			IsCorrect:  o.IsCorrect,
			ResponseMs: o.ResponseMs,
		})
	}
	summary := session.Summarize(results)

	saved := true
	if err := h.mgr.Save(r.Context()); err != nil {
		// In-memory state remains the source of truth for this process.
		log.Error("failed to save snapshot at session end", slog.String("error", err.Error()))
		saved = false
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CompleteSessionResponse{
		Total:         summary.Total,
		Correct:       summary.Correct,
		Accuracy:      summary.Accuracy,
		AvgResponseMs: summary.AvgResponseMs,
		Saved:         saved,
	})
}
