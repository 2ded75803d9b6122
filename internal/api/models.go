// Package api provides HTTP handlers for the trainer API.
package api

import (
	"github.com/phrazzld/mnemo-api/internal/domain"
)

// SessionResponse carries one generated practice session.
type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Drills    []domain.Drill `json:"drills"`
}

// AnswerRequest records one answered drill. ChosenNumber is the card the
// learner actually picked on a four-choice drill and may be empty for
// sequence and date drills. VariantID, when set, pins the displayed
// mnemonic as the card's preferred variant.
type AnswerRequest struct {
	Number       string `json:"number" validate:"required,len=2"`
	IsCorrect    bool   `json:"is_correct"`
	ChosenNumber string `json:"chosen_number,omitempty" validate:"omitempty,len=2"`
	VariantID    string `json:"variant_id,omitempty"`
}

// CompleteSessionRequest closes out a session: the answered results are
// summarized and the scheduling snapshot is persisted.
type CompleteSessionRequest struct {
	Results []AnswerOutcome `json:"results"`
}

// AnswerOutcome is the per-drill slice of a session summary.
type AnswerOutcome struct {
	IsCorrect  bool  `json:"is_correct"`
	ResponseMs int64 `json:"response_ms"`
}

// CompleteSessionResponse returns the session summary. Saved is false when
// the snapshot could not be persisted; the session result is still valid
// in memory.
type CompleteSessionResponse struct {
	Total         int     `json:"total"`
	Correct       int     `json:"correct"`
	Accuracy      float64 `json:"accuracy"`
	AvgResponseMs int64   `json:"avg_response_ms"`
	Saved         bool    `json:"saved"`
}

// DeckResponse summarizes the loaded content pack.
type DeckResponse struct {
	Version     int           `json:"version"`
	GeneratedAt string        `json:"generated_at"`
	Count       int           `json:"count"`
	Cards       []domain.Card `json:"cards"`
}
