package domain

import "time"

// AnswerResult records the outcome of the most recent drill on a card.
type AnswerResult string

// Possible answer results. A card that has been introduced but never
// answered carries ResultNone.
const (
	ResultNone      AnswerResult = ""
	ResultCorrect   AnswerResult = "correct"
	ResultIncorrect AnswerResult = "incorrect"
)

// Mastery is a coarse classification of a card's learning progress, derived
// purely from its current interval and streak. It is independent of whether
// the card is currently due.
type Mastery string

// Mastery levels ordered by progress.
const (
	MasteryNew      Mastery = "new"
	MasteryLearning Mastery = "learning"
	MasteryReview   Mastery = "review"
	MasteryMastered Mastery = "mastered"
)

// CardState is the per-card scheduling record. It is created lazily the
// first time a card is introduced, mutated only by the SRS manager, and
// never deleted for the lifetime of the deck.
type CardState struct {
	Number             string       `json:"number"`
	DueAt              time.Time    `json:"due_at"`
	IntervalDays       int          `json:"interval_days"`
	CorrectStreak      int          `json:"correct_streak"`
	LapseCount         int          `json:"lapse_count"`
	LastSeenAt         time.Time    `json:"last_seen_at"`
	LastResult         AnswerResult `json:"last_result"`
	PreferredVariantID string       `json:"preferred_variant_id,omitempty"`
}

// NewCardState creates scheduling state for a freshly introduced card.
// The card is due immediately.
func NewCardState(number string, now time.Time) *CardState {
	return &CardState{
		Number: number,
		DueAt:  now,
	}
}

// Mastery classifies the card's learning progress:
// New if it has never advanced, Learning below a week, Mastered at two
// weeks or more, Review in between.
func (s *CardState) Mastery() Mastery {
	switch {
	case s.IntervalDays == 0 && s.CorrectStreak == 0:
		return MasteryNew
	case s.IntervalDays < 7:
		return MasteryLearning
	case s.IntervalDays >= 14:
		return MasteryMastered
	default:
		return MasteryReview
	}
}

// IsDue reports whether the card is due for review at the given time.
func (s *CardState) IsDue(now time.Time) bool {
	return !s.DueAt.After(now)
}

// SRSState is the full persisted scheduling snapshot. It round-trips through
// storage as a single unit.
//
// IntroducedOrder is append-only and defines which cards are known to the
// learner; its order matters for recently-wrong ranking. Confusions counts,
// per target number, how often each wrong number was chosen in its place.
type SRSState struct {
	Cards           map[string]*CardState     `json:"cards"`
	Confusions      map[string]map[string]int `json:"confusion_matrix"`
	IntroducedOrder []string                  `json:"introduced_order"`
}

// NewSRSState returns an empty snapshot ready for use.
func NewSRSState() *SRSState {
	return &SRSState{
		Cards:           make(map[string]*CardState),
		Confusions:      make(map[string]map[string]int),
		IntroducedOrder: nil,
	}
}
