// Package srs owns the per-card scheduling state of the memorization engine.
//
// The Manager is a state machine over card numbers: each card is New (never
// introduced), Due (introduced with due_at in the past), or Scheduled
// (introduced with due_at in the future). Correct answers advance a card
// along a fixed interval ladder; incorrect answers reset it and record which
// wrong card was chosen so future drills can target the learner's actual
// confusions.
package srs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/phrazzld/mnemo-api/internal/domain"
	"github.com/phrazzld/mnemo-api/internal/store"
)

// StorageKey is the fixed key the whole SRS snapshot is persisted under.
const StorageKey = "mnemo:srs:v1"

// IntervalLadder is the fixed review ladder in days. A correct answer moves
// a card to the next rung; the last rung is also the maximum interval.
var IntervalLadder = []int{1, 3, 7, 14, 30}

// Confusion is one entry of a card's confusion tally: a wrong number and how
// often it was chosen in place of the target.
type Confusion struct {
	Number string `json:"number"`
	Count  int    `json:"count"`
}

// Stats aggregates scheduling state for the whole deck. Total is derived
// from the deck's card count, never hardcoded.
type Stats struct {
	Introduced int `json:"introduced"`
	DueNow     int `json:"due_now"`
	Mastered   int `json:"mastered"`
	Learning   int `json:"learning"`
	Total      int `json:"total"`
}

// Manager owns and evolves per-card scheduling state against a validated
// deck, and round-trips the whole snapshot through a key-value store.
//
// The engine is single-threaded by design: load once, mutate in memory,
// save once. Manager is not safe for concurrent use.
type Manager struct {
	deck   *domain.Deck
	kv     store.KVStore
	state  *domain.SRSState
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the manager's time source. Tests use this to make
// scheduling deterministic.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager with an empty snapshot. Call Load to restore
// persisted state before generating sessions.
func NewManager(deck *domain.Deck, kv store.KVStore, logger *slog.Logger, opts ...Option) *Manager {
	if deck == nil {
		panic("deck cannot be nil")
	}
	if kv == nil {
		panic("kv store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		deck:   deck,
		kv:     kv,
		state:  domain.NewSRSState(),
		logger: logger.With(slog.String("component", "srs_manager")),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load restores the persisted snapshot from storage. A missing or unreadable
// snapshot is recovered locally by falling back to an empty fresh state;
// load failures are logged, never fatal.
func (m *Manager) Load(ctx context.Context) error {
	raw, err := m.kv.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			m.logger.Debug("no persisted snapshot, starting fresh")
			m.state = domain.NewSRSState()
			return nil
		}
		m.logger.Error("failed to load snapshot, starting fresh", slog.String("error", err.Error()))
		m.state = domain.NewSRSState()
		return nil
	}

	var snap domain.SRSState
	if err := json.Unmarshal(raw, &snap); err != nil {
		m.logger.Error("failed to decode snapshot, starting fresh", slog.String("error", err.Error()))
		m.state = domain.NewSRSState()
		return nil
	}

	if snap.Cards == nil {
		snap.Cards = make(map[string]*domain.CardState)
	}
	if snap.Confusions == nil {
		snap.Confusions = make(map[string]map[string]int)
	}
	m.state = &snap

	m.logger.Debug("snapshot restored",
		slog.Int("cards", len(snap.Cards)),
		slog.Int("introduced", len(snap.IntroducedOrder)))
	return nil
}

// Save writes the entire current snapshot back to storage. It makes exactly
// one attempt; on failure the in-memory state remains the source of truth
// for the rest of the process lifetime.
func (m *Manager) Save(ctx context.Context) error {
	raw, err := json.Marshal(m.state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := m.kv.Set(ctx, StorageKey, raw); err != nil {
		m.logger.Error("failed to persist snapshot", slog.String("error", err.Error()))
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// IntroduceCard transitions a card from New to Due, making it immediately
// reviewable. Introducing an already-introduced card is a no-op; the card
// joins the introduced order only on first introduction. Numbers not in the
// deck are ignored.
func (m *Manager) IntroduceCard(number string) {
	if _, ok := m.deck.Card(number); !ok {
		return
	}
	if _, introduced := m.state.Cards[number]; introduced {
		return
	}
	m.state.Cards[number] = domain.NewCardState(number, m.now())
	m.state.IntroducedOrder = append(m.state.IntroducedOrder, number)
}

// IsIntroduced reports whether the card has ever been introduced.
func (m *Manager) IsIntroduced(number string) bool {
	_, ok := m.state.Cards[number]
	return ok
}

// RecordAnswer mutates a card's scheduling state for one answered drill and
// always reschedules it.
//
// On a correct answer the interval advances along IntervalLadder, saturating
// at the last rung; an interval that does not exactly match a rung (for
// example restored from a future schema) advances to the next larger rung.
// On an incorrect answer the interval resets to the first rung, the streak
// resets, the lapse count increments, and — when the chosen wrong number is
// known and differs from the target — the confusion matrix is incremented.
func (m *Manager) RecordAnswer(number string, isCorrect bool, chosenNumber string) {
	st := m.ensureState(number)
	if st == nil {
		return
	}
	now := m.now()

	if isCorrect {
		st.CorrectStreak++
		st.IntervalDays = nextInterval(st.IntervalDays)
		st.LastResult = domain.ResultCorrect
	} else {
		st.IntervalDays = IntervalLadder[0]
		st.CorrectStreak = 0
		st.LapseCount++
		st.LastResult = domain.ResultIncorrect
		if chosenNumber != "" && chosenNumber != number {
			m.recordConfusion(number, chosenNumber)
		}
	}

	st.DueAt = now.AddDate(0, 0, st.IntervalDays)
	st.LastSeenAt = now
}

// nextInterval advances an interval along the ladder. Zero takes the first
// rung; the last rung saturates; off-ladder values take the next larger rung.
func nextInterval(current int) int {
	if current == 0 {
		return IntervalLadder[0]
	}
	for i, rung := range IntervalLadder {
		if current == rung {
			if i+1 < len(IntervalLadder) {
				return IntervalLadder[i+1]
			}
			return IntervalLadder[len(IntervalLadder)-1]
		}
	}
	for _, rung := range IntervalLadder {
		if rung > current {
			return rung
		}
	}
	return IntervalLadder[len(IntervalLadder)-1]
}

func (m *Manager) recordConfusion(number, chosenNumber string) {
	row := m.state.Confusions[number]
	if row == nil {
		row = make(map[string]int)
		m.state.Confusions[number] = row
	}
	row[chosenNumber]++
}

// ensureState returns the card's state, creating it lazily (and introducing
// the card) the first time the card is touched. Unknown numbers return nil.
func (m *Manager) ensureState(number string) *domain.CardState {
	if st, ok := m.state.Cards[number]; ok {
		return st
	}
	m.IntroduceCard(number)
	return m.state.Cards[number]
}

// Mastery classifies a card's learning progress. Cards never introduced are
// New.
func (m *Manager) Mastery(number string) domain.Mastery {
	st, ok := m.state.Cards[number]
	if !ok {
		return domain.MasteryNew
	}
	return st.Mastery()
}

// CardState returns a copy of the card's scheduling record, or false if the
// card has never been introduced.
func (m *Manager) CardState(number string) (domain.CardState, bool) {
	st, ok := m.state.Cards[number]
	if !ok {
		return domain.CardState{}, false
	}
	return *st, true
}

// DueCards returns the introduced cards whose due time has arrived, in
// introduced order.
func (m *Manager) DueCards() []string {
	now := m.now()
	return lo.Filter(m.state.IntroducedOrder, func(n string, _ int) bool {
		st := m.state.Cards[n]
		return st != nil && st.IsDue(now)
	})
}

// NewCards returns the deck numbers never introduced, in deck order.
func (m *Manager) NewCards() []string {
	return lo.Filter(m.deck.Numbers(), func(n string, _ int) bool {
		_, introduced := m.state.Cards[n]
		return !introduced
	})
}

// RecentlyWrong returns the introduced cards whose last answer was
// incorrect, most recently seen first.
func (m *Manager) RecentlyWrong() []string {
	wrong := lo.Filter(m.state.IntroducedOrder, func(n string, _ int) bool {
		st := m.state.Cards[n]
		return st != nil && st.LastResult == domain.ResultIncorrect
	})
	sort.SliceStable(wrong, func(i, j int) bool {
		return m.state.Cards[wrong[i]].LastSeenAt.After(m.state.Cards[wrong[j]].LastSeenAt)
	})
	return wrong
}

// Confusions returns the confusion tally for a target number, sorted by
// descending count. Equal counts sort by number for determinism.
func (m *Manager) Confusions(number string) []Confusion {
	row := m.state.Confusions[number]
	out := make([]Confusion, 0, len(row))
	for n, c := range row {
		out = append(out, Confusion{Number: n, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// PreferredVariant returns the learner's sticky variant choice for a card,
// or false if none has been set.
func (m *Manager) PreferredVariant(number string) (string, bool) {
	st, ok := m.state.Cards[number]
	if !ok || st.PreferredVariantID == "" {
		return "", false
	}
	return st.PreferredVariantID, true
}

// SetPreferredVariant pins the variant shown for a card so repeated drills
// reuse the same mnemonic. Setting a preference introduces the card if
// needed.
func (m *Manager) SetPreferredVariant(number, variantID string) {
	st := m.ensureState(number)
	if st == nil {
		return
	}
	st.PreferredVariantID = variantID
}

// Stats returns aggregate counts over the whole deck.
func (m *Manager) Stats() Stats {
	s := Stats{
		Introduced: len(m.state.IntroducedOrder),
		DueNow:     len(m.DueCards()),
		Total:      m.deck.Size(),
	}
	for _, n := range m.state.IntroducedOrder {
		switch m.state.Cards[n].Mastery() {
		case domain.MasteryMastered:
			s.Mastered++
		case domain.MasteryLearning:
			s.Learning++
		}
	}
	return s
}
