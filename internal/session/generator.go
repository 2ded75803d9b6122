// Package session builds practice sessions from a validated deck and the
// SRS manager's scheduling state. A session mixes due review, new card
// introductions, and remediation of recent mistakes, and assembles each
// selected card into a concrete drill with distractors.
//
// All randomness flows through an injectable *rand.Rand and all drill ids
// through an injectable id source, so tests can supply deterministic
// sequences and assert exact outcomes.
package session

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/mnemo-api/internal/domain"
	"github.com/phrazzld/mnemo-api/internal/srs"
)

// Config holds the tunable knobs of session generation. The zero value is
// not usable; start from DefaultConfig.
type Config struct {
	// SessionSize is the target number of drills per session.
	SessionSize int
	// NewCardRatio is the fraction of a session reserved for new cards.
	NewCardRatio float64
	// PiProbability is the per-slot chance of emitting a pi-sequence drill.
	PiProbability float64
	// DateProbability is the per-slot chance of emitting a historical-date
	// drill when date facts are supplied.
	DateProbability float64
	// MaxPiDrills and MaxDateDrills cap the special drill types per session.
	MaxPiDrills   int
	MaxDateDrills int
	// PiWindow is the number of consecutive reference pairs per pi drill.
	PiWindow int
}

// DefaultConfig returns the standard session tuning.
func DefaultConfig() Config {
	return Config{
		SessionSize:     10,
		NewCardRatio:    0.3,
		PiProbability:   0.15,
		DateProbability: 0.12,
		MaxPiDrills:     2,
		MaxDateDrills:   2,
		PiWindow:        3,
	}
}

// Generator produces ordered drill lists for practice sessions.
// It is not safe for concurrent use; the engine runs one session at a time.
type Generator struct {
	deck   *domain.Deck
	mgr    *srs.Manager
	cfg    Config
	rng    *rand.Rand
	newID  func() string
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand injects the random source used for every shuffle, weighted pick,
// and drill-type roll.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithIDSource injects the drill id generator.
func WithIDSource(newID func() string) Option {
	return func(g *Generator) {
		g.newID = newID
	}
}

// NewGenerator creates a session generator over a validated deck and its
// SRS manager.
func NewGenerator(deck *domain.Deck, mgr *srs.Manager, cfg Config, logger *slog.Logger, opts ...Option) *Generator {
	if deck == nil {
		panic("deck cannot be nil")
	}
	if mgr == nil {
		panic("srs manager cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Generator{
		deck:   deck,
		mgr:    mgr,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		newID:  uuid.NewString,
		logger: logger.With(slog.String("component", "session_generator")),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateSession builds one practice session: it selects cards, introduces
// any that the learner has not seen before, and assembles each slot into a
// drill. Passing date facts enables historical-date drills; nil disables
// them. Generation is pure synchronous computation and never suspends.
//
// Introducing newly selected cards is a deliberate side effect: generating
// a session always advances scheduling state for new cards, even before the
// learner answers anything.
func (g *Generator) GenerateSession(dateFacts []domain.DateFact) []domain.Drill {
	numbers := g.selectSessionCards(g.cfg.SessionSize)

	for _, n := range numbers {
		if !g.mgr.IsIntroduced(n) {
			g.mgr.IntroduceCard(n)
		}
	}

	drills := make([]domain.Drill, 0, len(numbers))
	piCount, dateCount := 0, 0
	for _, n := range numbers {
		switch {
		case piCount < g.cfg.MaxPiDrills && g.rng.Float64() < g.cfg.PiProbability:
			drills = append(drills, g.buildPiSequenceDrill())
			piCount++
		case len(dateFacts) > 0 && dateCount < g.cfg.MaxDateDrills && g.rng.Float64() < g.cfg.DateProbability:
			drills = append(drills, g.buildHistoricalDateDrill(dateFacts))
			dateCount++
		default:
			drills = append(drills, g.buildStandardDrill(n))
		}
	}

	g.logger.Debug("session generated",
		slog.Int("drills", len(drills)),
		slog.Int("pi_drills", piCount),
		slog.Int("date_drills", dateCount))
	return drills
}

// selectSessionCards picks up to n card numbers for one session: shuffled
// due cards first (leaving room for new cards), then new cards, then
// recently-missed cards, then any leftover due and new cards. The combined
// list is shuffled so presentation order is independent of selection order.
func (g *Generator) selectSessionCards(n int) []string {
	due := append([]string(nil), g.mgr.DueCards()...)
	g.shuffleStrings(due)

	newBudget := int(math.Floor(float64(n) * g.cfg.NewCardRatio))
	dueTake := n - newBudget
	if dueTake > len(due) {
		dueTake = len(due)
	}

	selected := append([]string(nil), due[:dueTake]...)
	chosen := make(map[string]bool, n)
	for _, s := range selected {
		chosen[s] = true
	}

	fresh := g.selectNewCardsForSession(n - len(selected))
	for _, s := range fresh {
		selected = append(selected, s)
		chosen[s] = true
	}

	if len(selected) < n {
		for _, s := range g.mgr.RecentlyWrong() {
			if len(selected) >= n {
				break
			}
			if !chosen[s] {
				selected = append(selected, s)
				chosen[s] = true
			}
		}
	}

	if len(selected) < n {
		for _, s := range due[dueTake:] {
			if len(selected) >= n {
				break
			}
			if !chosen[s] {
				selected = append(selected, s)
				chosen[s] = true
			}
		}
	}

	if len(selected) < n {
		for _, s := range g.mgr.NewCards() {
			if len(selected) >= n {
				break
			}
			if !chosen[s] {
				selected = append(selected, s)
				chosen[s] = true
			}
		}
	}

	g.shuffleStrings(selected)
	return selected
}

// selectNewCardsForSession picks up to limit never-introduced cards.
// Accepting a card reserves its digit-reversed twin for the rest of the
// pass, so a session never introduces both "37" and "73" — easily confused
// pairs are kept apart. A reverse is only reserved when it is a distinct
// real card in the deck.
func (g *Generator) selectNewCardsForSession(limit int) []string {
	if limit <= 0 {
		return nil
	}

	candidates := append([]string(nil), g.mgr.NewCards()...)
	g.shuffleStrings(candidates)

	reserved := make(map[string]bool)
	var out []string
	for _, n := range candidates {
		if len(out) >= limit {
			break
		}
		if reserved[n] {
			continue
		}
		out = append(out, n)

		rev := domain.ReverseNumber(n)
		if rev == n {
			continue
		}
		if _, ok := g.deck.Card(rev); ok {
			reserved[rev] = true
		}
	}
	return out
}

// shuffleStrings is a Fisher-Yates shuffle over the generator's rand source.
func (g *Generator) shuffleStrings(s []string) {
	g.rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
