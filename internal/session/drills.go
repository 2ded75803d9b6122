package session

import (
	"log/slog"
	"strings"

	"github.com/phrazzld/mnemo-api/internal/domain"
)

// piDigits is the fixed reference sequence for pi-sequence drills: the
// first 100 decimal digits of pi after the leading 3, read as 50 two-digit
// pairs.
const piDigits = "1415926535897932384626433832795028841971" +
	"6939937510582097494459230781640628620899" +
	"86280348253421170679"

// piPairs slices the reference digits into consecutive two-digit pairs.
func piPairs() []string {
	pairs := make([]string, 0, len(piDigits)/2)
	for i := 0; i+1 < len(piDigits); i += 2 {
		pairs = append(pairs, piDigits[i:i+2])
	}
	return pairs
}

// Direction weights for standard drills: 40% number→image, 30% image→number,
// 30% number→word.
func (g *Generator) pickDirection() domain.QuizDirection {
	r := g.rng.Float64()
	switch {
	case r < 0.4:
		return domain.DirectionNumberToImage
	case r < 0.7:
		return domain.DirectionImageToNumber
	default:
		return domain.DirectionNumberToWord
	}
}

// displayVariant determines which mnemonic a card is shown with: the
// learner's previously-preferred variant when set and still present,
// otherwise the deck's designated primary.
func (g *Generator) displayVariant(c *domain.Card) domain.CardVariant {
	if id, ok := g.mgr.PreferredVariant(c.Number); ok {
		if v, found := c.Variant(id); found {
			return *v
		}
	}
	return *c.Primary()
}

// buildStandardDrill assembles a four-choice quiz for one target card:
// target plus three distractors, each paired with its own displayed
// variant, shuffled, with the target's final position recorded.
func (g *Generator) buildStandardDrill(number string) domain.Drill {
	card, _ := g.deck.Card(number)
	variant := g.displayVariant(card)

	choices := make([]domain.Choice, 0, 4)
	choices = append(choices, domain.Choice{Number: number, Variant: variant})
	for _, d := range g.selectDistractors(number) {
		dc, _ := g.deck.Card(d)
		choices = append(choices, domain.Choice{Number: d, Variant: g.displayVariant(dc)})
	}

	g.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	correct := 0
	for i, c := range choices {
		if c.Number == number {
			correct = i
			break
		}
	}

	return domain.Drill{
		ID:   g.newID(),
		Kind: domain.DrillKindStandard,
		Standard: &domain.StandardDrill{
			Number:       number,
			Variant:      variant,
			Direction:    g.pickDirection(),
			Choices:      choices,
			CorrectIndex: correct,
		},
	}
}

// buildPiSequenceDrill picks a window of consecutive pairs from the pi
// reference sequence and renders each as a card. A reference pair with no
// matching deck card falls back to an arbitrary deck card — graceful
// degradation, not a hard failure — which is logged since it changes the
// pedagogical content of the drill.
func (g *Generator) buildPiSequenceDrill() domain.Drill {
	pairs := piPairs()
	window := g.cfg.PiWindow
	if window < 3 {
		window = 3
	}
	if window > len(pairs) {
		window = len(pairs)
	}
	start := g.rng.Intn(len(pairs) - window + 1)
	run := pairs[start : start+window]

	sequence := make([]domain.Choice, 0, window)
	for _, pair := range run {
		sequence = append(sequence, g.resolvePair(pair))
	}

	presented := append([]domain.Choice(nil), sequence...)
	g.rng.Shuffle(len(presented), func(i, j int) {
		presented[i], presented[j] = presented[j], presented[i]
	})

	return domain.Drill{
		ID:   g.newID(),
		Kind: domain.DrillKindPiSequence,
		PiSequence: &domain.PiSequenceDrill{
			Sequence:  sequence,
			Presented: presented,
			Answer:    strings.Join(run, ""),
		},
	}
}

// buildHistoricalDateDrill renders a random date fact as cards: the date
// string is stripped to its digits and split into consecutive two-digit
// pairs, dropping a trailing unpaired digit. The original formatted date
// string is kept as the expected answer.
func (g *Generator) buildHistoricalDateDrill(facts []domain.DateFact) domain.Drill {
	fact := facts[g.rng.Intn(len(facts))]

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, fact.Date)

	cards := make([]domain.Choice, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		cards = append(cards, g.resolvePair(digits[i : i+2]))
	}

	return domain.Drill{
		ID:   g.newID(),
		Kind: domain.DrillKindHistoricalDate,
		HistoricalDate: &domain.HistoricalDateDrill{
			Fact:     fact,
			Cards:    cards,
			Expected: fact.Date,
		},
	}
}

// resolvePair maps a two-digit pair to a deck card choice, falling back to
// the first deck card when the pair has no match. A complete validated deck
// always matches, so the fallback only fires on reference-data drift.
func (g *Generator) resolvePair(pair string) domain.Choice {
	if card, ok := g.deck.Card(pair); ok {
		return domain.Choice{Number: pair, Variant: g.displayVariant(card)}
	}

	g.logger.Warn("reference pair has no matching card, substituting",
		slog.String("pair", pair))
	fallback := &g.deck.Cards()[0]
	return domain.Choice{Number: fallback.Number, Variant: g.displayVariant(fallback)}
}
