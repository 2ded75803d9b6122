package session

import (
	"sort"

	"github.com/phrazzld/mnemo-api/internal/domain"
)

// Distractor priorities. Higher wins; candidates at or above
// priorityOnesDigit form the high band.
const (
	priorityReverse    = 100 // the target's digit-reversed number
	priorityConfusion  = 50  // plus the confusion count for that number
	priorityTensDigit  = 20  // shares the target's tens digit
	priorityOnesDigit  = 10  // shares the target's ones digit
	priorityBackground = 1   // everything else
)

type distractorCandidate struct {
	number   string
	priority int
}

// selectDistractors picks exactly 3 distractor numbers for a target card.
//
// Every other deck card is scored: the target's reverse (when it exists as
// a distinct card) outranks everything, numbers the learner has actually
// confused with the target rank by how often they were chosen, and cards
// sharing a digit with the target beat the background. Candidates are
// partitioned into high (>= priorityOnesDigit) and low bands; each band is
// shuffled to break ties, ordered by priority, and the high band fills the
// slots first.
func (g *Generator) selectDistractors(target string) []string {
	confusions := make(map[string]int)
	for _, c := range g.mgr.Confusions(target) {
		confusions[c.Number] = c.Count
	}

	rev := domain.ReverseNumber(target)
	targetDigits := domain.DigitsOf(target)

	var high, low []distractorCandidate
	for _, n := range g.deck.Numbers() {
		if n == target {
			continue
		}

		p := priorityBackground
		digits := domain.DigitsOf(n)
		switch {
		case n == rev && rev != target:
			p = priorityReverse
		case confusions[n] > 0:
			p = priorityConfusion + confusions[n]
		case digits[0] == targetDigits[0]:
			p = priorityTensDigit
		case digits[1] == targetDigits[1]:
			p = priorityOnesDigit
		}

		c := distractorCandidate{number: n, priority: p}
		if p >= priorityOnesDigit {
			high = append(high, c)
		} else {
			low = append(low, c)
		}
	}

	g.shuffleCandidates(high)
	g.shuffleCandidates(low)
	sort.SliceStable(high, func(i, j int) bool {
		return high[i].priority > high[j].priority
	})

	out := make([]string, 0, 3)
	for _, c := range high {
		if len(out) == 3 {
			break
		}
		out = append(out, c.number)
	}
	for _, c := range low {
		if len(out) == 3 {
			break
		}
		out = append(out, c.number)
	}
	return out
}

func (g *Generator) shuffleCandidates(s []distractorCandidate) {
	g.rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
