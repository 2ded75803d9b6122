package session

import (
	"github.com/samber/lo"

	"github.com/phrazzld/mnemo-api/internal/domain"
	"github.com/phrazzld/mnemo-api/internal/srs"
)

// Summary aggregates one session's answered drills.
type Summary struct {
	Total         int     `json:"total"`
	Correct       int     `json:"correct"`
	Accuracy      float64 `json:"accuracy"`
	AvgResponseMs int64   `json:"avg_response_ms"`
}

// Summarize computes a session summary from the answered drill results.
func Summarize(results []domain.DrillResult) Summary {
	s := Summary{Total: len(results)}
	if s.Total == 0 {
		return s
	}

	s.Correct = lo.CountBy(results, func(r domain.DrillResult) bool {
		return r.IsCorrect
	})
	s.Accuracy = float64(s.Correct) / float64(s.Total)

	var totalMs int64
	for _, r := range results {
		totalMs += r.ResponseMs
	}
	s.AvgResponseMs = totalMs / int64(s.Total)
	return s
}

// ApplyResult feeds one answered drill back into the SRS manager: the
// target card is rescheduled, a wrong four-choice pick records a confusion,
// and the displayed mnemonic sticks as the card's preferred variant so
// future drills reuse it.
func ApplyResult(mgr *srs.Manager, res domain.DrillResult) {
	target := res.Drill.TargetNumber()
	if target == "" {
		return
	}

	chosen := ""
	if res.Drill.Kind == domain.DrillKindStandard {
		std := res.Drill.Standard
		if res.SelectedIndex >= 0 && res.SelectedIndex < len(std.Choices) {
			chosen = std.Choices[res.SelectedIndex].Number
		}
	}

	mgr.RecordAnswer(target, res.IsCorrect, chosen)

	if res.Drill.Kind == domain.DrillKindStandard {
		mgr.SetPreferredVariant(target, res.Drill.Standard.Variant.ID)
	}
}
