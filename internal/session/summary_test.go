package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/mnemo-api/internal/domain"
	"github.com/phrazzld/mnemo-api/internal/srs"
	"github.com/phrazzld/mnemo-api/internal/store"
	"github.com/phrazzld/mnemo-api/internal/testutils"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("empty session", func(t *testing.T) {
		t.Parallel()
		s := Summarize(nil)
		assert.Equal(t, Summary{}, s)
	})

	t.Run("mixed results", func(t *testing.T) {
		t.Parallel()
		results := []domain.DrillResult{
			{IsCorrect: true, ResponseMs: 1000},
			{IsCorrect: false, ResponseMs: 3000},
			{IsCorrect: true, ResponseMs: 2000},
			{IsCorrect: true, ResponseMs: 2000},
		}

		s := Summarize(results)
		assert.Equal(t, 4, s.Total)
		assert.Equal(t, 3, s.Correct)
		assert.InDelta(t, 0.75, s.Accuracy, 1e-9)
		assert.Equal(t, int64(2000), s.AvgResponseMs)
	})
}

func TestApplyResult(t *testing.T) {
	t.Parallel()

	newFixture := func(t *testing.T) (*Generator, *srs.Manager) {
		t.Helper()
		d := testutils.ValidDeck(t)
		mgr := srs.NewManager(d, store.NewMemoryStore(), nil,
			srs.WithClock(func() time.Time { return testNow }))
		g := NewGenerator(d, mgr, standardOnly(), nil,
			WithRand(rand.New(rand.NewSource(8))))
		return g, mgr
	}

	t.Run("correct standard answer advances the card", func(t *testing.T) {
		t.Parallel()
		g, mgr := newFixture(t)
		drill := g.buildStandardDrill("42")

		ApplyResult(mgr, domain.DrillResult{
			Drill:         drill,
			SelectedIndex: drill.Standard.CorrectIndex,
			IsCorrect:     true,
			ResponseMs:    1200,
		})

		st, ok := mgr.CardState("42")
		require.True(t, ok)
		assert.Equal(t, 1, st.CorrectStreak)
		assert.Equal(t, srs.IntervalLadder[0], st.IntervalDays)
		assert.Empty(t, mgr.Confusions("42"))
	})

	t.Run("wrong pick records the chosen number as a confusion", func(t *testing.T) {
		t.Parallel()
		g, mgr := newFixture(t)
		drill := g.buildStandardDrill("42")

		wrongIndex := (drill.Standard.CorrectIndex + 1) % len(drill.Standard.Choices)
		chosen := drill.Standard.Choices[wrongIndex].Number

		ApplyResult(mgr, domain.DrillResult{
			Drill:         drill,
			SelectedIndex: wrongIndex,
			IsCorrect:     false,
		})

		st, ok := mgr.CardState("42")
		require.True(t, ok)
		assert.Equal(t, 1, st.LapseCount)

		confusions := mgr.Confusions("42")
		require.Len(t, confusions, 1)
		assert.Equal(t, chosen, confusions[0].Number)
		assert.Equal(t, 1, confusions[0].Count)
	})

	t.Run("displayed variant becomes the sticky preference", func(t *testing.T) {
		t.Parallel()
		g, mgr := newFixture(t)
		drill := g.buildStandardDrill("42")

		ApplyResult(mgr, domain.DrillResult{
			Drill:         drill,
			SelectedIndex: drill.Standard.CorrectIndex,
			IsCorrect:     true,
		})

		pref, ok := mgr.PreferredVariant("42")
		require.True(t, ok)
		assert.Equal(t, drill.Standard.Variant.ID, pref)
	})

	t.Run("pi drill reschedules its first card without a confusion", func(t *testing.T) {
		t.Parallel()
		g, mgr := newFixture(t)
		drill := g.buildPiSequenceDrill()
		target := drill.TargetNumber()
		require.NotEmpty(t, target)

		ApplyResult(mgr, domain.DrillResult{Drill: drill, IsCorrect: false})

		st, ok := mgr.CardState(target)
		require.True(t, ok)
		assert.Equal(t, 1, st.LapseCount)
		assert.Empty(t, mgr.Confusions(target),
			"sequence drills have no chosen number to confuse")
	})

	t.Run("out of range selection is ignored for confusion tracking", func(t *testing.T) {
		t.Parallel()
		g, mgr := newFixture(t)
		drill := g.buildStandardDrill("42")

		ApplyResult(mgr, domain.DrillResult{
			Drill:         drill,
			SelectedIndex: -1,
			IsCorrect:     false,
		})

		assert.Empty(t, mgr.Confusions("42"))
	})
}
