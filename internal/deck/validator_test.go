package deck_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/mnemo-api/internal/deck"
	"github.com/phrazzld/mnemo-api/internal/domain"
	"github.com/phrazzld/mnemo-api/internal/testutils"
)

func TestValidateAcceptsCompleteDeck(t *testing.T) {
	t.Parallel()

	res := deck.Validate(testutils.NewRawDeck().JSON(t))
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidateStructuralShortCircuit(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(d *testutils.RawDeck)
		raw     []byte
		wantSub string
	}{
		{
			name:    "not JSON",
			raw:     []byte("not json at all"),
			wantSub: "not a valid JSON object",
		},
		{
			name:    "JSON but not an object",
			raw:     []byte(`[1, 2, 3]`),
			wantSub: "not a valid JSON object",
		},
		{
			name:    "missing version",
			mutate:  func(d *testutils.RawDeck) { d.Version = nil },
			wantSub: `"version"`,
		},
		{
			name:    "wrong version",
			mutate:  func(d *testutils.RawDeck) { d.Version = testutils.IntPtr(99) },
			wantSub: "unsupported schema version 99",
		},
		{
			name:    "wrong count",
			mutate:  func(d *testutils.RawDeck) { d.Count = testutils.IntPtr(99) },
			wantSub: `"count" must equal 100`,
		},
		{
			name:    "short cards array",
			mutate:  func(d *testutils.RawDeck) { d.Cards = d.Cards[:50] },
			wantSub: "exactly 100 entries, found 50",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			raw := tc.raw
			if raw == nil {
				d := testutils.NewRawDeck()
				tc.mutate(d)
				raw = d.JSON(t)
			}

			res := deck.Validate(raw)
			assert.False(t, res.Valid)
			// Structural failures short-circuit: exactly one error, no
			// per-card noise.
			require.Len(t, res.Errors, 1)
			assert.Contains(t, res.Errors[0], tc.wantSub)
		})
	}
}

func TestValidateInvalidPhonemeNamesField(t *testing.T) {
	t.Parallel()

	// Card "07" with phonemes ["K", "G"]: "K" is not allowed for digit 0.
	d := testutils.NewRawDeck()
	d.Card(t, "07").Variants[0].Phonemes = []string{"K", "G"}

	res := deck.Validate(d.JSON(t))
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], `card "07"`)
	assert.Contains(t, res.Errors[0], `phonemes[0] "K"`)
	assert.Contains(t, res.Errors[0], "not allowed for digit 0")
	assert.Contains(t, res.Errors[0], "S, Z")
}

func TestValidateMissingCardCitesNumber(t *testing.T) {
	t.Parallel()

	// Replace "58" with a second "57" so the deck stays at 100 entries but
	// no longer covers 00-99.
	d := testutils.NewRawDeck()
	c58 := d.Card(t, "58")
	c58.Number = "57"
	c58.Digits = []int{5, 7}
	c58.Variants[0].Phonemes = []string{"L", "K"}

	res := deck.Validate(d.JSON(t))
	require.False(t, res.Valid)
	assert.Contains(t, strings.Join(res.Errors, "\n"), `deck is missing card "58"`)
	assert.Contains(t, strings.Join(res.Errors, "\n"), `duplicate number "57"`)
}

func TestValidatePerCardErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(d *testutils.RawDeck)
		wantSub string
	}{
		{
			name:    "malformed number",
			mutate:  func(d *testutils.RawDeck) { d.Cards[3].Number = "3x" },
			wantSub: `number "3x" does not match`,
		},
		{
			name:    "wrong digits",
			mutate:  func(d *testutils.RawDeck) { d.Card(t, "42").Digits = []int{2, 4} },
			wantSub: `digits [2, 4] do not match number "42"`,
		},
		{
			name:    "digits wrong length",
			mutate:  func(d *testutils.RawDeck) { d.Card(t, "42").Digits = []int{4} },
			wantSub: "digits must be a 2-element array",
		},
		{
			name:    "no variants",
			mutate:  func(d *testutils.RawDeck) { d.Card(t, "17").Variants = nil },
			wantSub: "must have at least one variant",
		},
		{
			name:    "unresolved primary variant",
			mutate:  func(d *testutils.RawDeck) { d.Card(t, "17").PrimaryVariant = "ghost" },
			wantSub: `primary_variant "ghost" does not reference an existing variant`,
		},
		{
			name: "variant with one phoneme",
			mutate: func(d *testutils.RawDeck) {
				d.Card(t, "17").Variants[0].Phonemes = []string{"T"}
			},
			wantSub: "exactly 2 phonemes, found 1",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := testutils.NewRawDeck()
			tc.mutate(d)

			res := deck.Validate(d.JSON(t))
			assert.False(t, res.Valid)
			assert.Contains(t, strings.Join(res.Errors, "\n"), tc.wantSub)
		})
	}
}

func TestValidateAccumulatesAllCardErrors(t *testing.T) {
	t.Parallel()

	d := testutils.NewRawDeck()
	d.Card(t, "10").Variants = nil
	d.Card(t, "20").PrimaryVariant = "ghost"
	d.Card(t, "30").Variants[0].Phonemes = []string{"K", "S"}

	res := deck.Validate(d.JSON(t))
	assert.False(t, res.Valid)
	assert.GreaterOrEqual(t, len(res.Errors), 3,
		"per-card checks accumulate instead of stopping at the first failure")
}

func TestValidateDuplicateIdsAreWarnings(t *testing.T) {
	t.Parallel()

	d := testutils.NewRawDeck()
	d.Card(t, "11").Variants[0].ID = "22a" // collides with card 22's variant
	d.Card(t, "11").PrimaryVariant = "22a"
	d.Card(t, "33").Variants[0].Image = "img_44" // collides with card 44's image

	res := deck.Validate(d.JSON(t))
	assert.True(t, res.Valid, "duplicate variant ids and images are non-fatal")
	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], `variant id "22a"`)
	assert.Contains(t, res.Warnings[1], `image "img_44"`)
}

func TestLoadAndValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid deck loads", func(t *testing.T) {
		t.Parallel()
		d, err := deck.LoadAndValidate(testutils.NewRawDeck().JSON(t), nil)
		require.NoError(t, err)
		assert.Equal(t, domain.DeckSize, d.Size())

		card, ok := d.Card("42")
		require.True(t, ok)
		assert.Equal(t, [2]int{4, 2}, card.Digits)
	})

	t.Run("invalid deck never loads", func(t *testing.T) {
		t.Parallel()
		d := testutils.NewRawDeck()
		d.Card(t, "07").Variants[0].Phonemes = []string{"K", "G"}

		loaded, err := deck.LoadAndValidate(d.JSON(t), nil)
		require.Error(t, err)
		assert.Nil(t, loaded)
		assert.ErrorIs(t, err, deck.ErrInvalidDeck)
		assert.Contains(t, err.Error(), `card "07"`)
	})

	t.Run("error aggregates at most five errors", func(t *testing.T) {
		t.Parallel()
		d := testutils.NewRawDeck()
		for i := 0; i < 10; i++ {
			d.Cards[i].Variants = nil
		}

		_, err := deck.LoadAndValidate(d.JSON(t), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "10 error(s)")
		assert.Equal(t, 5, strings.Count(err.Error(), "at least one variant"),
			"only the first five errors are reported")
	})
}

func TestDefaultPackIsValid(t *testing.T) {
	t.Parallel()

	d, err := deck.Default(nil)
	require.NoError(t, err)
	require.Equal(t, domain.DeckSize, d.Size())

	// Every number 00-99 is present and every variant's phonemes encode
	// the card's digits.
	for i := 0; i < domain.DeckSize; i++ {
		n := fmt.Sprintf("%02d", i)
		card, ok := d.Card(n)
		require.True(t, ok, "missing card %s", n)
		for _, v := range card.Variants {
			for j := 0; j < 2; j++ {
				assert.True(t, domain.IsAllowedPhoneme(card.Digits[j], v.Phonemes[j]),
					"card %s variant %s phoneme %q invalid for digit %d",
					n, v.ID, v.Phonemes[j], card.Digits[j])
			}
		}
	}
}

func TestDefaultDateFacts(t *testing.T) {
	t.Parallel()

	facts, err := deck.DefaultDateFacts()
	require.NoError(t, err)
	assert.NotEmpty(t, facts)
	for _, f := range facts {
		assert.NotEmpty(t, f.Label)
		assert.NotEmpty(t, f.Date)
	}
}
