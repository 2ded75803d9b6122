// Package testutils provides shared helpers for building valid content
// packs in tests without depending on the embedded production deck.
package testutils

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/phrazzld/mnemo-api/internal/deck"
	"github.com/phrazzld/mnemo-api/internal/domain"
)

// RawVariant mirrors the content pack wire format for tests.
type RawVariant struct {
	ID       string   `json:"id"`
	Word     string   `json:"word"`
	Image    string   `json:"image"`
	Phonemes []string `json:"phonemes"`
}

// RawCard mirrors the content pack wire format for tests.
type RawCard struct {
	Number         string       `json:"number"`
	Digits         []int        `json:"digits"`
	PrimaryVariant string       `json:"primary_variant"`
	Variants       []RawVariant `json:"variants"`
}

// RawDeck mirrors the content pack wire format for tests. Version and Count
// are pointers so tests can express absent fields.
type RawDeck struct {
	Version     *int      `json:"version,omitempty"`
	GeneratedAt string    `json:"generated_at"`
	Count       *int      `json:"count,omitempty"`
	Cards       []RawCard `json:"cards"`
}

// IntPtr returns a pointer to v, for RawDeck literals.
func IntPtr(v int) *int {
	return &v
}

// NewRawDeck builds a complete, valid 100-card content pack. Each card gets
// one variant using the first allowed phoneme for each of its digits.
// Tests mutate the result to inject specific defects.
func NewRawDeck() *RawDeck {
	cards := make([]RawCard, 0, domain.DeckSize)
	for i := 0; i < domain.DeckSize; i++ {
		number := fmt.Sprintf("%02d", i)
		digits := domain.DigitsOf(number)
		cards = append(cards, RawCard{
			Number:         number,
			Digits:         []int{digits[0], digits[1]},
			PrimaryVariant: number + "a",
			Variants: []RawVariant{{
				ID:    number + "a",
				Word:  "word-" + number,
				Image: "img_" + number,
				Phonemes: []string{
					domain.AllowedPhonemes(digits[0])[0],
					domain.AllowedPhonemes(digits[1])[0],
				},
			}},
		})
	}
	return &RawDeck{
		Version:     IntPtr(deck.SchemaVersion),
		GeneratedAt: "2026-01-01T00:00:00Z",
		Count:       IntPtr(domain.DeckSize),
		Cards:       cards,
	}
}

// Card returns the raw card with the given number, failing the test if it
// is absent.
func (d *RawDeck) Card(t *testing.T, number string) *RawCard {
	t.Helper()
	for i := range d.Cards {
		if d.Cards[i].Number == number {
			return &d.Cards[i]
		}
	}
	t.Fatalf("raw deck has no card %q", number)
	return nil
}

// JSON serializes the raw deck.
func (d *RawDeck) JSON(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal raw deck: %v", err)
	}
	return raw
}

// ValidDeck builds and validates a complete test deck.
func ValidDeck(t *testing.T) *domain.Deck {
	t.Helper()
	d, err := deck.LoadAndValidate(NewRawDeck().JSON(t), nil)
	if err != nil {
		t.Fatalf("test deck failed validation: %v", err)
	}
	return d
}
