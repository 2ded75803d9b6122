package domain

import (
	"fmt"
	"regexp"
)

// DeckSize is the number of cards in a complete deck: one per two-digit
// number "00".."99".
const DeckSize = 100

// numberPattern matches a valid two-digit card number.
var numberPattern = regexp.MustCompile(`^[0-9]{2}$`)

// CardVariant is one concrete mnemonic for a card: a word and an image
// reference that encode the card's two digits as two consonant phonemes.
// The Image field is an opaque identifier resolved by the presentation
// layer; the engine never interprets it.
type CardVariant struct {
	ID       string    `json:"id"`
	Word     string    `json:"word"`
	Image    string    `json:"image"`
	Phonemes [2]string `json:"phonemes"`
}

// Card is the atomic content unit of a deck: one two-digit number together
// with one or more mnemonic variants. Digits always equals the individual
// characters of Number as integers.
type Card struct {
	Number         string        `json:"number"`
	Digits         [2]int        `json:"digits"`
	PrimaryVariant string        `json:"primary_variant"`
	Variants       []CardVariant `json:"variants"`
}

// Variant returns the variant with the given id, or false if none matches.
func (c *Card) Variant(id string) (*CardVariant, bool) {
	for i := range c.Variants {
		if c.Variants[i].ID == id {
			return &c.Variants[i], true
		}
	}
	return nil, false
}

// Primary returns the card's designated primary variant. The deck validator
// guarantees the reference resolves, so a missing primary falls back to the
// first variant rather than failing.
func (c *Card) Primary() *CardVariant {
	if v, ok := c.Variant(c.PrimaryVariant); ok {
		return v
	}
	return &c.Variants[0]
}

// Deck is an immutable, validated content pack of exactly DeckSize cards
// covering every two-digit number. Construct one through the deck package's
// LoadAndValidate; a Deck that exists is trusted by the rest of the engine.
type Deck struct {
	Version     int
	GeneratedAt string

	cards    []Card
	byNumber map[string]*Card
}

// NewDeck builds a Deck from already-validated cards. It is exported for the
// deck package and for tests; it indexes cards by number but performs no
// semantic validation of its own beyond rejecting duplicate numbers.
func NewDeck(version int, generatedAt string, cards []Card) (*Deck, error) {
	d := &Deck{
		Version:     version,
		GeneratedAt: generatedAt,
		cards:       cards,
		byNumber:    make(map[string]*Card, len(cards)),
	}
	for i := range cards {
		n := cards[i].Number
		if _, dup := d.byNumber[n]; dup {
			return nil, fmt.Errorf("%w: duplicate number %q", ErrValidation, n)
		}
		d.byNumber[n] = &d.cards[i]
	}
	return d, nil
}

// Card returns the card for the given two-digit number, or false if the deck
// has no such card.
func (d *Deck) Card(number string) (*Card, bool) {
	c, ok := d.byNumber[number]
	return c, ok
}

// Cards returns all cards in deck order. The returned slice must not be
// modified.
func (d *Deck) Cards() []Card {
	return d.cards
}

// Numbers returns every card number in deck order.
func (d *Deck) Numbers() []string {
	out := make([]string, len(d.cards))
	for i := range d.cards {
		out[i] = d.cards[i].Number
	}
	return out
}

// Size returns the number of cards in the deck.
func (d *Deck) Size() int {
	return len(d.cards)
}

// IsValidNumber reports whether s is a well-formed two-digit card number.
func IsValidNumber(s string) bool {
	return numberPattern.MatchString(s)
}

// ReverseNumber returns the digit-reversed form of a two-digit number
// ("37" -> "73"). The input must be a valid number; malformed input is
// returned unchanged.
func ReverseNumber(number string) string {
	if !IsValidNumber(number) {
		return number
	}
	return string([]byte{number[1], number[0]})
}

// DigitsOf returns the two digits of a valid card number.
func DigitsOf(number string) [2]int {
	return [2]int{int(number[0] - '0'), int(number[1] - '0')}
}
