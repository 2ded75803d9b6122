// Package deck loads and validates Major System content packs. A content
// pack is untrusted input; nothing else in the engine may touch a deck that
// has not passed LoadAndValidate.
package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/mnemo-api/internal/domain"
)

// SchemaVersion is the content pack schema version this engine understands.
// A pack with any other version fails structural validation.
const SchemaVersion = 1

// maxReportedErrors caps how many validation errors LoadAndValidate folds
// into its returned error, to keep the message readable.
const maxReportedErrors = 5

// ErrInvalidDeck is the sentinel wrapped by every LoadAndValidate failure.
var ErrInvalidDeck = errors.New("invalid deck")

// Result is the outcome of validating a content pack. Errors block loading;
// warnings are reported but non-fatal.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Raw content pack shapes. Pointer fields distinguish "absent" from zero
// values during structural checks.
type rawDeck struct {
	Version     *int      `json:"version"`
	GeneratedAt string    `json:"generated_at"`
	Count       *int      `json:"count"`
	Cards       []rawCard `json:"cards"`
}

type rawCard struct {
	Number         string       `json:"number"`
	Digits         []int        `json:"digits"`
	PrimaryVariant string       `json:"primary_variant"`
	Variants       []rawVariant `json:"variants"`
}

type rawVariant struct {
	ID       string   `json:"id"`
	Word     string   `json:"word"`
	Image    string   `json:"image"`
	Phonemes []string `json:"phonemes"`
}

// Validate checks a serialized content pack and reports every problem found.
//
// Checks run in order of severity: top-level shape first (any failure there
// short-circuits with a single structural error, since per-card checks on
// malformed input would only produce noise), then per-card checks
// accumulating all errors, then a completeness pass confirming every number
// 00-99 is present.
func Validate(raw []byte) *Result {
	res := &Result{}

	var rd rawDeck
	if err := json.Unmarshal(raw, &rd); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("deck is not a valid JSON object: %v", err))
		return res
	}

	// Top-level shape. One structural error short-circuits everything else.
	switch {
	case rd.Version == nil:
		res.Errors = append(res.Errors, "missing required field \"version\"")
		return res
	case *rd.Version != SchemaVersion:
		res.Errors = append(res.Errors,
			fmt.Sprintf("unsupported schema version %d (expected %d)", *rd.Version, SchemaVersion))
		return res
	case rd.Count == nil || *rd.Count != domain.DeckSize:
		res.Errors = append(res.Errors,
			fmt.Sprintf("\"count\" must equal %d", domain.DeckSize))
		return res
	case len(rd.Cards) != domain.DeckSize:
		res.Errors = append(res.Errors,
			fmt.Sprintf("\"cards\" must contain exactly %d entries, found %d", domain.DeckSize, len(rd.Cards)))
		return res
	}

	validateCards(rd.Cards, res)
	validateCompleteness(rd.Cards, res)

	res.Valid = len(res.Errors) == 0
	return res
}

// validateCards runs the per-card checks, accumulating every error rather
// than stopping at the first failure. Duplicate variant ids and duplicate
// image identifiers across the whole deck are warnings, not errors.
func validateCards(cards []rawCard, res *Result) {
	seenNumbers := make(map[string]bool, len(cards))
	seenVariantIDs := make(map[string]string)
	seenImages := make(map[string]string)

	for i, c := range cards {
		label := fmt.Sprintf("cards[%d]", i)
		if domain.IsValidNumber(c.Number) {
			label = fmt.Sprintf("card %q", c.Number)
		} else {
			res.Errors = append(res.Errors,
				fmt.Sprintf("%s: number %q does not match ^[0-9]{2}$", label, c.Number))
		}

		if seenNumbers[c.Number] {
			res.Errors = append(res.Errors,
				fmt.Sprintf("%s: duplicate number %q", label, c.Number))
		}
		seenNumbers[c.Number] = true

		digitsOK := validateDigits(label, c, res)

		if len(c.Variants) == 0 {
			res.Errors = append(res.Errors,
				fmt.Sprintf("%s: must have at least one variant", label))
			continue
		}

		if _, ok := findVariant(c.Variants, c.PrimaryVariant); !ok {
			res.Errors = append(res.Errors,
				fmt.Sprintf("%s: primary_variant %q does not reference an existing variant", label, c.PrimaryVariant))
		}

		for _, v := range c.Variants {
			if prev, dup := seenVariantIDs[v.ID]; dup {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("%s: variant id %q already used by card %q", label, v.ID, prev))
			} else {
				seenVariantIDs[v.ID] = c.Number
			}

			if v.Image != "" {
				if prev, dup := seenImages[v.Image]; dup {
					res.Warnings = append(res.Warnings,
						fmt.Sprintf("%s: image %q already used by card %q", label, v.Image, prev))
				} else {
					seenImages[v.Image] = c.Number
				}
			}

			validatePhonemes(label, c, v, digitsOK, res)
		}
	}
}

// validateDigits checks the digits array against the card's number. Returns
// whether the digits are usable for the subsequent phoneme checks.
func validateDigits(label string, c rawCard, res *Result) bool {
	if len(c.Digits) != 2 {
		res.Errors = append(res.Errors,
			fmt.Sprintf("%s: digits must be a 2-element array, found %d elements", label, len(c.Digits)))
		return false
	}
	if !domain.IsValidNumber(c.Number) {
		return false
	}
	want := domain.DigitsOf(c.Number)
	if c.Digits[0] != want[0] || c.Digits[1] != want[1] {
		res.Errors = append(res.Errors,
			fmt.Sprintf("%s: digits [%d, %d] do not match number %q", label, c.Digits[0], c.Digits[1], c.Number))
		return false
	}
	return true
}

// validatePhonemes checks both phonemes of a variant against the allowed
// set for the corresponding digit.
func validatePhonemes(label string, c rawCard, v rawVariant, digitsOK bool, res *Result) {
	if len(v.Phonemes) != 2 {
		res.Errors = append(res.Errors,
			fmt.Sprintf("%s: variant %q must have exactly 2 phonemes, found %d", label, v.ID, len(v.Phonemes)))
		return
	}
	if !digitsOK {
		return
	}
	for i, p := range v.Phonemes {
		digit := c.Digits[i]
		if !domain.IsAllowedPhoneme(digit, p) {
			res.Errors = append(res.Errors,
				fmt.Sprintf("%s: variant %q phonemes[%d] %q is not allowed for digit %d (allowed: %s)",
					label, v.ID, i, p, digit, strings.Join(domain.AllowedPhonemes(digit), ", ")))
		}
	}
}

// validateCompleteness confirms every number 00-99 is present, reporting
// each absence as a separate error.
func validateCompleteness(cards []rawCard, res *Result) {
	present := make(map[string]bool, len(cards))
	for _, c := range cards {
		present[c.Number] = true
	}
	for i := 0; i < domain.DeckSize; i++ {
		n := fmt.Sprintf("%02d", i)
		if !present[n] {
			res.Errors = append(res.Errors, fmt.Sprintf("deck is missing card %q", n))
		}
	}
}

func findVariant(variants []rawVariant, id string) (rawVariant, bool) {
	for _, v := range variants {
		if v.ID == id {
			return v, true
		}
	}
	return rawVariant{}, false
}

// LoadAndValidate validates a serialized content pack and, on success,
// builds the trusted immutable Deck the rest of the engine consumes.
//
// On failure it returns an error aggregating at most the first
// maxReportedErrors validation errors. Warnings never block loading; they
// are reported through the logger.
func LoadAndValidate(raw []byte, logger *slog.Logger) (*domain.Deck, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "deck_validator"))

	res := Validate(raw)

	for _, w := range res.Warnings {
		log.Warn("deck validation warning", slog.String("warning", w))
	}

	if !res.Valid {
		reported := res.Errors
		if len(reported) > maxReportedErrors {
			reported = reported[:maxReportedErrors]
		}
		return nil, fmt.Errorf("%w: %d error(s): %s",
			ErrInvalidDeck, len(res.Errors), strings.Join(reported, "; "))
	}

	// Shape is known good at this point; the conversion cannot fail.
	var rd rawDeck
	if err := json.Unmarshal(raw, &rd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	cards := make([]domain.Card, 0, len(rd.Cards))
	for _, rc := range rd.Cards {
		card := domain.Card{
			Number:         rc.Number,
			Digits:         [2]int{rc.Digits[0], rc.Digits[1]},
			PrimaryVariant: rc.PrimaryVariant,
			Variants:       make([]domain.CardVariant, 0, len(rc.Variants)),
		}
		for _, rv := range rc.Variants {
			card.Variants = append(card.Variants, domain.CardVariant{
				ID:       rv.ID,
				Word:     rv.Word,
				Image:    rv.Image,
				Phonemes: [2]string{rv.Phonemes[0], rv.Phonemes[1]},
			})
		}
		cards = append(cards, card)
	}

	d, err := domain.NewDeck(*rd.Version, rd.GeneratedAt, cards)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}

	log.Info("deck loaded",
		slog.Int("cards", d.Size()),
		slog.Int("version", d.Version),
		slog.Int("warnings", len(res.Warnings)))
	return d, nil
}
