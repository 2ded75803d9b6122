package deck

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/mnemo-api/internal/domain"
)

//go:embed data/major_deck.json data/date_facts.json
var packData embed.FS

// Default loads and validates the content pack embedded in the binary.
// The embedded pack is authored alongside the engine, so a failure here is
// a build defect rather than a runtime condition.
func Default(logger *slog.Logger) (*domain.Deck, error) {
	raw, err := packData.ReadFile("data/major_deck.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded deck: %w", err)
	}
	return LoadAndValidate(raw, logger)
}

// DefaultDateFacts returns the historical date facts embedded in the binary,
// used by the session generator's historical-date drills.
func DefaultDateFacts() ([]domain.DateFact, error) {
	raw, err := packData.ReadFile("data/date_facts.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded date facts: %w", err)
	}
	var facts []domain.DateFact
	if err := json.Unmarshal(raw, &facts); err != nil {
		return nil, fmt.Errorf("parse embedded date facts: %w", err)
	}
	return facts, nil
}
