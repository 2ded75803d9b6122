package domain

// DrillKind discriminates the drill union.
type DrillKind string

// Supported drill kinds.
const (
	DrillKindStandard       DrillKind = "standard"
	DrillKindPiSequence     DrillKind = "pi_sequence"
	DrillKindHistoricalDate DrillKind = "historical_date"
)

// QuizDirection selects which facet of a card a standard drill quizzes.
type QuizDirection string

// Quiz directions for standard drills.
const (
	DirectionNumberToImage QuizDirection = "number_to_image"
	DirectionImageToNumber QuizDirection = "image_to_number"
	DirectionNumberToWord  QuizDirection = "number_to_word"
)

// Choice pairs a card number with the variant displayed for it. Standard
// drills present four choices; sequence drills present one per card.
type Choice struct {
	Number  string      `json:"number"`
	Variant CardVariant `json:"variant"`
}

// StandardDrill quizzes a single target card in one direction against three
// distractors. CorrectIndex is the position of the target within Choices
// after shuffling.
type StandardDrill struct {
	Number       string        `json:"number"`
	Variant      CardVariant   `json:"variant"`
	Direction    QuizDirection `json:"direction"`
	Choices      []Choice      `json:"choices"`
	CorrectIndex int           `json:"correct_index"`
}

// PiSequenceDrill presents a run of consecutive digit pairs from the
// reference sequence, shuffled; the learner must restore the original order.
// Answer is the human-readable concatenation of the raw pairs.
type PiSequenceDrill struct {
	Sequence  []Choice `json:"sequence"`
	Presented []Choice `json:"presented"`
	Answer    string   `json:"answer"`
}

// HistoricalDateDrill shows a date fact rendered as cards, one per two-digit
// pair of the date; the learner types the reconstructed date. Expected is
// the original formatted date string.
type HistoricalDateDrill struct {
	Fact     DateFact `json:"fact"`
	Cards    []Choice `json:"cards"`
	Expected string   `json:"expected"`
}

// Drill is one session element: a tagged union over the three drill types.
// Exactly one payload field is non-nil, matching Kind.
type Drill struct {
	ID             string               `json:"id"`
	Kind           DrillKind            `json:"kind"`
	Standard       *StandardDrill       `json:"standard,omitempty"`
	PiSequence     *PiSequenceDrill     `json:"pi_sequence,omitempty"`
	HistoricalDate *HistoricalDateDrill `json:"historical_date,omitempty"`
}

// TargetNumber returns the card number a drill's answer is recorded against.
// For sequence and date drills, which span multiple cards, it returns the
// first card in the sequence.
func (d *Drill) TargetNumber() string {
	switch d.Kind {
	case DrillKindStandard:
		return d.Standard.Number
	case DrillKindPiSequence:
		if len(d.PiSequence.Sequence) > 0 {
			return d.PiSequence.Sequence[0].Number
		}
	case DrillKindHistoricalDate:
		if len(d.HistoricalDate.Cards) > 0 {
			return d.HistoricalDate.Cards[0].Number
		}
	}
	return ""
}

// DrillResult is an immutable record of one answered drill, used to update
// scheduling state and compute session summaries.
type DrillResult struct {
	Drill         Drill `json:"drill"`
	SelectedIndex int   `json:"selected_index"`
	IsCorrect     bool  `json:"is_correct"`
	ResponseMs    int64 `json:"response_ms"`
}
