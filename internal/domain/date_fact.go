package domain

// DateFact is a historical fact whose date can be decomposed into two-digit
// pairs and drilled as Major System cards. Date is the formatted string an
// answer is checked against (for example "1969-07-20"); only its digits are
// used to select cards.
type DateFact struct {
	Label string `json:"label"`
	Date  string `json:"date"`
}
