package domain

// The Major System encodes each digit as a small set of consonant phonemes.
// A two-digit card is valid only if each of its variants encodes the card's
// digits with phonemes drawn from these sets.
//
// The table is fixed; it is the semantic ground truth that the deck validator
// enforces and is not configurable at runtime.
var phonemesByDigit = [10][]string{
	0: {"S", "Z"},
	1: {"T", "D", "TH", "DH"},
	2: {"N", "NG"},
	3: {"M"},
	4: {"R"},
	5: {"L"},
	6: {"J", "SH", "CH", "ZH"},
	7: {"K", "G"},
	8: {"F", "V"},
	9: {"P", "B"},
}

// AllowedPhonemes returns the set of consonant phonemes that encode the given
// digit. The returned slice must not be modified by the caller. Digits outside
// 0-9 return nil.
func AllowedPhonemes(digit int) []string {
	if digit < 0 || digit > 9 {
		return nil
	}
	return phonemesByDigit[digit]
}

// IsAllowedPhoneme reports whether phoneme is a valid encoding of digit.
func IsAllowedPhoneme(digit int, phoneme string) bool {
	for _, p := range AllowedPhonemes(digit) {
		if p == phoneme {
			return true
		}
	}
	return false
}
