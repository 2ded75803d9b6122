package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedPhonemes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		digit    int
		expected []string
	}{
		{0, []string{"S", "Z"}},
		{1, []string{"T", "D", "TH", "DH"}},
		{2, []string{"N", "NG"}},
		{3, []string{"M"}},
		{4, []string{"R"}},
		{5, []string{"L"}},
		{6, []string{"J", "SH", "CH", "ZH"}},
		{7, []string{"K", "G"}},
		{8, []string{"F", "V"}},
		{9, []string{"P", "B"}},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, AllowedPhonemes(tc.digit), "digit %d", tc.digit)
	}

	assert.Nil(t, AllowedPhonemes(-1))
	assert.Nil(t, AllowedPhonemes(10))
}

func TestIsAllowedPhoneme(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAllowedPhoneme(0, "S"))
	assert.True(t, IsAllowedPhoneme(7, "G"))
	assert.False(t, IsAllowedPhoneme(0, "K"))
	assert.False(t, IsAllowedPhoneme(7, "S"))
	assert.False(t, IsAllowedPhoneme(3, "m"), "phonemes are case-sensitive")
	assert.False(t, IsAllowedPhoneme(12, "T"))
}
