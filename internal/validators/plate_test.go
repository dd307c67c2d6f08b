package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLicensePlate(t *testing.T) {
	assert.Equal(t, "ABC1234", NormalizeLicensePlate(" abc-1234 "))
	assert.Equal(t, "AB1234", NormalizeLicensePlate("ab 1234"))
	assert.Equal(t, "1234AB", NormalizeLicensePlate("1234-ab"))
}

func TestValidateLicensePlate(t *testing.T) {
	cases := []struct {
		raw  string
		want error
	}{
		{"ABC1235", nil},
		{"abc-1235", nil},
		{"AB1234", nil},
		{"1234AB", nil},
		{"1234-ab", nil},
		{"ABI1235", ErrPlateAmbiguousLetter},
		{"AO1234", ErrPlateAmbiguousLetter},
		{"ABC4567", ErrPlateContainsFour},
		{"ABC1234", ErrPlateContainsFour},
		{"AB12345", ErrPlateFormat},
		{"A12345", ErrPlateFormat},
		{"ABCD123", ErrPlateFormat},
		{"", ErrPlateEmpty},
		{" - ", ErrPlateEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateLicensePlate(tc.raw))
		})
	}
}

func TestValidateLicensePlate_AmbiguousLetterCheckedFirst(t *testing.T) {
	// contains both I and a 4; the letter message wins
	assert.Equal(t, ErrPlateAmbiguousLetter, ValidateLicensePlate("ABI1234"))
}
