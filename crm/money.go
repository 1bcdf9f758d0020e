package crm

import (
	"fmt"
	"strconv"
)

// FormatBRL renders cents as "R$ 1.234.567,89". Every user-visible price
// goes through here; the cents representation never leaves the store layer
// as a float.
func FormatBRL(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped, frac)
}

// MajorToCents converts a value expressed in whole reais (as produced by the
// reasoning model) into cents, rounding halves away from zero.
func MajorToCents(major float64) int64 {
	if major >= 0 {
		return int64(major*100 + 0.5)
	}
	return -int64(-major*100 + 0.5)
}
