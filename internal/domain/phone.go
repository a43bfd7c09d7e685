package domain

import "strings"

// NormalizePhone strips everything but digits. "+55 (11) 99876-5432" and
// "5511998765432" identify the same customer within a merchant.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SamePhone compares two phone numbers on their normalized forms.
func SamePhone(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	return na != "" && na == nb
}
