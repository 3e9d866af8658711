package domain

import "strings"

// NormalizePhone rewrites a customer phone number into the country-code
// prefixed form Scalev expects ("6281..."). Rules:
//   - non-digits are stripped
//   - a leading "0" is replaced by "62"
//   - a number without the "62" prefix gets it prepended
//
// Already normalized numbers pass through unchanged, so the function is
// idempotent.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	if strings.HasPrefix(digits, "0") {
		return "62" + digits[1:]
	}
	if !strings.HasPrefix(digits, "62") {
		return "62" + digits
	}
	return digits
}
