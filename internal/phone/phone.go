// Package phone normalizes user-entered Turkish phone numbers into the
// canonical forms the rest of the system relies on. Two forms exist and
// callers must not mix them: the bare-digit form (90XXXXXXXXXX) is what the
// upstream verification provider expects on the wire, while the E.164 form
// (+90XXXXXXXXXX) identifies player accounts.
package phone

import "strings"

// CountryCode is the Turkish calling code every canonical number starts with.
const CountryCode = "90"

// Normalize converts a free-form phone string into the bare-digit wire form
// (90XXXXXXXXXX). Punctuation and spaces are stripped, a domestic trunk zero
// is dropped, and the country code is prepended when missing. Normalization is
// best-effort: malformed numbers pass through unchanged beyond these rules and
// the provider remains the authority on validity. Empty input returns "".
func Normalize(raw string) string {
	digits := stripNonDigits(raw)
	if digits == "" {
		return ""
	}
	digits = strings.TrimPrefix(digits, "0")
	if !strings.HasPrefix(digits, CountryCode) {
		digits = CountryCode + digits
	}
	return digits
}

// NormalizeE164 converts a free-form phone string into the +-prefixed form
// (+90XXXXXXXXXX) used for account identity. Empty input returns "".
func NormalizeE164(raw string) string {
	digits := Normalize(raw)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// stripNonDigits removes everything that is not an ASCII digit. A leading +
// carries no information once the country code is reconstructed, so it is
// dropped along with spaces, parentheses and hyphens.
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
