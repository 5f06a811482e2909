package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes a schema identifier so that naming conventions
// compare equal: membershipNumber, membership_number and MEMBERSHIP-NUMBER all
// normalize to "membershipnumber". Letters are case-folded and digits kept;
// separators and punctuation are dropped.
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}

	return b.String()
}
