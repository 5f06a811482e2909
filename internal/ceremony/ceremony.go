// Package ceremony maps free-text or enum ceremony labels to canonical tokens.
package ceremony

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Token is a canonical ceremony label. Labels that are not recognized are
// carried as-is in a Token so callers can still display them.
type Token string

// Canonical ceremony tokens.
const (
	Initiation   Token = "INITIATION"
	Passing      Token = "PASSING"
	Raising      Token = "RAISING"
	Affiliation  Token = "AFFILIATION"
	ReObligation Token = "RE-OBLIGATION"
)

// Tokens lists the canonical tokens in ceremonial order.
var Tokens = []Token{Initiation, Passing, Raising, Affiliation, ReObligation}

// variants is keyed by the folded form produced by fold.
var variants = map[string]Token{
	"INITIATE":     Initiation,
	"INITIATED":    Initiation,
	"INITIATION":   Initiation,
	"PASS":         Passing,
	"PASSED":       Passing,
	"PASSING":      Passing,
	"RAISE":        Raising,
	"RAISED":       Raising,
	"RAISING":      Raising,
	"AFFILIATE":    Affiliation,
	"AFFILIATED":   Affiliation,
	"AFFILIATION":  Affiliation,
	"REOBLIGATE":   ReObligation,
	"REOBLIGATED":  ReObligation,
	"REOBLIGATION": ReObligation,
}

// Normalize returns the canonical token for raw, or raw itself when it is not
// a known variant. Matching ignores case, punctuation, spacing and accents.
func Normalize(raw string) Token {
	if t, ok := Lookup(raw); ok {
		return t
	}

	return Token(raw)
}

// Lookup reports the canonical token for raw and whether it was recognized.
func Lookup(raw string) (Token, bool) {
	t, ok := variants[fold(raw)]

	return t, ok
}

// IsCanonical reports whether t is one of the canonical tokens.
func (t Token) IsCanonical() bool {
	for _, c := range Tokens {
		if t == c {
			return true
		}
	}

	return false
}

func (t Token) String() string { return string(t) }

// fold decomposes raw, drops combining marks and everything that is not a
// letter, and upper-cases the rest: "Ré-obligation" becomes "REOBLIGATION".
func fold(raw string) string {
	var b strings.Builder

	for _, r := range norm.NFD.String(raw) {
		if unicode.Is(unicode.Mn, r) || !unicode.IsLetter(r) {
			continue
		}

		b.WriteRune(unicode.ToUpper(r))
	}

	return b.String()
}

// Set is a membership set of tokens.
type Set map[Token]struct{}

// NewSet collects tokens into a set.
func NewSet(tokens ...Token) Set {
	s := make(Set, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}

	return s
}

// Has reports whether t is in the set.
func (s Set) Has(t Token) bool {
	_, ok := s[t]
	return ok
}

// Awaiting returns the ceremony a candidate with these tokens waits for:
// Passing after an initiation without a passing, Raising after a passing
// without a raising, otherwise "".
func (s Set) Awaiting() Token {
	switch {
	case s.Has(Initiation) && !s.Has(Passing):
		return Passing
	case s.Has(Passing) && !s.Has(Raising):
		return Raising
	default:
		return ""
	}
}
