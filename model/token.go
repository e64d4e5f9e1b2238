package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// Token is a placeholder of the form [TYPE_N] substituted for a detected
// entity. N is a 1-based counter scoped to the entity type within one session.
// Tokens are only meaningful relative to the MappingTable that produced them.
type Token string

// tokenRegex matches exactly the token grammar: a known type tag and a
// positive integer, case-sensitive. Nothing else inside brackets qualifies.
var tokenRegex = regexp.MustCompile(`\[(PERSON|COMPANY|EMAIL|PHONE|SCHOOL|LOCATION|AMOUNT|OTHER)_([1-9][0-9]*)\]`)

// exactTokenRegex anchors tokenRegex for whole-string matching.
var exactTokenRegex = regexp.MustCompile(`^` + tokenRegex.String() + `$`)

// FormatToken builds the token for the n-th entity of the given type.
func FormatToken(t EntityType, n int) Token {
	return Token(fmt.Sprintf("[%s_%d]", t, n))
}

// ParseToken splits a token into its type tag and counter. It returns false
// when s does not match the token grammar exactly.
func ParseToken(s string) (EntityType, int, bool) {
	groups := exactTokenRegex.FindStringSubmatch(s)
	if groups == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(groups[2])
	if err != nil || n < 1 {
		return "", 0, false
	}
	return EntityType(groups[1]), n, true
}

// IsToken reports whether s is exactly one well-formed token.
func IsToken(s string) bool {
	_, _, ok := ParseToken(s)
	return ok
}

// ReplaceTokens substitutes every well-formed token occurrence in text using
// the given replace function. The function receives the full token text and
// returns the substitution; returning the input leaves the occurrence
// untouched. Text outside token matches is preserved verbatim.
func ReplaceTokens(text string, replace func(Token) string) string {
	return tokenRegex.ReplaceAllStringFunc(text, func(match string) string {
		return replace(Token(match))
	})
}
