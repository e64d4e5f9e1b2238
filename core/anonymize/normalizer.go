// Package anonymize implements the reversible anonymization core: the
// normalizer that collapses surface forms of one entity, the anonymizer that
// substitutes placeholder tokens for detected spans, and the deanonymizer
// that restores originals in model output.
package anonymize

import (
	"strings"
	"unicode"

	"github.com/siherrmann/veil/model"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes a raw span's text so that multiple surface forms
// of the same entity ("Jean Dupont", "M. Dupont ") resolve to one canonical
// key. Normalization operates only on a single span's text, never across
// entities, and is best-effort: it never fails, and an empty or unparseable
// value is returned unchanged.
type Normalizer struct {
	honorifics map[string]bool
}

// NewNormalizer creates a normalizer with the given honorific list. The list
// is matched case-insensitively, with or without a trailing dot.
func NewNormalizer(honorifics []string) *Normalizer {
	set := make(map[string]bool, len(honorifics))
	for _, h := range honorifics {
		h = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(h), "."))
		if h != "" {
			set[h] = true
		}
	}
	return &Normalizer{honorifics: set}
}

// Normalize returns the canonical comparison value for a raw span text. The
// stored original value keeps its casing; the normalized value is only used
// to decide entity identity. Normalize is idempotent.
func (n *Normalizer) Normalize(raw string, entityType model.EntityType) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	var normalized string
	switch entityType {
	case model.Person:
		normalized = strings.ToLower(n.stripHonorifics(trimmed))
	case model.Company, model.School, model.Location:
		normalized = strings.ToLower(trimmed)
	case model.Email:
		normalized = strings.ToLower(trimmed)
	case model.Phone:
		normalized = stripPhoneFormatting(trimmed)
	case model.Amount:
		normalized = collapseSpaces(trimmed)
	default:
		normalized = trimmed
	}

	if normalized == "" {
		return raw
	}
	return normalized
}

// Key derives the canonical key for a span.
func (n *Normalizer) Key(span model.EntitySpan) model.CanonicalKey {
	return model.CanonicalKey{
		Type:  span.Type,
		Value: n.Normalize(span.Raw, span.Type),
	}
}

// CollisionFold builds the key used to compare ghost-mode manual originals
// against detected values: lower-cased, trimmed and diacritic-stripped, so
// "Hélène" collides with "helene".
func (n *Normalizer) CollisionFold(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// stripHonorifics drops leading title tokens ("M.", "Mme", "Dr") from a
// person name. It stops at the first non-honorific token and never consumes
// the whole name.
func (n *Normalizer) stripHonorifics(name string) string {
	fields := strings.Fields(name)
	i := 0
	for i < len(fields)-1 {
		token := strings.ToLower(strings.TrimSuffix(fields[i], "."))
		if !n.honorifics[token] {
			break
		}
		i++
	}
	return strings.Join(fields[i:], " ")
}

// stripPhoneFormatting removes spaces, dots, dashes and parentheses so that
// "06 12 34 56 78" and "06.12.34.56.78" collapse to one entity.
func stripPhoneFormatting(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '.', '-', '(', ')':
			return -1
		}
		return r
	}, phone)
}

// collapseSpaces removes all spacing, including the narrow no-break spaces
// used as French thousands separators.
func collapseSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
