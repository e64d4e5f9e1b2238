package anonymize

import "github.com/siherrmann/veil/model"

// Deanonymize substitutes every recognized token occurrence in text with its
// original value from table. The text is typically language model output and
// need not be the anonymized text itself: the model may have reworded
// everything around the tokens, repeated them or dropped some.
//
// Only exact [TYPE_N] grammar matches are substituted, never fuzzy or partial
// matches, so unrelated bracketed text stays intact. A token absent from the
// table (hallucinated, malformed or from another session) is left verbatim in
// place: a visible bracket literal beats corrupted output. Text without
// tokens is returned unchanged, making the function idempotent and a pure
// function of (text, table).
func Deanonymize(text string, table *model.MappingTable) string {
	if text == "" || table == nil || table.Len() == 0 {
		return text
	}

	return model.ReplaceTokens(text, func(token model.Token) string {
		if original, ok := table.LookupOriginal(token); ok {
			return original
		}
		return string(token)
	})
}
