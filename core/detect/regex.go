package detect

import (
	"context"
	"regexp"

	"github.com/siherrmann/veil/model"
)

// regexPattern pairs a compiled expression with its entity type and the fixed
// confidence assigned to its matches.
type regexPattern struct {
	re         *regexp.Regexp
	entityType model.EntityType
	confidence float64
}

// RegexDetector is the deterministic detector for structured patterns: email
// addresses, phone numbers and currency amounts. It needs no model, cannot
// fail at runtime and serves as the fallback when the neural detector is
// unavailable.
type RegexDetector struct {
	patterns []regexPattern
}

// NewRegexDetector compiles the built-in pattern set.
func NewRegexDetector() *RegexDetector {
	return &RegexDetector{
		patterns: []regexPattern{
			{
				re:         regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
				entityType: model.Email,
				confidence: 0.95,
			},
			{
				// French numbers: 06 12 34 56 78, 01.23.45.67.89
				re:         regexp.MustCompile(`\b0[1-9](?:[ .\-]?\d{2}){4}\b`),
				entityType: model.Phone,
				confidence: 0.9,
			},
			{
				// International numbers: +33 6 12 34 56 78, +1-415-555-0100
				re:         regexp.MustCompile(`\+\d{1,3}(?:[ .\-]?\d{1,4}){2,5}`),
				entityType: model.Phone,
				confidence: 0.85,
			},
			{
				// Euro amounts: 45 000 €, 45.000€, 3500 euros, 45k€
				re:         regexp.MustCompile(`\d{1,3}(?:[ \x{00A0}\x{202F}.,]\d{3})*(?:,\d{2})?\s?(?:k€|€|euros?|EUR)`),
				entityType: model.Amount,
				confidence: 0.8,
			},
			{
				// Dollar amounts: $120,000, $ 95000.50, $120k
				re:         regexp.MustCompile(`\$\s?\d{1,3}(?:,\d{3})*(?:\.\d{2})?(?:\s?[kKM])?`),
				entityType: model.Amount,
				confidence: 0.8,
			},
		},
	}
}

// Detect returns all pattern matches as spans with byte offsets into text.
// Overlapping matches from different patterns are returned as-is; resolving
// overlaps is the anonymizer's job.
func (d *RegexDetector) Detect(ctx context.Context, text string) ([]model.EntitySpan, error) {
	if text == "" {
		return nil, nil
	}

	var spans []model.EntitySpan
	for _, p := range d.patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, match := range p.re.FindAllStringIndex(text, -1) {
			start, end := match[0], match[1]
			spans = append(spans, model.EntitySpan{
				Raw:        text[start:end],
				Type:       p.entityType,
				Start:      start,
				End:        end,
				Confidence: p.confidence,
			})
		}
	}

	return spans, nil
}
