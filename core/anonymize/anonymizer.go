package anonymize

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/siherrmann/veil/core/detect"
	"github.com/siherrmann/veil/model"
)

// Anonymizer orchestrates detection, normalization and token assignment. It
// holds no per-operation state: all counters and mappings live in the
// MappingTable passed to Anonymize, so one Anonymizer can serve concurrent
// sessions without their tokens colliding.
type Anonymizer struct {
	Detector      detect.Detector
	Normalizer    *Normalizer
	MinConfidence float64

	log *slog.Logger
}

// NewAnonymizer creates an anonymizer. logger may be nil for silence.
func NewAnonymizer(detector detect.Detector, normalizer *Normalizer, minConfidence float64, logger *slog.Logger) *Anonymizer {
	return &Anonymizer{
		Detector:      detector,
		Normalizer:    normalizer,
		MinConfidence: minConfidence,
		log:           logger,
	}
}

// candidate is one planned substitution: either a detected span that becomes
// a token, or a manual ghost-mode pair matched literally in the text.
type candidate struct {
	span        model.EntitySpan
	manual      bool
	replacement string
}

// Anonymize detects entities in text and replaces each distinct entity with
// its stable placeholder token, recording the mapping in table. A nil table
// starts a fresh session. Detector failure never fails the operation: the
// result then carries the original text, zero stats and Warning set, since
// proceeding un-anonymized is a visible-to-the-user outcome, not an error.
func (a *Anonymizer) Anonymize(ctx context.Context, text string, table *model.MappingTable) (*model.AnonymizationResult, error) {
	if table == nil {
		table = model.NewMappingTable()
	}

	stats := model.Stats{ByType: make(map[model.EntityType]int)}
	if text == "" {
		return &model.AnonymizationResult{Text: text, Table: table, Stats: stats}, nil
	}

	spans, err := a.Detector.Detect(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if a.log != nil {
			a.log.Warn("Detection failed, text left un-anonymized", slog.String("error", err.Error()))
		}
		return &model.AnonymizationResult{Text: text, Table: table, Stats: stats, Warning: true}, nil
	}

	candidates := a.collectCandidates(text, spans, table.Manual())
	kept := resolveOverlaps(candidates)

	// Build the output in a single left-to-right pass over offsets. Repeated
	// find/replace on the raw string would corrupt later offsets and could
	// re-match text inside already-inserted tokens.
	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, c := range kept {
		out.WriteString(text[last:c.span.Start])
		if c.manual {
			// Manual pairs carry no detected type and count as Other, so
			// TotalMasked always equals the sum over ByType.
			out.WriteString(c.replacement)
		} else {
			token := a.tokenFor(table, c.span)
			out.WriteString(string(token))
		}
		stats.ByType[c.span.Type]++
		stats.TotalMasked++
		last = c.span.End
	}
	out.WriteString(text[last:])

	return &model.AnonymizationResult{Text: out.String(), Table: table, Stats: stats}, nil
}

// tokenFor resolves the token for a detected span. A bare sub-name of a
// single known person ("Jean" after "Jean Dupont") reuses that person's
// token; an ambiguous or unknown value gets its own.
func (a *Anonymizer) tokenFor(table *model.MappingTable, span model.EntitySpan) model.Token {
	key := a.Normalizer.Key(span)
	if token, ok := table.LookupToken(key); ok {
		return token
	}
	if span.Type == model.Person {
		if token, ok := table.ResolveSubname(model.Person, key.Value); ok {
			return token
		}
	}
	return table.GetOrAssignToken(key, span.Raw)
}

// collectCandidates filters detector spans and adds literal occurrences of
// manual ghost-mode originals as highest-precedence candidates.
func (a *Anonymizer) collectCandidates(text string, spans []model.EntitySpan, manual []model.ManualMapping) []candidate {
	var candidates []candidate

	for _, span := range spans {
		if !span.Type.Valid() || span.Confidence < a.MinConfidence {
			continue
		}
		if span.Start < 0 || span.End > len(text) || span.Start >= span.End {
			continue
		}
		if text[span.Start:span.End] != span.Raw {
			// Detector broke the offset invariant; substituting here would
			// corrupt the output.
			continue
		}
		candidates = append(candidates, candidate{span: span})
	}

	lowered := strings.ToLower(text)
	for _, pair := range manual {
		needle := strings.ToLower(pair.Original)
		if needle == "" {
			continue
		}
		for from := 0; ; {
			idx := strings.Index(lowered[from:], needle)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(needle)
			candidates = append(candidates, candidate{
				span: model.EntitySpan{
					Raw:        text[start:end],
					Type:       model.Other,
					Start:      start,
					End:        end,
					Confidence: 1,
				},
				manual:      true,
				replacement: pair.Replacement,
			})
			from = end
		}
	}

	return candidates
}

// resolveOverlaps sorts candidates by start offset and drops overlapping ones
// so no text region is substituted twice. Manual pairs always win; between
// detected spans the higher confidence wins, ties go to the longer span, then
// to the stronger entity type.
func resolveOverlaps(candidates []candidate) []candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].span.Start != candidates[j].span.Start {
			return candidates[i].span.Start < candidates[j].span.Start
		}
		return beats(candidates[i], candidates[j])
	})

	var kept []candidate
	for _, c := range candidates {
		if len(kept) == 0 || c.span.Start >= kept[len(kept)-1].span.End {
			kept = append(kept, c)
			continue
		}
		if beats(c, kept[len(kept)-1]) {
			kept[len(kept)-1] = c
		}
	}
	return kept
}

// beats reports whether candidate a wins an overlap against candidate b.
func beats(a, b candidate) bool {
	if a.manual != b.manual {
		return a.manual
	}
	if a.span.Confidence != b.span.Confidence {
		return a.span.Confidence > b.span.Confidence
	}
	lenA, lenB := a.span.End-a.span.Start, b.span.End-b.span.Start
	if lenA != lenB {
		return lenA > lenB
	}
	return a.span.Type.Priority() < b.span.Type.Priority()
}
