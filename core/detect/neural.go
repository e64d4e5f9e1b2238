package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/veil/helper"
	"github.com/siherrmann/veil/model"
)

// nerLabelTypes maps NER labels (after stripping BIO prefixes) to entity
// types. distilbert-NER emits PER/ORG/LOC/MISC.
var nerLabelTypes = map[string]model.EntityType{
	"PER":    model.Person,
	"PERSON": model.Person,
	"ORG":    model.Company,
	"LOC":    model.Location,
	"MISC":   model.Other,
}

// NeuralDetector runs a hugot token classification pipeline for context-aware
// entity detection (names, companies, locations). Creation downloads the
// model if it is not present locally.
type NeuralDetector struct {
	session  *hugot.Session
	pipeline *pipelines.TokenClassificationPipeline
}

// NewNeuralDetector prepares the configured NER model and initializes a hugot
// session with the Go backend.
func NewNeuralDetector(config *model.Config) (*NeuralDetector, error) {
	if config == nil {
		config = model.DefaultConfig()
	}

	modelPath, err := helper.PrepareModel(config.NERModel, "model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	pipelineConfig := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "ner-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}),
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, pipelineConfig)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return &NeuralDetector{
		session:  session,
		pipeline: nerPipeline,
	}, nil
}

// Detect runs NER on the text and converts the tagger output to entity
// spans. Spans whose reported offsets do not line up with the source text are
// re-anchored by substring search, or dropped when the word cannot be found,
// so the offset invariant always holds for returned spans.
func (d *NeuralDetector) Detect(ctx context.Context, text string) ([]model.EntitySpan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	result, err := d.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to run NER: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(result.Entities) == 0 {
		return nil, nil
	}

	var spans []model.EntitySpan
	searchFrom := 0
	for _, entity := range result.Entities[0] {
		entityType, ok := nerLabelTypes[normalizeNERLabel(entity.Entity)]
		if !ok {
			continue
		}

		word := strings.TrimSpace(entity.Word)
		if word == "" {
			continue
		}

		start, end := int(entity.Start), int(entity.End)
		if start < 0 || end > len(text) || start >= end || text[start:end] != word {
			// Wordpiece aggregation can report character offsets; re-anchor
			// on the raw bytes, scanning forward to keep duplicates distinct.
			idx := strings.Index(text[searchFrom:], word)
			if idx < 0 {
				continue
			}
			start = searchFrom + idx
			end = start + len(word)
		}
		searchFrom = end

		spans = append(spans, model.EntitySpan{
			Raw:        text[start:end],
			Type:       entityType,
			Start:      start,
			End:        end,
			Confidence: float64(entity.Score),
		})
	}

	return spans, nil
}

// Close destroys the hugot session.
func (d *NeuralDetector) Close() error {
	if d.session == nil {
		return nil
	}
	return d.session.Destroy()
}

// normalizeNERLabel removes B- and I- prefixes from BIO tagging labels.
func normalizeNERLabel(label string) string {
	if strings.HasPrefix(label, "B-") || strings.HasPrefix(label, "I-") {
		return label[2:]
	}
	return label
}
