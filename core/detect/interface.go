// Package detect finds personally identifying spans in text. Two backends
// exist: a neural token classification detector (hugot NER) and a
// deterministic regex detector for structured patterns. Either can run
// standalone, or both combined in a fallback chain.
package detect

import (
	"context"
	"errors"

	"github.com/siherrmann/veil/model"
)

// Detector finds personally identifying spans in text. Implementations must
// return spans whose byte offsets satisfy text[Start:End] == Raw.
type Detector interface {
	Detect(ctx context.Context, text string) ([]model.EntitySpan, error)
}

// DetectFunc adapts a plain function to the Detector interface.
type DetectFunc func(ctx context.Context, text string) ([]model.EntitySpan, error)

// Detect implements Detector.
func (f DetectFunc) Detect(ctx context.Context, text string) ([]model.EntitySpan, error) {
	return f(ctx, text)
}

var (
	// ErrUnavailable reports that a detector backend could not load or run.
	ErrUnavailable = errors.New("detector unavailable")
	// ErrTimeout reports that a detector did not answer within the
	// configured timeout. Chains treat it like ErrUnavailable.
	ErrTimeout = errors.New("detector timeout")
)
