package detect

import (
	"context"
	"log/slog"
	"time"

	"github.com/siherrmann/veil/model"
)

// Chain runs a primary detector under a timeout and degrades to a fallback
// when the primary errors or does not answer in time. Detection must degrade
// gracefully: only when every detector in the chain fails does Detect return
// an error, and then it is ErrUnavailable.
type Chain struct {
	primary  Detector
	fallback Detector
	timeout  time.Duration
	log      *slog.Logger
}

// NewChain creates a fallback chain. Either detector may be nil; a nil
// primary goes straight to the fallback. logger may be nil for silence.
func NewChain(primary Detector, fallback Detector, timeout time.Duration, logger *slog.Logger) *Chain {
	return &Chain{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		log:      logger,
	}
}

// Detect implements Detector.
func (c *Chain) Detect(ctx context.Context, text string) ([]model.EntitySpan, error) {
	if c.primary != nil {
		spans, err := c.detectPrimary(ctx, text)
		if err == nil {
			return spans, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The caller abandoned the operation, not the detector.
			return nil, ctxErr
		}
		if c.log != nil {
			c.log.Warn("Primary detector failed, falling back", slog.String("error", err.Error()))
		}
	}

	if c.fallback != nil {
		spans, err := c.fallback.Detect(ctx, text)
		if err == nil {
			return spans, nil
		}
		if c.log != nil {
			c.log.Warn("Fallback detector failed", slog.String("error", err.Error()))
		}
	}

	return nil, ErrUnavailable
}

// detectPrimary runs the primary detector in its own goroutine so a hung
// model call cannot stall the chain past the timeout. The abandoned goroutine
// finishes on its own; its result is discarded.
func (c *Chain) detectPrimary(ctx context.Context, text string) ([]model.EntitySpan, error) {
	if c.timeout <= 0 {
		return c.primary.Detect(ctx, text)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type detection struct {
		spans []model.EntitySpan
		err   error
	}
	done := make(chan detection, 1)

	go func() {
		spans, err := c.primary.Detect(ctx, text)
		done <- detection{spans: spans, err: err}
	}()

	select {
	case result := <-done:
		return result.spans, result.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}
