package session

import (
	"context"
	"errors"

	"github.com/siherrmann/veil/helper"
	"github.com/siherrmann/veil/model"
)

// ErrNoLLMClient is returned by flows when the session has no language model
// client configured.
var ErrNoLLMClient = errors.New("no LLM client configured")

// ApplyGhostMode merges operator-supplied replacement pairs into the
// session's table and anonymizes text with them in effect. Manual pairs take
// precedence over automatic detection: a pair colliding with an already
// detected entity overrides what its token deanonymizes to, a fresh pair is
// substituted literally wherever its original occurs. No language model is
// called; ghost mode only prepares text and mappings.
func (s *Session) ApplyGhostMode(ctx context.Context, text string, manual []model.ManualMapping) (*model.AnonymizationResult, error) {
	s.Table.Merge(manual, s.anonymizer.Normalizer.CollisionFold)

	result, err := s.Anonymize(ctx, text)
	if err != nil {
		return nil, helper.NewError("ApplyGhostMode", err)
	}
	return result, nil
}
