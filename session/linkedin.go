package session

import (
	"context"

	"github.com/siherrmann/veil/helper"
)

const linkedinSystemPrompt = `You are a LinkedIn content coach. Using the notes below, draft an engaging LinkedIn post:
- Open with a hook in the first line.
- Keep paragraphs short and scannable.
- End with a question or call to action.
- Do not use hashtags unless the notes ask for them.
Answer in the language the notes are written in.`

// DraftLinkedInPost anonymizes the user's notes, asks the language model for
// a post draft and restores the real names in the reply.
func (s *Session) DraftLinkedInPost(ctx context.Context, notes string) (*FlowResult, error) {
	if s.llm == nil {
		return nil, helper.NewError("DraftLinkedInPost", ErrNoLLMClient)
	}
	result, err := s.complete(ctx, linkedinSystemPrompt, notes)
	if err != nil {
		return nil, helper.NewError("DraftLinkedInPost", err)
	}
	return result, nil
}
