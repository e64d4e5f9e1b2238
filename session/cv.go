package session

import (
	"context"

	"github.com/siherrmann/veil/helper"
)

const cvSystemPrompt = `You are an expert CV reviewer. Analyze the CV below and reply with:
1. A short profile summary.
2. The candidate's main strengths.
3. Concrete weaknesses and gaps.
4. Suggestions to improve the CV's structure and wording.
Answer in the language the CV is written in.`

// AnalyzeCV anonymizes cvText, asks the language model for a structured
// review and returns the reply with the candidate's real identifiers
// restored. The model never sees a name, employer, school or contact detail.
func (s *Session) AnalyzeCV(ctx context.Context, cvText string) (*FlowResult, error) {
	if s.llm == nil {
		return nil, helper.NewError("AnalyzeCV", ErrNoLLMClient)
	}
	result, err := s.complete(ctx, cvSystemPrompt, cvText)
	if err != nil {
		return nil, helper.NewError("AnalyzeCV", err)
	}
	return result, nil
}
