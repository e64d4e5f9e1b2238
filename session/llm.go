// Package session runs caller-initiated anonymization operations. One
// Session owns one mapping table, so tokens never leak between unrelated
// operations. The flows (CV analysis, LinkedIn coach, ghost mode) anonymize
// text, call the external language model and substitute originals back into
// its reply.
package session

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMRequest describes one completion request to the external model.
type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

// LLMResponse is the model's reply.
type LLMResponse struct {
	Text       string
	StopReason string
}

// LLMClient abstracts the external language model. The engine only needs a
// single blocking request-response call; transport, retries and auth belong
// to the implementation.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// LLMFunc adapts a plain function to the LLMClient interface.
type LLMFunc func(ctx context.Context, req LLMRequest) (LLMResponse, error)

// Complete implements LLMClient.
func (f LLMFunc) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	return f(ctx, req)
}

// tokenContract is appended to every flow's system prompt. The exact token
// grammar must be documented to the model with an instruction to preserve
// tokens verbatim, otherwise deanonymization cannot restore the originals.
const tokenContract = `The text contains anonymization placeholders like [PERSON_1], [COMPANY_2] or [PHONE_1].
They stand for real values that will be restored after your reply.
Reproduce every placeholder exactly as written, including brackets, type tag and number.
Never invent, renumber or reformat placeholders.`
