package session

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/siherrmann/veil/core/anonymize"
	"github.com/siherrmann/veil/model"
)

// Session owns one anonymization operation: one mapping table and its
// per-type counters. Tokens are only meaningful relative to the session that
// produced them, so a table is never shared across unrelated sessions.
// Abandoning a session simply discards the table; it holds no external
// resources. A Session is not safe for concurrent use.
type Session struct {
	ID    uuid.UUID
	Table *model.MappingTable

	anonymizer *anonymize.Anonymizer
	llm        LLMClient
	log        *slog.Logger
}

// New creates a session with a fresh mapping table. llm may be nil when only
// Anonymize/Deanonymize are needed; logger may be nil for silence.
func New(anonymizer *anonymize.Anonymizer, llm LLMClient, logger *slog.Logger) *Session {
	return &Session{
		ID:         uuid.New(),
		Table:      model.NewMappingTable(),
		anonymizer: anonymizer,
		llm:        llm,
		log:        logger,
	}
}

// Anonymize runs one anonymization pass against the session's table.
// Repeated calls share the table, so an entity seen in an earlier pass keeps
// its token in later passes.
func (s *Session) Anonymize(ctx context.Context, text string) (*model.AnonymizationResult, error) {
	result, err := s.anonymizer.Anonymize(ctx, text, s.Table)
	if err != nil {
		return nil, err
	}
	if result.Warning && s.log != nil {
		s.log.Warn("Anonymization degraded, text sent un-redacted",
			slog.String("session_id", s.ID.String()))
	}
	return result, nil
}

// Deanonymize restores original values in text using the session's table.
func (s *Session) Deanonymize(text string) string {
	return anonymize.Deanonymize(text, s.Table)
}

// FlowResult pairs a flow's deanonymized reply with what was actually sent
// and the anonymization stats, so callers can show the user what was masked.
type FlowResult struct {
	Reply      string      `json:"reply"`
	Anonymized string      `json:"anonymized"`
	Stats      model.Stats `json:"stats"`
	Warning    bool        `json:"warning,omitempty"`
}

// complete is the shared flow body: anonymize, call the model with the token
// preservation contract, deanonymize the reply.
func (s *Session) complete(ctx context.Context, systemPrompt string, text string) (*FlowResult, error) {
	result, err := s.Anonymize(ctx, text)
	if err != nil {
		return nil, err
	}

	response, err := s.llm.Complete(ctx, LLMRequest{
		System: []string{systemPrompt, tokenContract},
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: result.Text},
		},
	})
	if err != nil {
		return nil, err
	}

	return &FlowResult{
		Reply:      s.Deanonymize(response.Text),
		Anonymized: result.Text,
		Stats:      result.Stats,
		Warning:    result.Warning,
	}, nil
}
