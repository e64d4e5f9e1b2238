// Package veil is a reversible anonymization engine. It detects personal
// identifiers in free text, substitutes stable placeholder tokens for them
// and restores the originals in any text that carries the tokens back.
package veil

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/veil/core/anonymize"
	"github.com/siherrmann/veil/core/detect"
	"github.com/siherrmann/veil/database"
	"github.com/siherrmann/veil/helper"
	"github.com/siherrmann/veil/model"
	"github.com/siherrmann/veil/session"
	loadSql "github.com/siherrmann/veil/sql"
)

// Veil provides a unified interface to the anonymization engine
type Veil struct {
	Config     *model.Config
	Detector   detect.Detector
	Anonymizer *anonymize.Anonymizer
	LLM        session.LLMClient
	// Optional audit store
	DB       *helper.Database
	Sessions *database.SessionsDBHandler
	// Neural detector resources, released by Close
	neural *detect.NeuralDetector
	// Logging
	log *slog.Logger
}

// NewVeil creates a new Veil instance with the regex detector. Call
// UseNeuralDetector to load the NER model on top of it.
func NewVeil(config *model.Config) (*Veil, error) {
	if config == nil {
		config = model.DefaultConfig()
	}

	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	detector := detect.NewRegexDetector()
	normalizer := anonymize.NewNormalizer(config.Honorifics)
	anonymizer := anonymize.NewAnonymizer(detector, normalizer, config.MinConfidence, logger)

	return &Veil{
		Config:     config,
		Detector:   detector,
		Anonymizer: anonymizer,
		log:        logger,
	}, nil
}

// UseNeuralDetector loads the NER model and chains it in front of the regex
// detector. Regex results are the fallback when the model fails or times
// out, so anonymization degrades instead of breaking.
func (v *Veil) UseNeuralDetector() error {
	neural, err := detect.NewNeuralDetector(v.Config)
	if err != nil {
		return helper.NewError("create neural detector", err)
	}

	v.neural = neural
	v.Detector = detect.NewChain(neural, detect.NewRegexDetector(), v.Config.DetectorTimeout, v.log)
	v.Anonymizer.Detector = v.Detector

	v.log.Info("Loaded neural detector", slog.String("model", v.Config.NERModel))
	return nil
}

// SetDetector replaces the detector, e.g. with a custom implementation or a
// chain assembled by the caller.
func (v *Veil) SetDetector(detector detect.Detector) {
	v.Detector = detector
	v.Anonymizer.Detector = detector
}

// SetLLMClient sets the language model client used by session flows
func (v *Veil) SetLLMClient(client session.LLMClient) {
	v.LLM = client
}

// WithAuditStore connects the optional Postgres audit store for archiving
// session mapping tables
func (v *Veil) WithAuditStore(config *helper.DatabaseConfiguration) error {
	db := helper.NewDatabase("veil", config, v.log)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	sessions, err := database.NewSessionsDBHandler(db, false)
	if err != nil {
		return helper.NewError("create sessions handler", err)
	}

	v.DB = db
	v.Sessions = sessions
	return nil
}

// NewSession starts a session with its own mapping table. Sessions never
// share tables, so identical entities in concurrent sessions get independent
// tokens.
func (v *Veil) NewSession() *session.Session {
	return session.New(v.Anonymizer, v.LLM, v.log)
}

// Anonymize runs a one-shot anonymization in a throwaway session and returns
// the result together with the table needed to reverse it.
func (v *Veil) Anonymize(ctx context.Context, text string) (*model.AnonymizationResult, error) {
	return v.Anonymizer.Anonymize(ctx, text, nil)
}

// Deanonymize restores original values in text using table
func (v *Veil) Deanonymize(text string, table *model.MappingTable) string {
	return anonymize.Deanonymize(text, table)
}

// ArchiveSession persists a session's mapping table to the audit store
func (v *Veil) ArchiveSession(s *session.Session) error {
	if v.Sessions == nil {
		return helper.NewError("archive session", fmt.Errorf("audit store not connected, use WithAuditStore() first"))
	}

	records := model.RecordsFromEntries(s.ID, s.Table.Entries())
	for i, record := range records {
		if err := v.Sessions.InsertMapping(record); err != nil {
			return helper.NewError(fmt.Sprintf("insert mapping %d", i), err)
		}
	}

	v.log.Info("Archived session", slog.String("session_id", s.ID.String()), slog.Int("num_mappings", len(records)))
	return nil
}

// RestoreTable rebuilds an archived session's mapping table from the audit
// store, e.g. to deanonymize output long after the session ended.
func (v *Veil) RestoreTable(sessionID uuid.UUID) (*model.MappingTable, error) {
	if v.Sessions == nil {
		return nil, helper.NewError("restore table", fmt.Errorf("audit store not connected, use WithAuditStore() first"))
	}

	records, err := v.Sessions.SelectMappingsBySession(sessionID)
	if err != nil {
		return nil, helper.NewError("select mappings", err)
	}

	return model.TableFromEntries(model.EntriesFromRecords(records)), nil
}

// Close releases the neural detector and the database connection
func (v *Veil) Close() error {
	if v.neural != nil {
		if err := v.neural.Close(); err != nil {
			return helper.NewError("close neural detector", err)
		}
		v.neural = nil
	}
	if v.DB != nil && v.DB.Instance != nil {
		return v.DB.Instance.Close()
	}
	return nil
}
