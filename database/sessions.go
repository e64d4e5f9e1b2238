// Package database contains the handlers of the optional audit store. The
// engine works fully in memory; these handlers only persist mapping tables
// when the caller archives a session.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/veil/helper"
	"github.com/siherrmann/veil/model"
	"github.com/siherrmann/veil/sql"
)

// SessionsDBHandlerFunctions defines the interface for session mapping database operations.
type SessionsDBHandlerFunctions interface {
	InsertMapping(record *model.MappingRecord) error
	SelectMappingsBySession(sessionID uuid.UUID) ([]*model.MappingRecord, error)
	SelectMappingsBySessionAndType(sessionID uuid.UUID, entityType model.EntityType) ([]*model.MappingRecord, error)
	DeleteMappingsBySession(sessionID uuid.UUID) (int, error)
}

// SessionsDBHandler handles session-mapping-related database operations
type SessionsDBHandler struct {
	db *helper.Database
}

// NewSessionsDBHandler creates a new sessions database handler.
// It initializes the database connection and loads session-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewSessionsDBHandler(db *helper.Database, force bool) (*SessionsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	sessionsDbHandler := &SessionsDBHandler{
		db: db,
	}

	err := sql.LoadSessionsSql(sessionsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load sessions sql", err)
	}

	err = sessionsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized SessionsDBHandler")

	return sessionsDbHandler, nil
}

// CreateTable creates the 'session_mappings' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *SessionsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_session_mappings();`)
	if err != nil {
		log.Panicf("error initializing session_mappings table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table session_mappings")

	return nil
}

// InsertMapping inserts a new mapping row (or updates if the token exists for the session)
func (h *SessionsDBHandler) InsertMapping(record *model.MappingRecord) error {
	if record.Metadata == nil {
		record.Metadata = model.Metadata{}
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_session_mapping($1, $2, $3, $4, $5, $6)`,
		record.SessionID,
		record.Token,
		record.Type,
		record.Original,
		record.Canonical,
		record.Metadata,
	)

	err := row.Scan(
		&record.ID,
		&record.SessionID,
		&record.Token,
		&record.Type,
		&record.Original,
		&record.Canonical,
		&record.Metadata,
		&record.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectMappingsBySession retrieves all mapping rows of a session in insertion order
func (h *SessionsDBHandler) SelectMappingsBySession(sessionID uuid.UUID) ([]*model.MappingRecord, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_session_mappings($1)`,
		sessionID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var records []*model.MappingRecord
	for rows.Next() {
		record := &model.MappingRecord{}
		err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.Token,
			&record.Type,
			&record.Original,
			&record.Canonical,
			&record.Metadata,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return records, nil
}

// SelectMappingsBySessionAndType retrieves a session's mapping rows of one entity type
func (h *SessionsDBHandler) SelectMappingsBySessionAndType(sessionID uuid.UUID, entityType model.EntityType) ([]*model.MappingRecord, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_session_mappings_by_type($1, $2)`,
		sessionID,
		entityType,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var records []*model.MappingRecord
	for rows.Next() {
		record := &model.MappingRecord{}
		err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.Token,
			&record.Type,
			&record.Original,
			&record.Canonical,
			&record.Metadata,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return records, nil
}

// DeleteMappingsBySession deletes all mapping rows of a session and returns the deleted count
func (h *SessionsDBHandler) DeleteMappingsBySession(sessionID uuid.UUID) (int, error) {
	var deleted int
	err := h.db.Instance.QueryRow(
		`SELECT delete_session_mappings($1)`,
		sessionID,
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return deleted, nil
}
