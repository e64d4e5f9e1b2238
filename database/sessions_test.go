package database

import (
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/siherrmann/veil/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(sessionID uuid.UUID, token model.Token, entityType model.EntityType, original string, canonical string) *model.MappingRecord {
	return &model.MappingRecord{
		SessionID: sessionID,
		Token:     token,
		Type:      entityType,
		Original:  original,
		Canonical: canonical,
		Metadata:  model.Metadata{},
	}
}

func TestNewSessionsDBHandler(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	t.Run("Creates handler and loads SQL functions", func(t *testing.T) {
		handler, err := NewSessionsDBHandler(db, true)
		require.NoError(t, err)
		assert.NotNil(t, handler)
	})

	t.Run("Nil database is an error", func(t *testing.T) {
		handler, err := NewSessionsDBHandler(nil, false)
		require.Error(t, err)
		assert.Nil(t, handler)
	})
}

func TestInsertMapping(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	handler, err := NewSessionsDBHandler(db, true)
	require.NoError(t, err)

	t.Run("Insert returns the stored row", func(t *testing.T) {
		record := newTestRecord(uuid.New(), "[PERSON_1]", model.Person, "Jean Dupont", "jean dupont")

		err := handler.InsertMapping(record)
		require.NoError(t, err)

		assert.NotZero(t, record.ID)
		assert.NotZero(t, record.CreatedAt)
		assert.Equal(t, model.Token("[PERSON_1]"), record.Token)
	})

	t.Run("Insert with metadata round-trips the override", func(t *testing.T) {
		record := newTestRecord(uuid.New(), "[PERSON_1]", model.Person, "Jean Dupont", "jean dupont")
		record.Metadata = model.Metadata{"override": "Candidate A"}

		err := handler.InsertMapping(record)
		require.NoError(t, err)

		stored, err := handler.SelectMappingsBySession(record.SessionID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "Candidate A", stored[0].Metadata["override"])
	})

	t.Run("Re-inserting a session token updates the row", func(t *testing.T) {
		sessionID := uuid.New()
		record := newTestRecord(sessionID, "[COMPANY_1]", model.Company, "Acme", "acme")
		require.NoError(t, handler.InsertMapping(record))

		updated := newTestRecord(sessionID, "[COMPANY_1]", model.Company, "Acme Corp", "acme corp")
		require.NoError(t, handler.InsertMapping(updated))

		stored, err := handler.SelectMappingsBySession(sessionID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "Acme Corp", stored[0].Original)
	})
}

func TestSelectMappingsBySession(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	handler, err := NewSessionsDBHandler(db, true)
	require.NoError(t, err)

	t.Run("Returns rows of one session in insertion order", func(t *testing.T) {
		sessionID := uuid.New()
		otherSession := uuid.New()

		require.NoError(t, handler.InsertMapping(newTestRecord(sessionID, "[PERSON_1]", model.Person, "Jean Dupont", "jean dupont")))
		require.NoError(t, handler.InsertMapping(newTestRecord(sessionID, "[PHONE_1]", model.Phone, "06 12 34 56 78", "0612345678")))
		require.NoError(t, handler.InsertMapping(newTestRecord(otherSession, "[PERSON_1]", model.Person, "Marie Curie", "marie curie")))

		records, err := handler.SelectMappingsBySession(sessionID)
		require.NoError(t, err)

		require.Len(t, records, 2, "Rows of other sessions must not leak")
		assert.Equal(t, model.Token("[PERSON_1]"), records[0].Token)
		assert.Equal(t, model.Token("[PHONE_1]"), records[1].Token)
		assert.Equal(t, "Jean Dupont", records[0].Original)
	})

	t.Run("Unknown session yields no rows", func(t *testing.T) {
		records, err := handler.SelectMappingsBySession(uuid.New())
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Archived table can be rebuilt and used to deanonymize", func(t *testing.T) {
		sessionID := uuid.New()
		require.NoError(t, handler.InsertMapping(newTestRecord(sessionID, "[PERSON_1]", model.Person, "Jean Dupont", "jean dupont")))

		records, err := handler.SelectMappingsBySession(sessionID)
		require.NoError(t, err)

		table := model.TableFromEntries(model.EntriesFromRecords(records))
		original, ok := table.LookupOriginal("[PERSON_1]")
		require.True(t, ok)
		assert.Equal(t, "Jean Dupont", original)
	})
}

func TestSelectMappingsBySessionAndType(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	handler, err := NewSessionsDBHandler(db, true)
	require.NoError(t, err)

	t.Run("Filters rows by entity type", func(t *testing.T) {
		sessionID := uuid.New()
		require.NoError(t, handler.InsertMapping(newTestRecord(sessionID, "[PERSON_1]", model.Person, "Jean Dupont", "jean dupont")))
		require.NoError(t, handler.InsertMapping(newTestRecord(sessionID, "[PERSON_2]", model.Person, "Marie Curie", "marie curie")))
		require.NoError(t, handler.InsertMapping(newTestRecord(sessionID, "[EMAIL_1]", model.Email, "jean@ex.fr", "jean@ex.fr")))

		records, err := handler.SelectMappingsBySessionAndType(sessionID, model.Person)
		require.NoError(t, err)

		require.Len(t, records, 2)
		for _, record := range records {
			assert.Equal(t, model.Person, record.Type)
		}
	})
}

func TestDeleteMappingsBySession(t *testing.T) {
	db := initDB(t)
	defer db.Close()

	handler, err := NewSessionsDBHandler(db, true)
	require.NoError(t, err)

	t.Run("Deletes only the given session's rows", func(t *testing.T) {
		sessionID := uuid.New()
		otherSession := uuid.New()
		require.NoError(t, handler.InsertMapping(newTestRecord(sessionID, "[PERSON_1]", model.Person, "Jean Dupont", "jean dupont")))
		require.NoError(t, handler.InsertMapping(newTestRecord(sessionID, "[PHONE_1]", model.Phone, "0612345678", "0612345678")))
		require.NoError(t, handler.InsertMapping(newTestRecord(otherSession, "[PERSON_1]", model.Person, "Marie Curie", "marie curie")))

		deleted, err := handler.DeleteMappingsBySession(sessionID)
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)

		remaining, err := handler.SelectMappingsBySession(otherSession)
		require.NoError(t, err)
		assert.Len(t, remaining, 1)
	})

	t.Run("Deleting an unknown session deletes nothing", func(t *testing.T) {
		deleted, err := handler.DeleteMappingsBySession(uuid.New())
		require.NoError(t, err)
		assert.Equal(t, 0, deleted)
	})
}
