package model

import (
	"time"

	"github.com/google/uuid"
)

// MappingRecord is one persisted audit row of a session's mapping table.
// Persistence is optional; tables are ephemeral to one operation unless the
// caller archives them.
type MappingRecord struct {
	ID        int        `json:"id"`
	SessionID uuid.UUID  `json:"session_id"`
	Token     Token      `json:"token"`
	Type      EntityType `json:"entity_type"`
	Original  string     `json:"original"`
	Canonical string     `json:"canonical"`
	Metadata  Metadata   `json:"metadata,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// RecordsFromEntries converts a table snapshot into audit rows for one session.
func RecordsFromEntries(sessionID uuid.UUID, entries []MappingEntry) []*MappingRecord {
	records := make([]*MappingRecord, 0, len(entries))
	for _, entry := range entries {
		metadata := Metadata{}
		if entry.Override != "" {
			metadata["override"] = entry.Override
		}
		records = append(records, &MappingRecord{
			SessionID: sessionID,
			Token:     entry.Token,
			Type:      entry.Type,
			Original:  entry.Original,
			Canonical: entry.Canonical,
			Metadata:  metadata,
		})
	}
	return records
}

// EntriesFromRecords converts audit rows back into table entries, preserving
// row order. Use TableFromEntries to rebuild a working table from them.
func EntriesFromRecords(records []*MappingRecord) []MappingEntry {
	entries := make([]MappingEntry, 0, len(records))
	for _, record := range records {
		entry := MappingEntry{
			Token:     record.Token,
			Type:      record.Type,
			Original:  record.Original,
			Canonical: record.Canonical,
		}
		if override, ok := record.Metadata["override"].(string); ok {
			entry.Override = override
		}
		entries = append(entries, entry)
	}
	return entries
}
