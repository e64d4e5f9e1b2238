package model

import "strings"

// ManualMapping is one operator-supplied replacement pair (ghost mode).
// Replacement may be a well-formed token or a plain substitute value.
type ManualMapping struct {
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// MappingEntry is one exported row of a mapping table, used for audit
// persistence and inspection. Override is the manual replacement value that
// wins on deanonymization, empty when no manual entry collided.
type MappingEntry struct {
	Token     Token      `json:"token"`
	Type      EntityType `json:"entity_type"`
	Original  string     `json:"original"`
	Canonical string     `json:"canonical"`
	Override  string     `json:"override,omitempty"`
}

// MappingTable owns the bidirectional entity/token record of one anonymization
// session. It grows monotonically: entries are never removed or rewritten, a
// session ends by discarding the whole table. Per-type counters live inside
// the table, so concurrent sessions can never hand out colliding tokens.
//
// A table belongs to exactly one operation and is not safe for concurrent use.
type MappingTable struct {
	tokens    map[CanonicalKey]Token
	keys      map[Token]CanonicalKey
	originals map[Token]string
	overrides map[Token]string
	counters  map[EntityType]int
	order     []Token
	manual    []ManualMapping
}

// NewMappingTable creates an empty table with all per-type counters at zero.
func NewMappingTable() *MappingTable {
	return &MappingTable{
		tokens:    make(map[CanonicalKey]Token),
		keys:      make(map[Token]CanonicalKey),
		originals: make(map[Token]string),
		overrides: make(map[Token]string),
		counters:  make(map[EntityType]int),
	}
}

// GetOrAssignToken returns the token already assigned to key, or assigns the
// next unused counter for the key's entity type. The first-seen raw surface
// form is kept as the canonical original value; later calls with the same key
// never rewrite it. Assignment order is the order keys are first encountered,
// so a left-to-right scan of identical input always yields identical tokens.
func (m *MappingTable) GetOrAssignToken(key CanonicalKey, original string) Token {
	if token, ok := m.tokens[key]; ok {
		return token
	}

	m.counters[key.Type]++
	token := FormatToken(key.Type, m.counters[key.Type])

	m.tokens[key] = token
	m.keys[token] = key
	m.originals[token] = original
	m.order = append(m.order, token)

	return token
}

// LookupToken returns the token already assigned to key, if any.
func (m *MappingTable) LookupToken(key CanonicalKey) (Token, bool) {
	token, ok := m.tokens[key]
	return token, ok
}

// ResolveSubname returns the token of the entity of the given type whose
// canonical value contains value as a whole word, e.g. "jean" or "dupont"
// against "jean dupont". It resolves only when exactly one entity matches:
// two people sharing a first name must never be collapsed, so an ambiguous
// sub-name gets its own token instead.
func (m *MappingTable) ResolveSubname(entityType EntityType, value string) (Token, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	var found Token
	matches := 0
	for _, token := range m.order {
		key := m.keys[token]
		if key.Type != entityType {
			continue
		}
		for _, field := range strings.Fields(key.Value) {
			if field == value {
				found = token
				matches++
				break
			}
		}
	}

	if matches != 1 {
		return "", false
	}
	return found, true
}

// LookupOriginal returns the value a token deanonymizes to. Manual overrides
// registered via Merge take precedence over the auto-recorded original.
func (m *MappingTable) LookupOriginal(token Token) (string, bool) {
	if replacement, ok := m.overrides[token]; ok {
		return replacement, true
	}
	original, ok := m.originals[token]
	return original, ok
}

// Merge inserts operator-supplied mappings with precedence over auto-detected
// entries. fold builds the collision key for comparing original values; when
// nil a plain lower-case fold is used.
//
// A manual pair whose original collides with an existing entry registers an
// override: the auto-assigned token text is preserved (in-flight anonymized
// text stays valid) but the manual replacement wins on deanonymization.
//
// A non-colliding pair whose replacement is itself a well-formed token is
// recorded like an auto entry, and the counter for its type is advanced past
// its number so the token can never be reassigned to a different entity.
// Non-colliding pairs are additionally kept as literal substitutions for the
// anonymizer to apply with precedence over detector spans.
func (m *MappingTable) Merge(manual []ManualMapping, fold func(string) string) {
	if fold == nil {
		fold = func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	}

	for _, pair := range manual {
		if strings.TrimSpace(pair.Original) == "" || pair.Replacement == "" {
			continue
		}

		folded := fold(pair.Original)
		collided := false
		for _, token := range m.order {
			key := m.keys[token]
			if fold(m.originals[token]) == folded || fold(key.Value) == folded {
				m.overrides[token] = pair.Replacement
				collided = true
			}
		}
		if collided {
			continue
		}

		if entityType, n, ok := ParseToken(pair.Replacement); ok {
			token := Token(pair.Replacement)
			if _, taken := m.originals[token]; !taken {
				key := CanonicalKey{Type: entityType, Value: folded}
				m.tokens[key] = token
				m.keys[token] = key
				m.originals[token] = pair.Original
				m.order = append(m.order, token)
				if n > m.counters[entityType] {
					m.counters[entityType] = n
				}
			}
		}
		m.manual = append(m.manual, pair)
	}
}

// Manual returns the non-colliding manual pairs to apply as literal
// substitutions during anonymization, in insertion order.
func (m *MappingTable) Manual() []ManualMapping {
	out := make([]ManualMapping, len(m.manual))
	copy(out, m.manual)
	return out
}

// Entries returns a snapshot of all token entries in first-seen order.
func (m *MappingTable) Entries() []MappingEntry {
	entries := make([]MappingEntry, 0, len(m.order))
	for _, token := range m.order {
		key := m.keys[token]
		entries = append(entries, MappingEntry{
			Token:     token,
			Type:      key.Type,
			Original:  m.originals[token],
			Canonical: key.Value,
			Override:  m.overrides[token],
		})
	}
	return entries
}

// Len returns the number of token entries in the table.
func (m *MappingTable) Len() int {
	return len(m.order)
}

// TableFromEntries rebuilds a mapping table from exported entries, e.g. rows
// read back from the audit store. Counters are advanced past every restored
// token so the rebuilt table keeps the no-reuse guarantee.
func TableFromEntries(entries []MappingEntry) *MappingTable {
	table := NewMappingTable()
	for _, entry := range entries {
		entityType, n, ok := ParseToken(string(entry.Token))
		if !ok {
			continue
		}
		key := CanonicalKey{Type: entityType, Value: entry.Canonical}
		table.tokens[key] = entry.Token
		table.keys[entry.Token] = key
		table.originals[entry.Token] = entry.Original
		if entry.Override != "" {
			table.overrides[entry.Token] = entry.Override
		}
		table.order = append(table.order, entry.Token)
		if n > table.counters[entityType] {
			table.counters[entityType] = n
		}
	}
	return table
}
