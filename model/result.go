package model

// Stats summarizes one anonymization pass. TotalMasked equals the sum over
// ByType; manual ghost-mode substitutions count under Other.
type Stats struct {
	TotalMasked int                `json:"total_masked"`
	ByType      map[EntityType]int `json:"by_type,omitempty"`
}

// AnonymizationResult is the outcome of one anonymization pass. It is
// immutable once produced. Warning is set when detection failed entirely and
// Text may still contain identifying values; callers must surface this to the
// user instead of silently sending the text on.
type AnonymizationResult struct {
	Text    string        `json:"text"`
	Table   *MappingTable `json:"-"`
	Stats   Stats         `json:"stats"`
	Warning bool          `json:"warning,omitempty"`
}
