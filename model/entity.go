package model

// EntityType classifies a detected span of personally identifying text.
// The string value doubles as the TYPE tag inside placeholder tokens.
type EntityType string

const (
	Person   EntityType = "PERSON"
	Company  EntityType = "COMPANY"
	Email    EntityType = "EMAIL"
	Phone    EntityType = "PHONE"
	School   EntityType = "SCHOOL"
	Location EntityType = "LOCATION"
	Amount   EntityType = "AMOUNT"
	Other    EntityType = "OTHER"
)

// AllEntityTypes lists every known type in substitution priority order
// (strongest first). The order is used to break ties between overlapping spans.
var AllEntityTypes = []EntityType{Person, Company, Email, Phone, School, Location, Amount, Other}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	for _, known := range AllEntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Priority returns the rank of t among overlapping spans. Lower is stronger.
// Unknown types rank below every known type.
func (t EntityType) Priority() int {
	for i, known := range AllEntityTypes {
		if t == known {
			return i
		}
	}
	return len(AllEntityTypes)
}

// EntitySpan is a single detector result. Start and End are byte offsets into
// the source text satisfying text[Start:End] == Raw. Spans are ephemeral: they
// are produced per detection call and never persisted.
type EntitySpan struct {
	Raw        string     `json:"raw"`
	Type       EntityType `json:"entity_type"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Confidence float64    `json:"confidence"`
}

// CanonicalKey is the normalized identity of an entity. Two spans with the
// same key refer to the same real-world entity and receive the same token.
type CanonicalKey struct {
	Type  EntityType `json:"entity_type"`
	Value string     `json:"value"`
}
