package model

import "time"

// Config controls detection and normalization behavior for one engine.
type Config struct {
	// Honorifics are stripped from Person values before comparison, so
	// "M. Jean Dupont" and "Jean Dupont" resolve to one entity. The list is
	// configurable because it is heuristic and locale-specific.
	Honorifics []string `json:"honorifics"`

	// DetectorTimeout bounds one primary detector call before the chain
	// degrades to the fallback.
	DetectorTimeout time.Duration `json:"detector_timeout"`

	// MinConfidence drops detector spans below this confidence.
	MinConfidence float64 `json:"min_confidence"`

	// NERModel is the hugot token classification model used by the neural
	// detector.
	NERModel string `json:"ner_model"`
}

// DefaultConfig returns a sensible default configuration. The honorific list
// covers the French titles the engine was built for plus common English ones.
func DefaultConfig() *Config {
	return &Config{
		Honorifics:      []string{"M.", "Mme", "Mlle", "Dr", "Me", "Pr", "Prof", "Mr", "Mrs", "Ms", "Miss"},
		DetectorTimeout: 10 * time.Second,
		MinConfidence:   0.5,
		NERModel:        "KnightsAnalytics/distilbert-NER",
	}
}
