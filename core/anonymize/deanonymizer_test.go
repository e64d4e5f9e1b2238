package anonymize

import (
	"testing"

	"github.com/siherrmann/veil/model"
	"github.com/stretchr/testify/assert"
)

func tableWith(t *testing.T, entries map[model.Token]string) *model.MappingTable {
	t.Helper()
	table := model.NewMappingTable()
	for token, original := range entries {
		entityType, _, ok := model.ParseToken(string(token))
		if !ok {
			t.Fatalf("invalid token in fixture: %s", token)
		}
		table.GetOrAssignToken(model.CanonicalKey{Type: entityType, Value: original}, original)
	}
	return table
}

func TestDeanonymize(t *testing.T) {
	t.Run("Restores every known token", func(t *testing.T) {
		table := model.NewMappingTable()
		table.GetOrAssignToken(model.CanonicalKey{Type: model.Person, Value: "jean dupont"}, "Jean Dupont")
		table.GetOrAssignToken(model.CanonicalKey{Type: model.Company, Value: "acme"}, "Acme")

		out := Deanonymize("[PERSON_1] a rejoint [COMPANY_1]. [PERSON_1] est ravi.", table)
		assert.Equal(t, "Jean Dupont a rejoint Acme. Jean Dupont est ravi.", out)
	})

	t.Run("Unknown tokens are left verbatim", func(t *testing.T) {
		table := model.NewMappingTable()
		table.GetOrAssignToken(model.CanonicalKey{Type: model.Person, Value: "jean"}, "Jean")

		out := Deanonymize("[PERSON_1] et [PERSON_9] et [COMPANY_1]", table)
		assert.Equal(t, "Jean et [PERSON_9] et [COMPANY_1]", out)
	})

	t.Run("Unrelated bracketed text is never touched", func(t *testing.T) {
		table := tableWith(t, map[model.Token]string{"[PERSON_1]": "Jean"})

		out := Deanonymize("[TODO] ping [PERSON_1] re [Q3 2026] [person_1]", table)
		assert.Equal(t, "[TODO] ping Jean re [Q3 2026] [person_1]", out)
	})

	t.Run("Text without tokens is returned unchanged", func(t *testing.T) {
		table := tableWith(t, map[model.Token]string{"[PERSON_1]": "Jean"})

		text := "rien à restaurer"
		assert.Equal(t, text, Deanonymize(text, table))
	})

	t.Run("Nil or empty table is a no-op", func(t *testing.T) {
		text := "[PERSON_1] reste tel quel"
		assert.Equal(t, text, Deanonymize(text, nil))
		assert.Equal(t, text, Deanonymize(text, model.NewMappingTable()))
	})

	t.Run("Deanonymization is idempotent on restored text", func(t *testing.T) {
		table := tableWith(t, map[model.Token]string{"[PERSON_1]": "Jean"})

		once := Deanonymize("appelle [PERSON_1]", table)
		assert.Equal(t, once, Deanonymize(once, table))
	})

	t.Run("Manual override wins over the recorded original", func(t *testing.T) {
		table := model.NewMappingTable()
		table.GetOrAssignToken(model.CanonicalKey{Type: model.Person, Value: "jean dupont"}, "Jean Dupont")
		table.Merge([]model.ManualMapping{{Original: "jean dupont", Replacement: "Candidate A"}}, nil)

		out := Deanonymize("dossier de [PERSON_1]", table)
		assert.Equal(t, "dossier de Candidate A", out)
	})
}
