package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatToken(t *testing.T) {
	t.Run("Formats type tag and counter", func(t *testing.T) {
		assert.Equal(t, Token("[PERSON_1]"), FormatToken(Person, 1))
		assert.Equal(t, Token("[COMPANY_2]"), FormatToken(Company, 2))
		assert.Equal(t, Token("[PHONE_12]"), FormatToken(Phone, 12))
	})

	t.Run("Formatted token round-trips through ParseToken", func(t *testing.T) {
		for _, entityType := range AllEntityTypes {
			token := FormatToken(entityType, 3)
			parsedType, n, ok := ParseToken(string(token))
			require.True(t, ok, "Token %s should parse", token)
			assert.Equal(t, entityType, parsedType)
			assert.Equal(t, 3, n)
		}
	})
}

func TestParseToken(t *testing.T) {
	t.Run("Parses well-formed tokens", func(t *testing.T) {
		entityType, n, ok := ParseToken("[EMAIL_7]")
		require.True(t, ok)
		assert.Equal(t, Email, entityType)
		assert.Equal(t, 7, n)
	})

	t.Run("Rejects malformed tokens", func(t *testing.T) {
		malformed := []string{
			"",
			"[PERSON_0]",
			"[PERSON_01]",
			"[person_1]",
			"[PERSON_]",
			"[PERSON]",
			"[UNKNOWN_1]",
			"PERSON_1",
			"[PERSON_1",
			"PERSON_1]",
			"[PERSON_1] ",
			"x[PERSON_1]",
		}
		for _, s := range malformed {
			_, _, ok := ParseToken(s)
			assert.False(t, ok, "%q should not parse as token", s)
		}
	})
}

func TestIsToken(t *testing.T) {
	t.Run("Accepts every known type tag", func(t *testing.T) {
		for _, entityType := range AllEntityTypes {
			assert.True(t, IsToken(string(FormatToken(entityType, 1))))
		}
	})

	t.Run("Rejects embedded tokens", func(t *testing.T) {
		assert.False(t, IsToken("Contact [PERSON_1] now"))
	})
}

func TestReplaceTokens(t *testing.T) {
	t.Run("Replaces every occurrence", func(t *testing.T) {
		text := "[PERSON_1] met [PERSON_2] and later [PERSON_1] again"
		out := ReplaceTokens(text, func(token Token) string {
			if token == "[PERSON_1]" {
				return "Alice"
			}
			return "Bob"
		})
		assert.Equal(t, "Alice met Bob and later Alice again", out)
	})

	t.Run("Leaves non-token brackets untouched", func(t *testing.T) {
		text := "[TODO] call [PERSON_1] about [2024]"
		out := ReplaceTokens(text, func(token Token) string {
			return "Alice"
		})
		assert.Equal(t, "[TODO] call Alice about [2024]", out)
	})

	t.Run("Returning the input leaves the occurrence intact", func(t *testing.T) {
		text := "reply to [EMAIL_3]"
		out := ReplaceTokens(text, func(token Token) string {
			return string(token)
		})
		assert.Equal(t, text, out)
	})

	t.Run("Text without tokens is returned unchanged", func(t *testing.T) {
		text := "no placeholders here"
		out := ReplaceTokens(text, func(token Token) string {
			return "x"
		})
		assert.Equal(t, text, out)
	})
}
