package planner

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeResponse(t *testing.T) {
	t.Run("PassesCleanJSONThrough", func(t *testing.T) {
		out, err := SanitizeResponse(`{"title": "Plan"}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"title": "Plan"}`, out)
	})

	t.Run("StripsMarkdownFences", func(t *testing.T) {
		raw := "```json\n{\"title\": \"Plan\"}\n```"
		out, err := SanitizeResponse(raw)
		require.NoError(t, err)
		assert.JSONEq(t, `{"title": "Plan"}`, out)
	})

	t.Run("RoundTripsThroughFencesAndProse", func(t *testing.T) {
		original := map[string]interface{}{
			"title": "Family Plan",
			"days":  []interface{}{map[string]interface{}{"day": float64(1)}},
		}
		payload, err := json.Marshal(original)
		require.NoError(t, err)

		raw := "Sure! Here is the meal plan you asked for:\n\n```json\n" +
			string(payload) +
			"\n```\n\nLet me know if you would like any changes."

		out, err := SanitizeResponse(raw)
		require.NoError(t, err)

		var recovered map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &recovered))
		assert.Equal(t, original, recovered)
	})

	t.Run("RepairsUnquotedKeysAndSingleQuotes", func(t *testing.T) {
		raw := `{title: 'Family Plan', days: [{day: 1, note: 'easy week'}]}`
		out, err := SanitizeResponse(raw)
		require.NoError(t, err)

		var recovered struct {
			Title string `json:"title"`
			Days  []struct {
				Day  int    `json:"day"`
				Note string `json:"note"`
			} `json:"days"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &recovered))
		assert.Equal(t, "Family Plan", recovered.Title)
		require.Len(t, recovered.Days, 1)
		assert.Equal(t, 1, recovered.Days[0].Day)
		assert.Equal(t, "easy week", recovered.Days[0].Note)
	})

	t.Run("CollapsesRawNewlinesInsideStrings", func(t *testing.T) {
		raw := "{\"description\": \"first line\nsecond\tline\"}"
		out, err := SanitizeResponse(raw)
		require.NoError(t, err)

		var recovered map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &recovered))
		assert.Equal(t, "first line second line", recovered["description"])
	})

	t.Run("StripsTrailingCommas", func(t *testing.T) {
		raw := `{"title": "Plan", "tags": ["a", "b",],}`
		out, err := SanitizeResponse(raw)
		require.NoError(t, err)
		assert.True(t, json.Valid([]byte(out)))
	})

	t.Run("FailureCarriesDiagnostics", func(t *testing.T) {
		raw := "I could not produce a plan today, sorry about { that"
		_, err := SanitizeResponse(raw)
		require.Error(t, err)

		var sanErr *SanitizeError
		require.True(t, errors.As(err, &sanErr))
		assert.Error(t, sanErr.StrictErr)
		assert.Error(t, sanErr.RepairErr)
		assert.Contains(t, sanErr.Snippet, "could not produce")
	})

	t.Run("TruncatesLongSnippets", func(t *testing.T) {
		long := make([]byte, 5000)
		for i := range long {
			long[i] = 'x'
		}
		_, err := SanitizeResponse(string(long))
		require.Error(t, err)

		var sanErr *SanitizeError
		require.True(t, errors.As(err, &sanErr))
		assert.LessOrEqual(t, len(sanErr.Snippet), snippetLimit+3)
	})

	t.Run("TruncationKeepsSnippetValidUTF8", func(t *testing.T) {
		// The leading ASCII byte pushes every 2-byte rune onto an odd
		// offset, so one straddles the snippet limit.
		raw := "x" + strings.Repeat("é", 3000)
		_, err := SanitizeResponse(raw)
		require.Error(t, err)

		var sanErr *SanitizeError
		require.True(t, errors.As(err, &sanErr))
		assert.True(t, utf8.ValidString(sanErr.Snippet), "snippet contains invalid UTF-8")
		assert.LessOrEqual(t, len(sanErr.Snippet), snippetLimit+3)
	})
}
