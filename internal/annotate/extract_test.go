package annotate

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"id":"001"}]`, `[{"id":"001"}]`},
		{"code fence", "```json\n[{\"id\":\"001\"}]\n```", `[{"id":"001"}]`},
		{"prose around", "Sure! Here you go: [1, 2] Hope it helps.", `[1, 2]`},
		{"object first", `note {"a":[1]} end`, `{"a":[1]}`},
		{"control chars", "[\x01{\"id\":\"0\x0201\"}]", `[{"id":"001"}]`},
		{"no brackets", "  nothing here  ", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "<empty>", Preview(" \n "))
	assert.Equal(t, "a b c", Preview("a\n  b\tc"))

	long := strings.Repeat("界", PreviewLimit+20)
	got := Preview(long)
	assert.Equal(t, PreviewLimit+3, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestDecodeResults(t *testing.T) {
	reply := "```json\n" + `[
  {"id": "001", "sentence": "Hello there.", "explanation": "问候", "syntax": "感叹句",
   "vocabulary": {"there": "/ðeə/, adv, A1, 那里"}, "phrases": {}, "extra": 1},
  {"id": 2, "explanation": "x", "syntax": "y", "vocabulary": {"n": 3}, "phrases": null}
]` + "\n```"

	results, err := DecodeResults(reply)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "001", results[0].ID)
	assert.Equal(t, "Hello there.", results[0].Sentence)
	assert.Equal(t, "问候", results[0].Explanation)
	assert.Equal(t, map[string]string{"there": "/ðeə/, adv, A1, 那里"}, results[0].Vocabulary)

	seq, ok := results[1].Sequence()
	assert.True(t, ok)
	assert.Equal(t, 2, seq)
	assert.Equal(t, map[string]string{"n": "3"}, results[1].Vocabulary)
	assert.Nil(t, results[1].Phrases)

	// Unknown keys survive re-encoding.
	out, err := json.Marshal(results[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"extra":1`)
}

func TestDecodeResultsRejectsNonArray(t *testing.T) {
	_, err := DecodeResults(`{"id":"001","explanation":"x"}`)
	require.Error(t, err)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "object", schemaErr.Got)
	assert.Contains(t, schemaErr.Preview, `"id":"001"`)

	_, err = DecodeResults(`["just a string"]`)
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "string at index 0", schemaErr.Got)
}

func TestDecodeResultsMalformed(t *testing.T) {
	reply := "I cannot do that [{\"id\": \"001\", }]"
	_, err := DecodeResults(reply)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, Preview(reply), decodeErr.Preview)
	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))

	_, err = DecodeResults("no json at all")
	assert.True(t, errors.As(err, &decodeErr))
}

func TestResultMarshalWithoutRaw(t *testing.T) {
	r := Result{ID: "007", Explanation: "e", Syntax: "s", Vocabulary: map[string]string{"w": "m"}}
	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"007","explanation":"e","syntax":"s","vocabulary":{"w":"m"},"phrases":null}`, string(out))
}
