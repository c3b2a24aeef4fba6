package study

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytkit/ytkit/internal/annotate"
	"github.com/ytkit/ytkit/internal/preprocessed"
)

func fixture(t *testing.T) ([]preprocessed.Record, []annotate.Result) {
	t.Helper()
	records, _, err := preprocessed.Parse(strings.NewReader(
		"00:00 [001] Hello there.\n00:04 [002] Kind of tired today.\n00:09 [003] Bye now."))
	require.NoError(t, err)

	results, err := annotate.DecodeResults(`[
		{"id":"001","explanation":"A greeting.","syntax":"Interjection.","vocabulary":{},"phrases":{}},
		{"id":2,"explanation":"Mild tiredness.","syntax":"Elliptical clause.",
		 "vocabulary":{"tired":"/taɪəd/, adj, A2, 累"},"phrases":{"kind of":"somewhat","today":"now"}}
	]`)
	require.NoError(t, err)
	return records, results
}

func TestJoin(t *testing.T) {
	records, results := fixture(t)

	entries, missing := Join(records, results)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, missing)
	assert.Equal(t, "A greeting.", entries[0].Notes.Explanation)
	assert.Equal(t, "Mild tiredness.", entries[1].Notes.Explanation)
	assert.Nil(t, entries[2].Notes)
}

func TestJoinFallsBackToIDString(t *testing.T) {
	records := []preprocessed.Record{{Sequence: 1, Timestamp: "00:00", Sentence: "x"}}
	results := []annotate.Result{{ID: "001", Explanation: "e"}}

	entries, missing := Join(records, results)
	assert.Zero(t, missing)
	assert.Equal(t, "e", entries[0].Notes.Explanation)
}

func TestMarkdown(t *testing.T) {
	records, results := fixture(t)
	entries, _ := Join(records, results)

	md := Markdown("Study notes", entries)
	assert.True(t, strings.HasPrefix(md, "# Study notes\n\n### 00:00 [001]\n\n> Hello there.\n\n**Explanation:** A greeting.\n\n**Syntax:** Interjection.\n\n### 00:04 [002]"))
	assert.Contains(t, md, "**Vocabulary**\n\n| Word | Notes |")
	assert.Contains(t, md, "| tired | /taɪəd/, adj, A2, 累 |")
	assert.Less(t, strings.Index(md, "| kind of |"), strings.Index(md, "| today |"))
	assert.True(t, strings.HasSuffix(md, "### 00:09 [003]\n\n> Bye now.\n"))
}

func TestWriteDocx(t *testing.T) {
	records, results := fixture(t)
	entries, _ := Join(records, results)

	path := filepath.Join(t.TempDir(), "study.docx")
	require.NoError(t, WriteDocx(path, "Study notes", entries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 100)
	assert.Equal(t, "PK", string(data[:2]))
}
