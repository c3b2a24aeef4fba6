package annotate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadFile(t *testing.T) {
	results, err := DecodeResults(`[{"id":"001","explanation":"你好 <b>","syntax":"s","vocabulary":{},"phrases":{},"model_note":"kept"}]`)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "vid.analyzed.json")
	require.NoError(t, WriteFile(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "你好 <b>")
	assert.Contains(t, text, "\n  {\n    \"id\": \"001\"")
	assert.Contains(t, text, `"model_note": "kept"`)

	back, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, results[0].Explanation, back[0].Explanation)
}

func TestWriteFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, WriteFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = ReadFile(bad)
	assert.Error(t, err)
}
