package render

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/project"
)

func newProject(t *testing.T, withAnalysis bool) *project.Project {
	t.Helper()
	p, err := project.Create(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(p.PreprocessedFile(),
		[]byte("00:00 [001] Hello there.\n00:04 [002] See you soon."), 0644))
	if withAnalysis {
		require.NoError(t, os.WriteFile(p.AnalyzedFile(),
			[]byte(`[{"id":"001","explanation":"A greeting.","syntax":"Interjection.","vocabulary":{},"phrases":{}}]`), 0644))
	}
	return p
}

func TestModule_Name(t *testing.T) {
	module := New()
	assert.Equal(t, "render", module.Name())
	assert.NoError(t, mod.ValidateIO(module.GetIO()))
}

func TestModule_Execute(t *testing.T) {
	p := newProject(t, true)

	result, err := New().Execute(context.Background(), map[string]interface{}{
		"project": p.Dir,
		"title":   "My Notes",
		"docx":    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Statistics["missing"])
	assert.Equal(t, p.StudyDocxFile(), result.Outputs[project.ArtifactStudyDocx])

	md, err := os.ReadFile(p.StudyFile())
	require.NoError(t, err)
	assert.Contains(t, string(md), "# My Notes\n\n### 00:00 [001]\n\n> Hello there.\n\n**Explanation:** A greeting.")
	assert.Contains(t, string(md), "### 00:04 [002]\n\n> See you soon.\n")

	_, err = os.Stat(p.StudyDocxFile())
	assert.NoError(t, err)
}

func TestModule_ExecuteMarkdownOnly(t *testing.T) {
	p := newProject(t, true)

	result, err := New().Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	require.NoError(t, err)
	assert.NotContains(t, result.Outputs, project.ArtifactStudyDocx)

	md, err := os.ReadFile(p.StudyFile())
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Study Notes dQw4w9WgXcQ")

	_, err = os.Stat(p.StudyDocxFile())
	assert.True(t, os.IsNotExist(err))
}

func TestModule_ExecuteMissingAnalysis(t *testing.T) {
	p := newProject(t, false)

	_, err := New().Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	assert.ErrorIs(t, err, mod.ErrMissingInput)
}

func TestModule_ExecuteSkipsExisting(t *testing.T) {
	p := newProject(t, true)
	require.NoError(t, os.WriteFile(p.StudyFile(), []byte("old"), 0644))

	result, err := New().Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	require.NoError(t, err)
	assert.True(t, result.Skipped())

	// Asking for the docx as well makes the stage run again.
	result, err = New().Execute(context.Background(), map[string]interface{}{"project": p.Dir, "docx": true})
	require.NoError(t, err)
	assert.False(t, result.Skipped())
}
