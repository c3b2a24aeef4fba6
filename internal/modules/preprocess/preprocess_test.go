package preprocess

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/project"
)

const sampleVTT = `WEBVTT
Kind: captions
Language: en

00:00:00.000 --> 00:00:02.000
Hello there.

00:00:02.000 --> 00:00:03.000
[Music]

00:00:03.000 --> 00:00:05.000
Yes.

00:01:05.000 --> 00:01:07.000
Good morning everyone.
`

func newProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.Create(t.TempDir(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	return p
}

func TestModule_Name(t *testing.T) {
	module := New(nil)
	assert.Equal(t, "preprocess", module.Name())
	assert.NoError(t, mod.ValidateIO(module.GetIO()))
}

func TestModule_Validate(t *testing.T) {
	p := newProject(t)

	tests := []struct {
		name    string
		params  map[string]interface{}
		wantErr bool
	}{
		{name: "valid params", params: map[string]interface{}{"project": p.Dir}},
		{name: "missing project", params: map[string]interface{}{}, wantErr: true},
		{name: "not a project", params: map[string]interface{}{"project": t.TempDir()}, wantErr: true},
		{name: "negative budget", params: map[string]interface{}{"project": p.Dir, "maxSegments": -1}, wantErr: true},
		{name: "wrong input extension", params: map[string]interface{}{"project": p.Dir, "input": "a.srt"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(nil).Validate(tt.params)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestModule_Execute(t *testing.T) {
	p := newProject(t)
	require.NoError(t, os.WriteFile(p.EnglishSubtitleFile(), []byte(sampleVTT), 0644))

	result, err := New(nil).Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	require.NoError(t, err)
	assert.False(t, result.Skipped())
	assert.Equal(t, p.PreprocessedFile(), result.Outputs[project.ArtifactPreprocessed])
	assert.Equal(t, 2, result.Statistics["sentences"])

	data, err := os.ReadFile(p.PreprocessedFile())
	require.NoError(t, err)
	assert.Equal(t, "00:00 [001] Hello there. Yes.\n01:05 [002] Good morning everyone.", string(data))
}

func TestModule_ExecuteStripsBinaryBytes(t *testing.T) {
	p := newProject(t)
	vtt := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nHello\x00 there friend.\n"
	require.NoError(t, os.WriteFile(p.EnglishSubtitleFile(), []byte(vtt), 0644))

	result, err := New(nil).Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	require.NoError(t, err)
	assert.False(t, result.Skipped())

	data, err := os.ReadFile(p.PreprocessedFile())
	require.NoError(t, err)
	assert.Equal(t, "00:00 [001] Hello there friend.", string(data))
}

func TestModule_ExecuteSkipsExistingOutput(t *testing.T) {
	p := newProject(t)
	require.NoError(t, os.WriteFile(p.PreprocessedFile(), []byte("00:00 [001] Old."), 0644))

	result, err := New(nil).Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	require.NoError(t, err)
	assert.True(t, result.Skipped())

	data, err := os.ReadFile(p.PreprocessedFile())
	require.NoError(t, err)
	assert.Equal(t, "00:00 [001] Old.", string(data))
}

func TestModule_ExecuteForceRegenerates(t *testing.T) {
	p := newProject(t)
	require.NoError(t, os.WriteFile(p.EnglishSubtitleFile(), []byte(sampleVTT), 0644))
	require.NoError(t, os.WriteFile(p.PreprocessedFile(), []byte("00:00 [001] Old."), 0644))

	result, err := New(nil).Execute(context.Background(), map[string]interface{}{"project": p.Dir, "force": true})
	require.NoError(t, err)
	assert.False(t, result.Skipped())

	data, err := os.ReadFile(p.PreprocessedFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Good morning everyone.")
}

func TestModule_ExecuteMissingCaptions(t *testing.T) {
	p := newProject(t)

	_, err := New(nil).Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	assert.ErrorIs(t, err, mod.ErrMissingInput)
}

func TestModule_ExecuteBudget(t *testing.T) {
	p := newProject(t)
	require.NoError(t, os.WriteFile(p.EnglishSubtitleFile(), []byte(sampleVTT), 0644))

	result, err := New(nil).Execute(context.Background(), map[string]interface{}{"project": p.Dir, "maxSegments": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Statistics["sentences"])
}
