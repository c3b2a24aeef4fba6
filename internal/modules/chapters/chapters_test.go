package chapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ytkit/ytkit/internal/annotate"
	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/services/llm"
	"github.com/ytkit/ytkit/internal/services/llm/mocks"
)

func newProject(t *testing.T, cues int) *project.Project {
	t.Helper()
	p, err := project.Create(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	if cues > 0 {
		var sb strings.Builder
		sb.WriteString("WEBVTT\n\n")
		for i := 0; i < cues; i++ {
			fmt.Fprintf(&sb, "00:%02d:%02d.000 --> 00:%02d:%02d.500\nLine %d here.\n\n", i/60, i%60, i/60, i%60, i+1)
		}
		require.NoError(t, os.WriteFile(p.EnglishSubtitleFile(), []byte(sb.String()), 0644))
	}
	return p
}

func TestModule_Name(t *testing.T) {
	module := New(nil)
	assert.Equal(t, "chapters", module.Name())
	assert.NoError(t, mod.ValidateIO(module.GetIO()))
}

func TestModule_Validate(t *testing.T) {
	p := newProject(t, 0)

	assert.NoError(t, New(nil).Validate(map[string]interface{}{"project": p.Dir}))
	assert.Error(t, New(nil).Validate(map[string]interface{}{}))
	assert.Error(t, New(nil).Validate(map[string]interface{}{"project": p.Dir, "timeoutSeconds": 1000}))
}

func TestModule_ExecuteOffline(t *testing.T) {
	p := newProject(t, 65)

	result, err := New(config.Default()).Execute(context.Background(), map[string]interface{}{
		"project": p.Dir,
		"offline": true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Statistics["chapters"])

	md, err := os.ReadFile(p.TranscriptsFile())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "## Table of Contents\n- 00:00 Opening Introduction\n- 00:30 Chapter 2\n- 01:00 Chapter 3\n## Content\n"))

	_, err = os.Stat(p.ChaptersFile())
	assert.NoError(t, err)
}

func TestModule_ExecuteLLM(t *testing.T) {
	p := newProject(t, 3)

	client := mocks.NewMockClient(t)
	client.EXPECT().
		Complete(mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
			return strings.Contains(req.Prompt, "00:02 Line 3 here.") && req.Model == "custom"
		})).
		Return(`Sure! {"toc":[{"time":"00:00","title":"the opening"}],"chapters":[{"time":"00:00","title":"the opening","content":"Line 1 here. Line 2 here."}]}`, nil).
		Once()

	result, err := NewWithClient(config.Default(), client).Execute(context.Background(), map[string]interface{}{
		"project": p.Dir,
		"model":   "custom",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Statistics["chapters"])

	md, err := os.ReadFile(p.TranscriptsFile())
	require.NoError(t, err)
	assert.Contains(t, string(md), "- 00:00 The Opening")
	assert.Contains(t, string(md), "```text\nLine 1 here.\nLine 2 here.\n```")
}

func TestModule_ExecuteLLMFailureWritesNothing(t *testing.T) {
	p := newProject(t, 3)

	client := mocks.NewMockClient(t)
	client.EXPECT().Complete(mock.Anything, mock.Anything).Return("no json at all", nil).Once()

	_, err := NewWithClient(config.Default(), client).Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	var schemaErr *annotate.SchemaError
	require.True(t, errors.As(err, &schemaErr))

	_, statErr := os.Stat(p.TranscriptsFile())
	assert.True(t, os.IsNotExist(statErr))
}

func TestModule_ExecuteSkipsExisting(t *testing.T) {
	p := newProject(t, 3)
	require.NoError(t, os.WriteFile(p.TranscriptsFile(), []byte("old"), 0644))

	result, err := New(config.Default()).Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	require.NoError(t, err)
	assert.True(t, result.Skipped())
}

func TestModule_ExecuteMissingCaptions(t *testing.T) {
	p := newProject(t, 0)

	_, err := New(config.Default()).Execute(context.Background(), map[string]interface{}{"project": p.Dir, "offline": true})
	assert.ErrorIs(t, err, mod.ErrMissingInput)
}
