package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/services/llm/mocks"
	dlmocks "github.com/ytkit/ytkit/internal/services/ytdlp/mocks"
)

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry(nil)
	require.NoError(t, err)

	var names []string
	for _, m := range registry.ListModules() {
		names = append(names, m.Name())
	}
	assert.ElementsMatch(t, project.Stages(), names)
}

func TestNewRegistryWithServices(t *testing.T) {
	registry, err := NewRegistry(nil,
		WithLLMClient(mocks.NewMockClient(t)),
		WithDownloader(dlmocks.NewMockDownloader(t)),
	)
	require.NoError(t, err)

	m, err := registry.Get(project.StageAnalyze)
	require.NoError(t, err)
	assert.Equal(t, project.StageAnalyze, m.Name())

	_, err = registry.Get("transcribe")
	assert.Error(t, err)
}
