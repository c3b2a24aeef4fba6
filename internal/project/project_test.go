package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=10", want: "dQw4w9WgXcQ"},
		{url: "https://youtu.be/dQw4w9WgXcQ?si=abc", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/shorts/a_b-c_d-e_f", want: "a_b-c_d-e_f"},
		{url: "https://example.com/video", wantErr: true},
		{url: "https://youtu.be/short", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, IsValidURL("youtu.be/dQw4w9WgXcQ"))
	assert.False(t, IsValidURL("https://evil.com/?v=dQw4w9WgXcQ"))
	assert.False(t, IsValidURL("https://www.youtube.com/feed"))
}

func TestCreateAndOpen(t *testing.T) {
	prefix := t.TempDir()
	url := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	p, err := Create(prefix, url)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(prefix, "dQw4w9WgXcQ"), p.Dir)

	data, err := os.ReadFile(filepath.Join(p.Dir, MarkerFile))
	require.NoError(t, err)
	assert.Equal(t, url+"\n", string(data))

	again, err := Create(prefix, url)
	assert.ErrorIs(t, err, ErrProjectExists)
	require.NotNil(t, again)
	assert.Equal(t, p.Dir, again.Dir)

	opened, err := Open(p.Dir)
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", opened.VideoID)
	assert.Equal(t, url, opened.URL)
	assert.Equal(t, filepath.Join(p.Dir, "dQw4w9WgXcQ.en.vtt"), opened.EnglishSubtitleFile())
	assert.Equal(t, filepath.Join(p.Dir, "dQw4w9WgXcQ.analyzed.json"), opened.AnalyzedFile())
}

func TestCreateRejectsInvalidURL(t *testing.T) {
	_, err := Create(t.TempDir(), "https://vimeo.com/123")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestOpenNotProject(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNotProject)
}

func TestOpenBadMarker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte("garbage"), 0644))

	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestLock(t *testing.T) {
	p, err := Create(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	unlock, err := p.Lock()
	require.NoError(t, err)

	_, err = p.Lock()
	assert.ErrorIs(t, err, ErrLocked)

	unlock()

	unlock2, err := p.Lock()
	require.NoError(t, err)
	unlock2()
}

func TestStageArtifactsAndInventory(t *testing.T) {
	p, err := Create(t.TempDir(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, []string{p.PreprocessedFile()}, p.StageArtifacts(StagePreprocess))
	assert.Len(t, p.StageArtifacts(StageRender), 2)
	assert.Nil(t, p.StageArtifacts("bogus"))

	require.NoError(t, os.WriteFile(p.PreprocessedFile(), []byte("00:00 [001] Hi there."), 0644))

	inv, err := p.Inventory([]string{"en"})
	require.NoError(t, err)

	found := map[string]ArtifactInfo{}
	for _, a := range inv {
		found[a.Name] = a
	}
	assert.True(t, found[ArtifactPreprocessed].Exists)
	assert.Equal(t, int64(21), found[ArtifactPreprocessed].Size)
	assert.False(t, found[ArtifactAnalyzed].Exists)
	assert.Contains(t, found, "subtitle:en")
}
