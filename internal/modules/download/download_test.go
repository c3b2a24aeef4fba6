package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/services/youtube"
	ytmocks "github.com/ytkit/ytkit/internal/services/youtube/mocks"
	"github.com/ytkit/ytkit/internal/services/ytdlp"
	dlmocks "github.com/ytkit/ytkit/internal/services/ytdlp/mocks"
)

const videoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func newProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.Create(t.TempDir(), videoURL)
	require.NoError(t, err)
	return p
}

func vtt(text string) string {
	return fmt.Sprintf("WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\n%s\n", text)
}

// writeSubtitle makes the mocked downloader behave like yt-dlp.
func writeSubtitle(texts map[string]string) func(context.Context, string, string, string, *ytdlp.VideoInfo) (bool, error) {
	return func(_ context.Context, _, lang, dest string, _ *ytdlp.VideoInfo) (bool, error) {
		text, ok := texts[lang]
		if !ok {
			return false, fmt.Errorf("%w: %s", ytdlp.ErrSubtitleUnavailable, lang)
		}
		return true, os.WriteFile(dest, []byte(vtt(text)), 0644)
	}
}

func coverServer(t *testing.T, status int) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte("JPEG:" + r.URL.Path))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestModule_Name(t *testing.T) {
	module := New(nil, WithDownloader(dlmocks.NewMockDownloader(t)))
	assert.Equal(t, "download", module.Name())
	assert.NoError(t, mod.ValidateIO(module.GetIO()))
}

func TestModule_Validate(t *testing.T) {
	p := newProject(t)
	module := New(nil, WithDownloader(dlmocks.NewMockDownloader(t)))

	assert.NoError(t, module.Validate(map[string]interface{}{"project": p.Dir}))
	assert.Error(t, module.Validate(map[string]interface{}{"project": t.TempDir()}))
}

func TestModule_Execute(t *testing.T) {
	p := newProject(t)
	srv, _ := coverServer(t, http.StatusOK)

	dl := dlmocks.NewMockDownloader(t)
	info := &ytdlp.VideoInfo{ID: "dQw4w9WgXcQ", Title: "Demo", Thumbnail: srv.URL + "/probe.jpg"}
	dl.EXPECT().Probe(mock.Anything, videoURL).Return(info, nil).Once()
	dl.EXPECT().DownloadVideo(mock.Anything, videoURL, p.VideoFile(), config.DefaultVideoFormat).Return(true, nil).Once()
	dl.EXPECT().DownloadSubtitle(mock.Anything, videoURL, mock.Anything, mock.Anything, info).
		RunAndReturn(writeSubtitle(map[string]string{"en": "Hello there.", "zh-Hans": "你好。"})).
		Twice()

	meta := ytmocks.NewMockMetadataService(t)
	meta.EXPECT().VideoDetails(mock.Anything, "dQw4w9WgXcQ").
		Return(&youtube.VideoDetails{ID: "dQw4w9WgXcQ", ThumbnailURL: srv.URL + "/maxres.jpg"}, nil).Once()

	module := New(config.Default(), WithDownloader(dl), WithMetadata(meta))
	result, err := module.Execute(context.Background(), map[string]interface{}{"project": p.Dir})
	require.NoError(t, err)

	assert.Equal(t, "Demo", result.Metadata["title"])
	assert.Equal(t, 2, result.Statistics["subtitles"])
	assert.Equal(t, p.SubtitleFile("zh-Hans"), result.Outputs["subtitle:zh-Hans"])
	assert.Equal(t, p.BilingualFile(), result.Outputs[project.ArtifactBilingual])

	cover, err := os.ReadFile(p.CoverFile())
	require.NoError(t, err)
	assert.Equal(t, "JPEG:/maxres.jpg", string(cover))

	merged, err := os.ReadFile(p.BilingualFile())
	require.NoError(t, err)
	assert.Contains(t, string(merged), "Hello there.\n你好。")
}

func TestModule_ExecuteRequiresEnglish(t *testing.T) {
	p := newProject(t)

	dl := dlmocks.NewMockDownloader(t)
	dl.EXPECT().Probe(mock.Anything, videoURL).Return(&ytdlp.VideoInfo{}, nil).Once()
	dl.EXPECT().DownloadSubtitle(mock.Anything, videoURL, "en", p.EnglishSubtitleFile(), mock.Anything).
		RunAndReturn(writeSubtitle(nil)).Once()

	module := New(config.Default(), WithDownloader(dl))
	_, err := module.Execute(context.Background(), map[string]interface{}{
		"project":     p.Dir,
		"noVideo":     true,
		"noThumbnail": true,
	})
	assert.ErrorIs(t, err, ytdlp.ErrSubtitleUnavailable)
}

func TestModule_ExecuteOtherLanguagesAreOptional(t *testing.T) {
	p := newProject(t)
	srv, _ := coverServer(t, http.StatusNotFound)

	dl := dlmocks.NewMockDownloader(t)
	dl.EXPECT().Probe(mock.Anything, videoURL).Return(&ytdlp.VideoInfo{Thumbnail: srv.URL + "/x.jpg"}, nil).Once()
	dl.EXPECT().DownloadSubtitle(mock.Anything, videoURL, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(writeSubtitle(map[string]string{"en": "Hello there."})).
		Times(3)

	module := New(config.Default(), WithDownloader(dl))
	result, err := module.Execute(context.Background(), map[string]interface{}{
		"project":   p.Dir,
		"noVideo":   true,
		"languages": []string{"es", "en", "fr"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Statistics["subtitles"])
	assert.NotContains(t, result.Outputs, project.ArtifactCover)
	assert.NotContains(t, result.Outputs, project.ArtifactBilingual)

	_, err = os.Stat(p.CoverFile())
	assert.True(t, os.IsNotExist(err))
}

func TestModule_ExecuteKeepsExistingCover(t *testing.T) {
	p := newProject(t)
	srv, hits := coverServer(t, http.StatusOK)
	require.NoError(t, os.WriteFile(p.CoverFile(), []byte("old"), 0644))

	dl := dlmocks.NewMockDownloader(t)
	dl.EXPECT().Probe(mock.Anything, videoURL).Return(&ytdlp.VideoInfo{Thumbnail: srv.URL + "/x.jpg"}, nil).Once()
	dl.EXPECT().DownloadSubtitle(mock.Anything, videoURL, "en", mock.Anything, mock.Anything).Return(false, nil).Once()

	module := New(config.Default(), WithDownloader(dl))
	result, err := module.Execute(context.Background(), map[string]interface{}{
		"project":   p.Dir,
		"noVideo":   true,
		"languages": []string{"en"},
	})
	require.NoError(t, err)
	assert.Equal(t, p.CoverFile(), result.Outputs[project.ArtifactCover])
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestWithEnglish(t *testing.T) {
	assert.Equal(t, []string{"en", "zh-Hans"}, withEnglish(nil, config.DefaultLanguages))
	assert.Equal(t, []string{"en", "es"}, withEnglish([]string{"es", "en", "es", ""}, nil))
	assert.Equal(t, "es", secondLanguage([]string{"en", "es"}))
	assert.Empty(t, secondLanguage([]string{"en"}))
}
