package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/services/youtube"
	"github.com/ytkit/ytkit/internal/services/ytdlp"
	"github.com/ytkit/ytkit/internal/utils"
)

// errNoThumbnail is logged when neither source offers a cover image.
var errNoThumbnail = errors.New("no thumbnail URL available")

// fetchCover saves cover.jpg. Failures are warnings; the return value
// reports whether a new file was written.
func (m *Module) fetchCover(ctx context.Context, proj *project.Project, info *ytdlp.VideoInfo) bool {
	if exists, err := utils.FileExists(proj.CoverFile()); err != nil || exists {
		if exists {
			utils.LogInfo("Skipping %s: already exists", proj.CoverFile())
		}
		return false
	}

	url := m.thumbnailURL(ctx, proj.VideoID, info)
	if url == "" {
		utils.LogWarning("Skipping cover: %v", errNoThumbnail)
		return false
	}

	if err := m.download(ctx, url, proj.CoverFile()); err != nil {
		utils.LogWarning("Failed to download cover: %v", err)
		return false
	}
	utils.LogSuccess("Downloaded %s", proj.CoverFile())
	return true
}

// thumbnailURL prefers the Data API's largest thumbnail and falls back to
// the one yt-dlp reported.
func (m *Module) thumbnailURL(ctx context.Context, videoID string, info *ytdlp.VideoInfo) string {
	if svc := m.metadataService(ctx); svc != nil {
		details, err := svc.VideoDetails(ctx, videoID)
		if err != nil {
			utils.LogVerbose("YouTube Data API lookup failed, using yt-dlp thumbnail: %v", err)
		} else if details.ThumbnailURL != "" {
			return details.ThumbnailURL
		}
	}
	if info != nil {
		return info.Thumbnail
	}
	return ""
}

func (m *Module) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			utils.LogWarning("Failed to close response body: %v", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	tmp := dest + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write cover: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	return os.Rename(tmp, dest)
}

// metadataService returns the injected Data API client or builds one from
// the configured API key or OAuth credentials. It returns nil when neither
// is configured.
func (m *Module) metadataService(ctx context.Context) youtube.MetadataService {
	if m.metadata != nil || m.metadataTried {
		return m.metadata
	}
	m.metadataTried = true

	var (
		svc *youtube.Service
		err error
	)
	switch {
	case m.cfg.YouTube.APIKey != "":
		svc, err = youtube.NewWithAPIKey(ctx, m.cfg.YouTube.APIKey)
	case m.cfg.YouTube.CredentialsFile != "":
		svc, err = youtube.NewWithOAuth(ctx, m.cfg.YouTube.CredentialsFile)
	default:
		return nil
	}
	if err != nil {
		utils.LogWarning("YouTube Data API unavailable: %v", err)
		return nil
	}
	m.metadata = svc
	return m.metadata
}
