package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/ytkit/ytkit/internal/utils"
)

// ErrVideoNotFound is returned when the API knows no video with the id.
var ErrVideoNotFound = errors.New("video not found")

// Read-only scope; captions.list needs force-ssl.
var requiredScopes = []string{
	youtube.YoutubeReadonlyScope,
	youtube.YoutubeForceSslScope,
}

// CallbackPort is the local port of the OAuth redirect listener.
const CallbackPort = 8080

// Service implements MetadataService on the YouTube Data API v3
type Service struct {
	api *youtube.Service
}

// NewWithAPIKey creates a service authenticated by an API key. Extra client
// options are appended, which lets tests point it at a local endpoint.
func NewWithAPIKey(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is empty")
	}
	api, err := youtube.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Service{api: api}, nil
}

// NewWithOAuth creates a service from an OAuth client credentials file. A
// stored token is reused; otherwise the browser consent flow runs once.
func NewWithOAuth(ctx context.Context, credentialsPath string) (*Service, error) {
	// Read credentials file
	credentials, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(credentials, requiredScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth config: %w", err)
	}

	tokenStorage, err := NewTokenStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	token, err := tokenStorage.LoadToken("youtube")
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	// Expired tokens with a refresh token are renewed by the token source
	if token == nil || (!token.Valid() && token.RefreshToken == "") {
		token, err = authorize(ctx, config)
		if err != nil {
			return nil, err
		}
		if err := tokenStorage.SaveToken("youtube", token); err != nil {
			utils.LogWarning("Failed to save token: %v", err)
		}
	} else {
		utils.LogVerbose("Using existing authorization token")
	}

	api, err := youtube.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Service{api: api}, nil
}

func authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	callbackServer := NewOAuthCallbackServer()
	if err := callbackServer.Start(CallbackPort); err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	defer func() {
		if err := callbackServer.Stop(); err != nil {
			utils.LogWarning("Failed to stop callback server: %v", err)
		}
	}()

	config.RedirectURL = fmt.Sprintf("http://localhost:%d", CallbackPort)
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	utils.LogInfo("Opening browser for YouTube authorization: %s", authURL)
	if err := callbackServer.OpenURL(authURL); err != nil {
		utils.LogWarning("Could not open a browser, visit the URL above: %v", err)
	}

	code, err := callbackServer.WaitForCode(ctx)
	if err != nil {
		return nil, err
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// VideoDetails retrieves details of a specific video
func (s *Service) VideoDetails(ctx context.Context, videoID string) (*VideoDetails, error) {
	resp, err := s.api.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	video := resp.Items[0]
	details := &VideoDetails{ID: video.Id}
	if video.Snippet != nil {
		details.Title = video.Snippet.Title
		details.ChannelTitle = video.Snippet.ChannelTitle
		details.Description = video.Snippet.Description
		details.ThumbnailURL = bestThumbnail(video.Snippet.Thumbnails)
		if t, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt); err == nil {
			details.PublishedAt = t
		}
	}
	if video.ContentDetails != nil {
		details.Duration = video.ContentDetails.Duration
	}
	return details, nil
}

// CaptionTracks lists the caption tracks of a video
func (s *Service) CaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	resp, err := s.api.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list captions: %w", err)
	}

	tracks := make([]CaptionTrack, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil {
			continue
		}
		tracks = append(tracks, CaptionTrack{
			ID:       item.Id,
			Language: item.Snippet.Language,
			Name:     item.Snippet.Name,
			Kind:     item.Snippet.TrackKind,
		})
	}
	return tracks, nil
}

// bestThumbnail picks the largest thumbnail that is present
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
