package youtube

import (
	"context"
	"time"
)

// MetadataService reads public metadata for a video.
type MetadataService interface {
	// VideoDetails returns title, channel and thumbnail data for a video
	VideoDetails(ctx context.Context, videoID string) (*VideoDetails, error)

	// CaptionTracks lists the caption tracks published for a video
	CaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error)
}

// VideoDetails is the subset of the Data API video resource ytkit uses.
type VideoDetails struct {
	ID           string
	Title        string
	ChannelTitle string
	Description  string
	PublishedAt  time.Time
	Duration     string // ISO 8601, e.g. PT12M3S
	ThumbnailURL string // largest available
}

// CaptionTrack describes one published caption track.
type CaptionTrack struct {
	ID       string
	Language string
	Name     string
	Kind     string // "standard", "asr" or "forced"
}

// Ensure Service implements MetadataService
var _ MetadataService = (*Service)(nil)
