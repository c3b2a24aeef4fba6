// Package modules assembles the registry of pipeline stages.
package modules

import (
	"fmt"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/modules/analyze"
	"github.com/ytkit/ytkit/internal/modules/chapters"
	"github.com/ytkit/ytkit/internal/modules/download"
	"github.com/ytkit/ytkit/internal/modules/preprocess"
	"github.com/ytkit/ytkit/internal/modules/render"
	"github.com/ytkit/ytkit/internal/services/llm"
	"github.com/ytkit/ytkit/internal/services/ytdlp"
)

// options carries the services injected into the stages
type options struct {
	client     llm.Client
	downloader ytdlp.Downloader
}

// Option overrides a service used by the registered stages.
type Option func(*options)

// WithLLMClient makes analyze and chapters use client instead of building one
// from the configuration.
func WithLLMClient(client llm.Client) Option {
	return func(o *options) { o.client = client }
}

// WithDownloader replaces the yt-dlp CLI used by the download stage.
func WithDownloader(d ytdlp.Downloader) Option {
	return func(o *options) { o.downloader = d }
}

// NewRegistry registers every ytkit stage.
func NewRegistry(cfg *config.Config, opts ...Option) (*mod.ModuleRegistry, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var downloadOpts []download.Option
	if o.downloader != nil {
		downloadOpts = append(downloadOpts, download.WithDownloader(o.downloader))
	}

	registry := mod.NewModuleRegistry()
	for _, m := range []mod.Module{
		download.New(cfg, downloadOpts...),
		preprocess.New(cfg),
		analyze.NewWithClient(cfg, o.client),
		chapters.NewWithClient(cfg, o.client),
		render.New(),
	} {
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("failed to register %s module: %w", m.Name(), err)
		}
	}
	return registry, nil
}
