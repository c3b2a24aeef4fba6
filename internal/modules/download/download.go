package download

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/mod"
	"github.com/ytkit/ytkit/internal/project"
	"github.com/ytkit/ytkit/internal/services/youtube"
	"github.com/ytkit/ytkit/internal/services/ytdlp"
	"github.com/ytkit/ytkit/internal/subtitles"
	"github.com/ytkit/ytkit/internal/utils"
)

// englishLang is the caption track every later stage reads.
const englishLang = "en"

// Module fetches the video, its subtitle tracks and the cover image.
type Module struct {
	cfg        *config.Config
	downloader ytdlp.Downloader
	metadata   youtube.MetadataService
	httpClient *http.Client

	metadataTried bool
}

// Params contains the parameters for the download stage
type Params struct {
	mod.ProjectParams
	Languages   []string `json:"languages"`   // subtitle tracks (default: config, "en" always included)
	Format      string   `json:"format"`      // yt-dlp format selector
	NoVideo     bool     `json:"noVideo"`     // subtitles and cover only
	NoThumbnail bool     `json:"noThumbnail"` // skip cover.jpg
	NoMerge     bool     `json:"noMerge"`     // skip the bilingual subtitle file
}

// Option customizes a download module
type Option func(*Module)

// WithDownloader replaces the yt-dlp command line client
func WithDownloader(d ytdlp.Downloader) Option {
	return func(m *Module) { m.downloader = d }
}

// WithMetadata sets the YouTube Data API client used for thumbnails
func WithMetadata(s youtube.MetadataService) Option {
	return func(m *Module) { m.metadata = s }
}

// WithHTTPClient sets the client used to fetch the cover image
func WithHTTPClient(c *http.Client) Option {
	return func(m *Module) { m.httpClient = c }
}

// New creates a new download module
func New(cfg *config.Config, opts ...Option) mod.Module {
	if cfg == nil {
		cfg = config.Default()
	}
	m := &Module{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	if m.downloader == nil {
		m.downloader = ytdlp.New()
	}
	if m.httpClient == nil {
		m.httpClient = &http.Client{Timeout: time.Duration(cfg.Download.ThumbnailTimeoutSeconds) * time.Second}
	}
	return m
}

// Name returns the module name
func (m *Module) Name() string {
	return project.StageDownload
}

// GetIO returns the module's input/output specification
func (m *Module) GetIO() mod.ModuleIO {
	return mod.ModuleIO{
		RequiredInputs: []mod.ModuleInput{
			{
				Name:        "url",
				Description: "Video URL stored in the project's .youtube file",
				Patterns:    []string{project.MarkerFile},
				Type:        string(mod.InputTypeData),
			},
		},
		ProducedOutputs: []mod.ModuleOutput{
			{
				Name:        project.ArtifactVideo,
				Description: "Video as mp4",
				Patterns:    []string{".mp4"},
				Type:        string(mod.OutputTypeFile),
			},
			{
				Name:        "subtitles",
				Description: "WebVTT subtitle tracks",
				Patterns:    []string{".en.vtt", ".vtt"},
				Type:        string(mod.OutputTypeFile),
			},
			{
				Name:        project.ArtifactCover,
				Description: "Video thumbnail",
				Patterns:    []string{"cover.jpg"},
				Type:        string(mod.OutputTypeFile),
			},
			{
				Name:        project.ArtifactBilingual,
				Description: "English and Chinese subtitles merged by cue",
				Patterns:    []string{".bilingual.vtt"},
				Type:        string(mod.OutputTypeFile),
			},
		},
	}
}

// Validate checks if the parameters are valid
func (m *Module) Validate(params map[string]interface{}) error {
	var p Params
	if err := mod.ParseParams(params, &p); err != nil {
		return err
	}
	if _, err := p.OpenProject(); err != nil {
		return err
	}
	if _, ok := m.downloader.(*ytdlp.CLI); ok {
		if err := utils.ValidateRequiredDependency(ytdlp.Binary); err != nil {
			return err
		}
	}
	return nil
}

// Execute downloads every missing artifact of the project
func (m *Module) Execute(ctx context.Context, params map[string]interface{}) (mod.ModuleResult, error) {
	var p Params
	if err := mod.ParseParams(params, &p); err != nil {
		return mod.ModuleResult{}, err
	}

	proj, err := p.OpenProject()
	if err != nil {
		return mod.ModuleResult{}, err
	}
	if p.Format == "" {
		p.Format = m.cfg.Download.Format
	}
	languages := withEnglish(p.Languages, m.cfg.Download.Languages)

	utils.LogInfo("Probing %s", proj.URL)
	info, err := m.downloader.Probe(ctx, proj.URL)
	if err != nil {
		return mod.ModuleResult{}, fmt.Errorf("failed to probe video: %w", err)
	}
	manual, automatic := info.Languages()
	utils.LogVerbose("Manual subtitles: %v", manual)
	utils.LogVerbose("Automatic captions: %d languages", len(automatic))

	stats := map[string]interface{}{}
	outputs := map[string]string{}

	if !p.NoVideo {
		fetched, err := m.downloader.DownloadVideo(ctx, proj.URL, proj.VideoFile(), p.Format)
		if err != nil {
			return mod.ModuleResult{}, err
		}
		logFetched(fetched, proj.VideoFile())
		stats["video"] = fetched
		outputs[project.ArtifactVideo] = proj.VideoFile()
	}

	fetchedSubs := 0
	for _, lang := range languages {
		dest := proj.SubtitleFile(lang)
		fetched, err := m.downloader.DownloadSubtitle(ctx, proj.URL, lang, dest, info)
		if err != nil {
			if lang == englishLang {
				return mod.ModuleResult{}, fmt.Errorf("english subtitles are required: %w", err)
			}
			utils.LogWarning("Skipping %s subtitles: %v", lang, err)
			continue
		}
		logFetched(fetched, dest)
		if fetched {
			fetchedSubs++
		}
		outputs[project.ArtifactSubtitlePrefix+lang] = dest
	}
	stats["subtitles"] = fetchedSubs

	if !p.NoThumbnail {
		if fetched := m.fetchCover(ctx, proj, info); fetched {
			stats["cover"] = true
		}
		if exists, _ := utils.FileExists(proj.CoverFile()); exists {
			outputs[project.ArtifactCover] = proj.CoverFile()
		}
	}

	if !p.NoMerge {
		if second := secondLanguage(languages); second != "" {
			merged, err := subtitles.MergeFiles(proj.EnglishSubtitleFile(), proj.SubtitleFile(second), proj.BilingualFile())
			if err != nil {
				utils.LogWarning("Failed to merge subtitles: %v", err)
			} else if merged {
				utils.LogSuccess("Merged bilingual subtitles into %s", proj.BilingualFile())
			}
			if exists, _ := utils.FileExists(proj.BilingualFile()); exists {
				outputs[project.ArtifactBilingual] = proj.BilingualFile()
			}
		}
	}

	return mod.ModuleResult{
		Outputs: outputs,
		Metadata: map[string]interface{}{
			mod.MetaVideoID: proj.VideoID,
			"title":         info.Title,
			"uploader":      info.Uploader,
		},
		Statistics:  stats,
		NextModules: []string{project.StagePreprocess, project.StageChapters},
	}, nil
}

// withEnglish returns the requested languages, falling back to the
// configured ones, with "en" first and duplicates removed.
func withEnglish(requested, configured []string) []string {
	if len(requested) == 0 {
		requested = configured
	}
	out := []string{englishLang}
	seen := map[string]bool{englishLang: true}
	for _, lang := range requested {
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		out = append(out, lang)
	}
	return out
}

// secondLanguage picks the track merged under the English text.
func secondLanguage(languages []string) string {
	for _, lang := range languages {
		if lang != englishLang {
			return lang
		}
	}
	return ""
}

func logFetched(fetched bool, path string) {
	if fetched {
		utils.LogSuccess("Downloaded %s", path)
	} else {
		utils.LogInfo("Skipping %s: already exists", path)
	}
}
