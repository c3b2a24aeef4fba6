package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"
)

// Artifact kinds produced inside a project.
const (
	ArtifactVideo        = "video"
	ArtifactCover        = "cover"
	ArtifactBilingual    = "bilingual"
	ArtifactPreprocessed = "preprocessed"
	ArtifactAnalyzed     = "analyzed"
	ArtifactTranscripts  = "transcripts"
	ArtifactChapters     = "chapters"
	ArtifactStudyMD      = "study"
	ArtifactStudyDocx    = "studyDocx"

	// ArtifactSubtitlePrefix is followed by the language tag, e.g. "subtitle:en".
	ArtifactSubtitlePrefix = "subtitle:"
)

// Stage names used by clean and the workflow runner.
const (
	StageDownload   = "download"
	StagePreprocess = "preprocess"
	StageAnalyze    = "analyze"
	StageChapters   = "chapters"
	StageRender     = "render"
)

// VideoFile returns <id>.mp4.
func (p *Project) VideoFile() string { return p.Path(p.VideoID + ".mp4") }

// SubtitleFile returns <id>.<lang>.vtt.
func (p *Project) SubtitleFile(lang string) string {
	return p.Path(fmt.Sprintf("%s.%s.vtt", p.VideoID, lang))
}

// EnglishSubtitleFile returns <id>.en.vtt, the preprocess input.
func (p *Project) EnglishSubtitleFile() string { return p.SubtitleFile("en") }

// BilingualFile returns <id>.bilingual.vtt.
func (p *Project) BilingualFile() string { return p.Path(p.VideoID + ".bilingual.vtt") }

// CoverFile returns cover.jpg.
func (p *Project) CoverFile() string { return p.Path("cover.jpg") }

// PreprocessedFile returns <id>.preprocessed.md.
func (p *Project) PreprocessedFile() string { return p.Path(p.VideoID + ".preprocessed.md") }

// AnalyzedFile returns <id>.analyzed.json.
func (p *Project) AnalyzedFile() string { return p.Path(p.VideoID + ".analyzed.json") }

// TranscriptsFile returns <id>.transcripts.md.
func (p *Project) TranscriptsFile() string { return p.Path(p.VideoID + ".transcripts.md") }

// ChaptersFile returns <id>.chapters.json.
func (p *Project) ChaptersFile() string { return p.Path(p.VideoID + ".chapters.json") }

// StudyFile returns <id>.study.md.
func (p *Project) StudyFile() string { return p.Path(p.VideoID + ".study.md") }

// StudyDocxFile returns <id>.study.docx.
func (p *Project) StudyDocxFile() string { return p.Path(p.VideoID + ".study.docx") }

// StageArtifacts returns the files a stage generates. Unknown stages yield nil.
func (p *Project) StageArtifacts(stage string) []string {
	switch stage {
	case StagePreprocess:
		return []string{p.PreprocessedFile()}
	case StageAnalyze:
		return []string{p.AnalyzedFile()}
	case StageChapters:
		return []string{p.TranscriptsFile(), p.ChaptersFile()}
	case StageRender:
		return []string{p.StudyFile(), p.StudyDocxFile()}
	case StageDownload:
		return []string{p.VideoFile(), p.EnglishSubtitleFile(), p.CoverFile(), p.BilingualFile()}
	default:
		return nil
	}
}

// Stages lists the stages in pipeline order.
func Stages() []string {
	return []string{StageDownload, StagePreprocess, StageAnalyze, StageChapters, StageRender}
}

// ArtifactInfo describes one file in the project.
type ArtifactInfo struct {
	Name     string
	Path     string
	Exists   bool
	Size     int64
	Modified time.Time
}

// Inventory stats the known artifacts plus any extra subtitle tracks.
func (p *Project) Inventory(languages []string) ([]ArtifactInfo, error) {
	named := map[string]string{
		ArtifactVideo:        p.VideoFile(),
		ArtifactCover:        p.CoverFile(),
		ArtifactBilingual:    p.BilingualFile(),
		ArtifactPreprocessed: p.PreprocessedFile(),
		ArtifactAnalyzed:     p.AnalyzedFile(),
		ArtifactTranscripts:  p.TranscriptsFile(),
		ArtifactChapters:     p.ChaptersFile(),
		ArtifactStudyMD:      p.StudyFile(),
		ArtifactStudyDocx:    p.StudyDocxFile(),
	}
	for _, lang := range languages {
		named[ArtifactSubtitlePrefix+lang] = p.SubtitleFile(lang)
	}

	out := make([]ArtifactInfo, 0, len(named))
	for name, path := range named {
		info := ArtifactInfo{Name: name, Path: path}
		st, err := os.Stat(path)
		switch {
		case err == nil:
			info.Exists = true
			info.Size = st.Size()
			info.Modified = st.ModTime()
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
