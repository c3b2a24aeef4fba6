// Package ytdlp wraps the yt-dlp command line tool.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ytkit/ytkit/internal/utils"
)

// execCommand allows us to mock exec.CommandContext in tests
var execCommand = exec.CommandContext

// Binary is the executable looked up in PATH.
const Binary = "yt-dlp"

// ErrSubtitleUnavailable is returned when a video has no track for a language.
var ErrSubtitleUnavailable = errors.New("subtitle track not available")

// SubtitleFormat is one downloadable rendition of a caption track.
type SubtitleFormat struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// VideoInfo is the part of yt-dlp's JSON dump ytkit reads.
type VideoInfo struct {
	ID                string                      `json:"id"`
	Title             string                      `json:"title"`
	Uploader          string                      `json:"uploader"`
	Duration          float64                     `json:"duration"`
	Thumbnail         string                      `json:"thumbnail"`
	WebpageURL        string                      `json:"webpage_url"`
	Subtitles         map[string][]SubtitleFormat `json:"subtitles"`
	AutomaticCaptions map[string][]SubtitleFormat `json:"automatic_captions"`
}

// HasSubtitle reports whether lang exists as a manual or automatic track.
func (v *VideoInfo) HasSubtitle(lang string) (manual, automatic bool) {
	_, manual = v.Subtitles[lang]
	_, automatic = v.AutomaticCaptions[lang]
	return manual, automatic
}

// Languages returns the sorted manual and automatic caption languages.
func (v *VideoInfo) Languages() (manual, automatic []string) {
	return sortedKeys(v.Subtitles), sortedKeys(v.AutomaticCaptions)
}

func sortedKeys(m map[string][]SubtitleFormat) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Downloader fetches video data. Download methods return false without
// doing any work when dest already exists.
type Downloader interface {
	Probe(ctx context.Context, url string) (*VideoInfo, error)
	DownloadVideo(ctx context.Context, url, dest, format string) (bool, error)
	DownloadSubtitle(ctx context.Context, url, lang, dest string, info *VideoInfo) (bool, error)
}

// CLI runs yt-dlp as a subprocess.
type CLI struct {
	Binary string
}

// New returns a CLI that runs yt-dlp from PATH.
func New() *CLI {
	return &CLI{Binary: Binary}
}

// Ensure CLI implements Downloader
var _ Downloader = (*CLI)(nil)

func (c *CLI) run(ctx context.Context, args ...string) ([]byte, error) {
	bin := c.Binary
	if bin == "" {
		bin = Binary
	}
	utils.LogDebug("Running %s %s", bin, strings.Join(args, " "))

	cmd := execCommand(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", bin, err, lastLines(stderr.String(), 5))
	}
	return stdout.Bytes(), nil
}

// Probe dumps the video's metadata without downloading anything.
func (c *CLI) Probe(ctx context.Context, url string) (*VideoInfo, error) {
	out, err := c.run(ctx, "-J", "--skip-download", "--no-playlist", "--no-warnings", url)
	if err != nil {
		return nil, err
	}
	var info VideoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp metadata: %w", err)
	}
	return &info, nil
}

// DownloadVideo saves the video as mp4 at dest.
func (c *CLI) DownloadVideo(ctx context.Context, url, dest, format string) (bool, error) {
	if exists, err := utils.FileExists(dest); err != nil || exists {
		return false, err
	}
	args := []string{"--no-playlist", "--merge-output-format", "mp4", "-o", dest}
	if format != "" {
		args = append(args, "-f", format)
	}
	if _, err := c.run(ctx, append(args, url)...); err != nil {
		return false, fmt.Errorf("failed to download video: %w", err)
	}
	return true, nil
}

// DownloadSubtitle saves the lang track as VTT at dest, preferring a manual
// track over an automatic one. info may be nil, in which case availability
// is probed first.
func (c *CLI) DownloadSubtitle(ctx context.Context, url, lang, dest string, info *VideoInfo) (bool, error) {
	if exists, err := utils.FileExists(dest); err != nil || exists {
		return false, err
	}

	if info == nil {
		var err error
		if info, err = c.Probe(ctx, url); err != nil {
			return false, err
		}
	}
	manual, automatic := info.HasSubtitle(lang)
	if !manual && !automatic {
		return false, fmt.Errorf("%w: %s", ErrSubtitleUnavailable, lang)
	}

	writeFlag := "--write-subs"
	if !manual {
		writeFlag = "--write-auto-subs"
	}

	// yt-dlp names subtitle files <template>.<lang>.<ext>
	dir := filepath.Dir(dest)
	base := strings.TrimSuffix(filepath.Base(dest), "."+lang+".vtt")
	template := filepath.Join(dir, base+".%(ext)s")

	if _, err := c.run(ctx, "--skip-download", "--no-playlist", writeFlag,
		"--sub-langs", lang, "--sub-format", "vtt", "-o", template, url); err != nil {
		return false, fmt.Errorf("failed to download %s subtitles: %w", lang, err)
	}

	if exists, err := utils.FileExists(dest); err != nil {
		return false, err
	} else if exists {
		return true, nil
	}

	// Fall back to any file yt-dlp wrote for the language
	matches, _ := filepath.Glob(filepath.Join(dir, "*."+lang+"*.vtt"))
	if len(matches) == 0 {
		return false, fmt.Errorf("yt-dlp reported success but no %s subtitle file was written", lang)
	}
	if err := os.Rename(matches[0], dest); err != nil {
		return false, fmt.Errorf("failed to rename subtitle file: %w", err)
	}
	return true, nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
