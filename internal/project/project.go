// Package project manages the per-video working directory: the .youtube
// marker file, artifact names and the advisory run lock.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofrs/flock"

	"github.com/ytkit/ytkit/internal/utils"
)

// MarkerFile is the file that turns a directory into a project.
const MarkerFile = ".youtube"

const lockFile = ".ytkit.lock"

var (
	// ErrNotProject is returned when a directory has no marker file.
	ErrNotProject = errors.New("not a ytkit project (missing .youtube file)")
	// ErrProjectExists is returned by Create when the marker already exists.
	ErrProjectExists = errors.New("project already exists")
	// ErrInvalidURL is returned for URLs without a recognizable video id.
	ErrInvalidURL = errors.New("not a valid YouTube URL")
	// ErrLocked is returned when another process holds the project lock.
	ErrLocked = errors.New("project is locked by another ytkit process")
)

var (
	pathIDPattern  = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:embed|shorts|live)/)([a-zA-Z0-9_-]{11})`)
	queryIDPattern = regexp.MustCompile(`[?&]v=([a-zA-Z0-9_-]{11})`)
	hostPattern    = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.|music\.)?(?:youtube\.com|youtu\.be)/`)
)

// ExtractVideoID returns the 11-character video id in url.
func ExtractVideoID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if m := pathIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if m := queryIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidURL, url)
}

// IsValidURL reports whether url points at a YouTube video.
func IsValidURL(url string) bool {
	url = strings.TrimSpace(url)
	if !hostPattern.MatchString(url) {
		return false
	}
	_, err := ExtractVideoID(url)
	return err == nil
}

// Project is an opened project directory.
type Project struct {
	Dir     string
	URL     string
	VideoID string
}

// Create makes <prefix>/<id>/ and writes the marker file. When the marker
// already exists the existing project is returned with ErrProjectExists.
func Create(prefix, url string) (*Project, error) {
	if !IsValidURL(url) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}
	id, err := ExtractVideoID(url)
	if err != nil {
		return nil, err
	}

	if prefix == "" {
		prefix = "."
	}
	prefix, err = utils.ExpandHomeDir(prefix)
	if err != nil {
		return nil, err
	}

	p := &Project{Dir: filepath.Join(prefix, id), URL: strings.TrimSpace(url), VideoID: id}
	marker := filepath.Join(p.Dir, MarkerFile)

	exists, err := utils.FileExists(marker)
	if err != nil {
		return nil, err
	}
	if exists {
		return p, fmt.Errorf("%w: %s", ErrProjectExists, p.Dir)
	}

	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := utils.WriteTextFile(marker, p.URL+"\n"); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", MarkerFile, err)
	}
	return p, nil
}

// Open reads the marker file in dir.
func Open(dir string) (*Project, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	data, err := os.ReadFile(filepath.Join(abs, MarkerFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotProject, abs)
		}
		return nil, fmt.Errorf("failed to read %s: %w", MarkerFile, err)
	}

	url := strings.TrimSpace(string(data))
	id, err := ExtractVideoID(url)
	if err != nil {
		return nil, fmt.Errorf("invalid %s in %s: %w", MarkerFile, abs, err)
	}
	return &Project{Dir: abs, URL: url, VideoID: id}, nil
}

// Path joins name onto the project directory.
func (p *Project) Path(name string) string {
	return filepath.Join(p.Dir, name)
}

// Lock takes the project's advisory lock without blocking. The returned
// function releases it.
func (p *Project) Lock() (func(), error) {
	fl := flock.New(p.Path(lockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock project: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, p.Dir)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			utils.LogWarning("Failed to release project lock: %v", err)
		}
	}, nil
}
