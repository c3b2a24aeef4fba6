// Package caption turns WebVTT caption text into timed, sentence-bounded
// segments ready for annotation.
package caption

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ytkit/ytkit/internal/utils"
)

// Cue is one timed block of caption text.
type Cue struct {
	Start float64 // seconds from the start of the video
	Text  string
}

// ParseResult holds the cues of one caption file together with the
// recoverable problems found while reading it.
type ParseResult struct {
	Cues []Cue
	// TimestampFailures counts timing lines whose start time could not be
	// read. Those cues start at 0.
	TimestampFailures int
}

// Empty reports whether no cue was found.
func (r ParseResult) Empty() bool {
	return len(r.Cues) == 0
}

// TimeRange returns the first and last cue start times.
func (r ParseResult) TimeRange() (float64, float64) {
	if r.Empty() {
		return 0, 0
	}
	return r.Cues[0].Start, r.Cues[len(r.Cues)-1].Start
}

var controlChars = regexp.MustCompile(`[\x00-\x08\x0B-\x1F\x7F]`)

// StripControl removes ASCII control characters other than tab and newline.
func StripControl(s string) string {
	return controlChars.ReplaceAllString(s, "")
}

type parseState int

const (
	stateSkipHeader parseState = iota
	stateExpectTiming
	stateCollectText
)

func (s parseState) String() string {
	switch s {
	case stateSkipHeader:
		return "skip-header"
	case stateExpectTiming:
		return "expect-timing"
	case stateCollectText:
		return "collect-text"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type cueParser struct {
	state  parseState
	start  float64
	text   []string
	result ParseResult
}

// Parse reads WebVTT content. It never fails: malformed timing lines and
// stray lines are skipped or defaulted, and a file without cues yields an
// empty result.
func Parse(content string) ParseResult {
	content = strings.TrimPrefix(content, "\ufeff")
	content = StripControl(content)

	p := &cueParser{state: stateSkipHeader}
	for i, line := range strings.Split(content, "\n") {
		p.feed(i+1, strings.TrimSpace(line))
	}
	p.finish()
	return p.result
}

// ParseFile reads and parses a WebVTT file.
func ParseFile(path string) (ParseResult, error) {
	content, err := utils.ReadTextFile(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to read caption file: %w", err)
	}
	return Parse(content), nil
}

func (p *cueParser) feed(lineNo int, line string) {
	switch p.state {
	case stateSkipHeader, stateExpectTiming:
		if isTimingLine(line) {
			p.openCue(lineNo, line)
			return
		}
		if p.state == stateExpectTiming && line != "" && !isIgnorable(line) {
			utils.LogDebug("caption line %d: skipping stray text %q", lineNo, line)
		}
	case stateCollectText:
		if line == "" {
			p.closeCue()
			p.state = stateExpectTiming
			return
		}
		if clean := strings.TrimSpace(StripControl(line)); clean != "" {
			p.text = append(p.text, clean)
		}
	}
}

func (p *cueParser) openCue(lineNo int, line string) {
	left := strings.TrimSpace(strings.SplitN(line, "-->", 2)[0])
	start, err := parseTimestamp(left)
	if err != nil {
		utils.LogWarning("caption line %d: %v, using 0", lineNo, err)
		p.result.TimestampFailures++
		start = 0
	}
	p.start = start
	p.text = p.text[:0]
	p.state = stateCollectText
}

func (p *cueParser) closeCue() {
	if len(p.text) == 0 {
		return
	}
	p.result.Cues = append(p.result.Cues, Cue{
		Start: p.start,
		Text:  strings.Join(p.text, " "),
	})
	p.text = p.text[:0]
}

func (p *cueParser) finish() {
	if p.state == stateCollectText {
		p.closeCue()
	}
}

func isTimingLine(line string) bool {
	return strings.Contains(line, "-->")
}

func isIgnorable(line string) bool {
	if line == "WEBVTT" || strings.HasPrefix(line, "NOTE") {
		return true
	}
	_, err := strconv.Atoi(line)
	return err == nil
}

// parseTimestamp reads HH:MM:SS.mmm. Timestamps without an hours field are
// rejected.
func parseTimestamp(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timestamp %q is not HH:MM:SS.mmm", ts)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", ts, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", ts, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", ts, err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("seconds in %q are not finite", ts)
	}
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("negative field in %q", ts)
	}
	return float64(hours*3600+minutes*60) + seconds, nil
}
