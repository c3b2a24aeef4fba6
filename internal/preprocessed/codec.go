// Package preprocessed reads and writes the line-oriented sentence document
// shared by the preprocess and analyze stages. Each line has the form
//
//	MM:SS [NNN] sentence
package preprocessed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ytkit/ytkit/internal/caption"
	"github.com/ytkit/ytkit/internal/utils"
)

// Record is one parsed sentence line.
type Record struct {
	Sequence  int
	Timestamp string
	Sentence  string

	// rawID keeps the bracket digits as written so ids round-trip with their
	// original padding.
	rawID string
}

// ID returns the sentence id used in prompts and annotation results.
func (r Record) ID() string {
	if r.rawID != "" {
		return r.rawID
	}
	return FormatID(r.Sequence)
}

// ParseStats describes lines that Parse skipped.
type ParseStats struct {
	Lines   int
	Skipped int
}

var recordLine = regexp.MustCompile(`^(\d{2,}:\d{2})\s+\[(\d+)\]\s+(.+)$`)

// FormatTimestamp renders seconds as MM:SS with both fields truncated.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatID zero-pads a sequence number to three digits.
func FormatID(seq int) string {
	return fmt.Sprintf("%03d", seq)
}

// Format serializes segments, numbering them from 1. Lines are joined with
// "\n" and there is no trailing newline.
func Format(segs []caption.Segment) string {
	lines := make([]string, 0, len(segs))
	for i, seg := range segs {
		lines = append(lines, fmt.Sprintf("%s [%s] %s", FormatTimestamp(seg.Start), FormatID(i+1), seg.Text))
	}
	return strings.Join(lines, "\n")
}

// Parse reads records from r. Blank and non-matching lines are skipped and
// counted in the returned stats. Sequence numbers are taken as written, so
// gaps and duplicates pass through.
func Parse(r io.Reader) ([]Record, ParseStats, error) {
	var (
		records []Record
		stats   ParseStats
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		stats.Lines++

		m := recordLine.FindStringSubmatch(line)
		if m == nil {
			stats.Skipped++
			utils.LogDebug("skipping malformed preprocessed line %q", line)
			continue
		}
		seq, err := strconv.Atoi(m[2])
		if err != nil {
			stats.Skipped++
			utils.LogDebug("skipping preprocessed line with oversized id %q", line)
			continue
		}
		records = append(records, Record{
			Sequence:  seq,
			Timestamp: m[1],
			Sentence:  m[3],
			rawID:     m[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("failed to read preprocessed document: %w", err)
	}
	return records, stats, nil
}

// ReadFile parses the document at path.
func ReadFile(path string) ([]Record, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("failed to open preprocessed document: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			utils.LogWarning("Failed to close file: %v", err)
		}
	}()

	return Parse(f)
}

// WriteFile serializes segs to path.
func WriteFile(path string, segs []caption.Segment) error {
	if err := utils.WriteTextFile(path, Format(segs)); err != nil {
		return fmt.Errorf("failed to write preprocessed document: %w", err)
	}
	return nil
}
