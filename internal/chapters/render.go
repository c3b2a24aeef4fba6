package chapters

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ytkit/ytkit/internal/utils"
)

var (
	fenceMarkers = regexp.MustCompile("```(?:text)?")
	repeatedDots = regexp.MustCompile(`\.{2,}`)
)

// Title normalizes a chapter title. Empty titles become "Untitled".
func Title(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "Untitled"
	}
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.English, cases.NoLower).String(s)
}

// SentenceLines puts every sentence of text on its own line.
func SentenceLines(text string) string {
	text = fenceMarkers.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")
	text = repeatedDots.ReplaceAllString(text, ".")

	var lines []string
	var cur strings.Builder
	for _, r := range text {
		cur.WriteRune(r)
		if r == '.' || r == '?' || r == '!' {
			if line := strings.TrimSpace(cur.String()); line != "" {
				lines = append(lines, line)
			}
			cur.Reset()
		}
	}
	if line := strings.TrimSpace(cur.String()); line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Markdown renders the table of contents followed by every chapter in a
// text block.
func Markdown(doc *Document) string {
	lines := []string{"## Table of Contents"}
	for _, e := range doc.TOC {
		lines = append(lines, fmt.Sprintf("- %s %s", e.Time, Title(e.Title)))
	}
	lines = append(lines, "## Content")
	for _, ch := range doc.Chapters {
		lines = append(lines,
			fmt.Sprintf("### %s %s", ch.Time, Title(ch.Title)),
			"```text",
			SentenceLines(ch.Content),
			"```",
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// WriteJSON stores the document next to its Markdown rendering.
func WriteJSON(path string, doc *Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			utils.LogWarning("Failed to close %s: %v", path, cerr)
		}
	}()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode chapters: %w", err)
	}
	return w.Flush()
}
