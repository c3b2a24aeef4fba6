// Package study joins sentences with their annotations and renders the
// study document as Markdown and DOCX.
package study

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ytkit/ytkit/internal/annotate"
	"github.com/ytkit/ytkit/internal/preprocessed"
	"github.com/ytkit/ytkit/internal/utils"
)

// Entry is one sentence with its annotation, if the model returned one.
type Entry struct {
	Record preprocessed.Record
	Notes  *annotate.Result
}

// Join matches results to records by numeric id, falling back to the exact
// id string. It returns the entries in record order and the number of
// records left without notes.
func Join(records []preprocessed.Record, results []annotate.Result) ([]Entry, int) {
	bySeq := make(map[int]*annotate.Result, len(results))
	byID := make(map[string]*annotate.Result, len(results))
	for i := range results {
		r := &results[i]
		if seq, ok := r.Sequence(); ok {
			bySeq[seq] = r
		}
		byID[strings.TrimSpace(r.ID)] = r
	}

	entries := make([]Entry, 0, len(records))
	missing := 0
	for _, rec := range records {
		notes, ok := bySeq[rec.Sequence]
		if !ok {
			notes, ok = byID[rec.ID()]
		}
		if !ok {
			missing++
		}
		entries = append(entries, Entry{Record: rec, Notes: notes})
	}
	return entries, missing
}

// Markdown renders the study document.
func Markdown(title string, entries []Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	for _, e := range entries {
		fmt.Fprintf(&sb, "### %s [%s]\n\n", e.Record.Timestamp, e.Record.ID())
		fmt.Fprintf(&sb, "> %s\n\n", e.Record.Sentence)

		if e.Notes == nil {
			continue
		}
		if e.Notes.Explanation != "" {
			fmt.Fprintf(&sb, "**Explanation:** %s\n\n", e.Notes.Explanation)
		}
		if e.Notes.Syntax != "" {
			fmt.Fprintf(&sb, "**Syntax:** %s\n\n", e.Notes.Syntax)
		}
		writeGlossary(&sb, "Vocabulary", "Word", e.Notes.Vocabulary)
		writeGlossary(&sb, "Phrases", "Phrase", e.Notes.Phrases)
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeGlossary(sb *strings.Builder, heading, keyHeader string, gloss map[string]string) {
	if len(gloss) == 0 {
		return
	}
	keys := sortedKeys(gloss)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, gloss[k]})
	}
	fmt.Fprintf(sb, "**%s**\n\n%s\n\n", heading, utils.RenderMarkdownTable([]string{keyHeader, "Notes"}, rows))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
