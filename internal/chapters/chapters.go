// Package chapters splits a caption track into titled chapters and renders
// them as a Markdown transcript.
package chapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ytkit/ytkit/internal/annotate"
	"github.com/ytkit/ytkit/internal/caption"
	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/preprocessed"
	"github.com/ytkit/ytkit/internal/services/llm"
	"github.com/ytkit/ytkit/internal/utils"
)

// OfflineChapterSize is the number of cues per chapter in offline mode.
const OfflineChapterSize = 30

// SystemPrompt is the system message of the chaptering request.
const SystemPrompt = "You are a professional video subtitle analyst who structures transcripts into chapters by meaning and timeline."

// Entry is one table-of-contents line.
type Entry struct {
	Time  string `json:"time"`
	Title string `json:"title"`
}

// Chapter is a titled block of transcript text.
type Chapter struct {
	Time    string `json:"time"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Document is the chaptered transcript.
type Document struct {
	TOC      []Entry   `json:"toc"`
	Chapters []Chapter `json:"chapters"`
}

// Transcript renders cues as "MM:SS text" lines.
func Transcript(cues []caption.Cue) string {
	lines := make([]string, 0, len(cues))
	for _, c := range cues {
		lines = append(lines, preprocessed.FormatTimestamp(c.Start)+" "+c.Text)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt returns the chaptering prompt for cues.
func BuildPrompt(cues []caption.Cue) string {
	var sb strings.Builder
	sb.WriteString(`Analyze the following YouTube subtitles. Divide them into chapters by meaning and timeline and produce a structured document.

Requirements:
1. Split paragraphs by timeline and semantic content
2. Every chapter has a clear topic
3. Produce a table of contents and a body
4. Titles use the form "English Title - Simplified Chinese translation"
5. Chapter content is the verbatim subtitle text of that chapter
6. Return strict JSON with these fields:
{
  "toc": [
    {"time": "00:00", "title": "English Title - 中文翻译"}
  ],
  "chapters": [
    {"time": "00:00", "title": "English Title - 中文翻译", "content": "chapter text"}
  ]
}

Subtitles:
`)
	sb.WriteString(Transcript(cues))
	sb.WriteString("\n\nReturn only the JSON object. It must be strictly valid JSON.")
	return sb.String()
}

// Generator asks an LLM for chapters.
type Generator struct {
	Client      llm.Client
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Generate sends every cue in one request and decodes the chapter object.
func (g *Generator) Generate(ctx context.Context, cues []caption.Cue) (*Document, error) {
	temperature := g.Temperature
	if temperature == 0 {
		temperature = config.DefaultTemperature
	}
	maxTokens := g.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultTimeoutSeconds) * time.Second
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := g.Client.Complete(callCtx, llm.Request{
		Model:       g.Model,
		System:      SystemPrompt,
		Prompt:      BuildPrompt(cues),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}
	return Decode(reply)
}

// Decode extracts the chapter object from an LLM reply.
func Decode(reply string) (*Document, error) {
	payload := annotate.ExtractJSON(reply)
	if !strings.HasPrefix(payload, "{") {
		return nil, &annotate.SchemaError{Got: "no JSON object", Preview: annotate.Preview(reply)}
	}

	var doc Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		utils.LogError("Unparseable chapter reply: %s", annotate.Preview(reply))
		return nil, &annotate.DecodeError{Err: err, Preview: annotate.Preview(reply)}
	}
	if len(doc.TOC) == 0 && len(doc.Chapters) > 0 {
		for _, ch := range doc.Chapters {
			doc.TOC = append(doc.TOC, Entry{Time: ch.Time, Title: ch.Title})
		}
	}
	return &doc, nil
}

// Offline groups cues into fixed-size chapters without an LLM.
func Offline(cues []caption.Cue) *Document {
	doc := &Document{TOC: []Entry{}, Chapters: []Chapter{}}
	for start := 0; start < len(cues); start += OfflineChapterSize {
		end := min(start+OfflineChapterSize, len(cues))

		texts := make([]string, 0, end-start)
		for _, c := range cues[start:end] {
			texts = append(texts, c.Text)
		}

		title := "Opening Introduction"
		if n := len(doc.Chapters); n > 0 {
			title = fmt.Sprintf("Chapter %d", n+1)
		}
		ch := Chapter{
			Time:    preprocessed.FormatTimestamp(cues[start].Start),
			Title:   title,
			Content: strings.Join(texts, " "),
		}
		doc.Chapters = append(doc.Chapters, ch)
		doc.TOC = append(doc.TOC, Entry{Time: ch.Time, Title: ch.Title})
	}
	return doc
}
