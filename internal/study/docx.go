package study

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 12
)

// WriteDocx saves the study document as a Word file.
func WriteDocx(path, title string, entries []Entry) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	addRun(doc.AddParagraph(""), title, true, 16)

	for _, e := range entries {
		addRun(doc.AddParagraph(""), fmt.Sprintf("%s [%s]", e.Record.Timestamp, e.Record.ID()), true, 14)
		addRun(doc.AddParagraph(""), e.Record.Sentence, false, 13)

		if e.Notes == nil {
			continue
		}
		addLabeled(doc.AddParagraph(""), "Explanation: ", e.Notes.Explanation)
		addLabeled(doc.AddParagraph(""), "Syntax: ", e.Notes.Syntax)
		for _, gloss := range []struct {
			label string
			items map[string]string
		}{{"Vocabulary", e.Notes.Vocabulary}, {"Phrases", e.Notes.Phrases}} {
			if len(gloss.items) == 0 {
				continue
			}
			addRun(doc.AddParagraph(""), gloss.label, true, fontSize)
			for _, k := range sortedKeys(gloss.items) {
				addLabeled(doc.AddParagraph(""), "• "+k+": ", gloss.items[k])
			}
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addLabeled(p *docx.Paragraph, label, text string) {
	if text == "" {
		return
	}
	p.AddText(label).Font(fontName).Size(fontSize).Color("000000").Bold(true)
	p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
}
