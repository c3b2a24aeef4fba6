package caption

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ytkit/ytkit/internal/utils"
)

const (
	DefaultMinChars = 8
	DefaultMinWords = 2
)

// Segment is sentence-bounded text anchored at the start time of the first
// cue that contributed to it.
type Segment struct {
	Start float64
	Text  string
}

// Segmenter merges cues into sentences and folds short fragments into the
// sentence before them.
type Segmenter struct {
	MinChars int
	MinWords int
}

// NewSegmenter returns a Segmenter. Non-positive thresholds fall back to the
// defaults.
func NewSegmenter(minChars, minWords int) Segmenter {
	if minChars <= 0 {
		minChars = DefaultMinChars
	}
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	return Segmenter{MinChars: minChars, MinWords: minWords}
}

// segmentState is the accumulator of the sentence fold.
type segmentState struct {
	open *Segment
	out  []Segment
}

// step feeds one sentence piece into the fold. A piece ending in a
// terminator closes the open segment.
func step(st segmentState, start float64, piece string) segmentState {
	if st.open == nil {
		st.open = &Segment{Start: start, Text: piece}
	} else {
		st.open = &Segment{Start: st.open.Start, Text: st.open.Text + " " + piece}
	}
	if endsSentence(st.open.Text) {
		st.out = append(st.out, *st.open)
		st.open = nil
	}
	return st
}

// flush emits an unterminated open segment.
func flush(st segmentState) []Segment {
	if st.open != nil {
		st.out = append(st.out, *st.open)
		st.open = nil
	}
	return st.out
}

// Segment runs the sentence fold over cues and then absorbs short segments.
func (s Segmenter) Segment(cues []Cue) []Segment {
	st := segmentState{}
	for _, cue := range cues {
		text := Normalize(cue.Text)
		if text == "" {
			continue
		}
		for _, piece := range splitSentences(text) {
			st = step(st, cue.Start, piece)
		}
	}
	return s.absorbShort(flush(st))
}

// absorbShort appends every short segment to the previously accepted one.
// The first segment is always kept, and absorbed start times are dropped.
func (s Segmenter) absorbShort(segs []Segment) []Segment {
	final := make([]Segment, 0, len(segs))
	for _, seg := range segs {
		if len(final) > 0 && s.isShort(seg.Text) {
			last := &final[len(final)-1]
			utils.LogDebug("absorbing short segment %q (%.3fs) into segment at %.3fs", seg.Text, seg.Start, last.Start)
			last.Text += " " + seg.Text
			continue
		}
		final = append(final, seg)
	}
	return final
}

func (s Segmenter) isShort(text string) bool {
	return utf8.RuneCountInString(text) < s.MinChars || len(strings.Fields(text)) < s.MinWords
}

func endsSentence(text string) bool {
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "?") || strings.HasSuffix(text, "!")
}

func isTerminator(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// splitSentences splits text at every whitespace run that directly follows
// a terminator. Terminators stay attached to the preceding piece and empty
// pieces are dropped.
func splitSentences(text string) []string {
	var pieces []string
	add := func(p string) {
		if p = strings.TrimSpace(p); p != "" {
			pieces = append(pieces, p)
		}
	}

	start := 0
	prevTerminator := false
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if prevTerminator && unicode.IsSpace(r) {
			add(text[start:i])
			j := i
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			start, i = j, j
			prevTerminator = false
			continue
		}
		prevTerminator = isTerminator(r)
		i += size
	}
	add(text[start:])
	return pieces
}
