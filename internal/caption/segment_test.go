package caption

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"[Music] Hello   there":      "Hello there",
		"  spaced\tout \n text  ":    "spaced out text",
		"[Applause][Laughter]":       "",
		"keep (parens) [drop] this": "keep (parens) this",
		"":                           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello there. How are you? Fine!", []string{"Hello there.", "How are you?", "Fine!"}},
		{"no terminator here", []string{"no terminator here"}},
		{"Wait... what", []string{"Wait...", "what"}},
		{"3.5 percent", []string{"3.5 percent"}},
		{"Trailing.", []string{"Trailing."}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.in))
		})
	}
}

func TestStep(t *testing.T) {
	st := segmentState{}

	st = step(st, 1, "So the thing")
	require.NotNil(t, st.open)
	assert.Equal(t, 1.0, st.open.Start)
	assert.Empty(t, st.out)

	st = step(st, 2, "is done.")
	assert.Nil(t, st.open)
	require.Len(t, st.out, 1)
	assert.Equal(t, Segment{Start: 1, Text: "So the thing is done."}, st.out[0])

	st = step(st, 3, "Dangling")
	out := flush(st)
	require.Len(t, out, 2)
	assert.Equal(t, Segment{Start: 3, Text: "Dangling"}, out[1])
}

func TestSegmentExample(t *testing.T) {
	cues := []Cue{
		{Start: 0, Text: "Hello there."},
		{Start: 2, Text: "[Music]"},
		{Start: 3, Text: "Yes"},
	}

	got := NewSegmenter(0, 0).Segment(cues)

	assert.Equal(t, []Segment{{Start: 0, Text: "Hello there. Yes"}}, got)
}

func TestSegmentMergesAcrossCues(t *testing.T) {
	cues := []Cue{
		{Start: 10, Text: "I think we should"},
		{Start: 12, Text: "go to the park today. It looks"},
		{Start: 15, Text: "like a lovely afternoon!"},
	}

	got := NewSegmenter(0, 0).Segment(cues)

	assert.Equal(t, []Segment{
		{Start: 10, Text: "I think we should go to the park today."},
		{Start: 12, Text: "It looks like a lovely afternoon!"},
	}, got)
}

func TestSegmentFirstShortSegmentIsKept(t *testing.T) {
	cues := []Cue{
		{Start: 0, Text: "Hi."},
		{Start: 1, Text: "This is a longer sentence."},
	}

	got := NewSegmenter(0, 0).Segment(cues)

	require.Len(t, got, 2)
	assert.Equal(t, "Hi.", got[0].Text)
}

func TestSegmentEmptyInput(t *testing.T) {
	assert.Empty(t, NewSegmenter(0, 0).Segment(nil))
	assert.Empty(t, NewSegmenter(0, 0).Segment([]Cue{{Start: 1, Text: "[Music]"}}))
}

func TestSegmentShortThresholdCountsRunes(t *testing.T) {
	// Seven runes but twelve bytes.
	cues := []Cue{
		{Start: 0, Text: "The first sentence is long enough."},
		{Start: 5, Text: "éé ééé."},
	}

	got := NewSegmenter(8, 2).Segment(cues)

	require.Len(t, got, 1)
	assert.Equal(t, "The first sentence is long enough. éé ééé.", got[0].Text)
}

func TestSegmentInvariants(t *testing.T) {
	var cues []Cue
	for i := 0; i < 300; i++ {
		text := fmt.Sprintf("word%d and more", i)
		switch i % 4 {
		case 0:
			text += "."
		case 1:
			text = "Ok."
		case 2:
			text = "[Music]"
		}
		cues = append(cues, Cue{Start: float64(i) * 1.5, Text: text})
	}

	seg := NewSegmenter(0, 0)
	got := seg.Segment(cues)
	require.NotEmpty(t, got)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Start, got[i].Start, "timestamps must be non-decreasing")
		short := utf8.RuneCountInString(got[i].Text) < DefaultMinChars || len(strings.Fields(got[i].Text)) < DefaultMinWords
		assert.False(t, short, "segment %d is an orphan short segment: %q", i, got[i].Text)
	}
}
