package caption

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVTT = `WEBVTT
Kind: captions
Language: en

NOTE generated by a test

1
00:00:01.500 --> 00:00:03.000 align:start position:0%
Hello there.

2
00:01:05.000 --> 00:01:07.250
Good morning
everyone.

00:02:00.000 --> 00:02:01.000

00:03:00.000 --> 00:03:02.000
[Music]
`

func TestParse(t *testing.T) {
	res := Parse(sampleVTT)

	require.Len(t, res.Cues, 3)
	assert.Equal(t, Cue{Start: 1.5, Text: "Hello there."}, res.Cues[0])
	assert.Equal(t, Cue{Start: 65, Text: "Good morning everyone."}, res.Cues[1])
	assert.Equal(t, Cue{Start: 180, Text: "[Music]"}, res.Cues[2])
	assert.Zero(t, res.TimestampFailures)

	first, last := res.TimeRange()
	assert.Equal(t, 1.5, first)
	assert.Equal(t, 180.0, last)
}

func TestParseDropsCueWithoutText(t *testing.T) {
	res := Parse("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n\n00:00:03.000 --> 00:00:04.000\nText\n")

	require.Len(t, res.Cues, 1)
	assert.Equal(t, 3.0, res.Cues[0].Start)
}

func TestParseStripsControlCharacters(t *testing.T) {
	res := Parse("WEBVTT\r\n\r\n00:00:01.000 --> 00:00:02.000\r\nHel\x00lo\x07 wor\x1bld\x7f\r\n")

	require.Len(t, res.Cues, 1)
	assert.Equal(t, "Hello world", res.Cues[0].Text)
}

func TestParseTimestampWithoutHours(t *testing.T) {
	res := Parse("WEBVTT\n\n01:05.000 --> 01:07.000\nShort form timestamp.\n")

	require.Len(t, res.Cues, 1)
	assert.Equal(t, 0.0, res.Cues[0].Start)
	assert.Equal(t, 1, res.TimestampFailures)
}

func TestParseNonFiniteTimestamp(t *testing.T) {
	res := Parse("WEBVTT\n\n00:00:NaN --> 00:00:02.000\nHello there friend.\n")

	require.Len(t, res.Cues, 1)
	assert.Equal(t, 0.0, res.Cues[0].Start)
	assert.Equal(t, 1, res.TimestampFailures)
}

func TestStripControlRemovesCarriageReturn(t *testing.T) {
	assert.Equal(t, "a\tb\nc", StripControl("a\r\tb\r\nc\x00"))
}

func TestParseNoCues(t *testing.T) {
	for _, input := range []string{"", "WEBVTT\n\n", "WEBVTT\nKind: captions\n\nNOTE nothing here\n"} {
		res := Parse(input)
		assert.True(t, res.Empty(), "input %q", input)
	}
}

func TestParseLeadingBOM(t *testing.T) {
	res := Parse("\ufeffWEBVTT\n\n00:00:02.000 --> 00:00:03.000\nHi there.\n")

	require.Len(t, res.Cues, 1)
	assert.Equal(t, 2.0, res.Cues[0].Start)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "00:00:00.000", want: 0},
		{in: "01:02:03.500", want: 3723.5},
		{in: "00:10:00", want: 600},
		{in: "10:00.000", wantErr: true},
		{in: "aa:00:00.000", wantErr: true},
		{in: "00:bb:00.000", wantErr: true},
		{in: "00:00:cc", wantErr: true},
		{in: "00:00:NaN", wantErr: true},
		{in: "00:00:Inf", wantErr: true},
		{in: "00:00:-Inf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abc.en.vtt")
	require.NoError(t, os.WriteFile(path, []byte(sampleVTT), 0644))

	res, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, res.Cues, 3)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.vtt"))
	assert.Error(t, err)
}

func TestParseStateString(t *testing.T) {
	assert.Equal(t, "skip-header", stateSkipHeader.String())
	assert.Equal(t, "expect-timing", stateExpectTiming.String())
	assert.Equal(t, "collect-text", stateCollectText.String())
}
