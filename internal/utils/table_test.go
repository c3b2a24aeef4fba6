package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Artifact", "Size"}, [][]string{{"abc.en.vtt", "1.2 kB"}, {"short"}}, []ColumnAlignment{AlignLeft, AlignRight})

	assert.Contains(t, out, "Artifact")
	assert.Contains(t, out, "abc.en.vtt")
	assert.Contains(t, out, "1.2 kB")
	assert.Equal(t, "", RenderTable(nil, nil, nil))
}

func TestRenderMarkdownTable(t *testing.T) {
	out := RenderMarkdownTable([]string{"Word", "Gloss"}, [][]string{{"advance", "提前"}})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "|"))
	assert.Contains(t, out, "advance")
	assert.Contains(t, out, "提前")
}
