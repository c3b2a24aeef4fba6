// Package subtitles combines two caption tracks into one bilingual VTT file.
package subtitles

import (
	"fmt"
	"strings"

	"github.com/ytkit/ytkit/internal/caption"
	"github.com/ytkit/ytkit/internal/utils"
)

// Block is one VTT cue with its timing line kept verbatim.
type Block struct {
	Timing string
	Lines  []string
}

// ParseBlocks splits VTT text into cues. Header, NOTE and identifier lines
// are dropped; blocks without a timing line are ignored.
func ParseBlocks(content string) []Block {
	content = caption.StripControl(strings.TrimPrefix(content, "\ufeff"))
	content = strings.ReplaceAll(content, "\r", "")

	var blocks []Block
	for _, chunk := range strings.Split(content, "\n\n") {
		var b Block
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case line == "":
			case b.Timing == "" && strings.Contains(line, "-->"):
				b.Timing = line
			case b.Timing != "":
				b.Lines = append(b.Lines, line)
			}
		}
		if b.Timing != "" && len(b.Lines) > 0 {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Merge pairs cues by position: each output cue keeps the primary timing and
// text followed by the secondary text at the same index.
func Merge(primary, secondary []Block) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for i, b := range primary {
		fmt.Fprintf(&sb, "%d\n%s\n%s\n", i+1, b.Timing, strings.Join(b.Lines, "\n"))
		if i < len(secondary) {
			sb.WriteString(strings.Join(secondary[i].Lines, "\n") + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// MergeFiles writes the bilingual track to out. It returns false without
// error when out already exists or an input is missing.
func MergeFiles(primaryPath, secondaryPath, out string) (bool, error) {
	if exists, err := utils.FileExists(out); err != nil || exists {
		if exists {
			utils.LogVerbose("Bilingual subtitles already exist, skipping: %s", out)
		}
		return false, err
	}
	for _, in := range []string{primaryPath, secondaryPath} {
		exists, err := utils.FileExists(in)
		if err != nil {
			return false, err
		}
		if !exists {
			utils.LogWarning("Subtitle file not found, skipping bilingual merge: %s", in)
			return false, nil
		}
	}

	primary, err := utils.ReadTextFile(primaryPath)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", primaryPath, err)
	}
	secondary, err := utils.ReadTextFile(secondaryPath)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", secondaryPath, err)
	}

	pb, sb := ParseBlocks(primary), ParseBlocks(secondary)
	if len(pb) != len(sb) {
		utils.LogWarning("Subtitle tracks differ in length (%d vs %d cues); pairing by position", len(pb), len(sb))
	}

	if err := utils.WriteTextFile(out, Merge(pb, sb)); err != nil {
		return false, fmt.Errorf("failed to write bilingual subtitles: %w", err)
	}
	return true, nil
}
