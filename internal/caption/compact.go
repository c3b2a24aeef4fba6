package caption

import "strings"

// DefaultMaxSegments is the segment budget used when none is configured.
const DefaultMaxSegments = 200

// CompactionRatio returns how many adjacent segments Compact merges into one,
// or 1 when n already fits the budget.
func CompactionRatio(n, budget int) int {
	if budget <= 0 {
		budget = DefaultMaxSegments
	}
	if n <= budget {
		return 1
	}
	return (n + budget - 1) / budget
}

// Compact merges every ratio consecutive segments so the result fits within
// budget. Each merged segment keeps the start time of its first member and
// the trailing partial group is emitted as is. Input that already fits is
// returned as a copy.
func Compact(segs []Segment, budget int) []Segment {
	ratio := CompactionRatio(len(segs), budget)
	if ratio == 1 {
		out := make([]Segment, len(segs))
		copy(out, segs)
		return out
	}

	out := make([]Segment, 0, (len(segs)+ratio-1)/ratio)
	for i := 0; i < len(segs); i += ratio {
		end := i + ratio
		if end > len(segs) {
			end = len(segs)
		}
		texts := make([]string, 0, end-i)
		for _, seg := range segs[i:end] {
			texts = append(texts, seg.Text)
		}
		out = append(out, Segment{
			Start: segs[i].Start,
			Text:  strings.TrimSpace(strings.Join(texts, " ")),
		})
	}
	return out
}
