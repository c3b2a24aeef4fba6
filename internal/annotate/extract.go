package annotate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ytkit/ytkit/internal/caption"
)

// PreviewLimit bounds the reply excerpt carried by decode errors.
const PreviewLimit = 500

// SchemaError is a well-formed reply with the wrong shape.
type SchemaError struct {
	Got     string
	Preview string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("expected a JSON array of objects, got %s: %s", e.Got, e.Preview)
}

// DecodeError is a reply that could not be decoded as JSON.
type DecodeError struct {
	Err     error
	Preview string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON in LLM reply: %v: %s", e.Err, e.Preview)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExtractJSON cuts the reply down to the span between the first opening
// bracket and the last matching closing bracket, then removes control
// characters. Replies without any bracket are returned trimmed.
func ExtractJSON(content string) string {
	start := strings.IndexAny(content, "{[")
	if start < 0 {
		return strings.TrimSpace(caption.StripControl(content))
	}
	closer := "}"
	if content[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(content, closer)
	if end < start {
		return strings.TrimSpace(caption.StripControl(content[start:]))
	}
	return strings.TrimSpace(caption.StripControl(content[start : end+1]))
}

// Preview collapses whitespace and truncates s to PreviewLimit runes.
func Preview(s string) string {
	clean := strings.Join(strings.Fields(s), " ")
	if clean == "" {
		return "<empty>"
	}
	runes := []rune(clean)
	if len(runes) > PreviewLimit {
		return string(runes[:PreviewLimit]) + "..."
	}
	return clean
}

// DecodeResults extracts and decodes a reply that must be a JSON array of
// annotation objects.
func DecodeResults(content string) ([]Result, error) {
	payload := ExtractJSON(content)

	var top json.RawMessage
	if err := json.Unmarshal([]byte(payload), &top); err != nil {
		return nil, &DecodeError{Err: err, Preview: Preview(content)}
	}

	if kind := jsonKind(top); kind != "array" {
		return nil, &SchemaError{Got: kind, Preview: Preview(content)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(top, &items); err != nil {
		return nil, &DecodeError{Err: err, Preview: Preview(content)}
	}

	results := make([]Result, 0, len(items))
	for i, item := range items {
		if kind := jsonKind(item); kind != "object" {
			return nil, &SchemaError{Got: fmt.Sprintf("%s at index %d", kind, i), Preview: Preview(content)}
		}
		var r Result
		if err := json.Unmarshal(item, &r); err != nil {
			return nil, &DecodeError{Err: err, Preview: Preview(content)}
		}
		results = append(results, r)
	}
	return results, nil
}

func jsonKind(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '[':
		return "array"
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
