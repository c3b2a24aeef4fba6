package annotate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Result is the annotation of one sentence. The object the model returned is
// kept so keys this type does not know survive a write.
type Result struct {
	ID          string
	Sentence    string
	Explanation string
	Syntax      string
	Vocabulary  map[string]string
	Phrases     map[string]string

	raw json.RawMessage
}

type resultJSON struct {
	ID          string            `json:"id"`
	Sentence    string            `json:"sentence,omitempty"`
	Explanation string            `json:"explanation"`
	Syntax      string            `json:"syntax"`
	Vocabulary  map[string]string `json:"vocabulary"`
	Phrases     map[string]string `json:"phrases"`
}

// Sequence parses the id as a number. It returns false for non-numeric ids.
func (r Result) Sequence() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.ID))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Raw returns the object as received, or nil for results built in code.
func (r Result) Raw() json.RawMessage { return r.raw }

// MarshalJSON writes the original object when there is one.
func (r Result) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(resultJSON{
		ID:          r.ID,
		Sentence:    r.Sentence,
		Explanation: r.Explanation,
		Syntax:      r.Syntax,
		Vocabulary:  r.Vocabulary,
		Phrases:     r.Phrases,
	})
}

// UnmarshalJSON reads one object leniently: numeric ids are accepted and
// non-string glossary values are kept as their JSON text.
func (r *Result) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("annotation is null")
	}

	*r = Result{
		ID:          scalarString(fields["id"]),
		Sentence:    scalarString(fields["sentence"]),
		Explanation: scalarString(fields["explanation"]),
		Syntax:      scalarString(fields["syntax"]),
		Vocabulary:  glossary(fields["vocabulary"]),
		Phrases:     glossary(fields["phrases"]),
		raw:         append(json.RawMessage(nil), bytes.TrimSpace(data)...),
	}
	return nil
}

func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func glossary(raw json.RawMessage) map[string]string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = scalarString(v)
	}
	return out
}
