package annotate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ytkit/ytkit/internal/config"
	"github.com/ytkit/ytkit/internal/preprocessed"
)

// SystemPrompt is sent as the system message of every annotation request.
const SystemPrompt = "You are a professional English grammar and vocabulary analysis assistant. Output strictly valid JSON."

// languagePlaceholder is replaced with the explanation language in templates.
const languagePlaceholder = "{{language}}"

const defaultTemplate = `You are an English teaching expert. Analyze the English sentences listed below one by one, taking my current level into account. Return a JSON array with one object per sentence and these fields:

- id: the sentence number exactly as given (for example "001")
- sentence: the original sentence
- explanation: the meaning and context of the sentence in {{language}}, including the speaker's mood and intent
- syntax: the concrete grammatical structures in plain {{language}}, naming object clauses, non-finite verb forms, modal structures, comparative adverbials and cleft sentences where present; avoid vague labels such as "compound sentence"
- vocabulary: an object of upper-intermediate words in the sentence (CEFR B2 or above, or words whose meaning or usage is easily confused); the key is the word and the value is "IPA, part of speech, CEFR level, meaning in {{language}}"
- phrases: an object of collocations, phrasal verbs, spoken expressions and common sentence patterns worth learning; the key is the phrase and the value explains it in {{language}}

My English background:
- a vocabulary of about 5000 words, with A1 to B1 words mostly mastered;
- phrasal verbs, sentence structure and spoken expressions are my weak points;
- I want to improve my understanding of syntax and of real-world usage.

Do not list basic words I already know (such as fun, love, kind, idea).

You must return a strict JSON array:
1. It must be a valid JSON array
2. Do not include any explanatory text
3. Do not use markdown
4. Output the JSON array directly

Example:
[
  {
    "id": "005",
    "sentence": "Like I know in advance kind of what I want to do. But to be honest, I have no idea what I'm going to do today.",
    "explanation": "She usually has some plan in advance, but today she has none; the tone is mildly anxious yet relaxed.",
    "syntax": "The first clause contains an object clause (what I want to do) introduced by the filler 'like'; the second is a main clause with a what-object clause.",
    "vocabulary": {
      "no idea": "/nəʊ aɪˈdɪə/, phrase, B2, having no clue at all"
    },
    "phrases": {
      "in advance": "beforehand, used when planning or preparing",
      "kind of": "somewhat, softens the statement",
      "to be honest": "frankly, introduces a sincere feeling or a contrast"
    }
  }
]`

const closingInstruction = "Output the JSON array directly, with nothing else."

// PromptBuilder renders the annotation prompt for one batch.
type PromptBuilder struct {
	template string
	language string
}

// NewPromptBuilder returns a builder. An empty template selects the built-in
// one and an empty language selects config.DefaultExplanationLang.
func NewPromptBuilder(template, language string) *PromptBuilder {
	if strings.TrimSpace(template) == "" {
		template = defaultTemplate
	}
	if strings.TrimSpace(language) == "" {
		language = config.DefaultExplanationLang
	}
	return &PromptBuilder{template: template, language: language}
}

// Build returns the full prompt for records. It has no side effects.
func (b *PromptBuilder) Build(records []preprocessed.Record) string {
	var sb strings.Builder
	sb.WriteString(strings.ReplaceAll(b.template, languagePlaceholder, b.language))
	sb.WriteString("\n\nSentences:\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "%s %s\n", r.ID(), r.Sentence)
	}
	sb.WriteString("\n")
	sb.WriteString(closingInstruction)
	return sb.String()
}

// LoadTemplate reads a prompt template. YAML files are rendered from their
// structured sections, anything else is used verbatim. An empty path returns
// an empty template.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt template: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return formatYAMLPrompt(data)
	}
	return string(data), nil
}

type promptFile struct {
	Title   string `yaml:"title"`
	Role    string `yaml:"role"`
	Context struct {
		Description    string   `yaml:"description"`
		LearnerProfile []string `yaml:"learner_profile"`
		ErrorSources   []string `yaml:"error_sources"`
	} `yaml:"context"`
	Instructions struct {
		Description string   `yaml:"description"`
		Tasks       []string `yaml:"tasks"`
		Examples    []string `yaml:"examples"`
	} `yaml:"instructions"`
	Guidelines       []string `yaml:"important_guidelines"`
	FinalInstruction string   `yaml:"final_instruction"`
}

// formatYAMLPrompt parses a YAML prompt template and formats it as text
func formatYAMLPrompt(yamlData []byte) (string, error) {
	var pf promptFile
	if err := yaml.Unmarshal(yamlData, &pf); err != nil {
		return "", fmt.Errorf("failed to parse YAML prompt template: %w", err)
	}

	var result strings.Builder

	if pf.Title != "" {
		result.WriteString("# " + pf.Title + "\n\n")
	}
	if pf.Role != "" {
		result.WriteString("You are " + pf.Role + ". ")
	}

	if pf.Context.Description != "" {
		result.WriteString(pf.Context.Description + "\n")
	}
	for _, group := range [][]string{pf.Context.LearnerProfile, pf.Context.ErrorSources} {
		if len(group) == 0 {
			continue
		}
		for _, item := range group {
			result.WriteString("- " + item + "\n")
		}
		result.WriteString("\n")
	}

	if pf.Instructions.Description != "" {
		result.WriteString(pf.Instructions.Description + "\n")
	}
	if len(pf.Instructions.Tasks) > 0 {
		for i, task := range pf.Instructions.Tasks {
			result.WriteString(fmt.Sprintf("%d. %s\n", i+1, task))
		}
		result.WriteString("\n")
	}
	if len(pf.Instructions.Examples) > 0 {
		for _, example := range pf.Instructions.Examples {
			result.WriteString("   - Example: " + example + "\n")
		}
		result.WriteString("\n")
	}

	if len(pf.Guidelines) > 0 {
		result.WriteString("Important:\n")
		for _, guideline := range pf.Guidelines {
			result.WriteString("- " + guideline + "\n")
		}
		result.WriteString("\n")
	}

	if pf.FinalInstruction != "" {
		result.WriteString(pf.FinalInstruction + "\n")
	}

	return strings.TrimRight(result.String(), "\n"), nil
}
