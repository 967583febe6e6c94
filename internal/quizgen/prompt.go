package quizgen

import (
	"fmt"
	"strings"
)

// BatchSize is the number of questions requested per generation call.
const BatchSize = 10

// ExplanationLanguage is the language explanations are written in. It does
// not follow the UI locale.
const ExplanationLanguage = "Japanese"

// SystemPrompt is sent as the system message by providers that support one.
const SystemPrompt = "You are an AI assistant that generates English multiple-choice questions in JSON format."

// Difficulty selects the CEFR level of a batch.
type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Advanced
)

// DefaultDifficulty is used when a label cannot be parsed.
const DefaultDifficulty = Intermediate

// Difficulties lists every level in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// Level returns the proficiency tag used in the prompt, e.g. "CEFR B1".
func (d Difficulty) Level() string {
	switch d {
	case Beginner:
		return "CEFR A2"
	case Advanced:
		return "CEFR B2"
	default:
		return "CEFR B1"
	}
}

// Label returns the display label, e.g. "Intermediate (B1)".
func (d Difficulty) Label() string {
	switch d {
	case Beginner:
		return "Beginner (A2)"
	case Advanced:
		return "Advanced (B2)"
	default:
		return "Intermediate (B1)"
	}
}

// Name returns the bare lowercase name, e.g. "intermediate".
func (d Difficulty) Name() string {
	switch d {
	case Beginner:
		return "beginner"
	case Advanced:
		return "advanced"
	default:
		return "intermediate"
	}
}

func (d Difficulty) String() string { return d.Label() }

// ParseDifficulty accepts a display label ("Advanced (B2)"), a bare name
// ("advanced") or a CEFR code ("b2"), case-insensitively. Anything else maps
// to DefaultDifficulty.
func ParseDifficulty(s string) Difficulty {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Difficulties() {
		code := strings.ToLower(strings.TrimPrefix(d.Level(), "CEFR "))
		if key == strings.ToLower(d.Label()) || key == d.Name() || key == code {
			return d
		}
	}
	return DefaultDifficulty
}

// BuildPrompt returns the user message requesting one batch of questions.
func BuildPrompt(d Difficulty, hint string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple-choice English grammar and simple sentence completion questions ", BatchSize)
	fmt.Fprintf(&b, "for English learners at the %s level. ", d.Level())
	b.WriteString("Focus on common grammar points like tenses, phrasal verbs, prepositions, articles, and basic sentence structure.\n\n")

	b.WriteString("Provide the output strictly as a JSON array of objects. Each object must have the following keys:\n")
	b.WriteString(`- "question": The question text (string). For sentence completion, use "..." to indicate the blank.` + "\n")
	b.WriteString(`- "options": An array of 4 strings representing the choices.` + "\n")
	b.WriteString(`- "answer": The index (starting from 1) of the correct option in the "options" array (integer).` + "\n")
	fmt.Fprintf(&b, `- "explanation": A brief explanation of why the answer is correct and why the others are not (string). Write the explanation in %s. 解説内容 (explanation) は日本語で記述してください。`+"\n", ExplanationLanguage)

	if hint = strings.TrimSpace(hint); hint != "" {
		fmt.Fprintf(&b, "\nAdditionally, consider the following request for the questions: %s\n", hint)
	}

	b.WriteString("\nExample format for one question object:\n")
	b.WriteString(exampleQuestion)

	fmt.Fprintf(&b, "\n\nEnsure you provide exactly %d distinct question objects in the JSON array. ", BatchSize)
	b.WriteString("Output only the raw JSON array, with no text before or after it and no markdown code fences.")

	return b.String()
}

const exampleQuestion = `{
  "question": "She ___ watching TV when I arrived.",
  "options": ["is", "was", "be", "are"],
  "answer": 2,
  "explanation": "Use the past continuous 'was watching' because the action was in progress when another past action (arrived) occurred."
}`
