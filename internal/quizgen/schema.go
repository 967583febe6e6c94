package quizgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/grammarquiz/internal/llm"
)

// questionDefinition is the JSON Schema of one question record.
var questionDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question": map[string]any{
			"type":        "string",
			"description": `The question text. Use "..." to mark a blank.`,
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    4,
			"maxItems":    4,
			"description": "Exactly 4 answer choices",
		},
		"answer": map[string]any{
			"type":        "integer",
			"minimum":     1,
			"maximum":     4,
			"description": "1-based index of the correct option",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Why the answer is correct, written in " + ExplanationLanguage,
		},
	},
	"required": []any{"question", "options", "answer", "explanation"},
}

// BatchSchema describes the expected reply: an array of question records.
// Providers with native structured output receive it as a hint.
var BatchSchema = &llm.Schema{
	Name:        "grammar-question-batch",
	Description: "A batch of multiple-choice English grammar questions",
	Definition: map[string]any{
		"type":  "array",
		"items": questionDefinition,
	},
}

var (
	recordSchemaOnce sync.Once
	recordSchema     *jsonschema.Schema
	recordSchemaErr  error
)

// compiledRecordSchema compiles questionDefinition once.
func compiledRecordSchema() (*jsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		// The compiler wants a plain decoded JSON value, not Go maps with
		// typed slices.
		defBytes, err := json.Marshal(questionDefinition)
		if err != nil {
			recordSchemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			recordSchemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://grammar-question.json"
		if err := c.AddResource(url, def); err != nil {
			recordSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		recordSchema, recordSchemaErr = c.Compile(url)
	})
	return recordSchema, recordSchemaErr
}
