package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// requiredFields are checked in this order; the first missing one is reported.
var requiredFields = []string{"question", "options", "answer", "explanation"}

// Result is a validated batch.
type Result struct {
	Questions []Question

	// SizeMismatch is set when len(Questions) != the expected batch size.
	SizeMismatch bool
}

// Validator turns normalized model output into questions. A batch is
// accepted whole or rejected whole: the first bad record fails everything.
type Validator struct {
	// Expected is the nominal batch size. A different size is logged, not
	// rejected.
	Expected int

	Logger *slog.Logger
}

// NewValidator returns a Validator expecting BatchSize records.
// A nil logger falls back to slog.Default().
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{Expected: BatchSize, Logger: logger}
}

// ParseBatch runs Extract and Validate over raw model output. Every provider
// reply goes through this one routine.
func (v *Validator) ParseBatch(raw string) (*Result, error) {
	return v.Validate(Extract(raw))
}

// ParseBatch is Validator.ParseBatch with the default logger.
func ParseBatch(raw string) (*Result, error) {
	return NewValidator(nil).ParseBatch(raw)
}

// Validate parses text as a JSON array of question records and checks every
// record. It returns *StructureError or *FieldError on rejection.
func (v *Validator) Validate(text string) (*Result, error) {
	items, err := decodeSequence(text)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if v.Expected > 0 && len(items) != v.Expected {
		res.SizeMismatch = true
		v.logger().Warn("question batch size mismatch", "expected", v.Expected, "got", len(items))
	}

	schema, err := compiledRecordSchema()
	if err != nil {
		return nil, fmt.Errorf("question schema: %w", err)
	}

	res.Questions = make([]Question, 0, len(items))
	for i, item := range items {
		q, err := checkRecord(i, item, schema)
		if err != nil {
			v.logger().Warn("question batch rejected", "index", i, "error", err)
			return nil, err
		}
		res.Questions = append(res.Questions, q)
	}
	return res, nil
}

func (v *Validator) logger() *slog.Logger {
	if v.Logger == nil {
		return slog.Default()
	}
	return v.Logger
}

// decodeSequence decodes one JSON value from text and requires it to be a
// non-empty array. When text opens with prose, or with a scalar such as
// "10 questions:", decoding restarts at each later '[' until one yields an
// array. A leading object is not skipped. Anything after the value is
// ignored.
func decodeSequence(text string) ([]any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &StructureError{Reason: "empty response"}
	}

	value, err := decodeValue(text)
	if err != nil || isScalar(value) {
		if items, ok := arrayAfterProse(text); ok {
			value, err = items, nil
		}
	}
	if err != nil {
		return nil, &StructureError{Reason: "not valid JSON", Err: err}
	}

	items, ok := value.([]any)
	if !ok {
		return nil, &StructureError{Reason: fmt.Sprintf("top-level value is %s, not an array", jsonKind(value))}
	}
	if len(items) == 0 {
		return nil, &StructureError{Reason: "array is empty"}
	}
	return items, nil
}

// arrayAfterProse returns the first array that decodes from a '[' past the
// start of text.
func arrayAfterProse(text string) ([]any, bool) {
	for off := 1; off < len(text); {
		i := strings.IndexByte(text[off:], '[')
		if i < 0 {
			return nil, false
		}
		pos := off + i
		if v, err := decodeValue(text[pos:]); err == nil {
			if items, ok := v.([]any); ok {
				return items, true
			}
		}
		off = pos + 1
	}
	return nil, false
}

func isScalar(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return false
	}
	return true
}

func decodeValue(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// checkRecord enforces the question invariants on one decoded element.
func checkRecord(i int, item any, schema *jsonschema.Schema) (Question, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Question{}, &FieldError{Index: i, Reason: fmt.Sprintf("is %s, not an object", jsonKind(item))}
	}
	for _, f := range requiredFields {
		if _, ok := obj[f]; !ok {
			return Question{}, &FieldError{Index: i, Field: f, Reason: "is missing"}
		}
	}

	opts, ok := obj["options"].([]any)
	if !ok {
		return Question{}, &FieldError{Index: i, Field: "options", Reason: "is not an array"}
	}
	if len(opts) != 4 {
		return Question{}, &FieldError{Index: i, Field: "options", Reason: fmt.Sprintf("has %d entries, want 4", len(opts))}
	}

	answer, err := parseAnswer(obj["answer"])
	if err != nil {
		return Question{}, &FieldError{Index: i, Field: "answer", Reason: err.Error()}
	}

	if err := schema.Validate(item); err != nil {
		return Question{}, &FieldError{Index: i, Field: schemaField(err), Reason: "must be a string"}
	}

	q := Question{
		Question:    obj["question"].(string),
		Options:     make([]string, len(opts)),
		Answer:      answer,
		Explanation: obj["explanation"].(string),
	}
	for j, o := range opts {
		q.Options[j] = o.(string)
	}
	return q, nil
}

// parseAnswer accepts only an integer literal in [1,4]. Booleans, strings
// and numbers written with a fraction or exponent are rejected.
func parseAnswer(v any) (int, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("is %s, not an integer", jsonKind(v))
	}
	if strings.ContainsAny(num.String(), ".eE") {
		return 0, fmt.Errorf("%s is not an integer", num)
	}
	n, err := strconv.Atoi(num.String())
	if err != nil {
		return 0, fmt.Errorf("%s is not an integer", num)
	}
	if n < 1 || n > 4 {
		return 0, fmt.Errorf("%d is outside 1..4", n)
	}
	return n, nil
}

// schemaField names the top-level field a schema violation points at.
func schemaField(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return ""
	}
	for {
		if len(ve.InstanceLocation) > 0 {
			return ve.InstanceLocation[0]
		}
		if len(ve.Causes) == 0 {
			return ""
		}
		ve = ve.Causes[0]
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
