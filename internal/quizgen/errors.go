package quizgen

import "fmt"

// StructureError means the extracted text is not a JSON array of records:
// it did not parse, the top-level value is not an array, or the array is
// empty.
type StructureError struct {
	Reason string
	Err    error
}

func (e *StructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid batch structure: %s: %v", e.Reason, e.Err)
	}
	return "invalid batch structure: " + e.Reason
}

func (e *StructureError) Unwrap() error { return e.Err }

// FieldError identifies the first record that broke a question invariant.
// One FieldError rejects the whole batch.
type FieldError struct {
	Index  int    // 0-based position in the batch
	Field  string // "question", "options", "answer", "explanation", or "" for the record itself
	Reason string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("question %d: %s", e.Index+1, e.Reason)
	}
	return fmt.Sprintf("question %d: %s %s", e.Index+1, e.Field, e.Reason)
}
