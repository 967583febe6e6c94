package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/grammarquiz/internal/quizgen"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // id > After
	Before int64     // id < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// FailedOnly restricts results to unsuccessful attempts.
	FailedOnly bool
}

// QuestionRepo persists the current question batch.
type QuestionRepo interface {
	// ReplaceAll deletes every stored question and inserts qs in order.
	// A record that cannot be inserted is logged and skipped. It returns
	// the number of rows saved. Failures that affect the whole batch are
	// reported as *PersistenceError and leave the previous batch intact.
	ReplaceAll(ctx context.Context, qs []quizgen.Question) (int, error)

	// LoadAll returns every stored question ordered by id.
	LoadAll(ctx context.Context) ([]quizgen.Question, error)

	// Count returns the number of stored questions.
	Count(ctx context.Context) (int, error)
}

// GenerationEventData captures one generation attempt.
type GenerationEventData struct {
	AttemptID     string // generated when empty
	Timestamp     time.Time
	Provider      string
	Model         string
	Difficulty    string
	Hint          string
	Success       bool
	ErrorKind     string
	ErrorMessage  string
	QuestionCount int
	SizeMismatch  bool
	InputTokens   int
	OutputTokens  int
	LatencyMs     int64
	RawResponse   string
}

// GenerationEventRecord is a stored generation attempt.
type GenerationEventRecord struct {
	ID int64
	GenerationEventData
}

// EventRepo records generation attempts.
type EventRepo interface {
	// AppendGeneration stores one attempt and returns its attempt id.
	AppendGeneration(ctx context.Context, data GenerationEventData) (string, error)

	// QueryGenerations returns attempts newest first.
	QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEventRecord, error)

	// GetGeneration returns the attempt with the given attempt id, or nil.
	GetGeneration(ctx context.Context, attemptID string) (*GenerationEventRecord, error)

	// UsageByModel aggregates attempts per model, ordered by model.
	UsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// ModelUsage is the aggregate of every attempt served by one model.
type ModelUsage struct {
	Model        string
	Attempts     int
	Succeeded    int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// PersistenceError means storage rejected a batch operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
