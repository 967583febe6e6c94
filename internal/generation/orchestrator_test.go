package generation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammarquiz/internal/llm"
	"github.com/abhisek/grammarquiz/internal/quizgen"
	"github.com/abhisek/grammarquiz/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "gen.db"), store.WithLogger(discardLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func recordJSON(i int, answer string) string {
	return fmt.Sprintf(`{"question":"She ___ watching TV. (%d)","options":["is","was","be","are"],"answer":%s,"explanation":"過去進行形です。"}`, i, answer)
}

func batchText(n int, badIndex int) string {
	s := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		answer := "2"
		if i == badIndex {
			answer = "7"
		}
		s += recordJSON(i, answer)
	}
	return s + "]"
}

// countingGenerator counts calls and returns a fixed result.
type countingGenerator struct {
	calls atomic.Int32
	batch *quizgen.Batch
	err   error
	panic bool
}

func (g *countingGenerator) Generate(ctx context.Context, _ quizgen.GenerateInput) (*quizgen.Batch, error) {
	g.calls.Add(1)
	if g.panic {
		panic("boom")
	}
	return g.batch, g.err
}

// failingRepo rejects every write.
type failingRepo struct{}

func (failingRepo) ReplaceAll(context.Context, []quizgen.Question) (int, error) {
	return 0, &store.PersistenceError{Op: "delete", Err: errors.New("disk I/O error")}
}
func (failingRepo) LoadAll(context.Context) ([]quizgen.Question, error) { return nil, nil }
func (failingRepo) Count(context.Context) (int, error)                  { return 0, nil }

func newPipeline(t *testing.T, s *store.Store, responses ...llm.MockResponse) (*Orchestrator, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	gen := quizgen.New(mock, quizgen.DefaultConfig(), discardLogger())
	o := New(Config{
		Generator: gen,
		Questions: s.Questions(),
		Events:    s.Events(),
		Provider:  "mock",
		Model:     "mock-model",
		Logger:    discardLogger(),
	})
	return o, mock
}

func runAttempt(t *testing.T, o *Orchestrator, input quizgen.GenerateInput) Outcome {
	t.Helper()
	cmd, ok := o.Start(input)
	require.True(t, ok)
	require.NotNil(t, cmd)
	msg, isResult := cmd().(ResultMsg)
	require.True(t, isResult)
	return o.Complete(context.Background(), msg)
}

func TestPipeline_FencedFullBatchSucceeds(t *testing.T) {
	s := openTestStore(t)
	raw := "```json\n" + batchText(quizgen.BatchSize, -1) + "\n```"
	o, _ := newPipeline(t, s, llm.MockResponse{Text: raw})

	out := runAttempt(t, o, quizgen.GenerateInput{Difficulty: quizgen.Intermediate})

	require.Equal(t, OutcomeSucceeded, out.Status, "err: %v", out.Err)
	assert.Equal(t, quizgen.BatchSize, out.Saved)
	require.Len(t, out.Questions, quizgen.BatchSize)
	assert.NotZero(t, out.Questions[0].ID)
	assert.Equal(t, "She ___ watching TV. (0)", out.Questions[0].Question)
	assert.Equal(t, StateIdle, o.State())

	events, err := s.Events().QueryGenerations(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
	assert.Equal(t, quizgen.BatchSize, events[0].QuestionCount)
	assert.Equal(t, out.AttemptID, events[0].AttemptID)
	assert.Equal(t, raw, events[0].RawResponse)
}

func TestPipeline_ShortBatchSucceedsWithMismatch(t *testing.T) {
	s := openTestStore(t)
	o, _ := newPipeline(t, s, llm.MockResponse{Text: batchText(6, -1)})

	out := runAttempt(t, o, quizgen.GenerateInput{})
	require.Equal(t, OutcomeSucceeded, out.Status)
	assert.Len(t, out.Questions, 6)
	assert.True(t, out.SizeMismatch)
}

func TestPipeline_RejectedBatchLeavesStoredQuestions(t *testing.T) {
	s := openTestStore(t)
	o, _ := newPipeline(t, s,
		llm.MockResponse{Text: batchText(quizgen.BatchSize, -1)},
		llm.MockResponse{Text: batchText(quizgen.BatchSize, 4)},
		llm.MockResponse{Text: "Sure! Here are your questions: [1,2,3]"},
	)

	first := runAttempt(t, o, quizgen.GenerateInput{})
	require.Equal(t, OutcomeSucceeded, first.Status)

	second := runAttempt(t, o, quizgen.GenerateInput{})
	assert.Equal(t, OutcomeFailed, second.Status)
	assert.Equal(t, KindField, second.Kind)
	assert.Empty(t, second.Questions)

	third := runAttempt(t, o, quizgen.GenerateInput{})
	assert.Equal(t, OutcomeFailed, third.Status)
	assert.Equal(t, KindField, third.Kind)

	stored, err := s.Questions().LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Questions, stored)
	assert.Equal(t, StateIdle, o.State())

	failed, err := s.Events().QueryGenerations(context.Background(), store.QueryOpts{FailedOnly: true})
	require.NoError(t, err)
	assert.Len(t, failed, 2)
}

func TestPipeline_TransportFailure(t *testing.T) {
	s := openTestStore(t)
	o, mock := newPipeline(t, s, llm.MockResponse{
		Err: &llm.TransportError{Provider: "mock", StatusCode: 503, Err: errors.New("unavailable")},
	})

	out := runAttempt(t, o, quizgen.GenerateInput{})
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Equal(t, KindTransport, out.Kind)
	assert.Equal(t, 1, mock.CallCount())
}

func TestStart_SecondRequestWhileBusyIsNoop(t *testing.T) {
	gen := &countingGenerator{batch: &quizgen.Batch{Questions: []quizgen.Question{{
		Question: "q", Options: []string{"a", "b", "c", "d"}, Answer: 1, Explanation: "e",
	}}}}
	s := openTestStore(t)
	o := New(Config{Generator: gen, Questions: s.Questions(), Logger: discardLogger()})

	cmd, ok := o.Start(quizgen.GenerateInput{})
	require.True(t, ok)
	assert.Equal(t, StateRequesting, o.State())

	again, ok := o.Start(quizgen.GenerateInput{Difficulty: quizgen.Advanced})
	assert.False(t, ok)
	assert.Nil(t, again)
	assert.Equal(t, StateRequesting, o.State())
	assert.EqualValues(t, 0, gen.calls.Load(), "Start itself never calls the generator")

	out := o.Complete(context.Background(), cmd().(ResultMsg))
	assert.Equal(t, OutcomeSucceeded, out.Status)
	assert.EqualValues(t, 1, gen.calls.Load())
	assert.False(t, o.Busy())

	_, ok = o.Start(quizgen.GenerateInput{})
	assert.True(t, ok, "a new attempt is accepted once idle")
}

func TestRun_PanicBecomesFailure(t *testing.T) {
	gen := &countingGenerator{panic: true}
	o := New(Config{Generator: gen, Questions: failingRepo{}, Logger: discardLogger()})

	cmd, ok := o.Start(quizgen.GenerateInput{})
	require.True(t, ok)
	msg := cmd().(ResultMsg)
	require.Error(t, msg.Err)
	assert.Contains(t, msg.Err.Error(), "panicked")

	out := o.Complete(context.Background(), msg)
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Equal(t, KindUnknown, out.Kind)
	assert.Equal(t, StateIdle, o.State())
}

func TestComplete_PersistenceFailure(t *testing.T) {
	gen := &countingGenerator{batch: &quizgen.Batch{Questions: []quizgen.Question{{
		Question: "q", Options: []string{"a", "b", "c", "d"}, Answer: 1, Explanation: "e",
	}}}}
	o := New(Config{Generator: gen, Questions: failingRepo{}, Logger: discardLogger()})

	cmd, _ := o.Start(quizgen.GenerateInput{})
	out := o.Complete(context.Background(), cmd().(ResultMsg))

	assert.Equal(t, OutcomePersistFailed, out.Status)
	assert.Equal(t, KindPersistence, out.Kind)
	assert.Equal(t, StateIdle, o.State())
}

// panickingRepo panics on write to prove Complete always returns to Idle.
type panickingRepo struct{ failingRepo }

func (panickingRepo) ReplaceAll(context.Context, []quizgen.Question) (int, error) {
	panic("store exploded")
}

func TestComplete_ReturnsToIdleOnPanic(t *testing.T) {
	gen := &countingGenerator{batch: &quizgen.Batch{}}
	o := New(Config{Generator: gen, Questions: panickingRepo{}, Logger: discardLogger()})

	cmd, _ := o.Start(quizgen.GenerateInput{})
	msg := cmd().(ResultMsg)

	assert.Panics(t, func() { o.Complete(context.Background(), msg) })
	assert.Equal(t, StateIdle, o.State())
}

func TestRun_TimeoutIsTransport(t *testing.T) {
	mock := &blockingProvider{}
	gen := quizgen.New(mock, quizgen.Config{MaxTokens: 10}, discardLogger())
	o := New(Config{Generator: gen, Questions: failingRepo{}, Timeout: 20 * time.Millisecond, Logger: discardLogger()})

	cmd, _ := o.Start(quizgen.GenerateInput{})
	out := o.Complete(context.Background(), cmd().(ResultMsg))
	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Equal(t, KindTransport, out.Kind)
}

type blockingProvider struct{}

func (*blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, &llm.TransportError{Provider: "blocking", Err: ctx.Err()}
}
func (*blockingProvider) Name() string    { return "blocking" }
func (*blockingProvider) ModelID() string { return "blocking" }

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindNone},
		{fmt.Errorf("wrap: %w", &llm.TransportError{Provider: "x", Err: errors.New("dns")}), KindTransport},
		{context.DeadlineExceeded, KindTransport},
		{fmt.Errorf("wrap: %w", context.Canceled), KindCanceled},
		{&llm.EnvelopeError{Provider: "x", Reason: "missing candidates"}, KindEnvelope},
		{fmt.Errorf("wrap: %w", &quizgen.StructureError{Reason: "array is empty"}), KindStructure},
		{&quizgen.FieldError{Index: 1, Field: "answer", Reason: "bad"}, KindField},
		{&store.PersistenceError{Op: "commit", Err: errors.New("locked")}, KindPersistence},
		{errors.New("mystery"), KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "%v", tt.err)
	}
}

// brokenLoadRepo fails every read with a plain error.
type brokenLoadRepo struct{ failingRepo }

func (brokenLoadRepo) LoadAll(context.Context) ([]quizgen.Question, error) {
	return nil, errors.New("no such table: problems")
}

func TestLoad(t *testing.T) {
	s := openTestStore(t)
	o, _ := newPipeline(t, s, llm.MockResponse{Text: batchText(3, -1)})

	qs, err := o.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, qs)

	runAttempt(t, o, quizgen.GenerateInput{})
	qs, err = o.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, qs, 3)

	broken := New(Config{Questions: brokenLoadRepo{}, Logger: discardLogger()})
	_, err = broken.Load(context.Background())
	var pe *store.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "load", pe.Op)
}
