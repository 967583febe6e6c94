// Package generation runs one question-generation attempt at a time: the
// provider call and validation happen on a background command, and the
// result is applied to storage on the UI loop.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/grammarquiz/internal/quizgen"
	"github.com/abhisek/grammarquiz/internal/store"
)

// State is the orchestrator's position in the Idle/Requesting cycle.
type State int

const (
	StateIdle State = iota
	StateRequesting
)

func (s State) String() string {
	if s == StateRequesting {
		return "requesting"
	}
	return "idle"
}

// Status is the user-facing result of an attempt.
type Status int

const (
	OutcomeSucceeded Status = iota
	OutcomeFailed
	OutcomePersistFailed
)

// ResultMsg carries a finished attempt from the background command to the
// UI loop. It is built once and never mutated afterwards.
type ResultMsg struct {
	AttemptID string
	Input     quizgen.GenerateInput

	// Batch may be non-nil alongside Err when the reply failed validation.
	Batch *quizgen.Batch
	Err   error

	Started time.Time
	Latency time.Duration
}

// Outcome is what Complete reports to the presentation layer.
type Outcome struct {
	Status    Status
	AttemptID string

	// Questions are the stored questions after a successful attempt, with
	// ids set.
	Questions    []quizgen.Question
	Saved        int
	SizeMismatch bool

	Kind Kind
	Err  error
}

// Config holds the orchestrator's collaborators and settings.
type Config struct {
	Generator quizgen.Generator
	Questions store.QuestionRepo

	// Events is optional. When set, every attempt is recorded.
	Events store.EventRepo

	// Provider and Model label recorded events.
	Provider string
	Model    string

	// Timeout bounds one attempt. Zero means 90 seconds.
	Timeout time.Duration

	Logger *slog.Logger
}

// Orchestrator owns the busy state and the storage interaction. It must only
// be used from the UI loop; the commands it returns never touch it.
type Orchestrator struct {
	cfg     Config
	logger  *slog.Logger
	state   State
	attempt string
}

// DefaultTimeout bounds an attempt when Config.Timeout is zero.
const DefaultTimeout = 90 * time.Second

// New creates an Orchestrator in StateIdle.
func New(cfg Config) *Orchestrator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{cfg: cfg, logger: logger}
}

// State returns the current state.
func (o *Orchestrator) State() State { return o.state }

// Busy reports whether an attempt is outstanding.
func (o *Orchestrator) Busy() bool { return o.state == StateRequesting }

// Load returns the stored questions, for showing the previous batch at
// startup.
func (o *Orchestrator) Load(ctx context.Context) ([]quizgen.Question, error) {
	qs, err := o.cfg.Questions.LoadAll(ctx)
	if err != nil {
		var pe *store.PersistenceError
		if !errors.As(err, &pe) {
			err = &store.PersistenceError{Op: "load", Err: err}
		}
		o.logger.Error("loading stored questions failed", "error", err)
		return nil, err
	}
	return qs, nil
}

// Start begins an attempt. While another attempt is outstanding it does
// nothing and returns (nil, false). Otherwise the returned command performs
// the provider call and validation and yields a ResultMsg.
func (o *Orchestrator) Start(input quizgen.GenerateInput) (tea.Cmd, bool) {
	if o.state == StateRequesting {
		o.logger.Debug("generation request ignored: already requesting", "attempt_id", o.attempt)
		return nil, false
	}

	o.state = StateRequesting
	o.attempt = uuid.NewString()

	// The command sees only these copies.
	gen := o.cfg.Generator
	timeout := o.cfg.Timeout
	attemptID := o.attempt
	logger := o.logger

	logger.Info("generation started",
		"attempt_id", attemptID,
		"difficulty", input.Difficulty.Name(),
		"hint", input.Hint,
	)

	return func() tea.Msg {
		return run(gen, timeout, attemptID, input)
	}, true
}

// run executes one attempt. A panic in the generator becomes an error.
func run(gen quizgen.Generator, timeout time.Duration, attemptID string, input quizgen.GenerateInput) (msg ResultMsg) {
	msg = ResultMsg{AttemptID: attemptID, Input: input, Started: time.Now()}
	defer func() {
		if r := recover(); r != nil {
			msg.Batch = nil
			msg.Err = fmt.Errorf("generation panicked: %v", r)
		}
		msg.Latency = time.Since(msg.Started)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	msg.Batch, msg.Err = gen.Generate(ctx, input)
	return msg
}

// Complete applies a finished attempt on the UI loop. Stored questions are
// replaced only after successful validation. The orchestrator is back in
// StateIdle when Complete returns, on every path.
func (o *Orchestrator) Complete(ctx context.Context, msg ResultMsg) (out Outcome) {
	defer func() {
		o.state = StateIdle
		o.attempt = ""
	}()

	if msg.AttemptID != o.attempt {
		o.logger.Warn("completing unexpected attempt", "attempt_id", msg.AttemptID, "current", o.attempt)
	}

	out = o.apply(ctx, msg)
	o.record(ctx, msg, out)
	return out
}

func (o *Orchestrator) apply(ctx context.Context, msg ResultMsg) Outcome {
	out := Outcome{AttemptID: msg.AttemptID}

	if msg.Err != nil {
		out.Status = OutcomeFailed
		out.Err = msg.Err
		out.Kind = Classify(msg.Err)
		o.logger.Warn("generation failed",
			"attempt_id", msg.AttemptID,
			"kind", out.Kind,
			"error", msg.Err,
		)
		return out
	}
	if msg.Batch == nil {
		out.Status = OutcomeFailed
		out.Err = errors.New("generator returned no batch")
		out.Kind = KindUnknown
		o.logger.Error("generation failed", "attempt_id", msg.AttemptID, "error", out.Err)
		return out
	}
	out.SizeMismatch = msg.Batch.SizeMismatch

	saved, err := o.cfg.Questions.ReplaceAll(ctx, msg.Batch.Questions)
	if err == nil && saved == 0 {
		err = &store.PersistenceError{Op: "insert", Err: errors.New("no questions saved")}
	}
	if err != nil {
		out.Status = OutcomePersistFailed
		out.Err = err
		out.Kind = KindPersistence
		o.logger.Error("saving questions failed", "attempt_id", msg.AttemptID, "error", err)
		return out
	}
	out.Saved = saved

	loaded, err := o.cfg.Questions.LoadAll(ctx)
	if err != nil {
		out.Status = OutcomePersistFailed
		out.Err = &store.PersistenceError{Op: "load", Err: err}
		out.Kind = KindPersistence
		o.logger.Error("loading questions failed", "attempt_id", msg.AttemptID, "error", err)
		return out
	}

	out.Status = OutcomeSucceeded
	out.Questions = loaded
	o.logger.Info("generation succeeded",
		"attempt_id", msg.AttemptID,
		"saved", saved,
		"size_mismatch", out.SizeMismatch,
		"latency_ms", msg.Latency.Milliseconds(),
	)
	return out
}

// record appends the attempt to the event log. Failures are logged only.
func (o *Orchestrator) record(ctx context.Context, msg ResultMsg, out Outcome) {
	if o.cfg.Events == nil {
		return
	}

	data := store.GenerationEventData{
		AttemptID:     msg.AttemptID,
		Timestamp:     msg.Started,
		Provider:      o.cfg.Provider,
		Model:         o.cfg.Model,
		Difficulty:    msg.Input.Difficulty.Name(),
		Hint:          msg.Input.Hint,
		Success:       out.Status == OutcomeSucceeded,
		ErrorKind:     string(out.Kind),
		QuestionCount: out.Saved,
		SizeMismatch:  out.SizeMismatch,
		LatencyMs:     msg.Latency.Milliseconds(),
	}
	if out.Err != nil {
		data.ErrorMessage = out.Err.Error()
	}
	if b := msg.Batch; b != nil {
		if b.Model != "" {
			data.Model = b.Model
		}
		data.InputTokens = b.Usage.InputTokens
		data.OutputTokens = b.Usage.OutputTokens
		data.RawResponse = b.Raw
	}

	if _, err := o.cfg.Events.AppendGeneration(ctx, data); err != nil {
		o.logger.Warn("recording generation event failed", "attempt_id", msg.AttemptID, "error", err)
	}
}
