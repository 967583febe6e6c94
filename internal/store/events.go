package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// eventRepo implements EventRepo over the generation_events table.
type eventRepo struct {
	drv *entsql.Driver
}

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) (string, error) {
	if data.AttemptID == "" {
		data.AttemptID = uuid.NewString()
	}
	if data.Timestamp.IsZero() {
		data.Timestamp = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(GenerationEventsTable.Name).
		Columns(generationEventColumns[1:]...).
		Values(
			data.AttemptID,
			data.Timestamp.UTC(),
			data.Provider,
			data.Model,
			data.Difficulty,
			data.Hint,
			data.Success,
			data.ErrorKind,
			data.ErrorMessage,
			data.QuestionCount,
			data.SizeMismatch,
			data.InputTokens,
			data.OutputTokens,
			data.LatencyMs,
			data.RawResponse,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return "", fmt.Errorf("save generation event: %w", err)
	}
	return data.AttemptID, nil
}

func (r *eventRepo) QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEventRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(GenerationEventsTable.Name)
	sel := b.Select(t.Columns(generationEventColumns...)...).
		From(t).
		OrderBy(entsql.Desc(t.C("id")))

	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	if opts.After > 0 {
		sel = sel.Where(entsql.GT(t.C("id"), opts.After))
	}
	if opts.Before > 0 {
		sel = sel.Where(entsql.LT(t.C("id"), opts.Before))
	}
	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE(t.C("timestamp"), opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel = sel.Where(entsql.LTE(t.C("timestamp"), opts.To.UTC()))
	}
	if opts.FailedOnly {
		sel = sel.Where(entsql.EQ(t.C("success"), false))
	}

	return r.query(ctx, sel)
}

func (r *eventRepo) GetGeneration(ctx context.Context, attemptID string) (*GenerationEventRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(GenerationEventsTable.Name)
	sel := b.Select(t.Columns(generationEventColumns...)...).
		From(t).
		Where(entsql.EQ(t.C("attempt_id"), attemptID)).
		Limit(1)

	records, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r *eventRepo) query(ctx context.Context, sel *entsql.Selector) ([]GenerationEventRecord, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var records []GenerationEventRecord
	for rows.Next() {
		var e GenerationEventRecord
		if err := rows.Scan(
			&e.ID,
			&e.AttemptID,
			&e.Timestamp,
			&e.Provider,
			&e.Model,
			&e.Difficulty,
			&e.Hint,
			&e.Success,
			&e.ErrorKind,
			&e.ErrorMessage,
			&e.QuestionCount,
			&e.SizeMismatch,
			&e.InputTokens,
			&e.OutputTokens,
			&e.LatencyMs,
			&e.RawResponse,
		); err != nil {
			return nil, fmt.Errorf("scan generation event: %w", err)
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read generation events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) UsageByModel(ctx context.Context) ([]ModelUsage, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(GenerationEventsTable.Name)
	sel := b.Select(
		t.C("model"),
		entsql.Count("*"),
		entsql.Sum(t.C("success")),
		entsql.Sum(t.C("input_tokens")),
		entsql.Sum(t.C("output_tokens")),
		entsql.Avg(t.C("latency_ms")),
	).
		From(t).
		GroupBy(t.C("model")).
		OrderBy(t.C("model"))

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query model usage: %w", err)
	}
	defer rows.Close()

	var usage []ModelUsage
	for rows.Next() {
		var (
			u                  ModelUsage
			attempts, ok       int64
			inTokens, outToken int64
			avgLatency         float64
		)
		if err := rows.Scan(&u.Model, &attempts, &ok, &inTokens, &outToken, &avgLatency); err != nil {
			return nil, fmt.Errorf("scan model usage: %w", err)
		}
		u.Attempts = int(attempts)
		u.Succeeded = int(ok)
		u.InputTokens = int(inTokens)
		u.OutputTokens = int(outToken)
		u.AvgLatencyMs = int64(avgLatency)
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read model usage: %w", err)
	}
	return usage, nil
}
