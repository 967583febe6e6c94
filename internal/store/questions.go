package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/grammarquiz/internal/quizgen"
)

// questionRepo implements QuestionRepo over the problems table.
type questionRepo struct {
	drv    *entsql.Driver
	logger *slog.Logger
}

func (r *questionRepo) ReplaceAll(ctx context.Context, qs []quizgen.Question) (int, error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return 0, &PersistenceError{Op: "begin", Err: err}
	}

	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Delete(ProblemsTable.Name).Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		tx.Rollback()
		return 0, &PersistenceError{Op: "delete", Err: err}
	}

	now := time.Now().UTC()
	saved := 0
	for i, q := range qs {
		if err := storable(q); err != nil {
			r.logger.WarnContext(ctx, "skipping question", "index", i, "error", err)
			continue
		}
		query, args := b.Insert(ProblemsTable.Name).
			Columns(problemColumns[1:]...).
			Values(q.Question, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.Answer, q.Explanation, now).
			Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			r.logger.WarnContext(ctx, "skipping question", "index", i, "error", err)
			continue
		}
		saved++
	}

	// Keep the previous batch when nothing in the new one could be stored.
	if saved == 0 && len(qs) > 0 {
		tx.Rollback()
		return 0, &PersistenceError{Op: "insert", Err: fmt.Errorf("none of %d questions could be saved", len(qs))}
	}

	if err := tx.Commit(); err != nil {
		return 0, &PersistenceError{Op: "commit", Err: err}
	}
	return saved, nil
}

// storable mirrors the table's expectations: four options and an answer
// that indexes one of them.
func storable(q quizgen.Question) error {
	if len(q.Options) != 4 {
		return fmt.Errorf("has %d options, want 4", len(q.Options))
	}
	if q.Answer < 1 || q.Answer > 4 {
		return fmt.Errorf("answer %d is outside 1..4", q.Answer)
	}
	return nil
}

func (r *questionRepo) LoadAll(ctx context.Context) ([]quizgen.Question, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(ProblemsTable.Name)
	query, args := b.Select(t.Columns(problemColumns[:8]...)...).
		From(t).
		OrderBy(entsql.Asc(t.C("id"))).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var qs []quizgen.Question
	for rows.Next() {
		q := quizgen.Question{Options: make([]string, 4)}
		if err := rows.Scan(&q.ID, &q.Question, &q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3], &q.Answer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return qs, nil
}

func (r *questionRepo) Count(ctx context.Context) (int, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(entsql.Count("*")).From(b.Table(ProblemsTable.Name)).Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, errors.New("count questions: no result")
	}
	var n int
	if err := rows.Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
