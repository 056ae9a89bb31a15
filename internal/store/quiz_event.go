package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendQuizRun(ctx context.Context, data QuizRunData) (err error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin quiz run: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO quiz_runs (sequence, run_id, user_id, topic, question_count, score, submitted, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		data.RunID,
		data.UserID,
		data.Topic,
		data.QuestionCount,
		data.Score,
		data.Submitted,
		data.StartedAt.UTC().Format(time.RFC3339Nano),
		data.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save quiz run: %w", err)
	}

	for i, o := range data.Outcomes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO quiz_outcomes (run_id, position, topic, difficulty, correct, question)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			data.RunID, i, o.Topic, o.Difficulty, o.Correct, o.Question,
		)
		if err != nil {
			return fmt.Errorf("save quiz outcome %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit quiz run: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizRuns(ctx context.Context, opts QueryOpts) ([]QuizRunRecord, error) {
	query := `SELECT sequence, run_id, user_id, topic, question_count, score, submitted, started_at, finished_at
		FROM quiz_runs ORDER BY sequence DESC`
	limit, args := limitClause(opts)
	query += limit

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz runs: %w", err)
	}

	var runs []QuizRunRecord
	for rows.Next() {
		var rec QuizRunRecord
		var started, finished string
		if err := rows.Scan(&rec.Sequence, &rec.RunID, &rec.UserID, &rec.Topic,
			&rec.QuestionCount, &rec.Score, &rec.Submitted, &started, &finished); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan quiz run: %w", err)
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if rec.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Close before issuing outcome queries: the pool holds a single connection.
	rows.Close()

	for i := range runs {
		outcomes, err := r.quizOutcomes(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Outcomes = outcomes
	}
	return runs, nil
}

func (r *eventRepo) quizOutcomes(ctx context.Context, runID string) ([]QuizOutcomeData, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT topic, difficulty, correct, question FROM quiz_outcomes
		 WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query quiz outcomes: %w", err)
	}
	defer rows.Close()

	var out []QuizOutcomeData
	for rows.Next() {
		var o QuizOutcomeData
		if err := rows.Scan(&o.Topic, &o.Difficulty, &o.Correct, &o.Question); err != nil {
			return nil, fmt.Errorf("scan quiz outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
