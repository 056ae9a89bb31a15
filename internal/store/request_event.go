package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO api_requests (sequence, timestamp, op, method, path, status, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		time.Now().UTC().Format(time.RFC3339Nano),
		data.Op,
		data.Method,
		data.Path,
		data.Status,
		data.LatencyMs,
		data.Success,
		data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error) {
	query := `SELECT sequence, timestamp, op, method, path, status, latency_ms, success, error_message
		FROM api_requests`
	if opts.FailedOnly {
		query += ` WHERE success = 0`
	}
	query += ` ORDER BY sequence DESC`
	limit, args := limitClause(opts)
	query += limit

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	var out []RequestEventRecord
	for rows.Next() {
		var rec RequestEventRecord
		var ts string
		if err := rows.Scan(&rec.Sequence, &ts, &rec.Op, &rec.Method, &rec.Path,
			&rec.Status, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		rec.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse request timestamp: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
