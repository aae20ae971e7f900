package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// sequenceCounter manages the global monotonic sequence number shared by all
// activity events and snapshots. A snapshot records the sequence it was
// taken at, so events with a larger sequence happened after it.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level. Next runs on the caller's querier
// so it joins an open transaction.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(ctx context.Context, q dialect.ExecQuerier) (*sequenceCounter, error) {
	err := q.Exec(ctx, `CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`, []any{}, nil)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	err = q.Exec(ctx, `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`, []any{}, nil)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context, q dialect.ExecQuerier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	rows := &entsql.Rows{}
	err := q.Query(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
		[]any{}, rows,
	)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	var seq int64
	if err := rows.Scan(&seq); err != nil {
		return 0, fmt.Errorf("scan sequence: %w", err)
	}
	return seq, nil
}

// Current returns the last sequence number handed out, or 0 if none.
func (sc *sequenceCounter) Current(ctx context.Context, q dialect.ExecQuerier) (int64, error) {
	rows := &entsql.Rows{}
	if err := q.Query(ctx, `SELECT next_val - 1 FROM global_sequence WHERE id = 1`, []any{}, rows); err != nil {
		return 0, fmt.Errorf("current sequence: %w", err)
	}
	defer rows.Close()

	var seq int64
	if rows.Next() {
		if err := rows.Scan(&seq); err != nil {
			return 0, fmt.Errorf("scan sequence: %w", err)
		}
	}
	return seq, rows.Err()
}

// eventRepo implements EventRepo over the activity_events table.
type eventRepo struct {
	q   dialect.ExecQuerier
	seq *sequenceCounter
}

var eventColumns = []string{"sequence", "event_id", "learner_id", "kind", "subject", "xp", "data", "timestamp"}

func (r *eventRepo) Append(ctx context.Context, data EventData) (*Event, error) {
	if data.LearnerID == "" || data.Kind == "" {
		return nil, fmt.Errorf("event needs learner id and kind")
	}

	seqNum, err := r.seq.Next(ctx, r.q)
	if err != nil {
		return nil, fmt.Errorf("next sequence: %w", err)
	}

	payload := data.Data
	if payload == nil {
		payload = map[string]any{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode event data: %w", err)
	}

	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	ev := &Event{
		ID:        uuid.NewString(),
		Sequence:  seqNum,
		LearnerID: data.LearnerID,
		Kind:      data.Kind,
		Subject:   data.Subject,
		XP:        data.XP,
		Data:      payload,
		Timestamp: ts.UTC(),
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("activity_events").
		Columns(eventColumns...).
		Values(ev.Sequence, ev.ID, ev.LearnerID, string(ev.Kind), ev.Subject, ev.XP, string(b), formatTime(ev.Timestamp)).
		Query()

	if err := r.q.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("save %s event: %w", data.Kind, err)
	}
	return ev, nil
}

func (r *eventRepo) Query(ctx context.Context, learnerID string, opts QueryOpts) ([]Event, error) {
	preds := []*entsql.Predicate{entsql.EQ("learner_id", learnerID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", formatTime(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", formatTime(opts.To)))
	}
	if len(opts.Kinds) > 0 {
		kinds := make([]any, len(opts.Kinds))
		for i, k := range opts.Kinds {
			kinds[i] = string(k)
		}
		preds = append(preds, entsql.In("kind", kinds...))
	}

	order := entsql.Asc("sequence")
	if opts.Desc {
		order = entsql.Desc("sequence")
	}

	sel := entsql.Dialect(dialect.SQLite).
		Select(eventColumns...).
		From(entsql.Table("activity_events")).
		Where(entsql.And(preds...)).
		OrderBy(order)
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.q.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev             Event
			kind, data, ts string
		)
		if err := rows.Scan(&ev.Sequence, &ev.ID, &ev.LearnerID, &kind, &ev.Subject, &ev.XP, &data, &ts); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = EventKind(kind)
		if err := json.Unmarshal([]byte(data), &ev.Data); err != nil {
			return nil, fmt.Errorf("decode event %d data: %w", ev.Sequence, err)
		}
		t, err := parseTime(ts)
		if err != nil {
			return nil, fmt.Errorf("parse event %d timestamp: %w", ev.Sequence, err)
		}
		ev.Timestamp = t
		events = append(events, ev)
	}
	return events, rows.Err()
}
