package store

import (
	"context"
	"encoding/json"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo over the snapshots table.
type snapshotRepo struct {
	q   dialect.ExecQuerier
	seq *sequenceCounter
}

// Save stores snap. A zero Sequence is filled with the current global
// sequence, so later events sort after the snapshot.
func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.LearnerID == "" {
		return fmt.Errorf("snapshot needs a learner id")
	}
	if snap.Sequence == 0 {
		cur, err := r.seq.Current(ctx, r.q)
		if err != nil {
			return err
		}
		snap.Sequence = cur
	}
	if snap.Data.Version == 0 {
		snap.Data.Version = SnapshotVersion
	}

	b, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert("snapshots").
		Columns("learner_id", "sequence", "timestamp", "data").
		Values(snap.LearnerID, snap.Sequence, formatTime(snap.Timestamp), string(b)).
		Query()
	if err := r.q.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, learnerID string) (*Snapshot, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "learner_id", "sequence", "timestamp", "data").
		From(entsql.Table("snapshots")).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.q.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest snapshot: %w", err)
		}
		return nil, nil
	}

	var (
		snap     Snapshot
		ts, data string
	)
	if err := rows.Scan(&snap.ID, &snap.LearnerID, &snap.Sequence, &ts, &data); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	t, err := parseTime(ts)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot timestamp: %w", err)
	}
	snap.Timestamp = t
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, learnerID string, keep int) error {
	// Find the ID threshold: get the (keep+1)th most recent snapshot.
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id").
		From(entsql.Table("snapshots")).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("id")).
		Limit(1).
		Offset(keep).
		Query()

	rows := &entsql.Rows{}
	if err := r.q.Query(ctx, query, args, rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var threshold int
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if !found {
		return nil // fewer than keep snapshots exist
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Delete("snapshots").
		Where(entsql.And(
			entsql.EQ("learner_id", learnerID),
			entsql.LTE("id", threshold),
		)).
		Query()
	if err := r.q.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
