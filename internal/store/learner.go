package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/cpapath/cpapath/internal/progress"
)

// learnerRepo implements LearnerRepo over the learners table.
type learnerRepo struct {
	q dialect.ExecQuerier
}

func (r *learnerRepo) Get(ctx context.Context, learnerID string) (*progress.Record, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("record").
		From(entsql.Table("learners")).
		Where(entsql.EQ("id", learnerID)).
		Query()

	rows := &entsql.Rows{}
	if err := r.q.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query learner %s: %w", learnerID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query learner %s: %w", learnerID, err)
		}
		return nil, nil
	}

	var raw string
	if err := rows.Scan(&raw); err != nil {
		return nil, fmt.Errorf("scan learner %s: %w", learnerID, err)
	}

	var rec progress.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode learner %s: %w", learnerID, err)
	}
	return &rec, nil
}

func (r *learnerRepo) Put(ctx context.Context, learnerID string, rec *progress.Record, now time.Time) error {
	if learnerID == "" {
		return fmt.Errorf("learner id is empty: %w", progress.ErrInvalidArgument)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode learner %s: %w", learnerID, err)
	}

	ts := formatTime(now)
	query, args := entsql.Dialect(dialect.SQLite).
		Insert("learners").
		Columns("id", "record", "created_at", "updated_at").
		Values(learnerID, string(b), ts, ts).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("record")
				u.SetExcluded("updated_at")
			}),
		).
		Query()

	if err := r.q.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save learner %s: %w", learnerID, err)
	}
	return nil
}

func (r *learnerRepo) List(ctx context.Context) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id").
		From(entsql.Table("learners")).
		OrderBy("id").
		Query()

	rows := &entsql.Rows{}
	if err := r.q.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan learner id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
