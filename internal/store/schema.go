package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Timestamps are stored as fixed-width UTC text (see formatTime) and JSON
// payloads as text, so both use string columns.
var (
	// LearnersColumns holds the columns for the "learners" table.
	LearnersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "record", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeString},
	}
	// LearnersTable holds the schema information for the "learners" table.
	LearnersTable = &schema.Table{
		Name:       "learners",
		Columns:    LearnersColumns,
		PrimaryKey: []*schema.Column{LearnersColumns[0]},
	}

	// ActivityEventsColumns holds the columns for the "activity_events" table.
	ActivityEventsColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "event_id", Type: field.TypeString, Unique: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString, Default: ""},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "data", Type: field.TypeString, Default: "{}"},
		{Name: "timestamp", Type: field.TypeString},
	}
	// ActivityEventsTable holds the schema information for the "activity_events" table.
	ActivityEventsTable = &schema.Table{
		Name:       "activity_events",
		Columns:    ActivityEventsColumns,
		PrimaryKey: []*schema.Column{ActivityEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "activity_events_learner_sequence",
				Unique:  false,
				Columns: []*schema.Column{ActivityEventsColumns[2], ActivityEventsColumns[0]},
			},
		},
	}

	// SnapshotsColumns holds the columns for the "snapshots" table.
	SnapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "learner_id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "data", Type: field.TypeString},
	}
	// SnapshotsTable holds the schema information for the "snapshots" table.
	SnapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    SnapshotsColumns,
		PrimaryKey: []*schema.Column{SnapshotsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "snapshots_learner",
				Unique:  false,
				Columns: []*schema.Column{SnapshotsColumns[1], SnapshotsColumns[0]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LearnersTable,
		ActivityEventsTable,
		SnapshotsTable,
	}
)

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
