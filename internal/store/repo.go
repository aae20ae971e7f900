package store

import (
	"context"
	"time"

	"entgo.io/ent/dialect"

	"github.com/cpapath/cpapath/internal/progress"
)

// EventKind names an activity event type.
type EventKind string

const (
	EventLessonCompleted     EventKind = "lesson_completed"
	EventAnswerSubmitted     EventKind = "answer_submitted"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
	EventLevelUp             EventKind = "level_up"
	EventProgressReset       EventKind = "progress_reset"
	EventRecordImported      EventKind = "record_imported"
	EventProgressRestored    EventKind = "progress_restored"
)

// Event is one entry in a learner's append-only activity log.
type Event struct {
	ID        string
	Sequence  int64
	LearnerID string
	Kind      EventKind
	Subject   string // lesson, question or achievement id
	XP        int
	Data      map[string]any
	Timestamp time.Time
}

// EventData is the caller-supplied part of an event. ID and Sequence are
// assigned on append.
type EventData struct {
	LearnerID string
	Kind      EventKind
	Subject   string
	XP        int
	Data      map[string]any
	Timestamp time.Time
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int         // max results (0 = unlimited)
	After  int64       // sequence > After
	Before int64       // sequence < Before
	From   time.Time   // timestamp >= From
	To     time.Time   // timestamp <= To
	Kinds  []EventKind // empty = all kinds
	Desc   bool        // newest first
}

// SnapshotData captures the full learner state at a point in time.
type SnapshotData struct {
	Version int              `json:"version"`
	Record  *progress.Record `json:"record"`
}

// SnapshotVersion is written into every new snapshot.
const SnapshotVersion = 1

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	LearnerID string
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// LearnerRepo stores one progress record per learner.
type LearnerRepo interface {
	// Get returns the learner's record, or nil if none is stored.
	Get(ctx context.Context, learnerID string) (*progress.Record, error)

	// Put inserts or replaces the learner's record.
	Put(ctx context.Context, learnerID string, rec *progress.Record, now time.Time) error

	// List returns all learner ids in ascending order.
	List(ctx context.Context) ([]string, error)
}

// EventRepo provides append and query access to activity events.
type EventRepo interface {
	// Append records an event under the next global sequence number.
	Append(ctx context.Context, data EventData) (*Event, error)

	// Query returns the learner's events matching opts.
	Query(ctx context.Context, learnerID string, opts QueryOpts) ([]Event, error)
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the learner's most recent snapshot, or nil if none exist.
	Latest(ctx context.Context, learnerID string) (*Snapshot, error)

	// Prune deletes all but the learner's N most recent snapshots.
	Prune(ctx context.Context, learnerID string, keep int) error
}

// Repos groups the repositories bound to one querier.
type Repos struct {
	Learners  LearnerRepo
	Events    EventRepo
	Snapshots SnapshotRepo
}

func newRepos(q dialect.ExecQuerier, seq *sequenceCounter) *Repos {
	return &Repos{
		Learners:  &learnerRepo{q: q},
		Events:    &eventRepo{q: q, seq: seq},
		Snapshots: &snapshotRepo{q: q, seq: seq},
	}
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
