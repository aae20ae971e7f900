package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const recordSchemaURL = "schema://learner-record.json"

// RecordSchema is the JSON schema an imported learner record must satisfy.
var RecordSchema = map[string]any{
	"type":     "object",
	"required": []any{"profile", "progress"},
	"properties": map[string]any{
		"profile": map[string]any{
			"type":     "object",
			"required": []any{"xp"},
			"properties": map[string]any{
				"username":   map[string]any{"type": "string"},
				"xp":         nonNegativeInt,
				"level":      map[string]any{"type": "integer", "minimum": 1},
				"streak":     nonNegativeInt,
				"lives":      map[string]any{"type": "integer", "minimum": 0, "maximum": MaxHearts},
				"daily_goal": nonNegativeInt,
				"last_active_date": map[string]any{
					"type":    []any{"string", "null"},
					"pattern": `^\d{4}-\d{2}-\d{2}$`,
				},
				"last_heart_recovery": map[string]any{"type": []any{"string", "null"}},
			},
		},
		"progress": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"lessons": map[string]any{
					"type": []any{"object", "null"},
					"additionalProperties": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"completed_at": map[string]any{"type": "string"},
							"score":        map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
							"xp_earned":    nonNegativeInt,
						},
					},
				},
				"question_states": map[string]any{
					"type": []any{"object", "null"},
					"additionalProperties": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"correct": nonNegativeInt,
							"wrong":   nonNegativeInt,
						},
					},
				},
				"statistics": map[string]any{
					"type":                 []any{"object", "null"},
					"additionalProperties": nonNegativeInt,
				},
				"daily_activity": map[string]any{
					"type":          []any{"object", "null"},
					"propertyNames": map[string]any{"pattern": `^\d{4}-\d{2}-\d{2}$`},
					"additionalProperties": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"xp_earned":          nonNegativeInt,
							"lessons_completed":  nonNegativeInt,
							"questions_answered": nonNegativeInt,
							"streak_active":      map[string]any{"type": "boolean"},
						},
					},
				},
				"achievements": map[string]any{
					"type":  []any{"array", "null"},
					"items": map[string]any{"type": "string"},
				},
			},
		},
	},
}

var nonNegativeInt = map[string]any{"type": "integer", "minimum": 0}

// ValidationError reports an imported record that does not match RecordSchema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid learner record: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// DecodeJSON validates raw against RecordSchema and decodes it.
func DecodeJSON(raw []byte) (*Record, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := recordSchema()
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, &ValidationError{Err: err}
	}

	normalizeTimestamps(doc)
	norm, err := json.Marshal(doc)
	if err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("re-encode: %w", err)}
	}

	// Fields absent from raw keep the new-record defaults.
	rec := NewRecord("")
	if err := json.Unmarshal(norm, rec); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("decode: %w", err)}
	}
	rec.ensure()
	return rec, nil
}

// naiveLayout matches timestamps written without a zone offset, as the
// backend's isoformat() produces. They are read as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// parseTimestamp accepts RFC 3339 and zone-less ISO 8601 timestamps.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(naiveLayout, s, time.UTC)
}

// normalizeTimestamps rewrites the record's timestamp fields in doc to
// RFC 3339 so they decode into time.Time. Unparseable values are left for
// the decoder to reject.
func normalizeTimestamps(doc any) {
	root, _ := doc.(map[string]any)

	if profile, ok := root["profile"].(map[string]any); ok {
		normalizeField(profile, "last_heart_recovery")
	}
	prog, _ := root["progress"].(map[string]any)
	lessons, _ := prog["lessons"].(map[string]any)
	for _, l := range lessons {
		if lesson, ok := l.(map[string]any); ok {
			normalizeField(lesson, "completed_at")
		}
	}
}

func normalizeField(m map[string]any, key string) {
	s, ok := m[key].(string)
	if !ok {
		return
	}
	if t, err := parseTimestamp(s); err == nil {
		m[key] = t.UTC().Format(time.RFC3339Nano)
	}
}

func recordSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		// The compiler wants the same value shapes UnmarshalJSON produces.
		defBytes, err := json.Marshal(RecordSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(recordSchemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(recordSchemaURL)
	})
	return compiledSchema, schemaErr
}
