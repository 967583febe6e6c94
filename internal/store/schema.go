package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions consumed by the auto-migration in Open. Column order
// matches the scan order used by the repositories.
var (
	// ProblemsColumns holds the columns for the "problems" table.
	ProblemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "question", Type: field.TypeString, Size: 2147483647},
		{Name: "option1", Type: field.TypeString},
		{Name: "option2", Type: field.TypeString},
		{Name: "option3", Type: field.TypeString},
		{Name: "option4", Type: field.TypeString},
		{Name: "answer", Type: field.TypeInt},
		{Name: "explanation", Type: field.TypeString, Size: 2147483647},
		{Name: "generated_at", Type: field.TypeTime},
	}
	// ProblemsTable holds the schema information for the "problems" table.
	ProblemsTable = &schema.Table{
		Name:       "problems",
		Columns:    ProblemsColumns,
		PrimaryKey: []*schema.Column{ProblemsColumns[0]},
	}

	// GenerationEventsColumns holds the columns for the "generation_events" table.
	GenerationEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "attempt_id", Type: field.TypeString, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "hint", Type: field.TypeString, Default: ""},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_kind", Type: field.TypeString, Default: ""},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "question_count", Type: field.TypeInt, Default: 0},
		{Name: "size_mismatch", Type: field.TypeBool, Default: false},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "raw_response", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// GenerationEventsTable holds the schema information for the "generation_events" table.
	GenerationEventsTable = &schema.Table{
		Name:       "generation_events",
		Columns:    GenerationEventsColumns,
		PrimaryKey: []*schema.Column{GenerationEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "generationevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{GenerationEventsColumns[2]},
			},
			{
				Name:    "generationevent_success",
				Unique:  false,
				Columns: []*schema.Column{GenerationEventsColumns[7]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ProblemsTable,
		GenerationEventsTable,
	}
)

var (
	problemColumns = []string{
		"id", "question", "option1", "option2", "option3", "option4",
		"answer", "explanation", "generated_at",
	}
	generationEventColumns = []string{
		"id", "attempt_id", "timestamp", "provider", "model", "difficulty",
		"hint", "success", "error_kind", "error_message", "question_count",
		"size_mismatch", "input_tokens", "output_tokens", "latency_ms",
		"raw_response",
	}
)
