// Package schema infers field-level type schemas from batches of example
// records and computes structural differences between two schemas.
package schema

import "strings"

// FieldType is the inferred type of a schema field.
type FieldType string

const (
	TypeString  FieldType = "STRING"
	TypeInteger FieldType = "INTEGER"
	TypeFloat   FieldType = "FLOAT"
	TypeBoolean FieldType = "BOOLEAN"
	TypeObject  FieldType = "OBJECT"
	TypeArray   FieldType = "ARRAY"
	TypeNull    FieldType = "NULL"
)

// Field describes one dotted path observed across a batch of examples.
//
// Required and Nullable are independent: a field present in every example
// but null in one of them is both required and nullable.
type Field struct {
	// Path is the dotted location of the field, e.g. "main.humidity".
	Path string `json:"path"`
	// Type is the inferred field type.
	Type FieldType `json:"field_type"`
	// Nullable is true if the field was present but null in at least one example.
	Nullable bool `json:"nullable"`
	// Required is true only if the field was present in every example.
	Required bool `json:"required"`
	// NestedLevel is the nesting depth; always the count of '.' in Path.
	NestedLevel int `json:"nested_level"`
	// SampleValues holds up to the sample cap of distinct observed values,
	// first-seen order. Diagnostic only; never consulted by inference.
	SampleValues []string `json:"sample_values,omitempty"`
}

// observation records what one example held at a path. Absent and null are
// distinct states: absence drives Required, null drives Nullable.
type observation struct {
	present bool
	value   Value
}

// Schema is the inferred shape of a batch of examples. Immutable once
// returned from Analyzer.Infer.
type Schema struct {
	fields []Field
	index  map[string]int
	// observed aligns per-path values with example indices; consumed by
	// rename scoring in Compare.
	observed map[string][]observation

	// IsNested is true when any field sits below the top level.
	IsNested bool
	// HasArrays is true when any observed value was a list of objects.
	HasArrays bool
	// ExamplesSeen is the number of examples the schema was inferred from.
	ExamplesSeen int
}

// Fields returns the schema's fields in walk order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by its dotted path.
func (s *Schema) Field(path string) (Field, bool) {
	i, ok := s.index[path]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

func nestedLevel(path string) int {
	return strings.Count(path, ".")
}
