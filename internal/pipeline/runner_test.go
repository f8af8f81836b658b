package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/edgarsift/internal/schema"
	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

func TestRunner_Apply(t *testing.T) {
	patterns := []transform.Pattern{
		{ID: "p1", Type: transform.PatternFieldMapping, SourcePath: "name", TargetPath: "name"},
		{ID: "p2", Type: transform.PatternFieldRename, SourcePath: "temp", TargetPath: "temperature"},
		{ID: "p3", Type: transform.PatternFieldExtraction, SourcePath: "main.humidity", TargetPath: "humidity"},
		{ID: "p4", Type: transform.PatternArrayFirst, SourcePath: "weather", TargetPath: "conditions"},
	}
	records := []map[string]any{{
		"name":    "Acme",
		"temp":    72.5,
		"main":    map[string]any{"humidity": 40},
		"weather": []any{"cloudy", "rain"},
	}}

	out, warnings := NewRunner(nil).Apply(context.Background(), patterns, records)
	assert.Empty(t, warnings)
	require.Len(t, out, 1)
	assert.Equal(t, map[string]any{
		"name":        "Acme",
		"temperature": 72.5,
		"humidity":    40,
		"conditions":  "cloudy",
	}, out[0])
}

func TestRunner_Run(t *testing.T) {
	path := writeFile(t, "records.json", `[{"name": "Acme"}, {"name": "Widgets"}]`)
	patterns := []transform.Pattern{
		{ID: "p1", Type: transform.PatternFieldMapping, SourcePath: "name", TargetPath: "company"},
	}

	out, warnings, err := NewRunner(nil).Run(context.Background(), &FileSource{Path: path}, patterns)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, out, 2)
	assert.Equal(t, "Widgets", out[1]["company"])
}

func TestRunner_Run_FetchError(t *testing.T) {
	_, _, err := NewRunner(nil).Run(context.Background(), &FileSource{Path: "does-not-exist.json"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch")
}

func TestRunner_Apply_TypeConversion(t *testing.T) {
	patterns := []transform.Pattern{
		{ID: "p1", Type: transform.PatternTypeConversion, SourcePath: "count", TargetPath: "count", TargetType: schema.TypeInteger},
		{ID: "p2", Type: transform.PatternTypeConversion, SourcePath: "id", TargetPath: "id", TargetType: schema.TypeString},
	}
	records := []map[string]any{{"count": "42", "id": 7}}

	out, warnings := NewRunner(nil).Apply(context.Background(), patterns, records)
	assert.Empty(t, warnings)
	require.Len(t, out, 1)
	assert.Equal(t, 42, out[0]["count"])
	assert.Equal(t, "7", out[0]["id"])
}

func TestRunner_Apply_UnknownTypeSkippedOnce(t *testing.T) {
	patterns := []transform.Pattern{
		{ID: "p1", Type: transform.PatternCalculation, SourcePath: "a", TargetPath: "b"},
		{ID: "p2", Type: transform.PatternFieldMapping, SourcePath: "a", TargetPath: "a"},
	}
	records := []map[string]any{{"a": 1}, {"a": 2}}

	out, warnings := NewRunner(nil).Apply(context.Background(), patterns, records)
	require.Len(t, out, 2)
	// One warning, not one per record.
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "calculation")
	assert.Contains(t, warnings[0], "no executor")
	// Executable patterns still run.
	assert.Equal(t, 1, out[0]["a"])
	assert.Equal(t, 2, out[1]["a"])
}

func TestRunner_Apply_MissingSourceProducesNoField(t *testing.T) {
	patterns := []transform.Pattern{
		{ID: "p1", Type: transform.PatternFieldMapping, SourcePath: "missing", TargetPath: "out"},
	}

	out, warnings := NewRunner(nil).Apply(context.Background(), patterns, []map[string]any{{"a": 1}})
	assert.Empty(t, warnings)
	require.Len(t, out, 1)
	assert.NotContains(t, out[0], "out")
}

func TestRunner_Apply_DoesNotMutateInput(t *testing.T) {
	patterns := []transform.Pattern{
		{ID: "p1", Type: transform.PatternFieldRename, SourcePath: "temp", TargetPath: "temperature"},
	}
	record := map[string]any{"temp": 1}

	_, _ = NewRunner(nil).Apply(context.Background(), patterns, []map[string]any{record})
	assert.Equal(t, map[string]any{"temp": 1}, record)
}

func TestRunner_Apply_ArrayFirstOnNonArray(t *testing.T) {
	patterns := []transform.Pattern{
		{ID: "p1", Type: transform.PatternArrayFirst, SourcePath: "v", TargetPath: "first"},
	}

	out, warnings := NewRunner(nil).Apply(context.Background(), patterns, []map[string]any{{"v": "scalar"}})
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "not an array")
	assert.NotContains(t, out[0], "first")
}

func TestSetPath_Nested(t *testing.T) {
	m := map[string]any{}
	setPath(m, "a.b.c", 1)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}}, m)
}
