package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfer_EmptyInput(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer(nil)
	require.NotNil(t, s)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.IsNested)
	assert.False(t, s.HasArrays)
}

func TestInfer_CoversEveryObservedPath(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{
		{"name": "Jane", "salary": 100000},
		{"name": "John", "bonus": 5000},
		{"meta": map[string]any{"year": 2024}},
	})

	// name, salary, bonus, meta, meta.year
	assert.Equal(t, 5, s.Len())
	for _, path := range []string{"name", "salary", "bonus", "meta", "meta.year"} {
		_, ok := s.Field(path)
		assert.True(t, ok, "missing path %s", path)
	}
}

func TestInfer_RequiredIffPresentEverywhere(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{
		{"always": 1, "sometimes": 2},
		{"always": 3},
	})

	always, ok := s.Field("always")
	require.True(t, ok)
	assert.True(t, always.Required)

	sometimes, ok := s.Field("sometimes")
	require.True(t, ok)
	assert.False(t, sometimes.Required)
}

func TestInfer_RequiredAndNullableAreIndependent(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{
		{"x": 1},
		{"x": nil},
	})

	x, ok := s.Field("x")
	require.True(t, ok)
	assert.True(t, x.Required, "present in every example")
	assert.True(t, x.Nullable, "null in one example")
	assert.Equal(t, TypeInteger, x.Type, "null observations do not change the type")
}

func TestInfer_BooleanNeverInteger(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{{"flag": true}})

	flag, ok := s.Field("flag")
	require.True(t, ok)
	assert.Equal(t, TypeBoolean, flag.Type)
}

func TestInfer_NestedScenario(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{
		{"temp": 15.5, "main": map[string]any{"humidity": 72}},
	})

	assert.True(t, s.IsNested)

	temp, ok := s.Field("temp")
	require.True(t, ok)
	assert.Equal(t, TypeFloat, temp.Type)
	assert.Equal(t, 0, temp.NestedLevel)

	humidity, ok := s.Field("main.humidity")
	require.True(t, ok)
	assert.Equal(t, TypeInteger, humidity.Type)
	assert.Equal(t, 1, humidity.NestedLevel)
}

func TestInfer_JSONDecodedNumbers(t *testing.T) {
	// encoding/json yields float64 for every number; whole values must
	// still classify as INTEGER.
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{{"count": float64(72), "rate": float64(0.25)}})

	count, _ := s.Field("count")
	assert.Equal(t, TypeInteger, count.Type)
	rate, _ := s.Field("rate")
	assert.Equal(t, TypeFloat, rate.Type)
}

func TestInfer_IntAndFloatWidenToFloat(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{
		{"amount": 10},
		{"amount": 10.5},
	})

	amount, _ := s.Field("amount")
	assert.Equal(t, TypeFloat, amount.Type)
}

func TestInfer_ArrayOfObjectsFlagsSchema(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{
		{"rows": []any{map[string]any{"name": "x"}}},
	})

	assert.True(t, s.HasArrays)
	rows, ok := s.Field("rows")
	require.True(t, ok)
	assert.Equal(t, TypeArray, rows.Type)

	// Array element fields are not walked.
	_, ok = s.Field("rows.name")
	assert.False(t, ok)
}

func TestInfer_ScalarArrayDoesNotFlagSchema(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{{"tags": []any{"a", "b"}}})

	assert.False(t, s.HasArrays)
	tags, _ := s.Field("tags")
	assert.Equal(t, TypeArray, tags.Type)
}

func TestInfer_SampleValuesBoundedAndDistinct(t *testing.T) {
	a := NewAnalyzer(3)
	examples := make([]map[string]any, 0, 10)
	for i := 0; i < 10; i++ {
		examples = append(examples, map[string]any{"n": i})
	}
	examples = append(examples, map[string]any{"n": 0}) // duplicate

	s := a.Infer(examples)
	n, _ := s.Field("n")
	assert.Equal(t, []string{"0", "1", "2"}, n.SampleValues)
}

func TestCompare_SelfYieldsNoTypeChanges(t *testing.T) {
	a := NewAnalyzer(0)
	s := a.Infer([]map[string]any{
		{"name": "x", "n": 1, "nested": map[string]any{"f": 1.5}},
	})

	for _, d := range a.Compare(s, s) {
		assert.NotEqual(t, DiffTypeChanged, d.Type)
	}
}

func TestCompare_AddedAndRemoved(t *testing.T) {
	a := NewAnalyzer(0)
	in := a.Infer([]map[string]any{{"old_only": 1, "kept": "v"}})
	out := a.Infer([]map[string]any{{"new_only": true, "kept": "v"}})

	diffs := a.Compare(in, out)

	var added, removed []Difference
	for _, d := range diffs {
		switch d.Type {
		case DiffAdded:
			added = append(added, d)
		case DiffRemoved:
			removed = append(removed, d)
		}
	}
	require.Len(t, added, 1)
	assert.Equal(t, "new_only", added[0].OutputPath)
	require.Len(t, removed, 1)
	assert.Equal(t, "old_only", removed[0].InputPath)
}

func TestCompare_TypeChanged(t *testing.T) {
	a := NewAnalyzer(0)
	in := a.Infer([]map[string]any{{"salary": "100,000"}})
	out := a.Infer([]map[string]any{{"salary": 100000}})

	diffs := a.Compare(in, out)
	require.Len(t, diffs, 1)
	assert.Equal(t, DiffTypeChanged, diffs[0].Type)
	assert.Equal(t, "salary", diffs[0].InputPath)
	assert.Equal(t, "salary", diffs[0].OutputPath)
}

func TestCompare_ProbableRename(t *testing.T) {
	a := NewAnalyzer(0)
	in := a.Infer([]map[string]any{
		{"full_name": "Jane Doe", "salary": 100},
		{"full_name": "John Roe", "salary": 200},
	})
	out := a.Infer([]map[string]any{
		{"name": "Jane Doe", "salary": 100},
		{"name": "John Roe", "salary": 200},
	})

	diffs := a.Compare(in, out)
	require.Len(t, diffs, 1)
	assert.Equal(t, DiffRenamed, diffs[0].Type)
	assert.Equal(t, "full_name", diffs[0].InputPath)
	assert.Equal(t, "name", diffs[0].OutputPath)
	assert.Equal(t, 1.0, diffs[0].Confidence)
}

func TestCompare_NoRenameWhenValuesDiverge(t *testing.T) {
	a := NewAnalyzer(0)
	in := a.Infer([]map[string]any{
		{"a": "one"},
		{"a": "two"},
	})
	out := a.Infer([]map[string]any{
		{"b": "one"},
		{"b": "different"},
	})

	diffs := a.Compare(in, out)
	require.Len(t, diffs, 2)
	types := map[DifferenceType]bool{}
	for _, d := range diffs {
		types[d.Type] = true
	}
	assert.True(t, types[DiffAdded])
	assert.True(t, types[DiffRemoved])
}
