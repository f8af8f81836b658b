package transform

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/edgarsift/internal/schema"
)

// Confidence assignments per detector. Mappings with identical values in
// every pair score highest; structural heuristics score lower because they
// can pair unrelated fields by coincidence.
const (
	confRename     = 0.9
	confArrayFirst = 0.85
	confExtraction = 0.8
	confConversion = 0.75
)

// Detector infers schemas for both sides of an example batch and derives
// transformation patterns from the diff plus value comparison.
type Detector struct {
	analyzer *schema.Analyzer
}

// NewDetector returns a detector backed by the given analyzer.
func NewDetector(analyzer *schema.Analyzer) *Detector {
	return &Detector{analyzer: analyzer}
}

// Detect analyzes aligned input/output pairs. An empty batch produces empty
// schemas and no patterns.
func (d *Detector) Detect(pairs []ExamplePair) *ParsedExamples {
	inputs := make([]map[string]any, len(pairs))
	outputs := make([]map[string]any, len(pairs))
	for i, p := range pairs {
		inputs[i] = p.Input
		outputs[i] = p.Output
	}

	in := d.analyzer.Infer(inputs)
	out := d.analyzer.Infer(outputs)
	diffs := d.analyzer.Compare(in, out)

	pe := &ParsedExamples{
		InputSchema:  in,
		OutputSchema: out,
		Differences:  diffs,
	}

	pe.Patterns = append(pe.Patterns, detectMappings(pairs, in, out)...)
	pe.Patterns = append(pe.Patterns, patternsFromDiffs(diffs, in, out)...)
	pe.Patterns = append(pe.Patterns, detectArrayFirst(pairs, in, out)...)
	pe.Patterns = append(pe.Patterns, detectExtractions(pairs, in, out)...)

	return pe
}

// detectMappings finds fields present on both sides with the same type.
// Confidence scales with how often the values actually pass through
// unchanged, floored at 0.5 for a same-path same-type match alone.
func detectMappings(pairs []ExamplePair, in, out *schema.Schema) []Pattern {
	var patterns []Pattern
	for _, f := range in.Fields() {
		of, ok := out.Field(f.Path)
		if !ok || of.Type != f.Type || f.Type == schema.TypeObject {
			continue
		}
		equal, compared := 0, 0
		for _, p := range pairs {
			iv, iok := valueAt(p.Input, f.Path)
			ov, ook := valueAt(p.Output, f.Path)
			if !iok || !ook {
				continue
			}
			compared++
			if iv.Equal(ov) {
				equal++
			}
		}
		if compared == 0 {
			continue
		}
		frac := float64(equal) / float64(compared)
		patterns = append(patterns, Pattern{
			ID:             uuid.New().String(),
			Type:           PatternFieldMapping,
			Confidence:     0.5 + 0.5*frac,
			SourcePath:     f.Path,
			TargetPath:     f.Path,
			Transformation: fmt.Sprintf("copy %s", f.Path),
			SourceType:     f.Type,
			TargetType:     of.Type,
		})
	}
	return patterns
}

// patternsFromDiffs converts rename and type-change differences into
// patterns.
func patternsFromDiffs(diffs []schema.Difference, in, out *schema.Schema) []Pattern {
	var patterns []Pattern
	for _, diff := range diffs {
		switch diff.Type {
		case schema.DiffRenamed:
			sf, _ := in.Field(diff.InputPath)
			tf, _ := out.Field(diff.OutputPath)
			patterns = append(patterns, Pattern{
				ID:             uuid.New().String(),
				Type:           PatternFieldRename,
				Confidence:     confRename * diff.Confidence,
				SourcePath:     diff.InputPath,
				TargetPath:     diff.OutputPath,
				Transformation: fmt.Sprintf("probable rename %s -> %s", diff.InputPath, diff.OutputPath),
				SourceType:     sf.Type,
				TargetType:     tf.Type,
			})
		case schema.DiffTypeChanged:
			sf, _ := in.Field(diff.InputPath)
			tf, _ := out.Field(diff.OutputPath)
			patterns = append(patterns, Pattern{
				ID:             uuid.New().String(),
				Type:           PatternTypeConversion,
				Confidence:     confConversion,
				SourcePath:     diff.InputPath,
				TargetPath:     diff.OutputPath,
				Transformation: fmt.Sprintf("convert %s from %s to %s", diff.InputPath, sf.Type, tf.Type),
				SourceType:     sf.Type,
				TargetType:     tf.Type,
			})
		}
	}
	return patterns
}

// detectArrayFirst finds output scalars that equal the first element of an
// input array at the same path in every pair.
func detectArrayFirst(pairs []ExamplePair, in, out *schema.Schema) []Pattern {
	var patterns []Pattern
	for _, f := range in.Fields() {
		if f.Type != schema.TypeArray {
			continue
		}
		of, ok := out.Field(f.Path)
		if !ok || of.Type == schema.TypeArray {
			continue
		}
		if !allPairsMatch(pairs, func(p ExamplePair) bool {
			iv, iok := valueAt(p.Input, f.Path)
			ov, ook := valueAt(p.Output, f.Path)
			if !iok || !ook || iv.Kind != schema.KindArray || len(iv.Items) == 0 {
				return false
			}
			return iv.Items[0].Equal(ov)
		}) {
			continue
		}
		patterns = append(patterns, Pattern{
			ID:             uuid.New().String(),
			Type:           PatternArrayFirst,
			Confidence:     confArrayFirst,
			SourcePath:     f.Path,
			TargetPath:     f.Path,
			Transformation: fmt.Sprintf("take first element of %s", f.Path),
			SourceType:     f.Type,
			TargetType:     of.Type,
		})
	}
	return patterns
}

// detectExtractions finds output top-level fields whose values equal a
// nested input field in every pair.
func detectExtractions(pairs []ExamplePair, in, out *schema.Schema) []Pattern {
	var patterns []Pattern
	for _, of := range out.Fields() {
		if of.NestedLevel != 0 || of.Type == schema.TypeObject {
			continue
		}
		if _, ok := in.Field(of.Path); ok {
			continue // same-path fields are mappings, not extractions
		}
		for _, f := range in.Fields() {
			if f.NestedLevel == 0 || f.Type == schema.TypeObject || f.Type != of.Type {
				continue
			}
			// Require the leaf name to match the output field so that two
			// unrelated equal-valued fields do not pair up.
			if leafName(f.Path) != of.Path {
				continue
			}
			if !allPairsMatch(pairs, func(p ExamplePair) bool {
				iv, iok := valueAt(p.Input, f.Path)
				ov, ook := valueAt(p.Output, of.Path)
				return iok && ook && iv.Equal(ov)
			}) {
				continue
			}
			patterns = append(patterns, Pattern{
				ID:             uuid.New().String(),
				Type:           PatternFieldExtraction,
				Confidence:     confExtraction,
				SourcePath:     f.Path,
				TargetPath:     of.Path,
				Transformation: fmt.Sprintf("extract %s to %s", f.Path, of.Path),
				SourceType:     f.Type,
				TargetType:     of.Type,
			})
			break
		}
	}
	return patterns
}

func allPairsMatch(pairs []ExamplePair, match func(ExamplePair) bool) bool {
	if len(pairs) == 0 {
		return false
	}
	for _, p := range pairs {
		if !match(p) {
			return false
		}
	}
	return true
}

func leafName(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

// valueAt resolves a dotted path inside a raw example.
func valueAt(example map[string]any, path string) (schema.Value, bool) {
	cur := schema.FromAny(example)
	for _, part := range strings.Split(path, ".") {
		if cur.Kind != schema.KindObject {
			return schema.Value{}, false
		}
		next, ok := cur.Fields[part]
		if !ok {
			return schema.Value{}, false
		}
		cur = next
	}
	return cur, true
}
