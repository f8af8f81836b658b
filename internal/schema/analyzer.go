package schema

// DifferenceType classifies one schema difference.
type DifferenceType string

const (
	DiffAdded       DifferenceType = "added"
	DiffRemoved     DifferenceType = "removed"
	DiffRenamed     DifferenceType = "renamed"
	DiffTypeChanged DifferenceType = "type_changed"
)

// Difference is one detected change between an input and an output schema.
type Difference struct {
	Type       DifferenceType `json:"difference_type"`
	InputPath  string         `json:"input_path,omitempty"`
	OutputPath string         `json:"output_path,omitempty"`
	// Confidence is set for renames only. Rename detection compares sample
	// values, so a perfect score is still a probable rename, not a proof.
	Confidence float64 `json:"confidence,omitempty"`
}

const defaultMaxSamples = 5

// Analyzer infers schemas from example batches and diffs them. Configuration
// is fixed at construction; every method is a pure computation over its
// arguments, safe for concurrent use.
type Analyzer struct {
	maxSamples int
}

// NewAnalyzer returns an analyzer. maxSamples bounds the per-field sample
// list; zero or negative selects the default of 5.
func NewAnalyzer(maxSamples int) *Analyzer {
	if maxSamples <= 0 {
		maxSamples = defaultMaxSamples
	}
	return &Analyzer{maxSamples: maxSamples}
}

// fieldState accumulates per-path observations during a walk.
type fieldState struct {
	path     string
	seen     map[Kind]bool
	present  int
	nullSeen bool
	samples  []string
	obs      []observation
}

// Infer walks every example and produces a schema covering every distinct
// field path observed across the batch. An empty batch yields an empty
// schema, not an error.
func (a *Analyzer) Infer(examples []map[string]any) *Schema {
	s := &Schema{
		index:        make(map[string]int),
		observed:     make(map[string][]observation),
		ExamplesSeen: len(examples),
	}

	order := []string{}
	states := map[string]*fieldState{}

	state := func(path string) *fieldState {
		st, ok := states[path]
		if !ok {
			st = &fieldState{
				path: path,
				seen: map[Kind]bool{},
				obs:  make([]observation, len(examples)),
			}
			states[path] = st
			order = append(order, path)
		}
		return st
	}

	var walk func(obj map[string]Value, prefix string, exIdx int)
	walk = func(obj map[string]Value, prefix string, exIdx int) {
		for _, key := range sortedKeys(obj) {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			v := obj[key]
			st := state(path)
			st.present++
			st.obs[exIdx] = observation{present: true, value: v}

			switch v.Kind {
			case KindNull:
				st.nullSeen = true
			case KindObject:
				st.seen[KindObject] = true
				walk(v.Fields, path, exIdx)
			case KindArray:
				st.seen[KindArray] = true
				// Arrays of objects flag the schema; element fields are not
				// walked, matching the documented extraction behavior.
				for _, item := range v.Items {
					if item.Kind == KindObject {
						s.HasArrays = true
						break
					}
				}
			default:
				st.seen[v.Kind] = true
			}

			if v.Kind != KindObject {
				a.addSample(st, v)
			}
		}
	}

	for i, ex := range examples {
		root := FromAny(ex)
		walk(root.Fields, "", i)
	}

	for _, path := range order {
		st := states[path]
		f := Field{
			Path:         st.path,
			Type:         resolveType(st.seen),
			Nullable:     st.nullSeen,
			Required:     st.present == len(examples) && len(examples) > 0,
			NestedLevel:  nestedLevel(st.path),
			SampleValues: st.samples,
		}
		if f.NestedLevel > 0 {
			s.IsNested = true
		}
		s.index[f.Path] = len(s.fields)
		s.fields = append(s.fields, f)
		s.observed[f.Path] = st.obs
	}

	return s
}

func (a *Analyzer) addSample(st *fieldState, v Value) {
	if len(st.samples) >= a.maxSamples {
		return
	}
	display := v.Display()
	for _, existing := range st.samples {
		if existing == display {
			return
		}
	}
	st.samples = append(st.samples, display)
}

// resolveType collapses the set of observed kinds into a single field type.
// A field seen as both int and float widens to FLOAT; any other mix of
// scalar kinds falls back to STRING; only-null fields type as NULL.
func resolveType(seen map[Kind]bool) FieldType {
	if len(seen) == 0 {
		return TypeNull
	}
	if len(seen) == 2 && seen[KindInt] && seen[KindFloat] {
		return TypeFloat
	}
	if len(seen) > 1 {
		return TypeString
	}
	for k := range seen {
		switch k {
		case KindBool:
			return TypeBoolean
		case KindInt:
			return TypeInteger
		case KindFloat:
			return TypeFloat
		case KindString:
			return TypeString
		case KindArray:
			return TypeArray
		case KindObject:
			return TypeObject
		}
	}
	return TypeString
}

// Compare diffs two schemas. Matching paths with differing types produce
// type_changed; paths unique to one side produce removed/added unless the
// rename heuristic pairs them up first.
func (a *Analyzer) Compare(in, out *Schema) []Difference {
	var diffs []Difference

	var removed, added []Field
	for _, f := range in.fields {
		if _, ok := out.index[f.Path]; !ok {
			removed = append(removed, f)
		}
	}
	for _, f := range out.fields {
		if _, ok := in.index[f.Path]; !ok {
			added = append(added, f)
		}
	}

	// Pair removed/added fields whose observed values line up in every
	// example. Coincidental value overlap produces false positives, so the
	// result is reported as a probable rename.
	usedAdded := make(map[string]bool)
	for _, rf := range removed {
		matched := false
		for _, af := range added {
			if usedAdded[af.Path] || af.Type != rf.Type {
				continue
			}
			score := renameConfidence(in.observed[rf.Path], out.observed[af.Path])
			if score == 1.0 {
				diffs = append(diffs, Difference{
					Type:       DiffRenamed,
					InputPath:  rf.Path,
					OutputPath: af.Path,
					Confidence: score,
				})
				usedAdded[af.Path] = true
				matched = true
				break
			}
		}
		if !matched {
			diffs = append(diffs, Difference{Type: DiffRemoved, InputPath: rf.Path})
		}
	}
	for _, af := range added {
		if !usedAdded[af.Path] {
			diffs = append(diffs, Difference{Type: DiffAdded, OutputPath: af.Path})
		}
	}

	for _, f := range in.fields {
		of, ok := out.Field(f.Path)
		if ok && of.Type != f.Type {
			diffs = append(diffs, Difference{
				Type:       DiffTypeChanged,
				InputPath:  f.Path,
				OutputPath: f.Path,
			})
		}
	}

	return diffs
}

// renameConfidence scores how consistently the values at an input path equal
// the values at an output path across aligned examples. 1.0 means every
// example where either side was present agreed; 0 means no evidence.
func renameConfidence(inObs, outObs []observation) float64 {
	n := len(inObs)
	if len(outObs) < n {
		n = len(outObs)
	}
	if n == 0 {
		return 0
	}
	compared := 0
	equal := 0
	for i := 0; i < n; i++ {
		if !inObs[i].present && !outObs[i].present {
			continue
		}
		compared++
		if inObs[i].present && outObs[i].present && inObs[i].value.Equal(outObs[i].value) {
			equal++
		}
	}
	if compared == 0 {
		return 0
	}
	return float64(equal) / float64(compared)
}
