package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/edgarsift/internal/logging"
	"github.com/fyrsmithlabs/edgarsift/internal/schema"
	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

// Runner applies an accepted pattern set to records. Each output record
// contains exactly the fields the patterns produce; inputs are never
// mutated.
type Runner struct {
	logger *logging.Logger
}

// NewRunner builds a runner; nil logger disables logging.
func NewRunner(logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{logger: logger}
}

// Apply transforms every record through the given patterns. Patterns
// with no executor are skipped once with a warning rather than failing
// the run.
func (r *Runner) Apply(ctx context.Context, patterns []transform.Pattern, records []map[string]any) ([]map[string]any, []string) {
	var warnings []string
	skipped := map[string]bool{}

	out := make([]map[string]any, 0, len(records))
	for i, record := range records {
		result := make(map[string]any)
		for _, p := range patterns {
			if err := applyPattern(p, record, result); err != nil {
				var unknown *unknownPatternError
				if errors.As(err, &unknown) {
					if !skipped[string(p.Type)] {
						skipped[string(p.Type)] = true
						warnings = append(warnings, fmt.Sprintf("skipping %s patterns: no executor", p.Type))
					}
					continue
				}
				warnings = append(warnings, fmt.Sprintf("record %d: pattern %s: %v", i, p.ID, err))
			}
		}
		out = append(out, result)
	}

	r.logger.Info(ctx, "applied patterns",
		zap.Int("patterns", len(patterns)),
		zap.Int("records", len(records)),
		zap.Int("warnings", len(warnings)))
	return out, warnings
}

// Run fetches records from the source and applies the patterns to them.
func (r *Runner) Run(ctx context.Context, src DataSource, patterns []transform.Pattern) ([]map[string]any, []string, error) {
	records, err := src.Fetch(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", src.Name(), err)
	}
	out, warnings := r.Apply(ctx, patterns, records)
	return out, warnings, nil
}

type unknownPatternError struct {
	t transform.PatternType
}

func (e *unknownPatternError) Error() string {
	return fmt.Sprintf("no executor for pattern type %q", e.t)
}

// applyPattern executes one pattern against an input record, writing
// into result. A source field absent from the record is not an error;
// the output field is simply not produced.
func applyPattern(p transform.Pattern, record, result map[string]any) error {
	switch p.Type {
	case transform.PatternFieldMapping, transform.PatternFieldRename, transform.PatternFieldExtraction:
		v, ok := lookupPath(record, p.SourcePath)
		if !ok {
			return nil
		}
		setPath(result, p.TargetPath, v)
	case transform.PatternArrayFirst:
		v, ok := lookupPath(record, p.SourcePath)
		if !ok {
			return nil
		}
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("source %s is not an array", p.SourcePath)
		}
		if len(arr) == 0 {
			return nil
		}
		setPath(result, p.TargetPath, arr[0])
	case transform.PatternTypeConversion:
		v, ok := lookupPath(record, p.SourcePath)
		if !ok {
			return nil
		}
		converted, err := convertValue(v, p.TargetType)
		if err != nil {
			return err
		}
		setPath(result, p.TargetPath, converted)
	default:
		return &unknownPatternError{t: p.Type}
	}
	return nil
}

// lookupPath resolves a dotted path through nested maps.
func lookupPath(record map[string]any, path string) (any, bool) {
	cur := any(record)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath writes a dotted path into nested maps, creating intermediate
// objects as needed.
func setPath(result map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	cur := result
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

// convertValue coerces a value to the target schema type.
func convertValue(v any, target schema.FieldType) (any, error) {
	switch target {
	case schema.TypeString:
		return fmt.Sprintf("%v", v), nil
	case schema.TypeInteger:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			return int(n), nil
		case string:
			i, err := strconv.Atoi(strings.TrimSpace(n))
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to integer", n)
			}
			return i, nil
		}
	case schema.TypeFloat:
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to float", n)
			}
			return f, nil
		}
	case schema.TypeBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				return nil, fmt.Errorf("cannot convert %q to boolean", b)
			}
			return parsed, nil
		}
	}
	return nil, fmt.Errorf("cannot convert %T to %s", v, target)
}
