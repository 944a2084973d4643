package dataset

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// filterEnv is the expression environment exposed per record.
func filterEnv(rec Record) map[string]any {
	return map[string]any{
		"id":                 rec.ID,
		"complexity":         rec.Complexity,
		"sql":                rec.SQL,
		"tables":             rec.Tables,
		"applicability_rate": rec.Perturbations.Metadata.ApplicabilityRate,
	}
}

// Filter keeps the records for which the boolean expression holds. The
// expression sees id, complexity, sql, tables, and applicability_rate, e.g.
// `complexity == "join" && applicability_rate > 0.8`.
func Filter(records []Record, condition string) ([]Record, error) {
	program, err := expr.Compile(condition, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling filter %q: %w", condition, err)
	}

	var out []Record

	for _, rec := range records {
		keep, err := runFilter(program, rec)
		if err != nil {
			return nil, err
		}

		if keep {
			out = append(out, rec)
		}
	}

	return out, nil
}

func runFilter(program *vm.Program, rec Record) (bool, error) {
	result, err := expr.Run(program, filterEnv(rec))
	if err != nil {
		return false, fmt.Errorf("evaluating filter on record %d: %w", rec.ID, err)
	}

	keep, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter on record %d returned %T, want bool", rec.ID, result)
	}

	return keep, nil
}
