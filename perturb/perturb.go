// Package perturb defines the closed taxonomy of natural-language
// perturbations applied to rendered prompts, together with the applicability
// predicate for each and the configuration carried into a render call.
package perturb

import (
	"regexp"

	"github.com/vexsql/vexsql"
)

// Type identifies one perturbation category. IDs are stable and start at 1.
type Type int

// The thirteen perturbation types.
const (
	OmitObviousClauses Type = iota + 1
	SynonymSubstitution
	VerbosityVariation
	OperatorAggregateVariation
	Typos
	CommentAnnotations
	TemporalExpressionVariation
	PunctuationVariation
	UrgencyQualifiers
	MixedSQLNL
	TableColumnSynonyms
	IncompleteJoinSpec
	AmbiguousPronouns
)

// entry is the behavior record for one taxonomy member: its dataset name, the
// human-readable change description, its applicability predicate, and the
// reason reported when the predicate fails.
type entry struct {
	name       string
	changes    string
	applicable func(*vexsql.Statement) bool
	reason     string
}

// always marks perturbations that operate on surface text every render
// produces; their predicates hold unconditionally.
func always(*vexsql.Statement) bool { return true }

var taxonomy = map[Type]entry{
	OmitObviousClauses: {
		name:       "omit_obvious_clauses",
		changes:    "Omitted explicit clause keywords and table qualification.",
		applicable: hasSchemaRef,
		reason:     "statement has no table or column references",
	},
	SynonymSubstitution: {
		name:       "synonym_substitution",
		changes:    "Replaced canonical keywords with synonyms.",
		applicable: hasSchemaRef,
		reason:     "statement has no table or column references",
	},
	VerbosityVariation: {
		name:       "verbosity_variation",
		changes:    "Inserted conversational filler and hedging terms.",
		applicable: always,
	},
	OperatorAggregateVariation: {
		name:       "operator_aggregate_variation",
		changes:    "Replaced precise operators and aggregates with vague terms.",
		applicable: hasOperatorOrAggregate,
		reason:     "statement has no comparison operator or aggregate",
	},
	Typos: {
		name:       "typos",
		changes:    "Injected naturalistic typos.",
		applicable: always,
	},
	CommentAnnotations: {
		name:       "comment_annotations",
		changes:    "Appended a comment-style annotation.",
		applicable: always,
	},
	TemporalExpressionVariation: {
		name:       "temporal_expression_variation",
		changes:    "Replaced absolute dates with relative temporal terms.",
		applicable: hasTemporal,
		reason:     "statement has no date literal or temporal expression",
	},
	PunctuationVariation: {
		name:       "punctuation_variation",
		changes:    "Modified punctuation rhythm.",
		applicable: always,
	},
	UrgencyQualifiers: {
		name:       "urgency_qualifiers",
		changes:    "Added an urgency qualifier.",
		applicable: always,
	},
	MixedSQLNL: {
		name:       "mixed_sql_nl",
		changes:    "Mixed SQL keywords into the natural language.",
		applicable: hasSchemaRef,
		reason:     "statement has no table or column references",
	},
	TableColumnSynonyms: {
		name:       "table_column_synonyms",
		changes:    "Replaced schema terms with synonyms or altered naming conventions.",
		applicable: hasSchemaRef,
		reason:     "statement has no table or column references",
	},
	IncompleteJoinSpec: {
		name:       "incomplete_join_spec",
		changes:    "Replaced explicit join syntax with vague connectors.",
		applicable: hasJoin,
		reason:     "statement has no JOIN clause",
	},
	AmbiguousPronouns: {
		name:       "ambiguous_pronouns",
		changes:    "Replaced a schema reference with an ambiguous pronoun.",
		applicable: hasSchemaRef,
		reason:     "statement has no table or column references",
	},
}

// All returns the taxonomy in ID order.
func All() []Type {
	types := make([]Type, 0, len(taxonomy))
	for t := OmitObviousClauses; t <= AmbiguousPronouns; t++ {
		types = append(types, t)
	}

	return types
}

// ID returns the stable numeric identifier of the type.
func (t Type) ID() int { return int(t) }

// Name returns the snake_case dataset identifier of the type.
func (t Type) Name() string { return taxonomy[t].name }

// String implements fmt.Stringer.
func (t Type) String() string { return taxonomy[t].name }

// Changes returns the human-readable change description recorded in the
// dataset when this perturbation is applied.
func (t Type) Changes() string { return taxonomy[t].changes }

// Applicable reports whether this perturbation can be meaningfully applied to
// the statement. A failed predicate means the variant is recorded as
// not-applicable and never rendered.
func (t Type) Applicable(stmt *vexsql.Statement) bool {
	e, ok := taxonomy[t]
	if !ok {
		return false
	}

	return e.applicable(stmt)
}

// ReasonNotApplicable returns the reason string for a failed predicate, or
// empty if the perturbation applies.
func (t Type) ReasonNotApplicable(stmt *vexsql.Statement) string {
	if t.Applicable(stmt) {
		return ""
	}

	e, ok := taxonomy[t]
	if !ok {
		return "unknown perturbation type"
	}

	return e.reason
}

// =============================================================================
// Predicates
// =============================================================================

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

func hasJoin(stmt *vexsql.Statement) bool {
	if stmt == nil || stmt.Select == nil {
		return false
	}

	found := false

	var walk func(sel *vexsql.SelectStmt)
	walk = func(sel *vexsql.SelectStmt) {
		if sel == nil {
			return
		}

		if len(sel.Joins) > 0 {
			found = true
		}

		walk(sel.From.Subquery)

		vexsql.InspectSelect(sel, func(e vexsql.Expr) bool {
			if in, ok := e.(*vexsql.InSubquery); ok {
				walk(in.Query)
			}

			return true
		})
	}

	walk(stmt.Select)

	return found
}

func hasSchemaRef(stmt *vexsql.Statement) bool {
	if stmt == nil {
		return false
	}

	// Every statement kind names a target table; expression column refs only
	// add to that. Insert/Update/Delete qualify via their table.
	if stmt.Insert != nil || stmt.Update != nil || stmt.Delete != nil {
		return true
	}

	if stmt.Select != nil && (stmt.Select.From.Name != "" || stmt.Select.From.Subquery != nil) {
		return true
	}

	found := false

	vexsql.InspectStatement(stmt, func(e vexsql.Expr) bool {
		if _, ok := e.(*vexsql.ColumnRef); ok {
			found = true
		}

		return !found
	})

	return found
}

func hasOperatorOrAggregate(stmt *vexsql.Statement) bool {
	found := false

	vexsql.InspectStatement(stmt, func(e vexsql.Expr) bool {
		switch v := e.(type) {
		case *vexsql.AggFunc:
			found = true
		case *vexsql.BinaryExpr:
			if v.Op.IsComparison() {
				found = true
			}
		}

		return !found
	})

	return found
}

func hasTemporal(stmt *vexsql.Statement) bool {
	found := false

	vexsql.InspectStatement(stmt, func(e vexsql.Expr) bool {
		switch v := e.(type) {
		case *vexsql.DateSub:
			found = true
		case *vexsql.Literal:
			if v.Kind == vexsql.LitString && datePattern.MatchString(v.Str) {
				found = true
			}
		}

		return !found
	})

	return found
}

// =============================================================================
// Configuration
// =============================================================================

// Config is the active perturbation set plus the seed that fully determines
// rendering output for a given AST. It is created fresh per variant and never
// mutated after construction.
type Config struct {
	active map[Type]bool
	seed   int64
}

// NewConfig builds a configuration with the given seed and active types.
func NewConfig(seed int64, types ...Type) Config {
	active := make(map[Type]bool, len(types))
	for _, t := range types {
		active[t] = true
	}

	return Config{active: active, seed: seed}
}

// IsActive reports whether the perturbation type is active.
func (c Config) IsActive(t Type) bool { return c.active[t] }

// Seed returns the configuration's seed.
func (c Config) Seed() int64 { return c.seed }

// Active returns the active types in ID order.
func (c Config) Active() []Type {
	var types []Type

	for _, t := range All() {
		if c.active[t] {
			types = append(types, t)
		}
	}

	return types
}
