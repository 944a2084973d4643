package perturb_test

import (
	"testing"

	"github.com/vexsql/vexsql"
	"github.com/vexsql/vexsql/perturb"
)

func joinStmt() *vexsql.Statement {
	return &vexsql.Statement{Select: &vexsql.SelectStmt{
		Columns: []vexsql.Expr{&vexsql.Star{}},
		From:    vexsql.TableRef{Name: "users", Alias: "u1"},
		Joins: []vexsql.Join{{
			Kind:  vexsql.JoinInner,
			Table: vexsql.TableRef{Name: "posts", Alias: "p1"},
			On: &vexsql.BinaryExpr{
				Op:    vexsql.OpEq,
				Left:  &vexsql.ColumnRef{Table: "u1", Name: "id"},
				Right: &vexsql.ColumnRef{Table: "p1", Name: "user_id"},
			},
		}},
	}}
}

func simpleStmt() *vexsql.Statement {
	return &vexsql.Statement{Select: &vexsql.SelectStmt{
		Columns: []vexsql.Expr{&vexsql.ColumnRef{Table: "u1", Name: "username"}},
		From:    vexsql.TableRef{Name: "users", Alias: "u1"},
	}}
}

func temporalStmt() *vexsql.Statement {
	return &vexsql.Statement{Select: &vexsql.SelectStmt{
		Columns: []vexsql.Expr{&vexsql.Star{}},
		From:    vexsql.TableRef{Name: "posts", Alias: "p1"},
		Where: &vexsql.BinaryExpr{
			Op:   vexsql.OpGt,
			Left: &vexsql.ColumnRef{Table: "p1", Name: "posted_at"},
			Right: &vexsql.DateSub{
				Base: &vexsql.FuncCall{Name: "NOW"},
				N:    vexsql.IntLit(7),
				Unit: "DAY",
			},
		},
	}}
}

func TestAll(t *testing.T) {
	types := perturb.All()
	if len(types) != 13 {
		t.Fatalf("All() returned %d types, want 13", len(types))
	}

	seen := make(map[int]bool)

	for i, typ := range types {
		if typ.ID() != i+1 {
			t.Errorf("All()[%d].ID() = %d, want %d", i, typ.ID(), i+1)
		}

		if typ.Name() == "" {
			t.Errorf("type %d has empty name", typ.ID())
		}

		if typ.Changes() == "" {
			t.Errorf("type %s has empty change description", typ.Name())
		}

		if seen[typ.ID()] {
			t.Errorf("duplicate ID %d", typ.ID())
		}

		seen[typ.ID()] = true
	}
}

func TestApplicable(t *testing.T) {
	tests := []struct {
		name string
		typ  perturb.Type
		stmt *vexsql.Statement
		want bool
	}{
		{"join perturbation on join", perturb.IncompleteJoinSpec, joinStmt(), true},
		{"join perturbation on simple", perturb.IncompleteJoinSpec, simpleStmt(), false},
		{"operator variation on join on-clause", perturb.OperatorAggregateVariation, joinStmt(), false},
		{"operator variation on temporal comparison", perturb.OperatorAggregateVariation, temporalStmt(), true},
		{"temporal on date arithmetic", perturb.TemporalExpressionVariation, temporalStmt(), true},
		{"temporal on simple", perturb.TemporalExpressionVariation, simpleStmt(), false},
		{"temporal on date string literal", perturb.TemporalExpressionVariation, &vexsql.Statement{
			Select: &vexsql.SelectStmt{
				Columns: []vexsql.Expr{&vexsql.Star{}},
				From:    vexsql.TableRef{Name: "users", Alias: "u1"},
				Where: &vexsql.BinaryExpr{
					Op:    vexsql.OpGt,
					Left:  &vexsql.ColumnRef{Table: "u1", Name: "signup_date"},
					Right: vexsql.StringLit("2024-06-01"),
				},
			},
		}, true},
		{"typos always apply", perturb.Typos, simpleStmt(), true},
		{"urgency always applies", perturb.UrgencyQualifiers, &vexsql.Statement{
			Delete: &vexsql.DeleteStmt{Table: "likes"},
		}, true},
		{"synonyms on delete", perturb.SynonymSubstitution, &vexsql.Statement{
			Delete: &vexsql.DeleteStmt{Table: "likes"},
		}, true},
		{"join perturbation on subquery join", perturb.IncompleteJoinSpec, &vexsql.Statement{
			Select: &vexsql.SelectStmt{
				Columns: []vexsql.Expr{&vexsql.Star{}},
				From:    vexsql.TableRef{Alias: "d", Subquery: joinStmt().Select},
			},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Applicable(tt.stmt); got != tt.want {
				t.Errorf("Applicable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReasonNotApplicable(t *testing.T) {
	if reason := perturb.IncompleteJoinSpec.ReasonNotApplicable(simpleStmt()); reason == "" {
		t.Error("ReasonNotApplicable() empty for inapplicable perturbation")
	}

	if reason := perturb.IncompleteJoinSpec.ReasonNotApplicable(joinStmt()); reason != "" {
		t.Errorf("ReasonNotApplicable() = %q for applicable perturbation, want empty", reason)
	}
}

func TestConfig(t *testing.T) {
	cfg := perturb.NewConfig(99, perturb.Typos, perturb.SynonymSubstitution)

	if cfg.Seed() != 99 {
		t.Errorf("Seed() = %d, want 99", cfg.Seed())
	}

	if !cfg.IsActive(perturb.Typos) || !cfg.IsActive(perturb.SynonymSubstitution) {
		t.Error("configured types not active")
	}

	if cfg.IsActive(perturb.MixedSQLNL) {
		t.Error("unconfigured type reported active")
	}

	active := cfg.Active()
	if len(active) != 2 || active[0] != perturb.SynonymSubstitution || active[1] != perturb.Typos {
		t.Errorf("Active() = %v, want [synonym_substitution typos] in ID order", active)
	}
}
