// Package render is the syntax-directed translation engine that turns a query
// AST into a natural-language prompt. Rendering is a pure function of
// (AST, perturbation configuration): all randomness is derived from the
// configuration seed hashed with a structural context path, so output is
// byte-for-byte reproducible and independent renders may run concurrently
// over the same shared AST.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vexsql/vexsql"
	"github.com/vexsql/vexsql/perturb"
)

// Statement renders a statement to a natural-language prompt under the given
// configuration. Unknown node kinds degrade to generic placeholder text; the
// renderer never fails.
func Statement(stmt *vexsql.Statement, cfg perturb.Config) string {
	r := &renderer{cfg: cfg}

	var base string

	switch {
	case stmt == nil:
		base = "Execute statement"
	case stmt.Select != nil:
		base = r.selectStmt(stmt.Select, "")
	case stmt.Insert != nil:
		base = r.insertStmt(stmt.Insert)
	case stmt.Update != nil:
		base = r.updateStmt(stmt.Update)
	case stmt.Delete != nil:
		base = r.deleteStmt(stmt.Delete)
	default:
		base = "Execute statement: " + stmt.SQL()
	}

	return r.global(base)
}

// renderer carries one render call's configuration and its only mutable
// state: the ambiguous-pronoun budget. Each call gets a fresh renderer, so
// concurrent renders of different variants never share a counter.
type renderer struct {
	cfg          perturb.Config
	pronounsUsed int
}

func (r *renderer) active(t perturb.Type) bool { return r.cfg.IsActive(t) }

// word picks a keyword phrasing: the canonical bank head, or a context-seeded
// synonym when synonym substitution is active.
func (r *renderer) word(key, context string) string {
	options := synonyms[key]
	if len(options) == 0 {
		return key
	}

	if r.active(perturb.SynonymSubstitution) {
		return pick(r.cfg.Seed(), context, options)
	}

	return options[0]
}

// =============================================================================
// SELECT
// =============================================================================

func (r *renderer) selectStmt(sel *vexsql.SelectStmt, ctx string) string {
	var parts []string

	if !r.active(perturb.OmitObviousClauses) {
		if r.active(perturb.MixedSQLNL) {
			parts = append(parts, "SELECT")
		} else {
			parts = append(parts, r.word("get", ctx+"select_kw"))
		}
	}

	parts = append(parts, r.columnList(sel.Columns, ctx))

	if !r.active(perturb.OmitObviousClauses) {
		if r.active(perturb.MixedSQLNL) {
			parts = append(parts, "FROM")
		} else {
			parts = append(parts, r.word("from", ctx+"from_kw"))
		}
	}

	parts = append(parts, r.tableRef(sel.From, ctx+"main_table"))

	for i, join := range sel.Joins {
		parts = append(parts, r.join(join, fmt.Sprintf("%sjoin_%d", ctx, i)))
	}

	if sel.Where != nil {
		if !r.active(perturb.OmitObviousClauses) {
			if r.active(perturb.MixedSQLNL) {
				parts = append(parts, "WHERE")
			} else {
				parts = append(parts, r.word("where", ctx+"where_kw"))
			}
		}

		parts = append(parts, r.expr(sel.Where, ctx+"where_cond"))
	}

	if len(sel.GroupBy) > 0 {
		if r.active(perturb.MixedSQLNL) {
			parts = append(parts, "GROUP BY")
		} else {
			parts = append(parts, r.word("grouped by", ctx+"group_kw"))
		}

		cols := make([]string, len(sel.GroupBy))
		for i, g := range sel.GroupBy {
			cols[i] = r.expr(g, fmt.Sprintf("%sgroup_%d", ctx, i))
		}

		parts = append(parts, strings.Join(cols, ", "))
	}

	if sel.Having != nil {
		if r.active(perturb.MixedSQLNL) {
			parts = append(parts, "HAVING")
		} else {
			parts = append(parts, r.word("having", ctx+"having_kw"))
		}

		parts = append(parts, r.expr(sel.Having, ctx+"having_cond"))
	}

	if len(sel.OrderBy) > 0 {
		if r.active(perturb.MixedSQLNL) {
			parts = append(parts, "ORDER BY")
		} else {
			parts = append(parts, r.word("ordered by", ctx+"order_kw"))
		}

		keys := make([]string, len(sel.OrderBy))

		for i, key := range sel.OrderBy {
			direction := "ascending"
			if key.Desc {
				direction = "descending"
			}

			keys[i] = r.expr(key.Expr, fmt.Sprintf("%sorder_%d", ctx, i)) + " " + direction
		}

		parts = append(parts, strings.Join(keys, ", "))
	}

	if sel.Limit != nil {
		if r.active(perturb.MixedSQLNL) {
			parts = append(parts, "LIMIT "+strconv.Itoa(*sel.Limit))
		} else {
			parts = append(parts,
				r.word("limited to", ctx+"limit_kw")+" "+strconv.Itoa(*sel.Limit)+" results")
		}
	}

	return strings.Join(parts, " ")
}

func (r *renderer) columnList(columns []vexsql.Expr, ctx string) string {
	if len(columns) == 0 {
		return "all columns"
	}

	rendered := make([]string, len(columns))
	for i, c := range columns {
		rendered[i] = r.expr(c, fmt.Sprintf("%scol_%d", ctx, i))
	}

	return strings.Join(rendered, ", ")
}

func (r *renderer) tableRef(ref vexsql.TableRef, ctx string) string {
	if ref.Subquery != nil {
		inner := r.selectStmt(ref.Subquery, ctx+"_sub_")
		if ref.Alias != "" && !r.active(perturb.OmitObviousClauses) {
			return fmt.Sprintf("subquery (as %s): %s", ref.Alias, inner)
		}

		return "subquery: " + inner
	}

	name := r.tableName(ref.Name, ctx)

	if ref.Alias != "" && !r.active(perturb.OmitObviousClauses) {
		return fmt.Sprintf("%s (as %s)", name, ref.Alias)
	}

	return name
}

func (r *renderer) join(join vexsql.Join, ctx string) string {
	table := r.tableRef(join.Table, ctx+"_table")

	// The incomplete-join perturbation drops the join keyword and ON clause
	// entirely, leaving only a vague connective.
	if r.active(perturb.IncompleteJoinSpec) {
		return pick(r.cfg.Seed(), ctx, vagueJoinConnectives) + " " + table
	}

	var kw string

	switch {
	case r.active(perturb.MixedSQLNL) && join.Kind == vexsql.JoinLeft:
		kw = "LEFT JOIN"
	case r.active(perturb.MixedSQLNL):
		kw = "JOIN"
	case join.Kind == vexsql.JoinLeft:
		kw = "left " + r.word("joined with", ctx+"_kw")
	default:
		kw = r.word("joined with", ctx+"_kw")
	}

	out := kw + " " + table

	if join.On != nil {
		connector := " on "
		if r.active(perturb.MixedSQLNL) {
			connector = " ON "
		}

		out += connector + r.expr(join.On, ctx+"_on")
	}

	return out
}

// =============================================================================
// DML statements
// =============================================================================

func (r *renderer) insertStmt(ins *vexsql.InsertStmt) string {
	verb := r.word("insert", "insert_kw")
	if r.active(perturb.MixedSQLNL) {
		verb = "INSERT INTO"
	} else {
		verb += " into"
	}

	table := r.tableName(ins.Table, "insert_table")

	var cols string

	if len(ins.Columns) > 0 && !r.active(perturb.OmitObviousClauses) {
		names := make([]string, len(ins.Columns))
		for i, c := range ins.Columns {
			names[i] = r.schemaName(c, fmt.Sprintf("insert_col_%d", i))
		}

		cols = " (" + strings.Join(names, ", ") + ")"
	}

	values := make([]string, len(ins.Values))
	for i, v := range ins.Values {
		values[i] = r.expr(v, fmt.Sprintf("insert_val_%d", i))
	}

	return fmt.Sprintf("%s %s%s the values (%s)", verb, table, cols, strings.Join(values, ", "))
}

func (r *renderer) updateStmt(upd *vexsql.UpdateStmt) string {
	verb := r.word("update", "update_kw")
	if r.active(perturb.MixedSQLNL) {
		verb = "UPDATE"
	}

	table := r.tableName(upd.Table, "update_table")

	assignments := make([]string, len(upd.Set))
	for i, a := range upd.Set {
		assignments[i] = fmt.Sprintf("%s to %s",
			r.schemaName(a.Column, fmt.Sprintf("set_col_%d", i)),
			r.expr(a.Value, fmt.Sprintf("set_val_%d", i)))
	}

	out := fmt.Sprintf("%s %s %s %s",
		verb, table, r.word("setting", "setting_kw"), strings.Join(assignments, ", "))

	if upd.Where != nil {
		out += r.whereSuffix(upd.Where, "update_where")
	}

	return out
}

func (r *renderer) deleteStmt(del *vexsql.DeleteStmt) string {
	verb := r.word("delete", "delete_kw")
	if r.active(perturb.MixedSQLNL) {
		verb = "DELETE FROM"
	} else {
		verb += " from"
	}

	out := verb + " " + r.tableName(del.Table, "delete_table")

	if del.Where != nil {
		out += r.whereSuffix(del.Where, "delete_where")
	}

	return out
}

func (r *renderer) whereSuffix(cond vexsql.Expr, ctx string) string {
	if r.active(perturb.OmitObviousClauses) {
		return " " + r.expr(cond, ctx)
	}

	kw := r.word("where", ctx+"_kw")
	if r.active(perturb.MixedSQLNL) {
		kw = "WHERE"
	}

	return " " + kw + " " + r.expr(cond, ctx)
}

// =============================================================================
// Expressions
// =============================================================================

// expr renders one expression node. The context path uniquely identifies this
// node's position so nested stochastic choices stay independent.
func (r *renderer) expr(e vexsql.Expr, ctx string) string {
	switch v := e.(type) {
	case *vexsql.Star:
		return "all columns"
	case *vexsql.ColumnRef:
		return r.columnRef(v, ctx)
	case *vexsql.Literal:
		return r.literal(v, ctx)
	case *vexsql.BinaryExpr:
		return r.binary(v, ctx)
	case *vexsql.FuncCall:
		return v.Name + "()"
	case *vexsql.DateSub:
		if r.active(perturb.TemporalExpressionVariation) {
			return pick(r.cfg.Seed(), ctx, temporalHedges)
		}

		return fmt.Sprintf("date minus %s %s", r.expr(v.N, ctx+"_n"), strings.ToLower(v.Unit))
	case *vexsql.AggFunc:
		return r.aggregate(v, ctx)
	case *vexsql.InSubquery:
		left := r.expr(v.Left, ctx+"_l")
		inner := r.selectStmt(v.Query, ctx+"_sub_")

		return fmt.Sprintf("%s in (subquery: %s)", left, inner)
	default:
		// Unsupported node kinds degrade to a placeholder so one odd
		// sub-expression never aborts the rest of the statement.
		return "expression"
	}
}

func (r *renderer) columnRef(col *vexsql.ColumnRef, ctx string) string {
	if p, ok := r.pronoun(ctx); ok {
		return p
	}

	name := r.schemaName(col.Name, ctx)

	if col.Table != "" && !r.active(perturb.OmitObviousClauses) {
		return col.Table + "." + name
	}

	return name
}

func (r *renderer) tableName(name, ctx string) string {
	if p, ok := r.pronoun(ctx); ok {
		return p
	}

	return r.schemaName(name, ctx)
}

// pronoun spends the single ambiguous-pronoun budget with a context-seeded
// 30% chance. At most one substitution happens per render call.
func (r *renderer) pronoun(ctx string) (string, bool) {
	if !r.active(perturb.AmbiguousPronouns) || r.pronounsUsed > 0 {
		return "", false
	}

	rng := source(r.cfg.Seed(), ctx)
	if rng.Float64() >= 0.3 {
		return "", false
	}

	r.pronounsUsed++

	return pronouns[rng.Intn(len(pronouns))], true
}

// schemaName applies the table-column-synonym perturbation to a schema
// element name: a synonym-bank pick when one exists, otherwise a naming
// convention change (snake_case to camelCase).
func (r *renderer) schemaName(name, ctx string) string {
	if !r.active(perturb.TableColumnSynonyms) {
		return name
	}

	if syns, ok := schemaSynonyms[strings.ToLower(name)]; ok {
		return pick(r.cfg.Seed(), ctx+"_syn", syns)
	}

	return snakeToCamel(name)
}

func snakeToCamel(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) == 1 {
		return name
	}

	var b strings.Builder

	b.WriteString(parts[0])

	for _, p := range parts[1:] {
		if p == "" {
			continue
		}

		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}

	return b.String()
}

func (r *renderer) literal(lit *vexsql.Literal, ctx string) string {
	if r.active(perturb.TemporalExpressionVariation) &&
		lit.Kind == vexsql.LitString && datePattern.MatchString(lit.Str) {
		return pick(r.cfg.Seed(), ctx, temporalHedges)
	}

	switch lit.Kind {
	case vexsql.LitInt:
		return strconv.FormatInt(lit.Int, 10)
	case vexsql.LitFloat:
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	case vexsql.LitString:
		return lit.Str
	case vexsql.LitBool:
		if lit.Bool {
			return "TRUE"
		}

		return "FALSE"
	case vexsql.LitNull:
		return "null"
	default:
		return "expression"
	}
}

func (r *renderer) binary(bin *vexsql.BinaryExpr, ctx string) string {
	left := r.expr(bin.Left, ctx+"_l")
	right := r.expr(bin.Right, ctx+"_r")

	op := canonicalOps[bin.Op]
	if op == "" {
		op = string(bin.Op)
	}

	if r.active(perturb.OperatorAggregateVariation) {
		if variants, ok := opVariations[bin.Op]; ok {
			op = pick(r.cfg.Seed(), ctx+"_op", variants)
		}
	}

	return left + " " + op + " " + right
}

func (r *renderer) aggregate(agg *vexsql.AggFunc, ctx string) string {
	phrase := aggCanonical[agg.Fn]
	if phrase == "" {
		phrase = "value of"
	}

	if r.active(perturb.OperatorAggregateVariation) {
		if variants, ok := aggVariations[agg.Fn]; ok {
			phrase = pick(r.cfg.Seed(), ctx+"_agg", variants)
		}
	}

	if agg.Arg == nil {
		return phrase + " all rows"
	}

	return phrase + " " + r.expr(agg.Arg, ctx+"_arg")
}
