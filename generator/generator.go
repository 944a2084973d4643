// Package generator builds random, schema-valid query ASTs across a weighted
// set of complexity classes. It never fails: when a desired structural
// feature is unavailable (no join target, no eligible foreign key) it
// degrades to the next simpler always-constructible form.
package generator

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vexsql/vexsql"
)

// Complexity labels the structural shape of a generated query. The label is
// carried through to every rendered variant for stratified analysis.
type Complexity string

// Complexity classes.
const (
	Simple    Complexity = "simple"
	Join      Complexity = "join"
	Aggregate Complexity = "aggregate"
	Advanced  Complexity = "advanced"
	Insert    Complexity = "insert"
	Update    Complexity = "update"
	Delete    Complexity = "delete"
)

// Classes returns all complexity classes in their canonical order.
func Classes() []Complexity {
	return []Complexity{Simple, Join, Aggregate, Advanced, Insert, Update, Delete}
}

// DefaultWeights is the default complexity distribution. The exact values are
// tunable and not load-bearing.
func DefaultWeights() map[Complexity]float64 {
	return map[Complexity]float64{
		Simple:    0.35,
		Join:      0.25,
		Aggregate: 0.15,
		Advanced:  0.05,
		Insert:    0.10,
		Update:    0.05,
		Delete:    0.05,
	}
}

// Generator produces one schema-valid query AST plus its complexity label per
// call. It owns a seeded random source; a Generator is not safe for
// concurrent use, but distinct Generators are independent.
type Generator struct {
	schema  *vexsql.Schema
	fks     *vexsql.ForeignKeyGraph
	rnd     *rand.Rand
	weights map[Complexity]float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed seeds the generator's random source. The default seed is 1.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rnd = rand.New(rand.NewSource(seed))
	}
}

// WithWeights overrides the complexity-class distribution. Classes absent
// from the map get weight zero; non-positive total falls back to defaults.
func WithWeights(weights map[Complexity]float64) Option {
	return func(g *Generator) {
		total := 0.0
		for _, w := range weights {
			total += w
		}

		if total > 0 {
			g.weights = weights
		}
	}
}

// New creates a Generator over a validated schema and foreign-key graph.
func New(schema *vexsql.Schema, fks *vexsql.ForeignKeyGraph, opts ...Option) *Generator {
	g := &Generator{
		schema:  schema,
		fks:     fks,
		rnd:     rand.New(rand.NewSource(1)),
		weights: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate picks a complexity class by weight and builds a statement for it.
func (g *Generator) Generate() (*vexsql.Statement, Complexity) {
	class := g.pickClass()

	return g.GenerateClass(class), class
}

// GenerateClass builds a statement of the requested complexity class. The
// returned class of the statement may be structurally simpler than requested
// when the schema cannot support the requested shape.
func (g *Generator) GenerateClass(class Complexity) *vexsql.Statement {
	root := g.pickTable()

	switch class {
	case Insert:
		return &vexsql.Statement{Insert: g.insert(root)}
	case Update:
		return &vexsql.Statement{Update: g.update(root)}
	case Delete:
		return &vexsql.Statement{Delete: g.delete(root)}
	case Join:
		return &vexsql.Statement{Select: g.join(root)}
	case Aggregate:
		return &vexsql.Statement{Select: g.aggregate(root)}
	case Advanced:
		return &vexsql.Statement{Select: g.advanced(root)}
	case Simple:
		return &vexsql.Statement{Select: g.simple(root)}
	default:
		return &vexsql.Statement{Select: g.simple(root)}
	}
}

func (g *Generator) pickClass() Complexity {
	total := 0.0
	for _, c := range Classes() {
		total += g.weights[c]
	}

	r := g.rnd.Float64() * total
	for _, c := range Classes() {
		r -= g.weights[c]
		if r < 0 {
			return c
		}
	}

	return Simple
}

func (g *Generator) pickTable() *vexsql.Table {
	return g.schema.Tables[g.rnd.Intn(len(g.schema.Tables))]
}

// rootAlias derives the root alias from the table's first letter, matching
// the aliasing convention of the benchmark's canonical queries.
func rootAlias(table string) string {
	return table[:1] + "1"
}

// =============================================================================
// SELECT shapes
// =============================================================================

func (g *Generator) simple(root *vexsql.Table) *vexsql.SelectStmt {
	alias := rootAlias(root.Name)
	sel := &vexsql.SelectStmt{
		Columns: g.projection(root, alias),
		From:    vexsql.TableRef{Name: root.Name, Alias: alias},
	}

	if g.rnd.Float64() < 0.5 {
		sel.Where = g.filter(root, alias)
	}

	if g.rnd.Float64() < 0.3 {
		col := root.Columns[g.rnd.Intn(len(root.Columns))]
		sel.OrderBy = []vexsql.OrderKey{{
			Expr: &vexsql.ColumnRef{Table: alias, Name: col.Name},
			Desc: g.rnd.Intn(2) == 0,
		}}
	}

	if g.rnd.Float64() < 0.3 {
		limit := 1 + g.rnd.Intn(100)
		sel.Limit = &limit
	}

	return sel
}

func (g *Generator) join(root *vexsql.Table) *vexsql.SelectStmt {
	alias := rootAlias(root.Name)

	edge, ok := g.joinTarget(root.Name, map[string]bool{root.Name: true})
	if !ok {
		// No reachable join target: degrade to a simple query.
		return g.simple(root)
	}

	target, _ := g.schema.Table(edge.To)

	// The root holds <letter>1, so a target sharing the root's first letter
	// must draw a different digit or the two aliases would clash.
	var digit int
	if target.Name[:1] == root.Name[:1] {
		digit = 2 + g.rnd.Intn(8)
	} else {
		digit = 1 + g.rnd.Intn(9)
	}

	targetAlias := fmt.Sprintf("%s%d", target.Name[:1], digit)

	kind := vexsql.JoinInner
	if g.rnd.Intn(2) == 0 {
		kind = vexsql.JoinLeft
	}

	on := &vexsql.BinaryExpr{
		Op:    vexsql.OpEq,
		Left:  &vexsql.ColumnRef{Table: alias, Name: edge.FromKey},
		Right: &vexsql.ColumnRef{Table: targetAlias, Name: edge.ToKey},
	}

	// Project a mixed sample of columns from both sides, at most four.
	both := append(g.projection(root, alias), g.projection(target, targetAlias)...)
	if len(both) > 4 {
		perm := g.rnd.Perm(len(both))

		sampled := make([]vexsql.Expr, 4)
		for i := range sampled {
			sampled[i] = both[perm[i]]
		}

		both = sampled
	}

	sel := &vexsql.SelectStmt{
		Columns: both,
		From:    vexsql.TableRef{Name: root.Name, Alias: alias},
		Joins:   []vexsql.Join{{Kind: kind, Table: vexsql.TableRef{Name: target.Name, Alias: targetAlias}, On: on}},
	}

	if g.rnd.Float64() < 0.5 {
		sel.Where = g.filter(target, targetAlias)
	}

	return sel
}

func (g *Generator) aggregate(root *vexsql.Table) *vexsql.SelectStmt {
	alias := rootAlias(root.Name)
	groupCol := root.Columns[g.rnd.Intn(len(root.Columns))]
	groupRef := &vexsql.ColumnRef{Table: alias, Name: groupCol.Name}

	sel := &vexsql.SelectStmt{
		Columns: []vexsql.Expr{groupRef, g.aggExpr(root, alias)},
		From:    vexsql.TableRef{Name: root.Name, Alias: alias},
		GroupBy: []vexsql.Expr{groupRef},
	}

	if g.rnd.Float64() < 0.4 {
		sel.Having = &vexsql.BinaryExpr{
			Op:    vexsql.OpGt,
			Left:  &vexsql.AggFunc{Fn: vexsql.AggCount},
			Right: vexsql.IntLit(5),
		}
	}

	return sel
}

func (g *Generator) aggExpr(table *vexsql.Table, alias string) vexsql.Expr {
	kinds := []vexsql.AggKind{vexsql.AggCount, vexsql.AggSum, vexsql.AggAvg, vexsql.AggMin, vexsql.AggMax}
	fn := kinds[g.rnd.Intn(len(kinds))]
	col := table.Columns[g.rnd.Intn(len(table.Columns))]

	if fn == vexsql.AggCount {
		if g.rnd.Float64() < 0.5 {
			return &vexsql.AggFunc{Fn: vexsql.AggCount, Alias: "count_all"}
		}

		return &vexsql.AggFunc{
			Fn:    vexsql.AggCount,
			Arg:   &vexsql.ColumnRef{Table: alias, Name: col.Name},
			Alias: "count_" + col.Name,
		}
	}

	// SUM/AVG/MIN/MAX only make sense over numeric columns.
	if !col.Type.IsNumeric() {
		return &vexsql.AggFunc{Fn: vexsql.AggCount, Alias: "count_all"}
	}

	return &vexsql.AggFunc{
		Fn:    fn,
		Arg:   &vexsql.ColumnRef{Table: alias, Name: col.Name},
		Alias: strings.ToLower(string(fn)) + "_" + col.Name,
	}
}

func (g *Generator) advanced(root *vexsql.Table) *vexsql.SelectStmt {
	switch g.rnd.Intn(3) {
	case 0:
		return g.subqueryWhere(root)
	case 1:
		return g.subqueryFrom(root)
	default:
		return g.selfJoin(root)
	}
}

func (g *Generator) subqueryWhere(root *vexsql.Table) *vexsql.SelectStmt {
	alias := rootAlias(root.Name)
	sel := &vexsql.SelectStmt{
		Columns: g.projection(root, alias),
		From:    vexsql.TableRef{Name: root.Name, Alias: alias},
	}

	edges := g.fks.From(root.Name)
	if len(edges) == 0 {
		// No foreign key to pivot on: degrade to a plain filter.
		sel.Where = g.filter(root, alias)

		return sel
	}

	edge := edges[g.rnd.Intn(len(edges))]
	target, _ := g.schema.Table(edge.To)
	subAlias := "sub_" + target.Name[:1]

	sub := &vexsql.SelectStmt{
		Columns: []vexsql.Expr{&vexsql.ColumnRef{Table: subAlias, Name: edge.ToKey}},
		From:    vexsql.TableRef{Name: target.Name, Alias: subAlias},
		Where:   g.filter(target, subAlias),
	}

	sel.Where = &vexsql.InSubquery{
		Left:  &vexsql.ColumnRef{Table: alias, Name: edge.FromKey},
		Query: sub,
	}

	return sel
}

func (g *Generator) subqueryFrom(root *vexsql.Table) *vexsql.SelectStmt {
	innerAlias := "inner_" + root.Name
	inner := &vexsql.SelectStmt{
		Columns: []vexsql.Expr{&vexsql.Star{}},
		From:    vexsql.TableRef{Name: root.Name, Alias: innerAlias},
		Where:   g.filter(root, innerAlias),
	}

	outerAlias := "derived_table"
	outer := &vexsql.SelectStmt{
		Columns: []vexsql.Expr{&vexsql.Star{}},
		From:    vexsql.TableRef{Alias: outerAlias, Subquery: inner},
	}

	if g.rnd.Float64() < 0.5 {
		outer.Where = g.filter(root, outerAlias)
	}

	return outer
}

// selfJoin builds a two-hop reachability query over a self-referential edge
// table (one with two distinct key-like columns, such as follows). The
// non-reflexivity filter excludes trivial self-pairs.
func (g *Generator) selfJoin(root *vexsql.Table) *vexsql.SelectStmt {
	table, fromCol, toCol, ok := g.edgeTable()
	if !ok {
		return g.join(root)
	}

	a, b := table.Name[:1]+"1", table.Name[:1]+"2"

	sel := &vexsql.SelectStmt{
		Columns: []vexsql.Expr{
			&vexsql.ColumnRef{Table: a, Name: fromCol},
			&vexsql.ColumnRef{Table: b, Name: toCol},
		},
		From: vexsql.TableRef{Name: table.Name, Alias: a},
		Joins: []vexsql.Join{{
			Kind:  vexsql.JoinInner,
			Table: vexsql.TableRef{Name: table.Name, Alias: b},
			On: &vexsql.BinaryExpr{
				Op:    vexsql.OpEq,
				Left:  &vexsql.ColumnRef{Table: a, Name: toCol},
				Right: &vexsql.ColumnRef{Table: b, Name: fromCol},
			},
		}},
		Where: &vexsql.BinaryExpr{
			Op:    vexsql.OpNe,
			Left:  &vexsql.ColumnRef{Table: a, Name: fromCol},
			Right: &vexsql.ColumnRef{Table: b, Name: toCol},
		},
	}

	if g.rnd.Float64() < 0.3 {
		limit := 10
		sel.Limit = &limit
	}

	return sel
}

// edgeTable finds a table with two distinct numeric *_id columns, the shape
// of a self-referential relation.
func (g *Generator) edgeTable() (table *vexsql.Table, fromCol, toCol string, ok bool) {
	for _, t := range g.schema.Tables {
		var keys []string

		for _, c := range t.Columns {
			if c.Type.IsNumeric() && strings.HasSuffix(c.Name, "_id") {
				keys = append(keys, c.Name)
			}
		}

		if len(keys) >= 2 && keys[0] != keys[1] {
			return t, keys[0], keys[1], true
		}
	}

	return nil, "", "", false
}

// =============================================================================
// DML shapes
// =============================================================================

func (g *Generator) insert(table *vexsql.Table) *vexsql.InsertStmt {
	ins := &vexsql.InsertStmt{Table: table.Name}

	for _, col := range table.Columns {
		// id columns are treated as auto-increment keys and skipped.
		if col.Name == "id" {
			continue
		}

		ins.Columns = append(ins.Columns, col.Name)
		ins.Values = append(ins.Values, g.syntheticValue(col))
	}

	return ins
}

func (g *Generator) update(table *vexsql.Table) *vexsql.UpdateStmt {
	candidates := make([]vexsql.Column, 0, len(table.Columns))

	for _, col := range table.Columns {
		if col.Name != "id" {
			candidates = append(candidates, col)
		}
	}

	if len(candidates) == 0 {
		candidates = table.Columns
	}

	col := candidates[g.rnd.Intn(len(candidates))]

	upd := &vexsql.UpdateStmt{
		Table: table.Name,
		Set:   []vexsql.Assignment{{Column: col.Name, Value: g.updateValue(col)}},
	}

	if g.rnd.Float64() < 0.5 {
		upd.Where = g.filter(table, table.Name)
	}

	return upd
}

func (g *Generator) delete(table *vexsql.Table) *vexsql.DeleteStmt {
	del := &vexsql.DeleteStmt{Table: table.Name}

	if g.rnd.Float64() < 0.5 {
		del.Where = g.filter(table, table.Name)
	}

	return del
}

func (g *Generator) syntheticValue(col vexsql.Column) vexsql.Expr {
	switch {
	case col.Type.IsNumeric():
		return vexsql.IntLit(int64(1 + g.rnd.Intn(1000)))
	case col.Type.IsText():
		n := 1 + g.rnd.Intn(1000)

		switch {
		case strings.Contains(col.Name, "email"):
			return vexsql.StringLit(fmt.Sprintf("user%d@example.com", n))
		case strings.Contains(col.Name, "username"):
			return vexsql.StringLit(fmt.Sprintf("user%d", n))
		default:
			return vexsql.StringLit(fmt.Sprintf("Sample text %d", 1+g.rnd.Intn(100)))
		}
	case col.Type.IsDate():
		return &vexsql.FuncCall{Name: "NOW"}
	case col.Type.IsBoolean():
		return vexsql.BoolLit(g.rnd.Intn(2) == 0)
	default:
		return vexsql.StringLit("val")
	}
}

func (g *Generator) updateValue(col vexsql.Column) vexsql.Expr {
	if col.Type.IsText() {
		return vexsql.StringLit(fmt.Sprintf("Updated text %d", 1+g.rnd.Intn(100)))
	}

	return g.syntheticValue(col)
}

// =============================================================================
// Shared pieces
// =============================================================================

// projection returns either a star or a sample of one to four columns.
func (g *Generator) projection(table *vexsql.Table, label string) []vexsql.Expr {
	if g.rnd.Float64() < 0.3 {
		return []vexsql.Expr{&vexsql.Star{}}
	}

	most := len(table.Columns)
	if most > 4 {
		most = 4
	}

	n := 1 + g.rnd.Intn(most)
	perm := g.rnd.Perm(len(table.Columns))

	cols := make([]vexsql.Expr, n)
	for i := 0; i < n; i++ {
		cols[i] = &vexsql.ColumnRef{Table: label, Name: table.Columns[perm[i]].Name}
	}

	return cols
}

// filter builds one typed predicate over a random column of the table.
func (g *Generator) filter(table *vexsql.Table, label string) vexsql.Expr {
	col := table.Columns[g.rnd.Intn(len(table.Columns))]
	ref := &vexsql.ColumnRef{Table: label, Name: col.Name}

	switch {
	case col.Type.IsNumeric():
		ops := []vexsql.BinaryOp{vexsql.OpEq, vexsql.OpNe, vexsql.OpGt, vexsql.OpLt, vexsql.OpGe, vexsql.OpLe}

		return &vexsql.BinaryExpr{
			Op:    ops[g.rnd.Intn(len(ops))],
			Left:  ref,
			Right: vexsql.IntLit(int64(g.rnd.Intn(1001))),
		}
	case col.Type.IsText():
		if g.rnd.Intn(3) == 2 {
			patterns := []string{"%a%", "b%", "%c"}

			return &vexsql.BinaryExpr{
				Op:    vexsql.OpLike,
				Left:  ref,
				Right: vexsql.StringLit(patterns[g.rnd.Intn(len(patterns))]),
			}
		}

		ops := []vexsql.BinaryOp{vexsql.OpEq, vexsql.OpNe}
		values := []string{"test", "user", "admin"}

		return &vexsql.BinaryExpr{
			Op:    ops[g.rnd.Intn(len(ops))],
			Left:  ref,
			Right: vexsql.StringLit(values[g.rnd.Intn(len(values))]),
		}
	case col.Type.IsDate():
		ops := []vexsql.BinaryOp{vexsql.OpGt, vexsql.OpLt, vexsql.OpGe, vexsql.OpLe}

		return &vexsql.BinaryExpr{
			Op:   ops[g.rnd.Intn(len(ops))],
			Left: ref,
			Right: &vexsql.DateSub{
				Base: &vexsql.FuncCall{Name: "NOW"},
				N:    vexsql.IntLit(int64(1 + g.rnd.Intn(30))),
				Unit: "DAY",
			},
		}
	case col.Type.IsBoolean():
		return &vexsql.BinaryExpr{Op: vexsql.OpEq, Left: ref, Right: vexsql.BoolLit(g.rnd.Intn(2) == 0)}
	default:
		return &vexsql.BinaryExpr{Op: vexsql.OpEq, Left: ref, Right: vexsql.StringLit("val")}
	}
}

// joinTarget returns a random foreign-key edge from the given table whose
// target is not already in the working set. This bounded search is what keeps
// two-hop joins cycle-free.
func (g *Generator) joinTarget(from string, used map[string]bool) (vexsql.ForeignKey, bool) {
	var candidates []vexsql.ForeignKey

	for _, e := range g.fks.From(from) {
		if !used[e.To] {
			candidates = append(candidates, e)
		}
	}

	if len(candidates) == 0 {
		return vexsql.ForeignKey{}, false
	}

	return candidates[g.rnd.Intn(len(candidates))], true
}
