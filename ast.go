package vexsql

// =============================================================================
// Statement nodes
// =============================================================================

// StatementKind identifies the statement variant held by a Statement.
type StatementKind string

// Statement kinds.
const (
	KindSelect StatementKind = "select"
	KindInsert StatementKind = "insert"
	KindUpdate StatementKind = "update"
	KindDelete StatementKind = "delete"
)

// Statement is a tagged union over the four supported statement shapes.
// Exactly one field is non-nil. Statements are immutable after construction:
// the generator owns them at creation and the renderer, verifier, and any
// number of concurrent render calls share them read-only.
type Statement struct {
	Select *SelectStmt
	Insert *InsertStmt
	Update *UpdateStmt
	Delete *DeleteStmt
}

// Kind returns the statement kind. Unknown (empty) statements report
// KindSelect; callers that care should check the variant fields directly.
func (s *Statement) Kind() StatementKind {
	switch {
	case s.Insert != nil:
		return KindInsert
	case s.Update != nil:
		return KindUpdate
	case s.Delete != nil:
		return KindDelete
	default:
		return KindSelect
	}
}

// SelectStmt is a SELECT query with optional joins, filtering, grouping,
// ordering and limit.
type SelectStmt struct {
	Columns []Expr
	From    TableRef
	Joins   []Join
	Where   Expr
	GroupBy []Expr
	Having  Expr
	OrderBy []OrderKey
	Limit   *int
}

// TableRef is a FROM or JOIN source: either a named table with an optional
// alias, or a derived-table subquery (Name empty, Subquery set).
type TableRef struct {
	Name     string
	Alias    string
	Subquery *SelectStmt
}

// Label returns the name a column reference should use to qualify columns
// from this source: the alias if present, otherwise the table name.
func (t TableRef) Label() string {
	if t.Alias != "" {
		return t.Alias
	}

	return t.Name
}

// JoinKind is the closed set of join types the generator produces.
type JoinKind string

// Join kinds.
const (
	JoinInner JoinKind = "INNER"
	JoinLeft  JoinKind = "LEFT"
)

// Join is a single join clause with its ON condition.
type Join struct {
	Kind  JoinKind
	Table TableRef
	On    Expr
}

// OrderKey is one ORDER BY key with direction.
type OrderKey struct {
	Expr Expr
	Desc bool
}

// InsertStmt inserts a single row of literal values.
type InsertStmt struct {
	Table   string
	Columns []string
	Values  []Expr
}

// UpdateStmt mutates columns of a table, optionally filtered.
type UpdateStmt struct {
	Table string
	Set   []Assignment
	Where Expr
}

// Assignment is one SET column = value pair.
type Assignment struct {
	Column string
	Value  Expr
}

// DeleteStmt deletes rows from a table, optionally filtered.
type DeleteStmt struct {
	Table string
	Where Expr
}

// =============================================================================
// Expression nodes
// =============================================================================

// Expr is the interface implemented by all expression nodes. The set of
// implementations is closed; renderers dispatch with a type switch and treat
// anything else as an unsupported node rather than failing.
type Expr interface {
	exprNode()
}

// Star is the `*` projection.
type Star struct{}

// ColumnRef references a column, optionally qualified by a table or alias.
type ColumnRef struct {
	Table string
	Name  string
}

// LiteralKind identifies the value held by a Literal.
type LiteralKind string

// Literal kinds.
const (
	LitInt    LiteralKind = "int"
	LitFloat  LiteralKind = "float"
	LitString LiteralKind = "string"
	LitBool   LiteralKind = "bool"
	LitNull   LiteralKind = "null"
)

// Literal is a typed constant value.
type Literal struct {
	Kind  LiteralKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

// IntLit returns an integer literal.
func IntLit(v int64) *Literal { return &Literal{Kind: LitInt, Int: v} }

// StringLit returns a string literal.
func StringLit(v string) *Literal { return &Literal{Kind: LitString, Str: v} }

// BoolLit returns a boolean literal.
func BoolLit(v bool) *Literal { return &Literal{Kind: LitBool, Bool: v} }

// BinaryOp is the closed set of binary operators.
type BinaryOp string

// Binary operators.
const (
	OpEq   BinaryOp = "="
	OpNe   BinaryOp = "<>"
	OpGt   BinaryOp = ">"
	OpGe   BinaryOp = ">="
	OpLt   BinaryOp = "<"
	OpLe   BinaryOp = "<="
	OpLike BinaryOp = "LIKE"
	OpAnd  BinaryOp = "AND"
	OpOr   BinaryOp = "OR"
)

// IsComparison reports whether the operator is an ordering comparison
// (eligible for operator-variation phrasing).
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpGt, OpGe, OpLt, OpLe:
		return true
	default:
		return false
	}
}

// BinaryExpr applies a binary operator to two operands.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// FuncCall is a zero-argument builtin call such as NOW().
type FuncCall struct {
	Name string
}

// DateSub is date arithmetic of the form DATE_SUB(base, INTERVAL n unit).
type DateSub struct {
	Base Expr
	N    Expr
	Unit string
}

// AggKind is the closed set of aggregate functions.
type AggKind string

// Aggregate kinds.
const (
	AggCount AggKind = "COUNT"
	AggSum   AggKind = "SUM"
	AggAvg   AggKind = "AVG"
	AggMin   AggKind = "MIN"
	AggMax   AggKind = "MAX"
)

// AggFunc is an aggregate call. A nil Arg means COUNT(*)-style star argument.
type AggFunc struct {
	Fn    AggKind
	Arg   Expr
	Alias string
}

// InSubquery is a `left IN (SELECT ...)` membership test.
type InSubquery struct {
	Left  Expr
	Query *SelectStmt
}

func (*Star) exprNode()       {}
func (*ColumnRef) exprNode()  {}
func (*Literal) exprNode()    {}
func (*BinaryExpr) exprNode() {}
func (*FuncCall) exprNode()   {}
func (*DateSub) exprNode()    {}
func (*AggFunc) exprNode()    {}
func (*InSubquery) exprNode() {}

// =============================================================================
// Traversal
// =============================================================================

// Inspect traverses an expression tree in depth-first order, calling fn for
// each node. If fn returns false, children of that node are skipped.
// Subqueries are descended into.
func Inspect(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch v := e.(type) {
	case *BinaryExpr:
		Inspect(v.Left, fn)
		Inspect(v.Right, fn)
	case *DateSub:
		Inspect(v.Base, fn)
		Inspect(v.N, fn)
	case *AggFunc:
		Inspect(v.Arg, fn)
	case *InSubquery:
		Inspect(v.Left, fn)
		InspectSelect(v.Query, fn)
	}
}

// InspectSelect applies Inspect to every expression position of a SELECT,
// including join conditions and derived-table subqueries.
func InspectSelect(sel *SelectStmt, fn func(Expr) bool) {
	if sel == nil {
		return
	}

	for _, c := range sel.Columns {
		Inspect(c, fn)
	}

	InspectSelect(sel.From.Subquery, fn)

	for _, j := range sel.Joins {
		InspectSelect(j.Table.Subquery, fn)
		Inspect(j.On, fn)
	}

	Inspect(sel.Where, fn)

	for _, g := range sel.GroupBy {
		Inspect(g, fn)
	}

	Inspect(sel.Having, fn)

	for _, o := range sel.OrderBy {
		Inspect(o.Expr, fn)
	}
}

// InspectStatement applies Inspect to every expression position of any
// statement kind.
func InspectStatement(s *Statement, fn func(Expr) bool) {
	switch {
	case s == nil:
	case s.Select != nil:
		InspectSelect(s.Select, fn)
	case s.Insert != nil:
		for _, v := range s.Insert.Values {
			Inspect(v, fn)
		}
	case s.Update != nil:
		for _, a := range s.Update.Set {
			Inspect(a.Value, fn)
		}

		Inspect(s.Update.Where, fn)
	case s.Delete != nil:
		Inspect(s.Delete.Where, fn)
	}
}

// Tables returns the distinct table names referenced by the statement, in
// first-reference order. Derived tables contribute their inner sources.
func (s *Statement) Tables() []string {
	var names []string

	seen := make(map[string]bool)

	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true

			names = append(names, name)
		}
	}

	var fromSelect func(sel *SelectStmt)
	fromSelect = func(sel *SelectStmt) {
		if sel == nil {
			return
		}

		add(sel.From.Name)
		fromSelect(sel.From.Subquery)

		for _, j := range sel.Joins {
			add(j.Table.Name)
			fromSelect(j.Table.Subquery)
		}

		InspectSelect(sel, func(e Expr) bool {
			if in, ok := e.(*InSubquery); ok {
				fromSelect(in.Query)
			}

			return true
		})
	}

	switch {
	case s.Select != nil:
		fromSelect(s.Select)
	case s.Insert != nil:
		add(s.Insert.Table)
	case s.Update != nil:
		add(s.Update.Table)
	case s.Delete != nil:
		add(s.Delete.Table)
	}

	return names
}
