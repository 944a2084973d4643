package vexsql

import (
	"fmt"
	"strconv"
	"strings"
)

// SQL serializes the statement to canonical SQL text. This is the gold query
// of a benchmark record; it is a pure function of the AST, so serializing
// before and after any number of render calls yields identical text.
func (s *Statement) SQL() string {
	switch {
	case s.Select != nil:
		return selectSQL(s.Select)
	case s.Insert != nil:
		return insertSQL(s.Insert)
	case s.Update != nil:
		return updateSQL(s.Update)
	case s.Delete != nil:
		return deleteSQL(s.Delete)
	default:
		return ""
	}
}

func selectSQL(sel *SelectStmt) string {
	var b strings.Builder

	b.WriteString("SELECT ")

	if len(sel.Columns) == 0 {
		b.WriteString("*")
	}

	for i, c := range sel.Columns {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(ExprSQL(c))
	}

	b.WriteString(" FROM ")
	b.WriteString(tableRefSQL(sel.From))

	for _, j := range sel.Joins {
		b.WriteString(" ")
		b.WriteString(string(j.Kind))
		b.WriteString(" JOIN ")
		b.WriteString(tableRefSQL(j.Table))

		if j.On != nil {
			b.WriteString(" ON ")
			b.WriteString(ExprSQL(j.On))
		}
	}

	if sel.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(ExprSQL(sel.Where))
	}

	if len(sel.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")

		for i, g := range sel.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(ExprSQL(g))
		}
	}

	if sel.Having != nil {
		b.WriteString(" HAVING ")
		b.WriteString(ExprSQL(sel.Having))
	}

	if len(sel.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")

		for i, o := range sel.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(ExprSQL(o.Expr))

			if o.Desc {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
		}
	}

	if sel.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(*sel.Limit))
	}

	return b.String()
}

func tableRefSQL(t TableRef) string {
	if t.Subquery != nil {
		inner := "(" + selectSQL(t.Subquery) + ")"
		if t.Alias != "" {
			return inner + " AS " + t.Alias
		}

		return inner
	}

	if t.Alias != "" {
		return t.Name + " AS " + t.Alias
	}

	return t.Name
}

func insertSQL(ins *InsertStmt) string {
	var b strings.Builder

	b.WriteString("INSERT INTO ")
	b.WriteString(ins.Table)

	if len(ins.Columns) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(ins.Columns, ", "))
		b.WriteString(")")
	}

	b.WriteString(" VALUES (")

	for i, v := range ins.Values {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(ExprSQL(v))
	}

	b.WriteString(")")

	return b.String()
}

func updateSQL(upd *UpdateStmt) string {
	var b strings.Builder

	b.WriteString("UPDATE ")
	b.WriteString(upd.Table)
	b.WriteString(" SET ")

	for i, a := range upd.Set {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(a.Column)
		b.WriteString(" = ")
		b.WriteString(ExprSQL(a.Value))
	}

	if upd.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(ExprSQL(upd.Where))
	}

	return b.String()
}

func deleteSQL(del *DeleteStmt) string {
	var b strings.Builder

	b.WriteString("DELETE FROM ")
	b.WriteString(del.Table)

	if del.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(ExprSQL(del.Where))
	}

	return b.String()
}

// ExprSQL serializes a single expression to SQL text. Unknown expression
// kinds serialize as NULL so a single odd node never invalidates the whole
// statement.
func ExprSQL(e Expr) string {
	switch v := e.(type) {
	case *Star:
		return "*"
	case *ColumnRef:
		if v.Table != "" {
			return v.Table + "." + v.Name
		}

		return v.Name
	case *Literal:
		return literalSQL(v)
	case *BinaryExpr:
		return ExprSQL(v.Left) + " " + string(v.Op) + " " + ExprSQL(v.Right)
	case *FuncCall:
		return v.Name + "()"
	case *DateSub:
		return fmt.Sprintf("DATE_SUB(%s, INTERVAL %s %s)", ExprSQL(v.Base), ExprSQL(v.N), v.Unit)
	case *AggFunc:
		arg := "*"
		if v.Arg != nil {
			arg = ExprSQL(v.Arg)
		}

		sql := string(v.Fn) + "(" + arg + ")"
		if v.Alias != "" {
			sql += " AS " + v.Alias
		}

		return sql
	case *InSubquery:
		return ExprSQL(v.Left) + " IN (" + selectSQL(v.Query) + ")"
	default:
		return "NULL"
	}
}

func literalSQL(l *Literal) string {
	switch l.Kind {
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case LitString:
		return "'" + strings.ReplaceAll(l.Str, "'", "''") + "'"
	case LitBool:
		if l.Bool {
			return "TRUE"
		}

		return "FALSE"
	case LitNull:
		return "NULL"
	default:
		return "NULL"
	}
}
