// Package vexsql provides the data model for synthesizing perturbed
// text-to-SQL benchmarks: a relational schema description, a query AST with
// SQL serialization, and the configuration shared by the generator and the
// natural-language renderer.
package vexsql

import "fmt"

// ColumnType is the closed set of primitive column types the generator and
// renderer understand.
type ColumnType string

// Column types.
const (
	TypeInt      ColumnType = "int"
	TypeFloat    ColumnType = "float"
	TypeVarchar  ColumnType = "varchar"
	TypeText     ColumnType = "text"
	TypeDateTime ColumnType = "datetime"
	TypeBoolean  ColumnType = "boolean"
)

// IsNumeric reports whether the type supports arithmetic comparisons and
// SUM/AVG/MIN/MAX aggregation.
func (t ColumnType) IsNumeric() bool { return t == TypeInt || t == TypeFloat }

// IsText reports whether the type holds free-form text.
func (t ColumnType) IsText() bool { return t == TypeVarchar || t == TypeText }

// IsDate reports whether the type holds a date or timestamp.
func (t ColumnType) IsDate() bool { return t == TypeDateTime }

// IsBoolean reports whether the type holds a boolean.
func (t ColumnType) IsBoolean() bool { return t == TypeBoolean }

// Column is a named, typed column within a table.
type Column struct {
	Name string
	Type ColumnType
}

// Table is an ordered collection of columns. Column order is preserved from
// the schema definition so generated queries are stable for a given seed.
type Table struct {
	Name    string
	Columns []Column
}

// Column returns the named column, or false if it does not exist.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}

	return Column{}, false
}

// ColumnNames returns the table's column names in definition order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}

	return names
}

// Schema is an immutable description of the tables available to a generation
// run. It must pass Validate before use.
type Schema struct {
	Tables []*Table

	index map[string]*Table
}

// NewSchema builds a Schema from tables in definition order.
func NewSchema(tables ...*Table) *Schema {
	s := &Schema{Tables: tables, index: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		s.index[t.Name] = t
	}

	return s
}

// Table returns the named table, or false if it does not exist.
func (s *Schema) Table(name string) (*Table, bool) {
	t, ok := s.index[name]

	return t, ok
}

// TableNames returns the schema's table names in definition order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}

	return names
}

// ForeignKey is a directed join edge between two tables, carrying the key
// column on each side. Edges are generally stored in both directions so joins
// can be discovered from either table.
type ForeignKey struct {
	From    string
	To      string
	FromKey string
	ToKey   string
}

// ForeignKeyGraph indexes foreign-key edges by source table so join-target
// discovery is a single lookup rather than a scan over all table pairs.
type ForeignKeyGraph struct {
	Edges []ForeignKey

	bySource map[string][]ForeignKey
}

// NewForeignKeyGraph builds a graph from directed edges.
func NewForeignKeyGraph(edges ...ForeignKey) *ForeignKeyGraph {
	g := &ForeignKeyGraph{Edges: edges, bySource: make(map[string][]ForeignKey)}
	for _, e := range edges {
		g.bySource[e.From] = append(g.bySource[e.From], e)
	}

	return g
}

// From returns all edges whose source is the given table, in insertion order.
func (g *ForeignKeyGraph) From(table string) []ForeignKey {
	return g.bySource[table]
}

// Edge returns the edge from one table to another, or false if none exists.
func (g *ForeignKeyGraph) Edge(from, to string) (ForeignKey, bool) {
	for _, e := range g.bySource[from] {
		if e.To == to {
			return e, true
		}
	}

	return ForeignKey{}, false
}

// Validate checks the schema and foreign-key graph for the fatal input
// conditions: duplicate tables or columns, and edges referencing nonexistent
// tables or key columns. A run should fail fast here rather than mid-generation.
func Validate(schema *Schema, fks *ForeignKeyGraph) error {
	if schema == nil || len(schema.Tables) == 0 {
		return ErrEmptySchema
	}

	seen := make(map[string]bool, len(schema.Tables))

	for _, t := range schema.Tables {
		if seen[t.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateTable, t.Name)
		}

		seen[t.Name] = true

		cols := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			if cols[c.Name] {
				return fmt.Errorf("%w: %s.%s", ErrDuplicateColumn, t.Name, c.Name)
			}

			cols[c.Name] = true
		}
	}

	if fks == nil {
		return nil
	}

	for _, e := range fks.Edges {
		from, ok := schema.Table(e.From)
		if !ok {
			return fmt.Errorf("%w: %w: source table %s", ErrInvalidForeignKey, ErrUnknownTable, e.From)
		}

		to, ok := schema.Table(e.To)
		if !ok {
			return fmt.Errorf("%w: %w: target table %s", ErrInvalidForeignKey, ErrUnknownTable, e.To)
		}

		if _, ok := from.Column(e.FromKey); !ok {
			return fmt.Errorf("%w: %w: key column %s.%s", ErrInvalidForeignKey, ErrUnknownColumn, e.From, e.FromKey)
		}

		if _, ok := to.Column(e.ToKey); !ok {
			return fmt.Errorf("%w: %w: key column %s.%s", ErrInvalidForeignKey, ErrUnknownColumn, e.To, e.ToKey)
		}
	}

	return nil
}

// DefaultSchema returns the built-in social-media schema and its foreign-key
// graph. It is used as the CLI default and throughout the tests.
func DefaultSchema() (*Schema, *ForeignKeyGraph) {
	schema := NewSchema(
		&Table{Name: "users", Columns: []Column{
			{Name: "id", Type: TypeInt},
			{Name: "username", Type: TypeVarchar},
			{Name: "email", Type: TypeVarchar},
			{Name: "signup_date", Type: TypeDateTime},
			{Name: "is_verified", Type: TypeBoolean},
			{Name: "country_code", Type: TypeVarchar},
		}},
		&Table{Name: "posts", Columns: []Column{
			{Name: "id", Type: TypeInt},
			{Name: "user_id", Type: TypeInt},
			{Name: "content", Type: TypeText},
			{Name: "posted_at", Type: TypeDateTime},
			{Name: "view_count", Type: TypeInt},
		}},
		&Table{Name: "comments", Columns: []Column{
			{Name: "id", Type: TypeInt},
			{Name: "user_id", Type: TypeInt},
			{Name: "post_id", Type: TypeInt},
			{Name: "comment_text", Type: TypeText},
			{Name: "created_at", Type: TypeDateTime},
		}},
		&Table{Name: "likes", Columns: []Column{
			{Name: "user_id", Type: TypeInt},
			{Name: "post_id", Type: TypeInt},
			{Name: "liked_at", Type: TypeDateTime},
		}},
		&Table{Name: "follows", Columns: []Column{
			{Name: "follower_id", Type: TypeInt},
			{Name: "followee_id", Type: TypeInt},
			{Name: "followed_at", Type: TypeDateTime},
		}},
	)

	fks := NewForeignKeyGraph(
		ForeignKey{From: "users", To: "posts", FromKey: "id", ToKey: "user_id"},
		ForeignKey{From: "posts", To: "users", FromKey: "user_id", ToKey: "id"},
		ForeignKey{From: "users", To: "comments", FromKey: "id", ToKey: "user_id"},
		ForeignKey{From: "comments", To: "users", FromKey: "user_id", ToKey: "id"},
		ForeignKey{From: "posts", To: "comments", FromKey: "id", ToKey: "post_id"},
		ForeignKey{From: "comments", To: "posts", FromKey: "post_id", ToKey: "id"},
		ForeignKey{From: "users", To: "likes", FromKey: "id", ToKey: "user_id"},
		ForeignKey{From: "likes", To: "users", FromKey: "user_id", ToKey: "id"},
		ForeignKey{From: "posts", To: "likes", FromKey: "id", ToKey: "post_id"},
		ForeignKey{From: "likes", To: "posts", FromKey: "post_id", ToKey: "id"},
		ForeignKey{From: "users", To: "follows", FromKey: "id", ToKey: "follower_id"},
		ForeignKey{From: "follows", To: "users", FromKey: "follower_id", ToKey: "id"},
	)

	return schema, fks
}
