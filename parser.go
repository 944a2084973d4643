package vexsql

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// =============================================================================
// .vex schema grammar
// =============================================================================

// SchemaFile is the root node of a .vex schema definition.
// Example:
//
//	table users {
//	    id: int
//	    username: varchar
//	}
//
//	fk users.id -> posts.user_id
type SchemaFile struct {
	Decls []*SchemaDecl `parser:"@@*"`
}

// SchemaDecl is a union type - either a table declaration or a foreign-key edge.
type SchemaDecl struct {
	Table *TableDecl `parser:"@@"`
	FK    *FKDecl    `parser:"| @@"`
}

// TableDecl declares a table with its ordered, typed columns.
type TableDecl struct {
	Name    string     `parser:"'table' @Ident '{'"`
	Columns []*ColDecl `parser:"@@* '}'"`
}

// ColDecl declares a single column. An optional trailing comma is accepted so
// hand-written files can use either newline- or comma-separated styles.
type ColDecl struct {
	Name string `parser:"@Ident Colon"`
	Type string `parser:"@Ident Comma?"`
}

// FKDecl declares a directed foreign-key edge between two key columns.
// Example:
//
//	fk users.id -> posts.user_id
type FKDecl struct {
	FromTable string `parser:"'fk' @Ident Dot"`
	FromKey   string `parser:"@Ident Arrow"`
	ToTable   string `parser:"@Ident Dot"`
	ToKey     string `parser:"@Ident"`
}

var schemaParser = participle.MustBuild[SchemaFile](
	participle.Lexer(schemaLexer),
	participle.Elide("Whitespace", "LineComment", "HashComment"),
)

// columnTypes maps DSL type names to column types. A few common SQL aliases
// are accepted.
var columnTypes = map[string]ColumnType{
	"int":      TypeInt,
	"integer":  TypeInt,
	"float":    TypeFloat,
	"double":   TypeFloat,
	"varchar":  TypeVarchar,
	"text":     TypeText,
	"datetime": TypeDateTime,
	"date":     TypeDateTime,
	"boolean":  TypeBoolean,
	"bool":     TypeBoolean,
}

// ParseSchema parses a .vex schema definition and returns the validated
// schema and foreign-key graph. The name is used in error positions.
func ParseSchema(name string, data []byte) (*Schema, *ForeignKeyGraph, error) {
	file, err := schemaParser.ParseBytes(name, data)
	if err != nil {
		return nil, nil, err
	}

	var tables []*Table

	var edges []ForeignKey

	for _, decl := range file.Decls {
		switch {
		case decl.Table != nil:
			t := &Table{Name: decl.Table.Name}

			for _, col := range decl.Table.Columns {
				typ, ok := columnTypes[col.Type]
				if !ok {
					return nil, nil, fmt.Errorf("%s: table %s: column %s has unknown type %q",
						name, decl.Table.Name, col.Name, col.Type)
				}

				t.Columns = append(t.Columns, Column{Name: col.Name, Type: typ})
			}

			tables = append(tables, t)
		case decl.FK != nil:
			edges = append(edges, ForeignKey{
				From:    decl.FK.FromTable,
				To:      decl.FK.ToTable,
				FromKey: decl.FK.FromKey,
				ToKey:   decl.FK.ToKey,
			})
		}
	}

	schema := NewSchema(tables...)
	fks := NewForeignKeyGraph(edges...)

	if err := Validate(schema, fks); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	return schema, fks, nil
}
