package vexsql_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vexsql/vexsql"
)

const blogSchema = `
# A minimal blog schema.
table authors {
	id: int
	name: varchar
	joined_at: datetime
}

table articles {
	id: int
	author_id: int
	title: varchar
	published: boolean
}

fk authors.id -> articles.author_id
fk articles.author_id -> authors.id
`

func TestParseSchema(t *testing.T) {
	schema, fks, err := vexsql.ParseSchema("blog.vex", []byte(blogSchema))
	if err != nil {
		t.Fatalf("ParseSchema() error: %v", err)
	}

	if diff := cmp.Diff([]string{"authors", "articles"}, schema.TableNames()); diff != "" {
		t.Errorf("TableNames() mismatch (-want +got):\n%s", diff)
	}

	authors, _ := schema.Table("authors")

	col, ok := authors.Column("joined_at")
	if !ok {
		t.Fatal("Column(joined_at) not found")
	}

	if !col.Type.IsDate() {
		t.Errorf("joined_at type = %q, want datetime", col.Type)
	}

	edge, ok := fks.Edge("articles", "authors")
	if !ok {
		t.Fatal("Edge(articles, authors) not found")
	}

	if edge.FromKey != "author_id" || edge.ToKey != "id" {
		t.Errorf("edge keys = %s -> %s, want author_id -> id", edge.FromKey, edge.ToKey)
	}
}

func TestParseSchema_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			name:  "empty input",
			input: "",
			want:  vexsql.ErrEmptySchema,
		},
		{
			name:  "fk to unknown table",
			input: "table a { id: int }\nfk a.id -> b.a_id",
			want:  vexsql.ErrInvalidForeignKey,
		},
		{
			name:  "fk on unknown column",
			input: "table a { id: int }\nfk a.missing -> a.id",
			want:  vexsql.ErrInvalidForeignKey,
		},
		{
			name:  "duplicate table",
			input: "table a { id: int }\ntable a { id: int }",
			want:  vexsql.ErrDuplicateTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := vexsql.ParseSchema("bad.vex", []byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseSchema() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseSchema_SyntaxError(t *testing.T) {
	_, _, err := vexsql.ParseSchema("bad.vex", []byte("table { id: int }"))
	if err == nil {
		t.Fatal("ParseSchema() with missing table name succeeded, want error")
	}
}
