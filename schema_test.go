package vexsql_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vexsql/vexsql"
)

func TestDefaultSchema(t *testing.T) {
	schema, fks := vexsql.DefaultSchema()

	if err := vexsql.Validate(schema, fks); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	want := []string{"users", "posts", "comments", "likes", "follows"}
	if diff := cmp.Diff(want, schema.TableNames()); diff != "" {
		t.Errorf("TableNames() mismatch (-want +got):\n%s", diff)
	}

	// Every edge must be answerable in both directions so joins can start
	// from either side.
	for _, e := range fks.Edges {
		if _, ok := fks.Edge(e.To, e.From); !ok {
			t.Errorf("edge %s -> %s has no reverse edge", e.From, e.To)
		}
	}
}

func TestTableColumnLookup(t *testing.T) {
	schema, _ := vexsql.DefaultSchema()

	posts, ok := schema.Table("posts")
	if !ok {
		t.Fatal("Table(posts) not found")
	}

	col, ok := posts.Column("view_count")
	if !ok {
		t.Fatal("Column(view_count) not found")
	}

	if !col.Type.IsNumeric() {
		t.Errorf("view_count type = %q, want numeric", col.Type)
	}

	if _, ok := posts.Column("no_such_column"); ok {
		t.Error("Column(no_such_column) = true, want false")
	}
}

func TestValidate_Errors(t *testing.T) {
	users := &vexsql.Table{Name: "users", Columns: []vexsql.Column{
		{Name: "id", Type: vexsql.TypeInt},
	}}

	tests := []struct {
		name   string
		schema *vexsql.Schema
		fks    *vexsql.ForeignKeyGraph
		want   error
	}{
		{
			name:   "empty schema",
			schema: vexsql.NewSchema(),
			want:   vexsql.ErrEmptySchema,
		},
		{
			name:   "duplicate table",
			schema: vexsql.NewSchema(users, users),
			want:   vexsql.ErrDuplicateTable,
		},
		{
			name: "duplicate column",
			schema: vexsql.NewSchema(&vexsql.Table{Name: "t", Columns: []vexsql.Column{
				{Name: "a", Type: vexsql.TypeInt},
				{Name: "a", Type: vexsql.TypeText},
			}}),
			want: vexsql.ErrDuplicateColumn,
		},
		{
			name:   "edge to unknown table",
			schema: vexsql.NewSchema(users),
			fks: vexsql.NewForeignKeyGraph(
				vexsql.ForeignKey{From: "users", To: "ghosts", FromKey: "id", ToKey: "user_id"},
			),
			want: vexsql.ErrInvalidForeignKey,
		},
		{
			name:   "edge on unknown column",
			schema: vexsql.NewSchema(users),
			fks: vexsql.NewForeignKeyGraph(
				vexsql.ForeignKey{From: "users", To: "users", FromKey: "missing", ToKey: "id"},
			),
			want: vexsql.ErrInvalidForeignKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := vexsql.Validate(tt.schema, tt.fks)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}
