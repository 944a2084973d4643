package verify_test

import (
	"context"
	"testing"

	"github.com/vexsql/vexsql"
	"github.com/vexsql/vexsql/dataset"
	"github.com/vexsql/vexsql/verify"
)

func newVerifier(t *testing.T) *verify.Verifier {
	t.Helper()

	schema, fks := vexsql.DefaultSchema()
	if err := vexsql.Validate(schema, fks); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	return verify.New(schema, fks, verify.WithRows(20), verify.WithSeed(1))
}

func TestExecute(t *testing.T) {
	v := newVerifier(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		sql     string
		wantErr bool
	}{
		{"star select", "SELECT * FROM users AS u1", false},
		{"join", "SELECT u1.username FROM users AS u1 INNER JOIN posts AS p1 ON u1.id = p1.user_id", false},
		{"aggregate", "SELECT p1.user_id, COUNT(*) FROM posts AS p1 GROUP BY p1.user_id HAVING COUNT(*) > 1", false},
		{"temporal", "SELECT * FROM posts AS p1 WHERE p1.posted_at > DATE_SUB(NOW(), INTERVAL 7 DAY)", false},
		{"insert", "INSERT INTO likes (user_id, post_id, liked_at) VALUES (1, 2, NOW())", false},
		{"update", "UPDATE posts SET view_count = 0 WHERE posts.id = 1", false},
		{"delete", "DELETE FROM follows WHERE follows.follower_id = 1", false},
		{"unknown table", "SELECT * FROM ghosts", true},
		{"unknown column", "SELECT u1.ghost FROM users AS u1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Execute(ctx, tt.sql)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute(%q) error = %v, wantErr %v", tt.sql, err, tt.wantErr)
			}
		})
	}
}

// Every gold query a builder produces must execute against the store.
func TestExecute_GeneratedDataset(t *testing.T) {
	schema, fks := vexsql.DefaultSchema()
	records := dataset.NewBuilder(schema, fks, dataset.WithSeed(17)).Build(40)

	v := newVerifier(t)
	ctx := context.Background()

	for _, rec := range records {
		if err := v.Execute(ctx, rec.SQL); err != nil {
			t.Errorf("record %d: gold SQL failed: %v\n%s", rec.ID, err, rec.SQL)
		}
	}
}

func TestEquivalent_Select(t *testing.T) {
	v := newVerifier(t)
	ctx := context.Background()

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{
			name: "identical queries",
			a:    "SELECT u1.username FROM users AS u1 WHERE u1.id > 5",
			b:    "SELECT u1.username FROM users AS u1 WHERE u1.id > 5",
			want: true,
		},
		{
			name: "equivalent rewrite",
			a:    "SELECT u1.username FROM users AS u1 WHERE u1.id > 5",
			b:    "SELECT x.username FROM users AS x WHERE x.id >= 6",
			want: true,
		},
		{
			name: "different filters",
			a:    "SELECT u1.username FROM users AS u1 WHERE u1.id > 5",
			b:    "SELECT u1.username FROM users AS u1 WHERE u1.id > 15",
			want: false,
		},
		{
			name: "order insensitive without order by",
			a:    "SELECT u1.id FROM users AS u1",
			b:    "SELECT u1.id FROM users AS u1 WHERE u1.id >= 1",
			want: true,
		},
		{
			name: "order sensitive with order by",
			a:    "SELECT u1.id FROM users AS u1 ORDER BY u1.id ASC",
			b:    "SELECT u1.id FROM users AS u1 ORDER BY u1.id DESC",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := v.Equivalent(ctx, tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Equivalent() = %v (%s), want %v", got, reason, tt.want)
			}
		})
	}
}

func TestEquivalent_DML(t *testing.T) {
	v := newVerifier(t)
	ctx := context.Background()

	got, reason := v.Equivalent(ctx,
		"UPDATE posts SET view_count = 0 WHERE posts.id = 1",
		"UPDATE posts SET view_count = 0 WHERE posts.id <= 1")
	if !got {
		t.Errorf("identical-effect updates not equivalent: %s", reason)
	}

	got, _ = v.Equivalent(ctx,
		"DELETE FROM likes",
		"DELETE FROM likes WHERE likes.user_id > 1000000")
	if got {
		t.Error("full delete equivalent to no-op delete")
	}

	got, _ = v.Equivalent(ctx,
		"UPDATE posts SET view_count = 0",
		"DELETE FROM likes")
	if got {
		t.Error("statements on different tables reported equivalent")
	}
}

func TestEquivalent_ErrorsAreNotEquivalent(t *testing.T) {
	v := newVerifier(t)

	got, reason := v.Equivalent(context.Background(),
		"SELECT * FROM ghosts",
		"SELECT * FROM users AS u1")
	if got {
		t.Error("failing query reported equivalent")
	}

	if reason == "" {
		t.Error("no reason for failed equivalence")
	}
}
