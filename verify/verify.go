// Package verify executes queries against an in-memory sqlite store populated
// with deterministic synthetic rows, to check that gold SQL runs and to
// compare two queries for execution equivalence.
package verify

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vexsql/vexsql"
)

// Verifier builds fresh synthetic stores on demand. Stores are per-call, so a
// Verifier is safe for concurrent use.
type Verifier struct {
	schema *vexsql.Schema
	fks    *vexsql.ForeignKeyGraph
	rows   int
	seed   int64
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithRows sets the synthetic row count per table. The default is 50.
func WithRows(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.rows = n
		}
	}
}

// WithSeed sets the synthetic data seed. The default is 1.
func WithSeed(seed int64) Option {
	return func(v *Verifier) { v.seed = seed }
}

// New creates a Verifier over a validated schema and foreign-key graph.
func New(schema *vexsql.Schema, fks *vexsql.ForeignKeyGraph, opts ...Option) *Verifier {
	v := &Verifier{schema: schema, fks: fks, rows: 50, seed: 1}
	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Execute checks that the statement runs against a fresh synthetic store.
func (v *Verifier) Execute(ctx context.Context, sqlText string) error {
	db, err := v.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if isSelect(sqlText) {
		rows, err := db.QueryContext(ctx, toSQLite(sqlText))
		if err != nil {
			return fmt.Errorf("executing query: %w", err)
		}

		return rows.Close()
	}

	if _, err := db.ExecContext(ctx, toSQLite(sqlText)); err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}

	return nil
}

// Equivalent reports whether two statements behave the same over the
// synthetic store. SELECT statements are compared by result multiset,
// order-sensitively only when either carries an ORDER BY. DML statements each
// run against their own identically-populated store and are compared by the
// post-state of the affected table. Execution errors count as not equivalent,
// with the error in the reason.
func (v *Verifier) Equivalent(ctx context.Context, sqlA, sqlB string) (bool, string) {
	if isSelect(sqlA) != isSelect(sqlB) {
		return false, "statement kinds differ"
	}

	if isSelect(sqlA) {
		return v.equivalentSelect(ctx, sqlA, sqlB)
	}

	return v.equivalentDML(ctx, sqlA, sqlB)
}

func (v *Verifier) equivalentSelect(ctx context.Context, sqlA, sqlB string) (bool, string) {
	db, err := v.open(ctx)
	if err != nil {
		return false, err.Error()
	}
	defer db.Close()

	rowsA, err := queryRows(ctx, db, sqlA)
	if err != nil {
		return false, fmt.Sprintf("first query failed: %v", err)
	}

	rowsB, err := queryRows(ctx, db, sqlB)
	if err != nil {
		return false, fmt.Sprintf("second query failed: %v", err)
	}

	ordered := hasOrderBy(sqlA) || hasOrderBy(sqlB)

	return compareRows(rowsA, rowsB, ordered)
}

func (v *Verifier) equivalentDML(ctx context.Context, sqlA, sqlB string) (bool, string) {
	table := dmlTable(sqlA)
	if table == "" {
		return false, "cannot determine affected table"
	}

	if other := dmlTable(sqlB); other != table {
		return false, fmt.Sprintf("statements target different tables: %s vs %s", table, other)
	}

	stateA, err := v.runAndDump(ctx, sqlA, table)
	if err != nil {
		return false, fmt.Sprintf("first statement failed: %v", err)
	}

	stateB, err := v.runAndDump(ctx, sqlB, table)
	if err != nil {
		return false, fmt.Sprintf("second statement failed: %v", err)
	}

	return compareRows(stateA, stateB, false)
}

func (v *Verifier) runAndDump(ctx context.Context, sqlText, table string) ([]string, error) {
	db, err := v.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, toSQLite(sqlText)); err != nil {
		return nil, err
	}

	return queryRows(ctx, db, "SELECT * FROM "+table)
}

// =============================================================================
// Store construction
// =============================================================================

// open creates and populates one in-memory store. Callers own the handle.
func (v *Verifier) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	// In-memory sqlite is per-connection; a second connection would see an
	// empty database.
	db.SetMaxOpenConns(1)

	if err := v.createTables(ctx, db); err != nil {
		db.Close()

		return nil, err
	}

	if err := v.populate(ctx, db); err != nil {
		db.Close()

		return nil, err
	}

	return db, nil
}

func (v *Verifier) createTables(ctx context.Context, db *sql.DB) error {
	for _, table := range v.schema.Tables {
		cols := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			cols[i] = col.Name + " " + sqliteType(col.Type)
		}

		ddl := fmt.Sprintf("CREATE TABLE %s (%s)", table.Name, strings.Join(cols, ", "))
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating table %s: %w", table.Name, err)
		}
	}

	return nil
}

func sqliteType(t vexsql.ColumnType) string {
	switch {
	case t == vexsql.TypeFloat:
		return "REAL"
	case t.IsNumeric(), t.IsBoolean():
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// populate fills every table with seeded synthetic rows. Foreign-key columns
// draw from the parent's id range so joins and subqueries produce non-empty
// results.
func (v *Verifier) populate(ctx context.Context, db *sql.DB) error {
	rng := rand.New(rand.NewSource(v.seed))

	for _, table := range v.schema.Tables {
		foreign := make(map[string]bool)
		for _, edge := range v.fks.From(table.Name) {
			foreign[edge.FromKey] = true
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
		insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table.Name, strings.Join(table.ColumnNames(), ", "), placeholders)

		for row := 1; row <= v.rows; row++ {
			values := make([]any, len(table.Columns))
			for i, col := range table.Columns {
				values[i] = v.syntheticValue(rng, col, row, foreign[col.Name])
			}

			if _, err := db.ExecContext(ctx, insert, values...); err != nil {
				return fmt.Errorf("populating table %s: %w", table.Name, err)
			}
		}
	}

	return nil
}

// textSamples overlap the generator's filter constants so equality predicates
// actually match rows.
var textSamples = []string{"test", "user", "admin", "alpha", "beta", "gamma"}

func (v *Verifier) syntheticValue(rng *rand.Rand, col vexsql.Column, row int, isForeign bool) any {
	switch {
	case col.Name == "id":
		return row
	case isForeign:
		return 1 + rng.Intn(v.rows)
	case col.Type.IsNumeric():
		return rng.Intn(1001)
	case col.Type.IsBoolean():
		return rng.Intn(2)
	case col.Type.IsDate():
		// Spread timestamps over the last two months so interval filters
		// split the data.
		return fmt.Sprintf("2026-%02d-%02d 12:00:00", 7+rng.Intn(2), 1+rng.Intn(28))
	case col.Type.IsText():
		if rng.Intn(2) == 0 {
			return textSamples[rng.Intn(len(textSamples))]
		}

		return fmt.Sprintf("%s %d", col.Name, row)
	default:
		return fmt.Sprintf("%s %d", col.Name, row)
	}
}

// =============================================================================
// SQL dialect and row comparison
// =============================================================================

var (
	dateSubPattern = regexp.MustCompile(`(?i)DATE_SUB\(\s*NOW\(\)\s*,\s*INTERVAL\s+(\d+)\s+(\w+)\s*\)`)
	nowPattern     = regexp.MustCompile(`(?i)NOW\(\)`)
	orderByPattern = regexp.MustCompile(`(?i)\bORDER\s+BY\b`)
	dmlPattern     = regexp.MustCompile(`(?i)^\s*(?:INSERT\s+INTO|UPDATE|DELETE\s+FROM)\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

// toSQLite rewrites the generator's MySQL-flavored temporal functions into
// sqlite equivalents.
func toSQLite(sqlText string) string {
	sqlText = dateSubPattern.ReplaceAllStringFunc(sqlText, func(match string) string {
		groups := dateSubPattern.FindStringSubmatch(match)

		return fmt.Sprintf("datetime('now', '-%s %s')", groups[1], strings.ToLower(groups[2]))
	})

	return nowPattern.ReplaceAllString(sqlText, "datetime('now')")
}

func isSelect(sqlText string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sqlText)), "SELECT")
}

func hasOrderBy(sqlText string) bool {
	return orderByPattern.MatchString(sqlText)
}

func dmlTable(sqlText string) string {
	groups := dmlPattern.FindStringSubmatch(sqlText)
	if groups == nil {
		return ""
	}

	return groups[1]
}

// queryRows runs a query and canonicalizes every row to a string.
func queryRows(ctx context.Context, db *sql.DB, sqlText string) ([]string, error) {
	rows, err := db.QueryContext(ctx, toSQLite(sqlText))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []string

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))

		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		out = append(out, canonicalRow(values))
	}

	return out, rows.Err()
}

func canonicalRow(values []any) string {
	parts := make([]string, len(values))

	for i, v := range values {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}

		parts[i] = fmt.Sprintf("%v", v)
	}

	return strings.Join(parts, "|")
}

func compareRows(a, b []string, ordered bool) (bool, string) {
	if len(a) != len(b) {
		return false, fmt.Sprintf("row counts differ: %d vs %d", len(a), len(b))
	}

	if !ordered {
		a = append([]string(nil), a...)
		b = append([]string(nil), b...)
		sort.Strings(a)
		sort.Strings(b)
	}

	for i := range a {
		if a[i] != b[i] {
			return false, fmt.Sprintf("row %d differs", i)
		}
	}

	return true, ""
}
