package vexsql

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .vexsql.yaml is found.
	ErrConfigNotFound = errors.New("vexsql: no .vexsql.yaml found")

	// ErrUnknownTable is returned when a schema element references a table
	// that does not exist.
	ErrUnknownTable = errors.New("vexsql: unknown table")

	// ErrUnknownColumn is returned when a schema element references a column
	// that does not exist in its table.
	ErrUnknownColumn = errors.New("vexsql: unknown column")

	// ErrDuplicateTable is returned when a schema defines the same table twice.
	ErrDuplicateTable = errors.New("vexsql: duplicate table")

	// ErrDuplicateColumn is returned when a table defines the same column twice.
	ErrDuplicateColumn = errors.New("vexsql: duplicate column")

	// ErrInvalidForeignKey is returned when a foreign-key edge references a
	// nonexistent table or key column.
	ErrInvalidForeignKey = errors.New("vexsql: invalid foreign key")

	// ErrEmptySchema is returned when a schema defines no tables.
	ErrEmptySchema = errors.New("vexsql: schema has no tables")
)
