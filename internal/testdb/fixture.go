package testdb

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const DefaultPageSize = 4096

// Create writes a database file under t.TempDir() by running stmts through
// the modernc.org/sqlite driver and returns its path.
func Create(t testing.TB, name string, pageSize int, stmts ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// page_size only applies before the first table exists, on this connection
	db.SetMaxOpenConns(1)
	_, err = db.Exec(fmt.Sprintf("PRAGMA page_size = %d", pageSize))
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA journal_mode = DELETE")
	require.NoError(t, err)

	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, "exec %q", s)
	}
	return path
}

// Fruits has apples (AUTOINCREMENT, so sqlite_sequence exists) and oranges
// on 4096-byte pages: four pages in total.
func Fruits(t testing.TB) string {
	t.Helper()
	return Create(t, "sample.db", DefaultPageSize,
		`CREATE TABLE apples (
			id integer primary key autoincrement,
			name text,
			color text
		)`,
		`INSERT INTO apples (name, color) VALUES
			('Granny Smith', 'Light Green'),
			('Fuji', 'Red'),
			('Honeycrisp', 'Blush Red'),
			('Golden Delicious', 'Yellow')`,
		`CREATE TABLE oranges (
			id integer primary key autoincrement,
			name text,
			description text
		)`,
		`INSERT INTO oranges (name, description) VALUES
			('Mandarin', 'great for snacking'),
			('Tangelo', 'sweet and tart'),
			('Blood Orange', 'deep red flesh'),
			('Navel', 'seedless and sweet'),
			('Valencia', 'ideal for juice'),
			('Clementine', 'small and easy to peel')`,
	)
}

// NumbersRows is the row count Numbers inserts.
const NumbersRows = 500

// Numbers has one table spread over an interior root and many leaves.
// Row i has rowid i, n = i*i and a padded label.
func Numbers(t testing.TB) string {
	t.Helper()

	stmts := []string{`CREATE TABLE numbers (id INTEGER PRIMARY KEY, n INTEGER, label TEXT)`}
	for i := 1; i <= NumbersRows; i++ {
		stmts = append(stmts, fmt.Sprintf(
			"INSERT INTO numbers VALUES (%d, %d, '%s')", i, i*i, Label(i)))
	}
	return Create(t, "numbers.db", DefaultPageSize, stmts...)
}

// Label is the text Numbers stores for row i.
func Label(i int) string {
	return fmt.Sprintf("row-%04d-", i) + strings.Repeat("x", 80)
}

// OverflowBlobSize is larger than any local payload on a 4096-byte page.
const OverflowBlobSize = 10000

// Overflow has a row whose blob spills into overflow pages.
func Overflow(t testing.TB) string {
	t.Helper()
	return Create(t, "overflow.db", DefaultPageSize,
		`CREATE TABLE blobs (id INTEGER PRIMARY KEY, data BLOB)`,
		`INSERT INTO blobs VALUES (1, x'01')`,
		fmt.Sprintf(`INSERT INTO blobs VALUES (2, randomblob(%d))`, OverflowBlobSize),
		`INSERT INTO blobs VALUES (3, x'03')`,
	)
}

// Indexed has a table plus an index so index pages exist.
func Indexed(t testing.TB) string {
	t.Helper()
	return Create(t, "indexed.db", DefaultPageSize,
		`CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)`,
		`CREATE INDEX people_name ON people (name)`,
		`INSERT INTO people (name, age) VALUES ('ada', 36), ('grace', 45), ('linus', 28)`,
	)
}
