// Package litescan reads SQLite database files without the SQLite library.
//
//	db, err := litescan.Open("app.db", litescan.Options{})
//	names, err := db.TableNames()
//	rows, err := db.Rows("users")
//	for rows.Next() { fmt.Println(rows.Row().Values()) }
package litescan

import "github.com/tuannm99/litescan/internal/engine"

type (
	Database = engine.Database
	Options  = engine.Options
	Row      = engine.Row
	Rows     = engine.Rows
)

var ErrDatabaseClosed = engine.ErrDatabaseClosed

// Open opens path read-only. Pages are decoded on demand.
func Open(path string, opts Options) (*Database, error) {
	return engine.Open(path, opts)
}
