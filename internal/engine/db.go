package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tuannm99/litescan/internal/btree"
	"github.com/tuannm99/litescan/internal/bufferpool"
	"github.com/tuannm99/litescan/internal/catalog"
	"github.com/tuannm99/litescan/internal/record"
	"github.com/tuannm99/litescan/internal/storage"
)

var ErrDatabaseClosed = errors.New("litescan: database is closed")

type Options struct {
	// PageCacheSize is the number of decoded pages kept in memory.
	PageCacheSize int
	// SkipBadRows logs and skips undecodable cells instead of failing.
	SkipBadRows bool
}

// Database is a read-only handle on one database file. It is safe for
// concurrent use; scanners it returns are not.
type Database struct {
	Path string

	pager *storage.Pager
	pool  *bufferpool.Pool
	opts  Options

	mu      sync.Mutex
	closed  bool
	catalog *catalog.Catalog
}

// Open reads the file header of path. Pages are read lazily afterwards.
func Open(path string, opts Options) (*Database, error) {
	pager, err := storage.OpenPager(path)
	if err != nil {
		return nil, err
	}

	db := &Database{Path: path, pager: pager, opts: opts}
	db.pool = bufferpool.NewPool(bufferpool.LoaderFunc(db.loadPage), opts.PageCacheSize)

	slog.Debug("engine: open",
		"path", path,
		"pageSize", pager.PageSize(),
		"pageCount", pager.PageCount(),
		"skipBadRows", opts.SkipBadRows,
	)
	return db, nil
}

func (db *Database) loadPage(n uint32) (*storage.Page, error) {
	raw, err := db.pager.ReadPage(n)
	if err != nil {
		return nil, err
	}
	if db.opts.SkipBadRows {
		return storage.DecodePageLenient(raw, n, db.pager.UsableSize())
	}
	return storage.DecodePage(raw, n, db.pager.UsableSize())
}

func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true
	return db.pager.Close()
}

func (db *Database) checkOpen() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return ErrDatabaseClosed
	}
	return nil
}

func (db *Database) Header() storage.FileHeader { return db.pager.Header() }

func (db *Database) PageSize() int { return db.pager.PageSize() }

func (db *Database) PageCount() uint32 { return db.pager.PageCount() }

// Page returns decoded page n through the page cache.
func (db *Database) Page(n uint32) (*storage.Page, error) {
	if err := db.checkOpen(); err != nil {
		return nil, err
	}
	return db.pool.Fetch(n)
}

// CacheStats reports page cache hits and misses.
func (db *Database) CacheStats() bufferpool.Stats { return db.pool.Stats() }

// Catalog reads the schema table once and caches it.
func (db *Database) Catalog() (*catalog.Catalog, error) {
	if err := db.checkOpen(); err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if db.catalog != nil {
		return db.catalog, nil
	}
	c, err := catalog.Read(btree.NewTree(db.pool, catalog.SchemaPage))
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	db.catalog = c
	return c, nil
}

// TableNames lists the user and internal tables in schema order.
func (db *Database) TableNames() ([]string, error) {
	c, err := db.Catalog()
	if err != nil {
		return nil, err
	}
	return c.TableNames(), nil
}

func (db *Database) Table(name string) (*catalog.TableMeta, error) {
	c, err := db.Catalog()
	if err != nil {
		return nil, err
	}
	return c.Table(name)
}

// Schema maps each table name to its column layout.
func (db *Database) Schema() (map[string]*catalog.TableMeta, error) {
	c, err := db.Catalog()
	if err != nil {
		return nil, err
	}
	tables, err := c.Tables()
	if err != nil {
		return nil, err
	}
	out := make(map[string]*catalog.TableMeta, len(tables))
	for _, m := range tables {
		out[m.Name] = m
	}
	return out, nil
}

func (db *Database) tree(name string) (*btree.Tree, *catalog.TableMeta, error) {
	m, err := db.Table(name)
	if err != nil {
		return nil, nil, err
	}
	if m.WithoutRowID {
		return nil, nil, fmt.Errorf("table %q is WITHOUT ROWID and stored as an index tree", m.Name)
	}
	return btree.NewTree(db.pool, m.RootPage), m, nil
}

// Rows returns a cursor over the table's rows in rowid order.
func (db *Database) Rows(name string) (*Rows, error) {
	t, m, err := db.tree(name)
	if err != nil {
		return nil, err
	}
	return &Rows{meta: m, s: t.Scan()}, nil
}

// CountRows counts the table's rows without decoding them again.
func (db *Database) CountRows(name string) (int, error) {
	t, _, err := db.tree(name)
	if err != nil {
		return 0, err
	}
	return t.Count()
}

// FindRow looks a row up by rowid.
func (db *Database) FindRow(name string, rowid int64) (Row, bool, error) {
	t, m, err := db.tree(name)
	if err != nil {
		return Row{}, false, err
	}
	r, ok, err := t.Find(rowid)
	if err != nil || !ok {
		return Row{}, false, err
	}
	return resolve(m, r), true, nil
}

// Row is a table row laid out by declared columns.
type Row struct {
	RowID   int64
	Columns []record.Column
}

func (r Row) Values() []any {
	out := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Value
	}
	return out
}

// resolve pads short records with NULL and puts the rowid in the
// INTEGER PRIMARY KEY column.
func resolve(m *catalog.TableMeta, r btree.Row) Row {
	n := max(len(m.Columns), r.Record.Len())
	cols := make([]record.Column, n)
	copy(cols, r.Record.Columns)
	if m.RowIDColumn >= 0 && m.RowIDColumn < n {
		cols[m.RowIDColumn] = record.Column{
			Offset: cols[m.RowIDColumn].Offset,
			Type:   record.I64,
			Tag:    6,
			Value:  r.RowID,
		}
	}
	return Row{RowID: r.RowID, Columns: cols}
}

// Rows is a pull cursor over a table. Not safe for concurrent use.
type Rows struct {
	meta *catalog.TableMeta
	s    *btree.Scanner
	cur  Row
}

func (r *Rows) Next() bool {
	if !r.s.Next() {
		return false
	}
	r.cur = resolve(r.meta, r.s.Row())
	return true
}

func (r *Rows) Row() Row { return r.cur }

func (r *Rows) Err() error { return r.s.Err() }

func (r *Rows) Table() *catalog.TableMeta { return r.meta }
