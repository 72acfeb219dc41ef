package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tuannm99/litescan/internal/btree"
	"github.com/tuannm99/litescan/internal/dberr"
	"github.com/tuannm99/litescan/internal/record"
	"github.com/tuannm99/litescan/internal/sql/parser"
)

var ErrTableNotFound = errors.New("catalog: table not found")

// Catalog is the decoded schema table, in scan order.
type Catalog struct {
	Entries []Entry
}

// Read scans the schema table rooted at page 1.
func Read(tree *btree.Tree) (*Catalog, error) {
	c := &Catalog{}
	err := tree.Walk(func(r btree.Row) error {
		e, err := entryFromRecord(r.Record)
		if err != nil {
			return fmt.Errorf("schema row %d: %w", r.RowID, err)
		}
		c.Entries = append(c.Entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("catalog: loaded", "entries", len(c.Entries))
	return c, nil
}

func entryFromRecord(rec record.Record) (Entry, error) {
	if rec.Len() < colSQL+1 {
		return Entry{}, fmt.Errorf("%w: schema record has %d columns, want 5", dberr.ErrCorrupt, rec.Len())
	}
	text := func(i int) (string, error) {
		c := rec.Columns[i]
		if c.IsNull() {
			return "", nil
		}
		s, ok := c.Text()
		if !ok {
			return "", fmt.Errorf("%w: schema column %d is %s, want TEXT", dberr.ErrCorrupt, i, c.Type)
		}
		return s, nil
	}

	var e Entry
	var err error
	if e.Type, err = text(colType); err != nil {
		return Entry{}, err
	}
	if e.Name, err = text(colName); err != nil {
		return Entry{}, err
	}
	if e.TableName, err = text(colTableName); err != nil {
		return Entry{}, err
	}
	if e.SQL, err = text(colSQL); err != nil {
		return Entry{}, err
	}
	if e.RootPage, err = rootPage(rec.Columns[colRootPage], e.Name); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// rootPage reads the rootpage column. Views, triggers and virtual tables
// store 0 (or NULL) since they own no b-tree.
func rootPage(c record.Column, name string) (uint32, error) {
	if c.IsNull() {
		return 0, nil
	}
	root, ok := c.Int()
	if !ok {
		return 0, fmt.Errorf("%w: schema row %q rootpage is %s, want INTEGER", dberr.ErrCorrupt, name, c.Type)
	}
	if root < 0 || root > math.MaxUint32 {
		return 0, fmt.Errorf("%w: schema row %q rootpage %d out of range", dberr.ErrCorrupt, name, root)
	}
	return uint32(root), nil
}

// TableNames lists type='table' entries in scan order.
func (c *Catalog) TableNames() []string {
	var out []string
	for _, e := range c.Entries {
		if e.Type == "table" {
			out = append(out, e.Name)
		}
	}
	return out
}

// Lookup finds an entry by case-insensitive name and type.
func (c *Catalog) Lookup(typ, name string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Type == typ && strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}

// Table resolves a table's column layout from its CREATE TABLE text.
func (c *Catalog) Table(name string) (*TableMeta, error) {
	e, ok := c.Lookup("table", name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return TableFromEntry(e)
}

// Tables resolves every table. The order matches TableNames.
func (c *Catalog) Tables() ([]*TableMeta, error) {
	var out []*TableMeta
	for _, e := range c.Entries {
		if e.Type != "table" {
			continue
		}
		m, err := TableFromEntry(e)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func TableFromEntry(e Entry) (*TableMeta, error) {
	stmt, err := parser.ParseCreateTable(e.SQL)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", e.Name, err)
	}

	m := &TableMeta{
		Name:         e.Name,
		RootPage:     e.RootPage,
		Columns:      stmt.Columns,
		RowIDColumn:  -1,
		WithoutRowID: stmt.WithoutRowID,
	}
	if !m.WithoutRowID {
		m.RowIDColumn = rowIDAlias(stmt.Columns)
	}
	return m, nil
}

// rowIDAlias finds the single INTEGER PRIMARY KEY column. A composite key,
// another declared type, or DESC does not alias the rowid.
func rowIDAlias(cols []parser.ColumnDef) int {
	idx := -1
	for i, c := range cols {
		if !c.PrimaryKey {
			continue
		}
		if idx != -1 {
			return -1
		}
		idx = i
	}
	if idx == -1 || cols[idx].Type != "INTEGER" || cols[idx].Desc {
		return -1
	}
	return idx
}

// Indexes lists the index entries on table in scan order.
func (c *Catalog) Indexes(table string) []Entry {
	var out []Entry
	for _, e := range c.Entries {
		if e.Type == "index" && strings.EqualFold(e.TableName, table) {
			out = append(out, e)
		}
	}
	return out
}
