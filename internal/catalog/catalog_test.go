package catalog

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/litescan/internal/btree"
	"github.com/tuannm99/litescan/internal/bufferpool"
	"github.com/tuannm99/litescan/internal/dberr"
	"github.com/tuannm99/litescan/internal/record"
	"github.com/tuannm99/litescan/internal/storage"
	"github.com/tuannm99/litescan/internal/testdb"
)

func readCatalog(t *testing.T, path string) *Catalog {
	t.Helper()
	pager, err := storage.OpenPager(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pager.Close() })

	c, err := Read(btree.NewTree(bufferpool.NewPool(pager, 8), SchemaPage))
	require.NoError(t, err)
	return c
}

func TestRead_Fruits(t *testing.T) {
	c := readCatalog(t, testdb.Fruits(t))

	assert.Equal(t, []string{"apples", "sqlite_sequence", "oranges"}, c.TableNames())

	apples, err := c.Table("apples")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), apples.RootPage)
	assert.Equal(t, []string{"id", "name", "color"}, apples.ColumnNames())
	assert.Equal(t, 0, apples.RowIDColumn)
	assert.Equal(t, 2, apples.ColumnIndex("COLOR"))
	assert.Equal(t, -1, apples.ColumnIndex("weight"))

	seq, err := c.Table("SQLITE_SEQUENCE")
	require.NoError(t, err)
	assert.Equal(t, -1, seq.RowIDColumn)
	assert.Equal(t, []string{"name", "seq"}, seq.ColumnNames())

	_, err = c.Table("pears")
	require.ErrorIs(t, err, ErrTableNotFound)

	all, err := c.Tables()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "oranges", all[2].Name)
}

func TestRead_IndexEntries(t *testing.T) {
	c := readCatalog(t, testdb.Indexed(t))

	assert.Equal(t, []string{"people"}, c.TableNames())

	idx, ok := c.Lookup("index", "people_name")
	require.True(t, ok)
	assert.Equal(t, "people", idx.TableName)
	assert.NotZero(t, idx.RootPage)
	assert.Contains(t, idx.SQL, "CREATE INDEX")
}

func TestRead_ShortSchemaRecord(t *testing.T) {
	page1 := testdb.BuildPage(testdb.PageSpec{
		Size: 1024, Type: testdb.TableLeaf, First: true,
		Cells: [][]byte{testdb.LeafTableCell(1, testdb.Record("table", "t", "t", int64(2)))},
	})
	img := testdb.File(1024, page1)

	pager, err := storage.NewPager(bytes.NewReader(img), int64(len(img)))
	require.NoError(t, err)

	_, err = Read(btree.NewTree(bufferpool.NewPool(pager, 2), SchemaPage))
	require.ErrorIs(t, err, dberr.ErrCorrupt)
}

func TestEntryFromRecord_WrongType(t *testing.T) {
	rec := record.Record{Columns: []record.Column{
		{Type: record.String, Value: "table"},
		{Type: record.I8, Value: int8(3)},
		{Type: record.String, Value: "t"},
		{Type: record.I8, Value: int8(2)},
		{Type: record.Null},
	}}
	_, err := entryFromRecord(rec)
	require.ErrorIs(t, err, dberr.ErrCorrupt)

	rec.Columns[1] = record.Column{Type: record.String, Value: "t"}
	e, err := entryFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, Entry{Type: "table", Name: "t", TableName: "t", RootPage: 2}, e)
}

func TestEntryFromRecord_RootPageRange(t *testing.T) {
	entry := func(root record.Column) record.Record {
		return record.Record{Columns: []record.Column{
			{Type: record.String, Value: "table"},
			{Type: record.String, Value: "t"},
			{Type: record.String, Value: "t"},
			root,
			{Type: record.String, Value: "CREATE TABLE t (a)"},
		}}
	}

	for _, bad := range []record.Column{
		{Type: record.I8, Value: int8(-1)},
		{Type: record.I64, Value: int64(math.MaxUint32) + 1},
		{Type: record.String, Value: "2"},
	} {
		_, err := entryFromRecord(entry(bad))
		require.ErrorIs(t, err, dberr.ErrCorrupt)
		require.ErrorContains(t, err, `"t"`)
	}

	for _, tc := range []struct {
		col  record.Column
		want uint32
	}{
		{record.Column{Type: record.Null}, 0},
		{record.Column{Type: record.Zero, Value: int64(0)}, 0},
		{record.Column{Type: record.I64, Value: int64(math.MaxUint32)}, math.MaxUint32},
	} {
		e, err := entryFromRecord(entry(tc.col))
		require.NoError(t, err)
		assert.Equal(t, tc.want, e.RootPage)
	}
}

func TestTableFromEntry_RowIDAlias(t *testing.T) {
	cases := []struct {
		sql  string
		want int
	}{
		{"CREATE TABLE t (a TEXT, id INTEGER PRIMARY KEY)", 1},
		{"CREATE TABLE t (id INT PRIMARY KEY, a)", -1},
		{"CREATE TABLE t (id INTEGER PRIMARY KEY DESC, a)", -1},
		{"CREATE TABLE t (id INTEGER, a, PRIMARY KEY (id))", 0},
		{"CREATE TABLE t (id INTEGER, a, PRIMARY KEY (id, a))", -1},
		{"CREATE TABLE t (id INTEGER PRIMARY KEY, a) WITHOUT ROWID", -1},
	}
	for _, tc := range cases {
		m, err := TableFromEntry(Entry{Type: "table", Name: "t", SQL: tc.sql})
		require.NoError(t, err, tc.sql)
		assert.Equal(t, tc.want, m.RowIDColumn, tc.sql)
	}

	_, err := TableFromEntry(Entry{Type: "table", Name: "v", SQL: "CREATE VIEW v AS SELECT 1"})
	require.Error(t, err)
}
