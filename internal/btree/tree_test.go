package btree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/litescan/internal/bufferpool"
	"github.com/tuannm99/litescan/internal/dberr"
	"github.com/tuannm99/litescan/internal/storage"
	"github.com/tuannm99/litescan/internal/testdb"
)

const pageSize = 1024

func leaf(rowids ...int64) []byte {
	cells := make([][]byte, len(rowids))
	for i, id := range rowids {
		cells[i] = testdb.LeafTableCell(id, testdb.Record(id*10, "v"))
	}
	return testdb.BuildPage(testdb.PageSpec{Size: pageSize, Type: testdb.TableLeaf, Cells: cells})
}

func interior(rightmost uint32, pairs ...int64) []byte {
	cells := make([][]byte, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		cells = append(cells, testdb.InteriorTableCell(uint32(pairs[i]), pairs[i+1]))
	}
	return testdb.BuildPage(testdb.PageSpec{Size: pageSize, Type: testdb.TableInterior, Rightmost: rightmost, Cells: cells})
}

func emptyPage1() []byte {
	return testdb.BuildPage(testdb.PageSpec{Size: pageSize, Type: testdb.TableLeaf, First: true})
}

// pageCounter records every page the tree asks for.
type pageCounter struct {
	*bufferpool.Pool
	gets []uint32
}

func (c *pageCounter) GetPage(n uint32) (*storage.Page, error) {
	c.gets = append(c.gets, n)
	return c.Pool.GetPage(n)
}

func openImage(t *testing.T, img []byte, lenient bool) (*storage.Pager, *pageCounter) {
	t.Helper()
	pager, err := storage.NewPager(bytes.NewReader(img), int64(len(img)))
	require.NoError(t, err)

	var loader bufferpool.Loader = pager
	if lenient {
		loader = bufferpool.LoaderFunc(func(n uint32) (*storage.Page, error) {
			raw, err := pager.ReadPage(n)
			if err != nil {
				return nil, err
			}
			return storage.DecodePageLenient(raw, n, pager.UsableSize())
		})
	}
	return pager, &pageCounter{Pool: bufferpool.NewPool(loader, 8)}
}

// three-leaf table rooted at page 2
func twoLevelImage() []byte {
	return testdb.File(pageSize,
		emptyPage1(),
		interior(5, 3, 2, 4, 4),
		leaf(1, 2),
		leaf(3, 4),
		leaf(5, 6),
	)
}

func collect(t *testing.T, tree *Tree) []int64 {
	t.Helper()
	var ids []int64
	require.NoError(t, tree.Walk(func(r Row) error {
		ids = append(ids, r.RowID)
		return nil
	}))
	return ids
}

func TestTree_Walk_RowidOrder(t *testing.T) {
	_, bp := openImage(t, twoLevelImage(), false)
	tree := NewTree(bp, 2)

	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, collect(t, tree))

	n, err := tree.Count()
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestTree_Scanner_Lazy(t *testing.T) {
	_, bp := openImage(t, twoLevelImage(), false)
	tree := NewTree(bp, 2)

	s := tree.Scan()
	assert.Empty(t, bp.gets)

	require.True(t, s.Next())
	assert.Equal(t, []uint32{2, 3}, bp.gets)
	assert.Equal(t, int64(1), s.Row().RowID)
	v, ok := s.Row().Record.Column(0)
	require.True(t, ok)
	assert.Equal(t, int8(10), v.Value)
	assert.Equal(t, uint32(3), s.Row().Page)

	for s.Next() {
	}
	require.NoError(t, s.Err())
	assert.False(t, s.Next())
}

func TestTree_Find(t *testing.T) {
	_, bp := openImage(t, twoLevelImage(), false)
	tree := NewTree(bp, 2)

	for id := int64(1); id <= 6; id++ {
		r, ok, err := tree.Find(id)
		require.NoError(t, err)
		require.True(t, ok, "rowid %d", id)
		assert.Equal(t, id, r.RowID)
	}

	for _, id := range []int64{0, 7, -3} {
		_, ok, err := tree.Find(id)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestTree_Cycle(t *testing.T) {
	img := testdb.File(pageSize,
		emptyPage1(),
		interior(3, 2, 10),
		leaf(11),
	)
	_, bp := openImage(t, img, false)
	tree := NewTree(bp, 2)

	s := tree.Scan()
	assert.False(t, s.Next())
	require.ErrorIs(t, s.Err(), dberr.ErrCorrupt)

	_, err := tree.Count()
	require.ErrorIs(t, err, dberr.ErrCorrupt)

	_, _, err = tree.Find(5)
	require.ErrorIs(t, err, dberr.ErrCorrupt)
}

func TestTree_IndexPageInTableTree(t *testing.T) {
	idx := testdb.BuildPage(testdb.PageSpec{
		Size: pageSize, Type: testdb.IndexLeaf,
		Cells: [][]byte{testdb.IndexLeafCell(testdb.Record("a", int64(1)))},
	})
	img := testdb.File(pageSize, emptyPage1(), interior(3, 3, 1), idx)
	_, bp := openImage(t, img, false)

	_, err := NewTree(bp, 2).Count()
	require.ErrorIs(t, err, dberr.ErrCorrupt)
}

func TestTree_ChildOutOfRange(t *testing.T) {
	img := testdb.File(pageSize, emptyPage1(), interior(9, 3, 1), leaf(1))
	_, bp := openImage(t, img, false)

	s := NewTree(bp, 2).Scan()
	require.True(t, s.Next())
	assert.False(t, s.Next())
	require.ErrorIs(t, s.Err(), dberr.ErrCorrupt)
}

func TestTree_SkipBadRows(t *testing.T) {
	bad := testdb.LeafTableCell(2, []byte{0x02, 0x0b})
	page := testdb.BuildPage(testdb.PageSpec{Size: pageSize, Type: testdb.TableLeaf, Cells: [][]byte{
		testdb.LeafTableCell(1, testdb.Record("a")),
		bad,
		testdb.LeafTableCell(3, testdb.Record("c")),
	}})
	img := testdb.File(pageSize, emptyPage1(), page)

	_, strict := openImage(t, img, false)
	s := NewTree(strict, 2).Scan()
	assert.False(t, s.Next())
	require.ErrorIs(t, s.Err(), dberr.ErrInvalidSerialType)

	_, lenient := openImage(t, img, true)
	assert.Equal(t, []int64{1, 3}, collect(t, NewTree(lenient, 2)))
}

func TestTree_RealMultiLevelTable(t *testing.T) {
	pager, err := storage.OpenPager(testdb.Numbers(t))
	require.NoError(t, err)
	defer func() { _ = pager.Close() }()

	bp := bufferpool.NewPool(pager, 4)
	tree := NewTree(bp, 2)

	root, err := bp.Fetch(2)
	require.NoError(t, err)
	require.Equal(t, storage.TableInterior, root.Header.Type)

	want := int64(1)
	s := tree.Scan()
	for s.Next() {
		r := s.Row()
		require.Equal(t, want, r.RowID)

		// column 0 is the rowid alias and stored as NULL
		require.True(t, r.Record.Columns[0].IsNull())
		n, ok := r.Record.Columns[1].Int()
		require.True(t, ok)
		require.Equal(t, want*want, n)
		label, _ := r.Record.Columns[2].Text()
		require.Equal(t, testdb.Label(int(want)), label)
		want++
	}
	require.NoError(t, s.Err())
	assert.Equal(t, int64(testdb.NumbersRows+1), want)

	r, ok, err := tree.Find(377)
	require.NoError(t, err)
	require.True(t, ok)
	n, _ := r.Record.Columns[1].Int()
	assert.Equal(t, int64(377*377), n)

	cnt, err := tree.Count()
	require.NoError(t, err)
	assert.Equal(t, testdb.NumbersRows, cnt)
}

func TestTree_RealOverflow(t *testing.T) {
	pager, err := storage.OpenPager(testdb.Overflow(t))
	require.NoError(t, err)
	defer func() { _ = pager.Close() }()

	s := NewTree(bufferpool.NewPool(pager, 4), 2).Scan()
	assert.False(t, s.Next())
	require.ErrorIs(t, s.Err(), dberr.ErrOverflow)
}
