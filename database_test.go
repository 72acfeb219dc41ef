package litescan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/litescan/internal/testdb"
)

func TestOpen_Facade(t *testing.T) {
	db, err := Open(testdb.Fruits(t), Options{PageCacheSize: 8})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	names, err := db.TableNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"apples", "sqlite_sequence", "oranges"}, names)

	var rows *Rows
	rows, err = db.Rows("oranges")
	require.NoError(t, err)

	var got []Row
	for rows.Next() {
		got = append(got, rows.Row())
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 6)
	assert.Equal(t, []any{int64(1), "Mandarin", "great for snacking"}, got[0].Values())

	require.NoError(t, db.Close())
	_, err = db.TableNames()
	require.ErrorIs(t, err, ErrDatabaseClosed)
}
