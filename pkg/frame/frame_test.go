package frame

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryRows(t *testing.T, mockRows *sqlmock.Rows, query string) *Frame {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.ExpectQuery(query).WillReturnRows(mockRows)

	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close()
	f, err := Read(rows)
	require.NoError(t, err)
	return f
}

func TestRead(t *testing.T) {
	mockRows := sqlmock.NewRows([]string{"id", "nome", "massa"}).
		AddRow(1, []byte("CAM-101"), 42.5).
		AddRow(2, []byte("CAM-102"), nil)

	f := queryRows(t, mockRows, "SELECT id, nome, massa FROM t")

	require.Equal(t, 2, f.Len())
	assert.Equal(t, []string{"id", "nome", "massa"}, f.Columns)
	assert.Equal(t, "CAM-101", f.Rows[0][1], "byte slices normalize to string")
	assert.Nil(t, f.Rows[1][2])
}

func TestColumn(t *testing.T) {
	f := &Frame{Columns: []string{"a", "b"}}
	assert.Equal(t, 1, f.Column("b"))
	assert.Equal(t, -1, f.Column("z"))
}

func TestClone_Independent(t *testing.T) {
	f := &Frame{
		Columns: []string{"a"},
		Rows:    [][]interface{}{{int64(1)}},
	}
	c := f.Clone()
	c.Rows[0][0] = int64(99)
	c.Columns[0] = "z"

	assert.Equal(t, int64(1), f.Rows[0][0])
	assert.Equal(t, "a", f.Columns[0])
}

func TestFloat(t *testing.T) {
	f := &Frame{
		Columns: []string{"i64", "f64", "s", "n"},
		Rows:    [][]interface{}{{int64(7), 2.5, "x", nil}},
	}

	v, err := f.Float(0, "i64")
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	v, err = f.Float(0, "f64")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = f.Float(0, "n")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = f.Float(0, "s")
	require.Error(t, err)
	_, err = f.Float(0, "missing")
	require.Error(t, err)
	_, err = f.Float(3, "i64")
	require.Error(t, err)
}

func TestChunks_Iteration(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockRows := sqlmock.NewRows([]string{"id"})
	for i := 1; i <= 7; i++ {
		mockRows.AddRow(i)
	}
	mock.ExpectQuery("SELECT id FROM t").WillReturnRows(mockRows)

	rows, err := db.Query("SELECT id FROM t")
	require.NoError(t, err)

	chunks, err := NewChunks(rows, 3)
	require.NoError(t, err)
	defer chunks.Close()

	var sizes []int
	for chunks.Next() {
		sizes = append(sizes, chunks.Frame().Len())
		assert.Equal(t, []string{"id"}, chunks.Frame().Columns)
	}
	require.NoError(t, chunks.Err())
	assert.Equal(t, []int{3, 3, 1}, sizes)
	assert.False(t, chunks.Next())
}

func TestChunks_RejectsBadSize(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1").
		WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))
	rows, err := db.Query("SELECT 1")
	require.NoError(t, err)
	defer rows.Close()

	_, err = NewChunks(rows, 0)
	require.Error(t, err)
	_, err = NewChunks(rows, -2)
	require.Error(t, err)
}

func TestChunks_CloseTwice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT 1").
		WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow(1))
	rows, err := db.Query("SELECT 1")
	require.NoError(t, err)

	chunks, err := NewChunks(rows, 1)
	require.NoError(t, err)
	require.NoError(t, chunks.Close())
	require.NoError(t, chunks.Close())
	assert.False(t, chunks.Next())
}
