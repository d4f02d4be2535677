package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minereport/dwquery/pkg/frame"
)

func testFrame(v string) *frame.Frame {
	return &frame.Frame{
		Columns: []string{"status"},
		Rows:    [][]interface{}{{v}},
	}
}

func TestGetPut(t *testing.T) {
	c := New(10)
	now := time.Now()
	c.now = func() time.Time { return now }

	_, ok := c.Get("q", time.Minute)
	assert.False(t, ok)

	c.Put("q", testFrame("OPERANDO"))
	f, ok := c.Get("q", time.Minute)
	require.True(t, ok)
	assert.Equal(t, "OPERANDO", f.Rows[0][0])
}

func TestExpiry(t *testing.T) {
	c := New(10)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put("q", testFrame("x"))

	now = now.Add(59 * time.Second)
	_, ok := c.Get("q", time.Minute)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("q", time.Minute)
	assert.False(t, ok, "entry older than maxAge must miss")
}

func TestZeroMaxAgeBypasses(t *testing.T) {
	c := New(10)
	c.Put("q", testFrame("x"))
	_, ok := c.Get("q", 0)
	assert.False(t, ok)
}

func TestEvictionOldestFirst(t *testing.T) {
	c := New(3)
	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("q%d", i), testFrame("x"))
	}
	require.Equal(t, 3, c.Len())

	c.Put("q3", testFrame("x"))
	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("q0", time.Minute)
	assert.False(t, ok, "oldest entry must be evicted")
	_, ok = c.Get("q3", time.Minute)
	assert.True(t, ok)
}

func TestCopiesBothWays(t *testing.T) {
	c := New(10)
	in := testFrame("OPERANDO")
	c.Put("q", in)

	// Caller mutates its frame after Put.
	in.Rows[0][0] = "PARADO"
	got, ok := c.Get("q", time.Minute)
	require.True(t, ok)
	assert.Equal(t, "OPERANDO", got.Rows[0][0])

	// Caller mutates the frame it got back.
	got.Rows[0][0] = "MANUTENCAO"
	again, ok := c.Get("q", time.Minute)
	require.True(t, ok)
	assert.Equal(t, "OPERANDO", again.Rows[0][0])
}

func TestKey(t *testing.T) {
	assert.Equal(t, "SELECT 1", Key("SELECT 1", nil))
	assert.NotEqual(t,
		Key("SELECT 1", []interface{}{1}),
		Key("SELECT 1", []interface{}{2}))
}
