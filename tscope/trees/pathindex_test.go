package trees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathIndex_Lookup(t *testing.T) {
	t.Run("lookup finds inserted nodes by exact path", func(t *testing.T) {
		idx := NewPathIndex()
		node := NewNode("/home/user/docs", Directory, nil)
		require.NoError(t, idx.Insert(node))

		got, ok := idx.Lookup("/home/user/docs")
		require.True(t, ok)
		assert.Equal(t, node, got)

		_, ok = idx.Lookup("/home/user/other")
		assert.False(t, ok)
	})

	t.Run("lookup normalizes trailing slashes and dot segments", func(t *testing.T) {
		idx := NewPathIndex()
		node := NewNode("/home/user/docs", Directory, nil)
		require.NoError(t, idx.Insert(node))

		for _, variant := range []string{
			"/home/user/docs/",
			"/home/user/./docs",
			"/home/user/../user/docs",
		} {
			got, ok := idx.Lookup(variant)
			require.True(t, ok, "variant %q should resolve", variant)
			assert.Equal(t, node, got)
		}
	})

	t.Run("inserting nil is an error", func(t *testing.T) {
		idx := NewPathIndex()
		assert.Error(t, idx.Insert(nil))
	})

	t.Run("re-inserting a path updates rather than duplicates", func(t *testing.T) {
		idx := NewPathIndex()
		first := NewNode("/data", Directory, nil)
		second := NewNode("/data", Directory, nil)

		require.NoError(t, idx.Insert(first))
		require.NoError(t, idx.Insert(second))

		assert.Equal(t, 1, idx.Len())
		got, ok := idx.Lookup("/data")
		require.True(t, ok)
		assert.Equal(t, second, got)
	})
}

func TestPathIndex_PrefixLookup(t *testing.T) {
	t.Run("prefix lookup returns every node under the prefix", func(t *testing.T) {
		idx := NewPathIndex()
		docs := NewNode("/home/user/docs", Directory, nil)
		pics := NewNode("/home/user/pics", Directory, nil)
		other := NewNode("/var/log", Directory, nil)

		require.NoError(t, idx.Insert(docs))
		require.NoError(t, idx.Insert(pics))
		require.NoError(t, idx.Insert(other))

		results := idx.PrefixLookup("/home/user")
		assert.Len(t, results, 2)
		assert.Contains(t, results, docs)
		assert.Contains(t, results, pics)
	})
}

func TestPathIndex_Stats(t *testing.T) {
	t.Run("stats track insertions and lookups", func(t *testing.T) {
		idx := NewPathIndex()
		require.NoError(t, idx.Insert(NewNode("/a", Directory, nil)))
		require.NoError(t, idx.Insert(NewNode("/b", Directory, nil)))

		idx.Lookup("/a")
		idx.Lookup("/missing")
		idx.PrefixLookup("/")

		stats := idx.Stats()
		assert.Equal(t, int64(2), stats.TotalNodes)
		assert.Equal(t, int64(2), stats.Insertions)
		assert.Equal(t, int64(2), stats.PathLookups)
		assert.Equal(t, int64(1), stats.PrefixLookups)
	})
}
