package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridBlocks lays out a 2x2 grid of 10x10 blocks:
//
//	1 2
//	3 4
func gridBlocks() []Block {
	return []Block{
		{NodeID: 1, Rect: Rect{X: 0, Y: 0, W: 10, H: 10}},
		{NodeID: 2, Rect: Rect{X: 10, Y: 0, W: 10, H: 10}},
		{NodeID: 3, Rect: Rect{X: 0, Y: 10, W: 10, H: 10}},
		{NodeID: 4, Rect: Rect{X: 10, Y: 10, W: 10, H: 10}},
	}
}

func TestBlockIndex_Neighbor(t *testing.T) {
	t.Run("neighbor queries follow the grid in all four directions", func(t *testing.T) {
		blocks := gridBlocks()
		ix := NewBlockIndex(blocks)

		right, ok := ix.Neighbor(blocks[0], 1, 0)
		require.True(t, ok)
		assert.Equal(t, uint32(2), right.NodeID)

		down, ok := ix.Neighbor(blocks[0], 0, 1)
		require.True(t, ok)
		assert.Equal(t, uint32(3), down.NodeID)

		left, ok := ix.Neighbor(blocks[3], -1, 0)
		require.True(t, ok)
		assert.Equal(t, uint32(3), left.NodeID)

		up, ok := ix.Neighbor(blocks[3], 0, -1)
		require.True(t, ok)
		assert.Equal(t, uint32(2), up.NodeID)
	})

	t.Run("no neighbor exists beyond the edge of the map", func(t *testing.T) {
		blocks := gridBlocks()
		ix := NewBlockIndex(blocks)

		_, ok := ix.Neighbor(blocks[0], -1, 0)
		assert.False(t, ok)
		_, ok = ix.Neighbor(blocks[0], 0, -1)
		assert.False(t, ok)
	})

	t.Run("a single block has no neighbors", func(t *testing.T) {
		blocks := []Block{{NodeID: 1, Rect: Rect{W: 10, H: 10}}}
		ix := NewBlockIndex(blocks)

		_, ok := ix.Neighbor(blocks[0], 1, 0)
		assert.False(t, ok)
	})

	t.Run("an empty index answers nothing", func(t *testing.T) {
		ix := NewBlockIndex(nil)
		_, ok := ix.Neighbor(Block{}, 1, 0)
		assert.False(t, ok)
	})
}
