// Package layout computes treemap rectangles for the displayed tree.
//
// Siblings partition their parent's rectangle along alternating axes in
// proportion to each sibling's effective weight. The axis is chosen per
// rectangle: taller-than-wide rectangles are sliced vertically, the rest
// horizontally.
package layout

import (
	"github.com/treescope/treescope/tscope/trees"
)

// Rect is a rectangle in cell coordinates
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle, including
// its far edges. Hit testing iterates blocks in layout order, so a point on
// a shared edge resolves to the block closer to the origin.
func (r Rect) Contains(x, y int) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Block binds a displayed leaf to its screen rectangle
type Block struct {
	NodeID uint32
	Rect   Rect
}

// Compute lays out the displayed tree into viewport. Every displayed leaf
// (file, collapsed directory, or childless directory) gets a block; the
// blocks of one parent tile the parent's rectangle exactly.
func Compute(tree *trees.Tree, viewport Rect) []Block {
	if tree == nil || tree.Root == nil {
		return nil
	}

	var blocks []Block
	layoutNode(tree.Root, viewport, &blocks)
	return blocks
}

func layoutNode(node *trees.Node, rect Rect, blocks *[]Block) {
	if node.IsLeaf() || !node.Expanded {
		*blocks = append(*blocks, Block{NodeID: node.ID, Rect: rect})
		return
	}

	var total float64
	for _, child := range node.Children {
		total += child.EffectiveWeight()
	}

	// Slice vertically when the rectangle is at least as tall as it is
	// wide, horizontally otherwise
	vertical := rect.H >= rect.W

	offset := 0
	for i, child := range node.Children {
		var span int
		last := i == len(node.Children)-1

		if vertical {
			if last {
				// Last child absorbs the rounding remainder
				span = rect.H - offset
			} else {
				span = share(child.EffectiveWeight(), total, rect.H, len(node.Children))
			}
			layoutNode(child, Rect{X: rect.X, Y: rect.Y + offset, W: rect.W, H: span}, blocks)
		} else {
			if last {
				span = rect.W - offset
			} else {
				span = share(child.EffectiveWeight(), total, rect.W, len(node.Children))
			}
			layoutNode(child, Rect{X: rect.X + offset, Y: rect.Y, W: rect.W, H: span}, blocks)
		}
		offset += span
	}
}

// share converts a weight into whole cells of extent. A zero total cannot
// divide, so siblings split the extent evenly instead.
func share(weight, total float64, extent, siblings int) int {
	if total <= 0 {
		return extent / siblings
	}
	return int(weight / total * float64(extent))
}

// HitTest returns the first block containing the point, in layout order.
func HitTest(blocks []Block, x, y int) (Block, bool) {
	for _, block := range blocks {
		if block.Rect.Contains(x, y) {
			return block, true
		}
	}
	return Block{}, false
}
