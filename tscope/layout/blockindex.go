package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// blockPoint places a block's center into the KD-Tree plane
type blockPoint struct {
	block Block
	pt    kdtree.Point
}

func newBlockPoint(block Block) blockPoint {
	return blockPoint{
		block: block,
		pt: kdtree.Point{
			float64(block.Rect.X) + float64(block.Rect.W)/2,
			float64(block.Rect.Y) + float64(block.Rect.H)/2,
		},
	}
}

// Compare performs axis comparisons for KD-Tree.
func (p blockPoint) Compare(comparable kdtree.Comparable, dim kdtree.Dim) float64 {
	other := comparable.(blockPoint)
	return p.pt[dim] - other.pt[dim]
}

// Dims returns the number of dimensions in the point.
func (p blockPoint) Dims() int {
	return len(p.pt)
}

// Distance calculates the squared Euclidean distance between two blockPoints.
func (p blockPoint) Distance(c kdtree.Comparable) float64 {
	other, ok := c.(blockPoint)
	if !ok {
		return math.Inf(1)
	}

	dist := 0.0
	for i := range p.pt {
		delta := p.pt[i] - other.pt[i]
		dist += delta * delta
	}
	return dist
}

type blockPoints []blockPoint

func (p blockPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p blockPoints) Len() int                      { return len(p) }
func (p blockPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p blockPoints) Pivot(d kdtree.Dim) int {
	return blockPlane{blockPoints: p, Dim: d}.Pivot()
}

type blockPlane struct {
	blockPoints
	kdtree.Dim
}

func (p blockPlane) Less(i, j int) bool {
	return p.blockPoints[i].pt[p.Dim] < p.blockPoints[j].pt[p.Dim]
}
func (p blockPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p blockPlane) Slice(start, end int) kdtree.SortSlicer {
	p.blockPoints = p.blockPoints[start:end]
	return p
}
func (p blockPlane) Swap(i, j int) {
	p.blockPoints[i], p.blockPoints[j] = p.blockPoints[j], p.blockPoints[i]
}

// BlockIndex answers directional neighbor queries over block centers so the
// selection can be moved between adjacent blocks with the keyboard.
type BlockIndex struct {
	tree   *kdtree.Tree
	blocks []Block
}

// NewBlockIndex builds the KD-Tree over the block centers
func NewBlockIndex(blocks []Block) *BlockIndex {
	pts := make(blockPoints, 0, len(blocks))
	for _, block := range blocks {
		pts = append(pts, newBlockPoint(block))
	}

	ix := &BlockIndex{blocks: blocks}
	if len(pts) > 0 {
		ix.tree = kdtree.New(pts, false)
	}
	return ix
}

// Neighbor returns the block nearest to from in the direction (dx, dy),
// where exactly one of dx, dy is -1 or 1. The KD-Tree answers a probe just
// beyond the block's edge; if that misses the direction, a linear scan over
// the blocks decides.
func (ix *BlockIndex) Neighbor(from Block, dx, dy int) (Block, bool) {
	if ix.tree == nil || len(ix.blocks) < 2 {
		return Block{}, false
	}

	origin := newBlockPoint(from)
	probe := blockPoint{pt: kdtree.Point{
		origin.pt[0] + float64(dx)*(float64(from.Rect.W)/2+1),
		origin.pt[1] + float64(dy)*(float64(from.Rect.H)/2+1),
	}}

	if got, _ := ix.tree.Nearest(probe); got != nil {
		candidate := got.(blockPoint)
		if candidate.block.NodeID != from.NodeID && inDirection(origin, candidate, dx, dy) {
			return candidate.block, true
		}
	}

	// Fallback to a traditional scan over the block centers
	var best Block
	bestDist := math.Inf(1)
	found := false
	for _, block := range ix.blocks {
		if block.NodeID == from.NodeID {
			continue
		}
		candidate := newBlockPoint(block)
		if !inDirection(origin, candidate, dx, dy) {
			continue
		}
		dist := math.Abs(candidate.pt[0]-origin.pt[0]) + math.Abs(candidate.pt[1]-origin.pt[1])
		if dist < bestDist {
			bestDist = dist
			best = block
			found = true
		}
	}
	return best, found
}

func inDirection(from, to blockPoint, dx, dy int) bool {
	if dx > 0 && to.pt[0] <= from.pt[0] {
		return false
	}
	if dx < 0 && to.pt[0] >= from.pt[0] {
		return false
	}
	if dy > 0 && to.pt[1] <= from.pt[1] {
		return false
	}
	if dy < 0 && to.pt[1] >= from.pt[1] {
		return false
	}
	return true
}
