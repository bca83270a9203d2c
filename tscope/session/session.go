// Package session holds the view state of one interactive run: the selected
// node plus the expand/weight flags it mutates on the tree. It is UI-free so
// the interaction rules can be tested without a terminal.
package session

import (
	"log/slog"

	"github.com/treescope/treescope/tscope/layout"
	"github.com/treescope/treescope/tscope/trees"
)

// Session is the state machine over the selected node and the per-node
// display flags. Commands that cannot apply (no selection, wrong node kind)
// are no-ops and report no change. No command ever mutates recorded sizes.
type Session struct {
	tree       *trees.Tree
	selectedID uint32 // 0 means no selection

	weightStep float64
	minWeight  float64
	logger     *slog.Logger
}

// Option allows for customization of Session
type Option func(*Session)

// WithWeightStep sets the multiplier applied by weight commands
func WithWeightStep(step float64) Option {
	return func(s *Session) {
		if step > 1 {
			s.weightStep = step
		}
	}
}

// WithMinWeight sets the floor a node's weight can be lowered to
func WithMinWeight(minWeight float64) Option {
	return func(s *Session) {
		if minWeight > 0 {
			s.minWeight = minWeight
		}
	}
}

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New starts a session over tree. The root begins expanded so the first
// frame shows the top-level blocks.
func New(tree *trees.Tree, opts ...Option) *Session {
	s := &Session{
		tree:       tree,
		weightStep: 1.25,
		minWeight:  0.05,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if tree != nil && tree.Root != nil && !tree.Root.IsLeaf() {
		tree.Root.Expanded = true
	}
	return s
}

// Tree returns the tree the session operates on
func (s *Session) Tree() *trees.Tree {
	return s.tree
}

// Selected returns the selected node, if any
func (s *Session) Selected() (*trees.Node, bool) {
	if s.selectedID == 0 {
		return nil, false
	}
	return s.tree.NodeByID(s.selectedID)
}

// Select sets the selection to the node with the given ID. Unknown IDs
// clear nothing and report no change.
func (s *Session) Select(id uint32) bool {
	if id == s.selectedID {
		return false
	}
	node, ok := s.tree.NodeByID(id)
	if !ok {
		return false
	}
	s.selectedID = id
	s.logger.Debug("selection changed", "path", node.Path)
	return true
}

// ClickAt selects the node whose block contains the point. A click outside
// every block is a no-op.
func (s *Session) ClickAt(blocks []layout.Block, x, y int) bool {
	block, ok := layout.HitTest(blocks, x, y)
	if !ok {
		return false
	}
	return s.Select(block.NodeID)
}

// IncreaseWeight raises the selected node's display weight relative to its
// siblings. The recorded byte size is untouched.
func (s *Session) IncreaseWeight() bool {
	node, ok := s.Selected()
	if !ok {
		return false
	}
	node.Weight *= s.weightStep
	return true
}

// DecreaseWeight lowers the selected node's display weight, floored at the
// session minimum so the node never vanishes from the layout.
func (s *Session) DecreaseWeight() bool {
	node, ok := s.Selected()
	if !ok {
		return false
	}
	next := node.Weight / s.weightStep
	if next < s.minWeight {
		next = s.minWeight
	}
	if next == node.Weight {
		return false
	}
	node.Weight = next
	return true
}

// Expand reveals one level of the selected directory's children. Files,
// childless directories, already-expanded directories and selections
// hidden under a collapsed ancestor are no-ops.
func (s *Session) Expand() bool {
	node, ok := s.Selected()
	if !ok || !node.IsDir() || node.IsLeaf() || node.Expanded {
		return false
	}
	if !s.tree.IsVisible(node) {
		// Expanding a hidden node would leave an expanded node under a
		// collapsed one
		return false
	}
	node.Expanded = true
	return true
}

// ExpandPath expands every directory from the root to the selection, and
// the selection itself when it is a directory, making the full ancestor
// chain visible.
func (s *Session) ExpandPath() bool {
	node, ok := s.Selected()
	if !ok {
		return false
	}

	changed := false
	for _, ancestor := range node.Ancestors() {
		if !ancestor.IsLeaf() && !ancestor.Expanded {
			ancestor.Expanded = true
			changed = true
		}
	}
	if node.IsDir() && !node.IsLeaf() && !node.Expanded {
		node.Expanded = true
		changed = true
	}
	return changed
}

// Collapse hides the selected directory's children. The whole subtree is
// collapsed with it so that an expanded node never sits under a collapsed
// one. Weights are preserved across collapse/expand cycles: collapsing only
// hides children, it does not reset the user's proportions.
func (s *Session) Collapse() bool {
	node, ok := s.Selected()
	if !ok || !node.Expanded {
		return false
	}
	collapseSubtree(node)
	return true
}

// CollapseAll collapses every directory except the root, resetting the view
// to the top-level blocks.
func (s *Session) CollapseAll() bool {
	if s.tree == nil || s.tree.Root == nil {
		return false
	}

	changed := false
	for _, child := range s.tree.Root.Children {
		if child.Expanded {
			collapseSubtree(child)
			changed = true
		}
	}
	if !s.tree.Root.Expanded && !s.tree.Root.IsLeaf() {
		s.tree.Root.Expanded = true
		changed = true
	}
	return changed
}

func collapseSubtree(node *trees.Node) {
	node.Expanded = false
	for _, child := range node.Children {
		if child.Expanded {
			collapseSubtree(child)
		}
	}
}
