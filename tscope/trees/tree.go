package trees

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Tree owns the scanned node hierarchy. Nodes are registered into an arena
// and addressed by stable IDs; ID 0 is reserved as "no node".
type Tree struct {
	Root *Node

	arena     []*Node
	pathIndex *PathIndex
	logger    *slog.Logger
	mu        sync.Mutex
}

// TreeOption allows for customization of Tree
type TreeOption func(*Tree)

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) TreeOption {
	return func(t *Tree) {
		t.logger = logger
	}
}

// WithRoot sets the root node for the Tree
func WithRoot(path string) TreeOption {
	return func(t *Tree) {
		t.Root = NewNode(path, Directory, nil)
	}
}

func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		pathIndex: NewPathIndex(),
		logger:    slog.Default(),
		Root:      NewNode("/", Directory, nil),
	}

	for _, opt := range opts {
		opt(t)
	}

	t.Register(t.Root)

	return t
}

// Register assigns the node its arena ID and adds it to the path index.
// Safe for concurrent use during the scan.
func (t *Tree) Register(node *Node) error {
	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}

	t.mu.Lock()
	t.arena = append(t.arena, node)
	node.ID = uint32(len(t.arena))
	t.mu.Unlock()

	if err := t.pathIndex.Insert(node); err != nil {
		return fmt.Errorf("failed to index node %s: %w", node.Path, err)
	}
	return nil
}

// NodeByID resolves an arena ID back to its node
func (t *Tree) NodeByID(id uint32) (*Node, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id == 0 || int(id) > len(t.arena) {
		return nil, false
	}
	return t.arena[id-1], true
}

// Len returns the number of registered nodes
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.arena)
}

// FindByPath performs O(k) path lookup using the patricia index
func (t *Tree) FindByPath(path string) (*Node, bool) {
	if t.pathIndex != nil {
		return t.pathIndex.Lookup(path)
	}

	// Fallback to traditional search
	node := t.findNodeByPath(t.Root, path)
	return node, node != nil
}

// FindByPathPrefix finds all nodes with paths starting with the given prefix
func (t *Tree) FindByPathPrefix(prefix string) []*Node {
	if t.pathIndex != nil {
		return t.pathIndex.PrefixLookup(prefix)
	}

	var results []*Node
	t.walkAndCollect(t.Root, func(node *Node) bool {
		return len(node.Path) >= len(prefix) && node.Path[:len(prefix)] == prefix
	}, &results)
	return results
}

// Walk visits every node depth-first, checking the context between nodes.
func (t *Tree) Walk(ctx context.Context, fn func(node *Node, depth int) error) error {
	return t.walkNode(ctx, t.Root, 0, fn)
}

func (t *Tree) walkNode(ctx context.Context, node *Node, depth int, fn func(*Node, int) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := fn(node, depth); err != nil {
		return err
	}

	for _, child := range node.Children {
		if err := t.walkNode(ctx, child, depth+1, fn); err != nil {
			return err
		}
	}

	return nil
}

// AggregateSizes computes directory sizes bottom-up so that every directory's
// size equals the sum of its children's sizes. Called once after the scan;
// sizes are treated as immutable afterwards.
func (t *Tree) AggregateSizes() int64 {
	start := time.Now()
	total := aggregateNode(t.Root)
	t.logger.Debug("aggregated directory sizes",
		"root", t.Root.Path,
		"total_bytes", total,
		"duration", time.Since(start))
	return total
}

func aggregateNode(node *Node) int64 {
	if node.IsLeaf() {
		return node.Metadata.Size
	}

	var sum int64
	for _, child := range node.Children {
		sum += aggregateNode(child)
	}
	node.Metadata.Size = sum
	return sum
}

// Metrics returns a snapshot of tree statistics
func (t *Tree) Metrics(ctx context.Context) (*TreeMetrics, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	metrics := &TreeMetrics{
		LastUpdated: time.Now(),
	}
	computeTreeMetrics(t.Root, 0, metrics)
	return metrics, nil
}

// Helper methods

// findNodeByPath performs traditional recursive path search (fallback)
func (t *Tree) findNodeByPath(node *Node, targetPath string) *Node {
	if node == nil {
		return nil
	}

	if node.Path == targetPath {
		return node
	}

	for _, child := range node.Children {
		if result := t.findNodeByPath(child, targetPath); result != nil {
			return result
		}
	}

	return nil
}

// walkAndCollect performs traditional recursive walk with predicate (fallback)
func (t *Tree) walkAndCollect(node *Node, predicate func(*Node) bool, results *[]*Node) {
	if node == nil {
		return
	}

	if predicate(node) {
		*results = append(*results, node)
	}

	for _, child := range node.Children {
		t.walkAndCollect(child, predicate, results)
	}
}
