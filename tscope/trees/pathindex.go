package trees

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/armon/go-radix"
)

// PathIndexStats tracks performance metrics for the path index
type PathIndexStats struct {
	TotalNodes    int64
	PathLookups   int64
	PrefixLookups int64
	Insertions    int64
}

// PathIndex provides O(k) path lookups using a compressed trie (patricia
// tree) where k is the length of the path being searched, not the number of
// nodes in the tree.
type PathIndex struct {
	tree    *radix.Tree      // Core patricia tree for path storage
	mu      sync.RWMutex     // Read-write mutex for concurrent access
	stats   PathIndexStats   // Performance tracking, guarded by statsMu
	statsMu sync.Mutex
	nodes   map[string]*Node // Direct path -> node mapping for verification
}

// NewPathIndex creates a new patricia tree-based path index
func NewPathIndex() *PathIndex {
	return &PathIndex{
		tree:  radix.New(),
		nodes: make(map[string]*Node),
	}
}

// Insert adds a node to the path index
func (idx *PathIndex) Insert(node *Node) error {
	if node == nil {
		return fmt.Errorf("invalid input: node cannot be nil")
	}

	path := idx.normalizePath(node.Path)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, updated := idx.tree.Insert(path, node)
	idx.nodes[path] = node

	idx.statsMu.Lock()
	if !updated {
		idx.stats.TotalNodes++
	}
	idx.stats.Insertions++
	idx.statsMu.Unlock()

	return nil
}

// Lookup finds a node by its exact path
func (idx *PathIndex) Lookup(path string) (*Node, bool) {
	normalizedPath := idx.normalizePath(path)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	value, found := idx.tree.Get(normalizedPath)

	idx.statsMu.Lock()
	idx.stats.PathLookups++
	idx.statsMu.Unlock()

	if !found {
		slog.Debug("path lookup miss", "path", normalizedPath)
		return nil, false
	}

	return value.(*Node), true
}

// PrefixLookup returns every indexed node whose path starts with prefix
func (idx *PathIndex) PrefixLookup(prefix string) []*Node {
	normalizedPrefix := idx.normalizePath(prefix)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var results []*Node
	idx.tree.WalkPrefix(normalizedPrefix, func(path string, value interface{}) bool {
		results = append(results, value.(*Node))
		return false
	})

	idx.statsMu.Lock()
	idx.stats.PrefixLookups++
	idx.statsMu.Unlock()

	return results
}

// Len returns the number of indexed paths
func (idx *PathIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tree.Len()
}

// Stats returns a copy of the current index statistics
func (idx *PathIndex) Stats() PathIndexStats {
	idx.statsMu.Lock()
	defer idx.statsMu.Unlock()
	return idx.stats
}

// normalizePath cleans the path and uses forward slashes so that keys are
// consistent across platforms.
func (idx *PathIndex) normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	cleaned := filepath.ToSlash(filepath.Clean(path))
	if cleaned != "/" {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}
	return cleaned
}
