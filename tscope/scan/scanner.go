package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/treescope/treescope/tscope/trees"
)

// Options controls a scan run
type Options struct {
	// MaxDepth limits recursion; -1 means unlimited
	MaxDepth int
	// FollowSymlinks resolves symlinked directories instead of recording
	// them as zero-size leaves
	FollowSymlinks bool
	// Workers bounds the traversal pool; 0 picks a CPU-based default
	Workers int
	// IgnoreFile names the ignore rule file looked up in the scan root
	IgnoreFile string
	// Logger overrides slog.Default
	Logger *slog.Logger
}

// Stats tracks performance metrics during a scan
type Stats struct {
	ScanID         uuid.UUID
	DirsProcessed  int64
	FilesProcessed int64
	ErrorsFound    int64
	Duration       time.Duration
}

// Scanner performs concurrent directory traversal using the conc package
// for worker pool and job management. The scan is a single synchronous pass:
// Scan returns only once the full tree is built and aggregated.
type Scanner struct {
	opts       Options
	maxWorkers int
	logger     *slog.Logger
}

// NewScanner creates a scanner with optimal worker count based on available
// CPU cores unless overridden.
func NewScanner(opts Options) *Scanner {
	maxWorkers := opts.Workers
	if maxWorkers <= 0 {
		// CPU cores * 2 for I/O bound work, bounded to stay responsive
		maxWorkers = min(max(runtime.NumCPU()*2, 4), 32)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scanner{
		opts:       opts,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// Scan walks rootPath and returns the resulting tree. Unreadable entries are
// marked inaccessible and skipped; only an unusable root fails the scan.
func (s *Scanner) Scan(ctx context.Context, rootPath string) (*trees.Tree, *Stats, error) {
	stats := &Stats{ScanID: uuid.New()}
	start := time.Now()

	logger := s.logger.With("scan_id", stats.ScanID.String())
	logger.Info("starting scan", "root", rootPath)

	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to stat scan root %s: %w", rootPath, err)
	}

	tree := trees.NewTree(trees.WithRoot(rootPath), trees.WithLogger(logger))
	tree.Root.Metadata = trees.NewMetadata(info)

	if !info.IsDir() {
		// A file root is a single-node tree
		tree.Root.Kind = trees.File
		stats.FilesProcessed = 1
		stats.Duration = time.Since(start)
		return tree, stats, nil
	}

	matcher := s.loadIgnoreRules(rootPath, logger)

	// Process directories level by level using a BFS approach with conc.Pool
	currentLevel := []*trees.Node{tree.Root}

	for depth := 0; (s.opts.MaxDepth == -1 || depth <= s.opts.MaxDepth) && len(currentLevel) > 0; depth++ {
		nextLevel := make([]*trees.Node, 0)
		var nextLevelMu sync.Mutex

		// A fresh pool per level so a closed pool is never reused
		levelPool := pool.New().WithMaxGoroutines(s.maxWorkers).WithContext(ctx)

		for _, dirNode := range currentLevel {
			levelPool.Go(func(ctx context.Context) error {
				children := s.processDirectory(ctx, tree, dirNode, matcher, stats, logger)

				atomic.AddInt64(&stats.DirsProcessed, 1)

				if s.opts.MaxDepth == -1 || depth < s.opts.MaxDepth {
					nextLevelMu.Lock()
					nextLevel = append(nextLevel, children...)
					nextLevelMu.Unlock()
				}

				return nil
			})
		}

		if err := levelPool.Wait(); err != nil {
			return nil, stats, fmt.Errorf("scan aborted at depth %d: %w", depth, err)
		}

		currentLevel = nextLevel
	}

	tree.AggregateSizes()

	stats.Duration = time.Since(start)
	logger.Info("scan complete",
		"dirs", stats.DirsProcessed,
		"files", stats.FilesProcessed,
		"errors", stats.ErrorsFound,
		"duration", stats.Duration)

	return tree, stats, nil
}

// processDirectory reads one directory and attaches its entries to dirNode.
// Only this worker touches dirNode.Children, so no locking is needed there.
func (s *Scanner) processDirectory(ctx context.Context, tree *trees.Tree, dirNode *trees.Node, matcher ignoreMatcher, stats *Stats, logger *slog.Logger) []*trees.Node {
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	entries, err := os.ReadDir(dirNode.Path)
	if err != nil {
		dirNode.Inaccessible = true
		atomic.AddInt64(&stats.ErrorsFound, 1)
		logger.Warn("failed to read directory, marking inaccessible",
			"path", dirNode.Path,
			"error", err)
		return nil
	}

	var childDirs []*trees.Node

	for _, entry := range entries {
		childPath := filepath.Join(dirNode.Path, entry.Name())

		if matcher.Matches(childPath) {
			logger.Debug("ignoring entry", "path", childPath)
			continue
		}

		if entry.Type()&fs.ModeSymlink != 0 && !s.opts.FollowSymlinks {
			// Symlinks are recorded as zero-size leaves so that cycles
			// cannot occur in the scanned tree
			link := trees.NewNode(childPath, trees.File, dirNode)
			if err := tree.Register(link); err != nil {
				logger.Warn("failed to register symlink node", "path", childPath, "error", err)
			}
			atomic.AddInt64(&stats.FilesProcessed, 1)
			continue
		}

		if entry.IsDir() {
			childDir := trees.NewNode(childPath, trees.Directory, dirNode)
			if info, infoErr := entry.Info(); infoErr == nil {
				childDir.Metadata = trees.NewMetadata(info)
			}
			if err := tree.Register(childDir); err != nil {
				logger.Warn("failed to register directory node", "path", childPath, "error", err)
			}
			childDirs = append(childDirs, childDir)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			child := trees.NewNode(childPath, trees.File, dirNode)
			child.Inaccessible = true
			if regErr := tree.Register(child); regErr != nil {
				logger.Warn("failed to register file node", "path", childPath, "error", regErr)
			}
			atomic.AddInt64(&stats.ErrorsFound, 1)
			logger.Warn("failed to stat entry, marking inaccessible",
				"path", childPath,
				"error", err)
			continue
		}

		child := trees.NewNode(childPath, trees.File, dirNode)
		child.Metadata = trees.NewMetadata(info)
		if err := tree.Register(child); err != nil {
			logger.Warn("failed to register file node", "path", childPath, "error", err)
		}
		atomic.AddInt64(&stats.FilesProcessed, 1)
	}

	return childDirs
}
