package scan

import (
	"log/slog"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreMatcher decides whether a path is excluded from the scan
type ignoreMatcher interface {
	Matches(path string) bool
}

type gitignoreMatcher struct {
	rules *ignore.GitIgnore
	root  string
}

func (m *gitignoreMatcher) Matches(path string) bool {
	rel, err := filepath.Rel(m.root, path)
	if err != nil {
		rel = path
	}
	return m.rules.MatchesPath(rel)
}

type nopMatcher struct{}

func (nopMatcher) Matches(string) bool { return false }

// loadIgnoreRules compiles the ignore file found in the scan root, if any.
// A missing file is not an error; a malformed one is logged and skipped.
func (s *Scanner) loadIgnoreRules(rootPath string, logger *slog.Logger) ignoreMatcher {
	if s.opts.IgnoreFile == "" {
		return nopMatcher{}
	}

	ignorePath := filepath.Join(rootPath, s.opts.IgnoreFile)
	if _, err := os.Stat(ignorePath); err != nil {
		return nopMatcher{}
	}

	rules, err := ignore.CompileIgnoreFile(ignorePath)
	if err != nil {
		logger.Warn("failed to compile ignore file",
			"path", ignorePath,
			"error", err)
		return nopMatcher{}
	}

	logger.Debug("loaded ignore rules", "path", ignorePath)
	return &gitignoreMatcher{rules: rules, root: rootPath}
}
