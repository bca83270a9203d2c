package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	internal "github.com/treescope/treescope/tscope"
	"github.com/treescope/treescope/tscope/config"
	"github.com/treescope/treescope/tscope/scan"
	"github.com/treescope/treescope/tscope/ui"
)

func main() {
	logger := internal.GetLogger()

	cfg, err := config.LoadConfig("")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	// The first positional argument overrides the configured target
	targetDir := cfg.TargetDir
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}
	targetDir, err = filepath.Abs(targetDir)
	if err != nil {
		logger.Fatal().Err(err).Str("target", targetDir).Msg("failed to resolve target directory")
	}

	// The terminal belongs to the UI once the program starts, so package
	// logs go to a file in the cache directory
	slogger := slog.Default()
	if err := os.MkdirAll(internal.DefaultCacheDir, 0o755); err == nil {
		if logFile, err := os.OpenFile(internal.DefaultLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			defer logFile.Close()
			slogger = slog.New(slog.NewJSONHandler(logFile, nil))
			slog.SetDefault(slogger)
		}
	}

	scanner := scan.NewScanner(scan.Options{
		MaxDepth:       cfg.Scan.MaxDepth,
		FollowSymlinks: cfg.Scan.FollowSymlinks,
		Workers:        cfg.Scan.Workers,
		IgnoreFile:     cfg.Scan.IgnoreFile,
		Logger:         slogger,
	})

	tree, stats, err := scanner.Scan(context.Background(), targetDir)
	if err != nil {
		logger.Fatal().Err(err).Str("target", targetDir).Msg("scan failed")
	}
	logger.Info().
		Str("scan_id", stats.ScanID.String()).
		Int64("dirs", stats.DirsProcessed).
		Int64("files", stats.FilesProcessed).
		Int64("errors", stats.ErrorsFound).
		Dur("duration", stats.Duration).
		Msg("scan complete")

	program := tea.NewProgram(
		ui.NewModel(tree, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		logger.Fatal().Err(err).Msg("terminal UI failed")
	}
}
