package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/midbel/lox/history"
	"github.com/peterh/liner"
)

func runPrompt(cfg Config, logger *slog.Logger) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	store := openHistory(cfg, logger, ln)
	if store != nil {
		defer store.Close()
	}

	sess := newSession(cfg, logger)
	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Println()
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if store != nil {
			if err := store.Append(line); err != nil {
				logger.Warn("history not saved", "err", err)
			}
		}
		sess.Run(line)
		sess.Reset()
	}
	return 0
}

// openHistory opens the history database and loads its lines in the line
// editor. The REPL works without history when it can not be opened.
func openHistory(cfg Config, logger *slog.Logger, ln *liner.State) *history.Store {
	if cfg.History == "" {
		return nil
	}
	store, err := history.Open(cfg.History, cfg.HistorySize)
	if err != nil {
		logger.Warn("history disabled", "file", cfg.History, "err", err)
		return nil
	}
	lines, err := store.Lines()
	if err != nil {
		logger.Warn("history not loaded", "file", cfg.History, "err", err)
	}
	for _, i := range lines {
		ln.AppendHistory(i)
	}
	logger.Debug("history loaded", "file", cfg.History, "lines", len(lines))
	return store
}
