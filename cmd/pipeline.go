package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pable/go-pass-metrics/internal/aggregator"
	"github.com/pable/go-pass-metrics/internal/logger"
	"github.com/pable/go-pass-metrics/internal/metrics"
	"github.com/pable/go-pass-metrics/internal/model"
	"github.com/pable/go-pass-metrics/internal/parser"
	"github.com/pable/go-pass-metrics/internal/storage"
)

// openDB opens the load cache, creating its directory first.
func openDB(path string) (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// loadMatch resolves ref inside dataDir and returns its rows, from the cache
// when the file's hash is already stored. Every failure wraps
// parser.ErrNoData. A cache write failure is logged and does not fail the load.
func loadMatch(db *storage.DB, m *metrics.Manager, dataDir, ref string) (*model.Match, error) {
	path, err := parser.ResolvePath(dataDir, ref)
	if err != nil {
		m.LoadFailed()
		return nil, err
	}

	hash, err := parser.HashFile(path)
	if err != nil {
		m.LoadFailed()
		return nil, fmt.Errorf("%w: %v", parser.ErrNoData, err)
	}

	cached, err := db.GetMatch(hash)
	if err != nil {
		logger.Warn("read cache for %s: %v", hash[:12], err)
	}
	if cached != nil {
		logger.Debug("cache hit %s (%d rows)", hash[:12], cached.Summary.RowCount)
		m.TableLoaded(true, cached.Summary.RowCount, cached.Summary.Delimiter)
		return cached, nil
	}

	match, err := parser.LoadMatch(path)
	if err != nil {
		m.LoadFailed()
		return nil, err
	}
	logger.Info("loaded %s: %d rows, sep %q", match.Summary.FileName, match.Summary.RowCount, match.Summary.Delimiter)
	if err := db.InsertMatch(match); err != nil {
		logger.Warn("cache %s: %v", match.Summary.FileName, err)
	}
	m.TableLoaded(false, match.Summary.RowCount, match.Summary.Delimiter)
	return match, nil
}

// noData prints the user-facing message for a load failure and reports
// whether err was one.
func noData(w io.Writer, err error) bool {
	if !errors.Is(err, parser.ErrNoData) {
		return false
	}
	logger.Debug("%v", err)
	fmt.Fprintln(w, "No data available")
	return true
}

// analyze runs the pass pipeline for one player and records the counters.
func analyze(m *metrics.Manager, match *model.Match, player string, f aggregator.Filter) aggregator.Report {
	rep := aggregator.Aggregate(match, player, f)

	progressive, misses := 0, 0
	for _, p := range rep.Classified {
		if p.IsProgressive {
			progressive++
		}
	}
	for _, p := range rep.Passes {
		if p.Receiver == model.ReceiverUnknown {
			misses++
		}
	}
	m.PassesClassified(rep.Summary.Total, progressive)
	m.ReceiverMisses(misses)
	for _, c := range model.Categories {
		m.PassesDisplayed(c.Key(), len(rep.Categories[c]))
	}
	return rep
}
