// Package vocabulary resolves raw tag names to semantic categories using a
// bundled reference table with heuristic fallback. The table is process-global
// state: loaded once, read-only afterward, safe for concurrent lookups.
package vocabulary

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

//go:embed tags.csv
var referenceTable []byte

// System defines the public contract for tag category resolution.
type System interface {
	// Load populates the reference table. Safe to call concurrently and
	// repeatedly: loads are single-flight and a completed load is a no-op.
	// A failed load is logged and leaves the table empty; classification
	// falls back to heuristics.
	Load()

	// Ready reports whether the reference table has been loaded.
	Ready() bool

	// Classify resolves a raw tag name to a category. Never fails: unknown
	// names resolve through heuristics, defaulting to general.
	Classify(name string) Category

	// InCategory reports whether name is present in the reference table
	// with the given category. Heuristics do not apply; this is a strict
	// membership check.
	InCategory(name string, category Category) bool
}

type system struct {
	logger *slog.Logger
	path   string

	flight singleflight.Group
	loaded atomic.Bool

	mu    sync.RWMutex
	table map[string]Category
}

// New creates a vocabulary System. When path is non-empty it overrides the
// bundled reference table with an external CSV file.
func New(path string, logger *slog.Logger) System {
	return &system{
		logger: logger.With("system", "vocabulary"),
		path:   path,
	}
}

func (s *system) Load() {
	if s.loaded.Load() {
		return
	}

	s.flight.Do("reference-table", func() (any, error) {
		table, err := s.read()
		if err != nil {
			s.logger.Warn(
				"reference table unavailable; heuristics only",
				"error", err,
			)
			return nil, nil
		}

		s.mu.Lock()
		s.table = table
		s.mu.Unlock()
		s.loaded.Store(true)

		s.logger.Info("reference table loaded", "entries", len(table))
		return nil, nil
	})
}

func (s *system) Ready() bool {
	return s.loaded.Load()
}

func (s *system) Classify(name string) Category {
	name = strings.ToLower(strings.TrimSpace(name))

	s.mu.RLock()
	category, ok := s.table[name]
	s.mu.RUnlock()
	if ok {
		return category
	}

	return classifyHeuristic(name)
}

func (s *system) InCategory(name string, category Category) bool {
	name = strings.ToLower(strings.TrimSpace(name))

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.table[name]
	return ok && c == category
}

func (s *system) read() (map[string]Category, error) {
	data := referenceTable
	if s.path != "" {
		external, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read reference table: %w", err)
		}
		data = external
	}
	return parseTable(data)
}

// parseTable decodes name,categoryID rows. Rows with a non-numeric category
// column are skipped rather than failing the whole table.
func parseTable(data []byte) (map[string]Category, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	table := make(map[string]Category)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTableMalformed, err)
		}
		if len(record) < 2 {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}

		name := strings.ToLower(strings.TrimSpace(record[0]))
		if name == "" {
			continue
		}

		table[name] = categoryFromID(id)
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("%w: no usable rows", ErrTableMalformed)
	}

	return table, nil
}
