// Package mapping loads the image mapping source and groups assets by
// source identifier.
package mapping

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// ErrMissingSource indicates the mapping file could not be located.
var ErrMissingSource = errors.New("mapping source not found")

// ErrUnknownIdentifier indicates an identifier has no entry in a loaded
// mapping. Distinct from ErrMissingSource, which is about the file itself.
var ErrUnknownIdentifier = errors.New("identifier not found in mapping")

// Record is one line of the mapping source.
type Record struct {
	ID        string `json:"id"`
	ImagePath string `json:"image_path"`
}

// Mapping groups asset filenames by source identifier. Filenames are
// sorted lexicographically and deduplicated, so grouping is reproducible
// regardless of line order in the source file.
type Mapping map[string][]string

// Assets returns the ordered asset list for an identifier.
func (m Mapping) Assets(id string) ([]string, bool) {
	assets, ok := m[id]
	return assets, ok
}

// IDs returns all identifiers in lexicographic order.
func (m Mapping) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Load reads a line-delimited JSON mapping file and groups image filenames
// by identifier. Malformed lines are skipped with a warning; the load only
// fails if the file itself cannot be read.
func Load(path string, logger *slog.Logger) (Mapping, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()

	groups := make(map[string][]string)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	skipped := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn("skipping malformed mapping line", "file", path, "line", lineNum, "error", err)
			skipped++
			continue
		}
		if rec.ID == "" || rec.ImagePath == "" {
			logger.Warn("skipping incomplete mapping line", "file", path, "line", lineNum)
			skipped++
			continue
		}

		groups[rec.ID] = append(groups[rec.ID], filepath.Base(rec.ImagePath))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading mapping file: %w", err)
	}

	m := make(Mapping, len(groups))
	for id, files := range groups {
		sort.Strings(files)
		m[id] = dedupe(files)
	}

	if skipped > 0 {
		logger.Warn("mapping loaded with skipped lines", "file", path, "groups", len(m), "skipped", skipped)
	}
	return m, nil
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
