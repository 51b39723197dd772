package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

const errEntrySeparator = "=================================================="

// ErrorLog appends per-identifier failure diagnostics to a separate
// append-only log. Each entry retains the identifier, the failure reason,
// and the raw offending response when one exists.
type ErrorLog struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenErrorLog opens (or creates) an append-only error log.
func OpenErrorLog(path string) (*ErrorLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}
	return &ErrorLog{f: f, path: path}, nil
}

// Path returns the backing file path.
func (l *ErrorLog) Path() string {
	return l.path
}

// Append writes one failure entry. rawResponse may be empty when the
// failure happened before any response existed.
func (l *ErrorLog) Append(id, reason, rawResponse string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %s\n", id)
	fmt.Fprintf(&sb, "Time: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "Error: %s\n", reason)
	if rawResponse != "" {
		fmt.Fprintf(&sb, "Response: %s\n", rawResponse)
	}
	sb.WriteString(errEntrySeparator + "\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to append error entry: %w", err)
	}
	return nil
}

// Close closes the backing file.
func (l *ErrorLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// ReadFailedIDs returns the identifiers recorded in an error log, in
// first-failure order, deduplicated. Used to resume a batch over
// previously failed identifiers.
func ReadFailedIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}
	defer f.Close()

	var ids []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		id, ok := strings.CutPrefix(line, "ID: ")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading error log: %w", err)
	}
	return ids, nil
}
