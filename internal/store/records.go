// Package store provides append-only persistence for QA records and
// per-identifier failure diagnostics.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/shize-zhang/chemqa/internal/qa"
)

// RecordStore appends validated QA records to a log file as
// pretty-printed JSON, one object per record. Appends are serialized so
// two records' bytes never interleave, and existing entries are never
// rewritten.
type RecordStore struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenRecordStore opens (or creates) an append-only record store.
func OpenRecordStore(path string) (*RecordStore, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return &RecordStore{f: f, path: path}, nil
}

// Path returns the backing file path.
func (s *RecordStore) Path() string {
	return s.path
}

// Append writes one record. The record is serialized in full before any
// bytes reach the file, so a record is never split across an append
// boundary.
func (s *RecordStore) Append(rec *qa.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.Write(data); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// Close closes the backing file.
func (s *RecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// ReadRecords streams all records from a store written by RecordStore.
// Records are concatenated pretty-printed JSON objects, so a plain
// line-oriented reader cannot split them; json.Decoder handles the
// object boundaries.
func ReadRecords(r io.Reader) ([]json.RawMessage, error) {
	dec := json.NewDecoder(r)
	var records []json.RawMessage
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == io.EOF {
			return records, nil
		} else if err != nil {
			return records, fmt.Errorf("failed to decode record %d: %w", len(records)+1, err)
		}
		records = append(records, raw)
	}
}

// ReadRecordsFile reads all records from a store file.
func ReadRecordsFile(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	defer f.Close()
	return ReadRecords(f)
}
