package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/shize-zhang/chemqa/internal/qa"
)

func testRecord(id string) *qa.Record {
	return &qa.Record{
		Domain:    qa.Domain,
		Subdomain: qa.Subdomain,
		ID:        id,
		Input: qa.Side{
			Modal:   map[string]string{"asset1": "https://example.com/a.png"},
			Content: "Question about <asset1>.",
		},
		Output: qa.Side{
			Modal:   map[string]string{"asset2": "https://example.com/b.png"},
			Content: "Answer shown in <asset2>.",
		},
	}
}

func TestRecordStore_AppendAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa_pairs.jsonl")

	s, err := OpenRecordStore(path)
	if err != nil {
		t.Fatalf("OpenRecordStore() error = %v", err)
	}
	if err := s.Append(testRecord("0301")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Append(testRecord("0302")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	records, err := ReadRecordsFile(path)
	if err != nil {
		t.Fatalf("ReadRecordsFile() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("read %d records, want 2", len(records))
	}

	var rec qa.Record
	if err := json.Unmarshal(records[1], &rec); err != nil {
		t.Fatalf("unmarshal read-back record: %v", err)
	}
	if rec.ID != "0302" {
		t.Errorf("records[1].ID = %q, want 0302", rec.ID)
	}
}

func TestRecordStore_AppendDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa_pairs.jsonl")

	for _, id := range []string{"0301", "0302"} {
		s, err := OpenRecordStore(path)
		if err != nil {
			t.Fatalf("OpenRecordStore() error = %v", err)
		}
		if err := s.Append(testRecord(id)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		s.Close()
	}

	records, err := ReadRecordsFile(path)
	if err != nil {
		t.Fatalf("ReadRecordsFile() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("read %d records after reopen, want 2", len(records))
	}
}

func TestRecordStore_ConcurrentAppendsDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa_pairs.jsonl")
	s, err := OpenRecordStore(path)
	if err != nil {
		t.Fatalf("OpenRecordStore() error = %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Append(testRecord(fmt.Sprintf("%04d", i))); err != nil {
				t.Errorf("Append() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
	s.Close()

	// Every record must decode cleanly; interleaved writes would corrupt
	// the object stream.
	records, err := ReadRecordsFile(path)
	if err != nil {
		t.Fatalf("ReadRecordsFile() error = %v", err)
	}
	if len(records) != n {
		t.Errorf("read %d records, want %d", len(records), n)
	}
	for i, raw := range records {
		var rec qa.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Errorf("record %d corrupt: %v", i, err)
		}
	}
}

func TestErrorLog_AppendAndReadFailedIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.txt")

	l, err := OpenErrorLog(path)
	if err != nil {
		t.Fatalf("OpenErrorLog() error = %v", err)
	}
	if err := l.Append("0301", "tag mismatch: output content missing <asset3>", `{"partial": true}`); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Append("0305", "generation failed", ""); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Append("0301", "generation failed", ""); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	l.Close()

	ids, err := ReadFailedIDs(path)
	if err != nil {
		t.Fatalf("ReadFailedIDs() error = %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"0301", "0305"}) {
		t.Errorf("ReadFailedIDs() = %v, want [0301 0305]", ids)
	}
}
