package qa

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/shize-zhang/chemqa/internal/partition"
)

// Validation failure kinds. Every validation error wraps exactly one of
// these so callers can classify with errors.Is.
var (
	ErrParse       = errors.New("response is not valid JSON")
	ErrSchema      = errors.New("response does not match record schema")
	ErrCardinality = errors.New("modal mapping size does not match partition")
	ErrTagMismatch = errors.New("content tags do not match partition")
)

// ValidationError carries the failure kind, a human-readable reason, and
// the raw response retained for diagnostics.
type ValidationError struct {
	Kind   error
	Reason string
	Raw    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
)

// recordSchema compiles the canonical record schema once. The schema is a
// package constant so a compile failure is a programming error.
func recordSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("record.json", strings.NewReader(RecordSchema)); err != nil {
			panic(fmt.Sprintf("failed to load record schema: %v", err))
		}
		compiledSchema = compiler.MustCompile("record.json")
	})
	return compiledSchema
}

// Validate parses raw generator output and checks it against the record
// schema and the partition's cardinality and tag constraints. It is a pure
// function of its inputs and never modifies the generated content.
func Validate(raw string, part partition.Partition) (*Record, error) {
	fail := func(kind error, format string, args ...any) error {
		return &ValidationError{Kind: kind, Reason: fmt.Sprintf(format, args...), Raw: raw}
	}

	cleaned := CleanRaw(raw)
	if cleaned == "" {
		return nil, fail(ErrParse, "empty response")
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fail(ErrParse, "%v", err)
	}

	if missing := missingFields(doc); len(missing) > 0 {
		return nil, fail(ErrSchema, "missing fields: %s", strings.Join(missing, ", "))
	}
	if err := recordSchema().Validate(doc); err != nil {
		return nil, fail(ErrSchema, "%v", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return nil, fail(ErrSchema, "%v", err)
	}

	k, m := len(part.Input), len(part.Output)
	if len(rec.Input.Modal) != k || len(rec.Output.Modal) != m {
		return nil, fail(ErrCardinality,
			"input modal has %d entries (want %d), output modal has %d entries (want %d)",
			len(rec.Input.Modal), k, len(rec.Output.Modal), m)
	}

	if err := checkTags(&rec, k, m); err != nil {
		return nil, fail(ErrTagMismatch, "%v", err)
	}

	return &rec, nil
}

// checkTags enforces tag presence and cross-reference isolation: input
// content must contain every input token and no output token, and
// symmetrically for output content.
func checkTags(rec *Record, k, m int) error {
	for i := 1; i <= k; i++ {
		if !strings.Contains(rec.Input.Content, Token(i)) {
			return fmt.Errorf("input content missing %s", Token(i))
		}
	}
	for i := k + 1; i <= k+m; i++ {
		if !strings.Contains(rec.Output.Content, Token(i)) {
			return fmt.Errorf("output content missing %s", Token(i))
		}
	}
	for i := k + 1; i <= k+m; i++ {
		if strings.Contains(rec.Input.Content, Token(i)) {
			return fmt.Errorf("input content references output tag %s", Token(i))
		}
	}
	for i := 1; i <= k; i++ {
		if strings.Contains(rec.Output.Content, Token(i)) {
			return fmt.Errorf("output content references input tag %s", Token(i))
		}
	}
	return nil
}

// missingFields lists absent required top-level fields in stable order.
func missingFields(doc any) []string {
	obj, ok := doc.(map[string]any)
	if !ok {
		return []string{"domain", "subdomain", "id", "input", "output"}
	}
	var missing []string
	for _, field := range []string{"domain", "subdomain", "id", "input", "output"} {
		if _, ok := obj[field]; !ok {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}

// CleanRaw strips markdown code fences and surrounding prose from raw
// model output, returning the best JSON candidate. Generators are asked
// for bare JSON but fenced responses are tolerated.
func CleanRaw(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if json.Valid([]byte(trimmed)) {
		return trimmed
	}
	if stripped := stripCodeFences(trimmed); stripped != "" && json.Valid([]byte(stripped)) {
		return stripped
	}
	if extracted := extractJSONCandidate(trimmed); extracted != "" && json.Valid([]byte(extracted)) {
		return extracted
	}
	return trimmed
}

func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}
