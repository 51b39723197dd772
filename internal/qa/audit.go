package qa

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var tagNamePattern = regexp.MustCompile(`^asset([1-9][0-9]*)$`)

// Audit re-validates a previously persisted record without the original
// partition: schema shape, modal key naming, tag presence, and
// cross-reference isolation are derived from the record itself.
func Audit(raw json.RawMessage) (*Record, error) {
	fail := func(kind error, format string, args ...any) error {
		return &ValidationError{Kind: kind, Reason: fmt.Sprintf(format, args...), Raw: string(raw)}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fail(ErrParse, "%v", err)
	}
	if missing := missingFields(doc); len(missing) > 0 {
		return nil, fail(ErrSchema, "missing fields: %s", strings.Join(missing, ", "))
	}
	if err := recordSchema().Validate(doc); err != nil {
		return nil, fail(ErrSchema, "%v", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fail(ErrSchema, "%v", err)
	}

	if len(rec.Input.Modal) == 0 {
		return nil, fail(ErrCardinality, "input modal is empty")
	}
	if len(rec.Output.Modal) == 0 {
		return nil, fail(ErrCardinality, "output modal is empty")
	}

	for side, s := range map[string]*Side{"input": &rec.Input, "output": &rec.Output} {
		for tag := range s.Modal {
			if !tagNamePattern.MatchString(tag) {
				return nil, fail(ErrSchema, "%s modal key %q is not an assetN tag", side, tag)
			}
		}
	}

	if err := auditTags(&rec); err != nil {
		return nil, fail(ErrTagMismatch, "%v", err)
	}
	return &rec, nil
}

// auditTags checks each side's content against its own modal keys and
// against the other side's keys for isolation violations.
func auditTags(rec *Record) error {
	for tag := range rec.Input.Modal {
		if !strings.Contains(rec.Input.Content, "<"+tag+">") {
			return fmt.Errorf("input content missing <%s>", tag)
		}
	}
	for tag := range rec.Output.Modal {
		if !strings.Contains(rec.Output.Content, "<"+tag+">") {
			return fmt.Errorf("output content missing <%s>", tag)
		}
	}
	for tag := range rec.Output.Modal {
		if strings.Contains(rec.Input.Content, "<"+tag+">") {
			return fmt.Errorf("input content references output tag <%s>", tag)
		}
	}
	for tag := range rec.Input.Modal {
		if strings.Contains(rec.Output.Content, "<"+tag+">") {
			return fmt.Errorf("output content references input tag <%s>", tag)
		}
	}
	return nil
}
