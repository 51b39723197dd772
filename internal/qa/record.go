// Package qa defines the question-answer record model and validates
// generated records against the partition they were synthesized from.
package qa

import "fmt"

// Domain values fixed by the dataset format.
const (
	Domain    = "natural_science"
	Subdomain = "chemistry"
)

// Record is one synthesized multimodal question-answer pair.
type Record struct {
	Domain    string `json:"domain"`
	Subdomain string `json:"subdomain"`
	ID        string `json:"id"`
	Input     Side   `json:"input"`
	Output    Side   `json:"output"`
}

// Side is one half of a QA pair: the modal mapping of tag names to asset
// URLs plus the interleaved text content.
type Side struct {
	Modal   map[string]string `json:"modal"`
	Content string            `json:"content"`
}

// Tag returns the tag name for a 1-based global asset position, e.g. "asset2".
func Tag(n int) string {
	return fmt.Sprintf("asset%d", n)
}

// Token returns the placeholder token that must appear in content text,
// e.g. "<asset2>".
func Token(n int) string {
	return fmt.Sprintf("<asset%d>", n)
}

// InputTags returns the tag names for the input side: asset1..assetK.
func InputTags(k int) []string {
	tags := make([]string, k)
	for i := 0; i < k; i++ {
		tags[i] = Tag(i + 1)
	}
	return tags
}

// OutputTags returns the tag names for the output side, continuing the
// input numbering: asset(K+1)..asset(K+M).
func OutputTags(k, m int) []string {
	tags := make([]string, m)
	for i := 0; i < m; i++ {
		tags[i] = Tag(k + i + 1)
	}
	return tags
}

// RecordSchema is the canonical JSON Schema every generated record must
// satisfy. Field names are fixed by the dataset format.
const RecordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["domain", "subdomain", "id", "input", "output"],
  "properties": {
    "domain": {"type": "string"},
    "subdomain": {"type": "string"},
    "id": {"type": "string"},
    "input": {
      "type": "object",
      "required": ["modal", "content"],
      "properties": {
        "modal": {"type": "object", "additionalProperties": {"type": "string"}},
        "content": {"type": "string"}
      }
    },
    "output": {
      "type": "object",
      "required": ["modal", "content"],
      "properties": {
        "modal": {"type": "object", "additionalProperties": {"type": "string"}},
        "content": {"type": "string"}
      }
    }
  }
}`
