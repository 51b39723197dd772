// Package prompt renders generation requests for multimodal QA synthesis.
package prompt

import (
	"fmt"
	"strings"

	"github.com/shize-zhang/chemqa/internal/partition"
	"github.com/shize-zhang/chemqa/internal/qa"
)

// SystemInstruction is the fixed system prompt for the generator.
const SystemInstruction = "You are a multimodal expert specialized in chemistry education. " +
	"Generate structured JSON data for chemistry-related multimodal question-answer pairs " +
	"with multiple images. Always respond with properly formatted JSON."

// Request is a rendered generation request. Only input-side asset URLs are
// attached as media for the generator; output-side URLs appear solely as
// text inside the instructions. That asymmetry is what enforces
// cross-reference isolation at the source: the generator never sees the
// output images.
type Request struct {
	ID             string
	System         string
	Instructions   string
	InputAssetURLs []string
}

// Builder renders deterministic generation requests from partitions.
type Builder struct {
	// BaseURL is the remote root under which assets are hosted; asset
	// URLs are <BaseURL>/images/<filename>.
	BaseURL string
}

// AssetURL resolves an asset filename to its hosted URL.
func (b Builder) AssetURL(filename string) string {
	return strings.TrimRight(b.BaseURL, "/") + "/images/" + filename
}

// Build renders the generation request for one identifier. The result is a
// pure function of the partition and identifier.
func (b Builder) Build(part partition.Partition, id string) Request {
	k := len(part.Input)
	m := len(part.Output)

	inputURLs := make([]string, k)
	for i, f := range part.Input {
		inputURLs[i] = b.AssetURL(f)
	}
	outputURLs := make([]string, m)
	for i, f := range part.Output {
		outputURLs[i] = b.AssetURL(f)
	}

	var sb strings.Builder
	sb.WriteString("You are a multimodal expert. Based on the following original data, please construct a data (Question-Answer pair) entry that strictly conforms to the JSON format below.\n")
	sb.WriteString("Please design a multimodal interleaved Question-Answer pair. You can place different pieces of information from the original data into the input or output of the Question-Answer pair.\n\n")

	sb.WriteString("[Original data]\n{\n")
	all := append(append([]string{}, inputURLs...), outputURLs...)
	for i, url := range all {
		sep := ","
		if i == len(all)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "    %q: %q%s\n", qa.Tag(i+1), url, sep)
	}
	sb.WriteString("}\n\n")

	sb.WriteString("[Question-Answer pair JSON template]\n")
	sb.WriteString("This Question-Answer pair must adhere to the following structure in the following JSON template and don't generate additional information.\n")
	fmt.Fprintf(&sb, `{
    "domain": %q,
    "subdomain": %q,
    "id": %q,
    "input": {
        "modal": {
            "asset1": "url",
            ...
        },
        "content": "Interleave <asset1>, <asset2>, etc. tags at the appropriate positions in the text and CLEARLY indicate that the answer must include %d images in the output to support or illustrate the explanation."
    },
    "output": {
        "modal": {
            %q: "url",
            ...
        },
        "content": "This is the golden annotation answer that the model is expected to generate. Interleave the output tags at suitable positions within the text."
    }
}
`, qa.Domain, qa.Subdomain, id, m, qa.Tag(k+1))

	sb.WriteString("\n[Construction requirements]\n")
	sb.WriteString("1 You need to design an appropriate question-answer pair and clearly indicate in the question which specific modalities other than text are required to be included in the answer.\n")
	sb.WriteString("2 The content of the input is the entire input fed into the model. The question-answer pair should be open-world QA.\n")
	sb.WriteString("3 The content of the input is the entire input fed into the model and the content of the output is the golden output of the model. You should design the input content and output content based on the original data.\n")
	sb.WriteString("4 Give the JSON directly, no additional output information.\n")
	sb.WriteString("5 The <assetN> tags should be components of the text sentence, not just a single word. For example, the <assetN> tags can serve as the subject, object, or other components of the sentence. Use specific numbered tags like <asset1>, <asset2>, etc.\n")
	sb.WriteString("6 Please note that the <assetN> tags of the input should not appear in the output.\n")
	sb.WriteString("7 IMPORTANT: Input content must contain all tags of input assets and NOT contain any tags that refer to output assets, and output content must contain all tags of output assets and NOT contain any tags that refer to input assets. Each part can only reference its own assets.\n")
	sb.WriteString("8 The assets keep their original order: the first part belongs to the input and the second part belongs to the output.\n")
	sb.WriteString("9 CRITICAL: The question-answer pair MUST be chemically and scientifically relevant. The input question should logically connect to the output answer through chemical concepts, molecular structures, reactions, or properties shown in the images. Avoid generic or unrelated questions.\n\n")

	fmt.Fprintf(&sb, "Input assets (first %d images): %s\n", k, formatURLList(inputURLs))
	fmt.Fprintf(&sb, "Output assets (remaining %d images): %s\n\n", m, formatURLList(outputURLs))

	sb.WriteString("[Tag Usage Rules]\n")
	fmt.Fprintf(&sb, "- Input content can ONLY use tags for input assets: %s\n", formatTokenList(1, k))
	fmt.Fprintf(&sb, "- Output content can ONLY use tags for output assets: %s\n", formatTokenList(k+1, m))
	sb.WriteString("- Cross-referencing between input and output assets is strictly forbidden\n")

	return Request{
		ID:             id,
		System:         SystemInstruction,
		Instructions:   sb.String(),
		InputAssetURLs: inputURLs,
	}
}

func formatURLList(urls []string) string {
	quoted := make([]string, len(urls))
	for i, u := range urls {
		quoted[i] = fmt.Sprintf("%q", u)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// formatTokenList renders n consecutive tag tokens starting at position
// start, e.g. "<asset2>, <asset3>".
func formatTokenList(start, n int) string {
	tokens := make([]string, n)
	for i := 0; i < n; i++ {
		tokens[i] = qa.Token(start + i)
	}
	return strings.Join(tokens, ", ")
}
