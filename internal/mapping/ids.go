package mapping

import (
	"fmt"
	"strconv"
	"strings"
)

// idWidth is the zero-padded width of numeric identifiers (e.g. "0301").
const idWidth = 4

// ParseIDSpec expands an identifier selection expression into an ordered
// list of identifiers. Supported forms:
//
//	"0301"           single identifier
//	"0301,0302,0305" comma-separated list
//	"0301-0305"      inclusive numeric range, zero-padded
func ParseIDSpec(spec string) ([]string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty identifier spec")
	}

	if strings.Contains(spec, "-") {
		parts := strings.SplitN(spec, "-", 2)
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid range start %q: %w", parts[0], err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid range end %q: %w", parts[1], err)
		}
		if end < start {
			return nil, fmt.Errorf("range end %d before start %d", end, start)
		}
		ids := make([]string, 0, end-start+1)
		for i := start; i <= end; i++ {
			ids = append(ids, fmt.Sprintf("%0*d", idWidth, i))
		}
		return ids, nil
	}

	if strings.Contains(spec, ",") {
		raw := strings.Split(spec, ",")
		ids := make([]string, 0, len(raw))
		for _, r := range raw {
			id := strings.TrimSpace(r)
			if id == "" {
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("no identifiers in spec %q", spec)
		}
		return ids, nil
	}

	return []string{spec}, nil
}
