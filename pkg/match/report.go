package match

import (
	"fmt"
	"strings"
)

// Summary renders a human-readable rollup of a match list, one line per
// match with its tier, score, both full names, and reason tags.
func Summary(matches []Match) string {
	if len(matches) == 0 {
		return "no matches\n"
	}

	var b strings.Builder
	counts := make(map[Confidence]int)
	for _, m := range matches {
		counts[m.Confidence]++
	}
	fmt.Fprintf(&b, "%d matches (high %d, medium %d, low %d)\n",
		len(matches), counts[ConfidenceHigh], counts[ConfidenceMedium], counts[ConfidenceLow])

	for _, m := range matches {
		fmt.Fprintf(&b, "  [%-6s %3d] %s <-> %s",
			m.Confidence, m.Score, m.Existing.FullName(), m.Incoming.FullName())
		if len(m.Reasons) > 0 {
			tags := make([]string, len(m.Reasons))
			for i, r := range m.Reasons {
				tags[i] = string(r)
			}
			fmt.Fprintf(&b, "  (%s)", strings.Join(tags, ", "))
		}
		if len(m.Conflicts) > 0 {
			fmt.Fprintf(&b, "  !%d conflicts", len(m.Conflicts))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
