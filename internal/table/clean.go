package table

import (
	"fmt"
	"strings"
)

// nullTokens are cell values treated as missing by Clean.
var nullTokens = map[string]struct{}{
	`\N`: {},
	"":   {},
}

// Clean returns a normalized copy of t:
//   - column names are trimmed (blank names become "Unnamed: <i>", collisions
//     get ".1", ".2"... suffixes)
//   - text cells equal to `\N` or "" become Missing
//   - exact duplicate rows are dropped, keeping the first occurrence
//
// Null tokens are replaced before duplicates are detected so Clean is
// idempotent.
func Clean(t *Table) *Table {
	cols := uniqueNames(t.columns, true)
	seen := make(map[string]struct{}, len(t.rows))
	rows := make([][]Value, 0, len(t.rows))
	var kb strings.Builder
	for _, r := range t.rows {
		row := make([]Value, len(r))
		kb.Reset()
		for j, v := range r {
			if v.kind == Text {
				if _, null := nullTokens[v.str]; null {
					v = Missing()
				}
			}
			row[j] = v
			// length-prefixed so cell text cannot forge a boundary
			ck := v.key()
			fmt.Fprintf(&kb, "%d:%s", len(ck), ck)
		}
		k := kb.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		rows = append(rows, row)
	}
	return MustNew(cols, rows)
}

// uniqueNames makes header names non-blank and unique, optionally trimming
// surrounding whitespace first.
func uniqueNames(names []string, trim bool) []string {
	out := make([]string, len(names))
	used := make(map[string]int, len(names))
	for i, n := range names {
		if trim {
			n = strings.TrimSpace(n)
		}
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		base := n
		for {
			if _, taken := used[n]; !taken {
				break
			}
			used[base]++
			n = fmt.Sprintf("%s.%d", base, used[base])
		}
		used[n] = 0
		out[i] = n
	}
	return out
}
