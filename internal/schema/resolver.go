package schema

import "strings"

// NormalizeHeader collapses runs of whitespace and trims, so headers coming
// out of hand-edited spreadsheets compare cleanly.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(h), " ")
}

// ResolveColumn finds the actual column index for an ordered list of
// candidate names. Matching escalates: exact, then case-insensitive, then
// substring containment (candidates first, then the looser hints). The first
// occurrence wins, so duplicated header labels resolve deterministically
// instead of erroring. Returns false when nothing matches; callers supply a
// neutral default.
func ResolveColumn(headers []string, candidates []string, hints ...string) (int, bool) {
	norm := make([]string, len(headers))
	lower := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = NormalizeHeader(h)
		lower[i] = strings.ToLower(norm[i])
	}

	for _, cand := range candidates {
		c := NormalizeHeader(cand)
		for i := range norm {
			if norm[i] == c {
				return i, true
			}
		}
	}

	for _, cand := range candidates {
		c := strings.ToLower(NormalizeHeader(cand))
		for i := range lower {
			if lower[i] == c {
				return i, true
			}
		}
	}

	for _, cand := range candidates {
		c := strings.ToLower(NormalizeHeader(cand))
		if c == "" {
			continue
		}
		for i := range lower {
			if strings.Contains(lower[i], c) {
				return i, true
			}
		}
	}

	for _, hint := range hints {
		h := strings.ToLower(NormalizeHeader(hint))
		if h == "" {
			continue
		}
		for i := range lower {
			if strings.Contains(lower[i], h) {
				return i, true
			}
		}
	}

	return 0, false
}

// Value returns row[idx] trimmed, or "" when the row is short.
func Value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
