package corpus

import "strings"

// SplitPipeList parses a pipe-separated value list ("Accra | BBC|Islam")
// into its trimmed, non-empty items.
func SplitPipeList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// JoinPipeList renders items back into the canonical "A | B | C" form,
// dropping empty entries.
func JoinPipeList(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		kept = append(kept, item)
	}
	return strings.Join(kept, " | ")
}
