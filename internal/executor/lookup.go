package executor

import "strings"

// firstMatch resolves a spoken title against stored records. Exact
// case-insensitive matches win; otherwise the first record whose stored
// title contains the spoken words. Matching never runs the other way:
// a spoken phrase longer than every stored title must miss rather than
// mutate whichever short title it happens to contain. First match wins;
// there is no disambiguation step.
func firstMatch[T any](items []T, spoken string, title func(T) string) (T, bool) {
	var zero T
	spoken = strings.ToLower(strings.TrimSpace(spoken))
	if spoken == "" {
		return zero, false
	}

	for _, item := range items {
		if strings.ToLower(title(item)) == spoken {
			return item, true
		}
	}
	for _, item := range items {
		if strings.Contains(strings.ToLower(title(item)), spoken) {
			return item, true
		}
	}
	return zero, false
}
