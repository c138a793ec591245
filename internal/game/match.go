package game

import "strings"

// matchName resolves target against names, ignoring case. An exact match
// wins; otherwise target must be the prefix of exactly one name.
func matchName(target string, names []string) (int, bool) {
	needle := strings.ToLower(strings.TrimSpace(target))
	if needle == "" {
		return -1, false
	}
	found := -1
	for i, name := range names {
		candidate := strings.ToLower(strings.TrimSpace(name))
		switch {
		case candidate == needle:
			return i, true
		case strings.HasPrefix(candidate, needle):
			// -2 marks an ambiguous prefix; a later exact match still wins.
			if found == -1 {
				found = i
			} else {
				found = -2
			}
		}
	}
	if found < 0 {
		return -1, false
	}
	return found, true
}
