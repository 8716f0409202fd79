// rules decides whether a document path is in scope for cursor tracking.
package rules

import "strings"

const (
	// Wildcard matches every document in the vault, wherever it appears
	// in the rule list.
	Wildcard = "/*"
	// Root matches only documents that live directly in the vault root.
	Root = "/"

	subtreeSuffix = "/*"
)

// Parse splits a raw newline-separated rule string into an ordered list
// of trimmed, non-empty rules.
func Parse(raw string) []string {
	var parsed []string
	for _, line := range strings.Split(raw, "\n") {
		rule := strings.TrimSpace(line)
		if rule == "" {
			continue
		}
		parsed = append(parsed, rule)
	}
	return parsed
}

// Matches reports whether path falls under any of the given rules.
// Rules are evaluated in order and the first match wins; no rule can
// exclude a path. An empty rule list matches nothing, which is how the
// whole feature is switched off.
func Matches(path string, ruleList []string) bool {
	if len(ruleList) == 0 {
		return false
	}

	// The wildcard short-circuits regardless of its position.
	for _, rule := range ruleList {
		if rule == Wildcard {
			return true
		}
	}

	for _, rule := range ruleList {
		switch {
		case rule == Root:
			if !strings.Contains(path, "/") {
				return true
			}
		case strings.HasSuffix(rule, subtreeSuffix):
			base := strings.TrimSuffix(rule, subtreeSuffix)
			if strings.HasPrefix(path, base+"/") {
				return true
			}
		default:
			// Exact folder: direct children only.
			rest, ok := strings.CutPrefix(path, rule+"/")
			if ok && !strings.Contains(rest, "/") {
				return true
			}
		}
	}
	return false
}
