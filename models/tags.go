package models

import "strings"

// SplitTags breaks a whitespace-separated tag field into distinct tokens,
// keeping the order of first appearance.
func SplitTags(field string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, t := range strings.Fields(field) {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// JoinTags is the inverse of SplitTags for display.
func JoinTags(tags []string) string {
	return strings.Join(tags, " ")
}
