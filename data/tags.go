package data

import "strings"

// ParseTags splits a comma-delimited input, trims every token and drops empty ones.
// The result is never nil.
func ParseTags(input string) []string {
	tags := []string{}
	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tags = append(tags, token)
	}

	return tags
}

// JoinTags renders tags the way an operator types them.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
