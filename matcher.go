package bastion

import "strings"

// matchGlob checks if a pattern matches a value with simple glob support.
// Supports trailing '*' (e.g., "data:*" matches "data:read").
func matchGlob(pattern, value string) bool {
	if pattern == "*" {
		return true
	}
	if pattern == value {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(value, prefix)
	}
	return false
}

// matchPermission checks if a granted permission pattern matches a
// required permission. Permission format: "resource:action"
// (e.g., "data:read"). Supports wildcards: "data:*" matches "data:read".
func matchPermission(pattern, required string) bool {
	if pattern == required {
		return true
	}
	return matchGlob(pattern, required)
}
