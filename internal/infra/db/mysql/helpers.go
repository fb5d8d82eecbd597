package mysql

import "strings"

// isBlank reports whether s is empty or whitespace only
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
