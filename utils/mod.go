package utils

import "strings"

// Indent returns the prefix for a Describe line nested level deep.
func Indent(level int) string {
	return strings.Repeat("  ", level)
}
