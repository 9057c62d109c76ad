package util

import (
	"regexp"
	"strings"
)

// an uppercase run followed by lowercase letters is one word: "UUID", "Index"
var camelRegex = regexp.MustCompile("[A-Z]+[a-z0-9]*|[a-z0-9]+")

// CamelToSnakeCase maps Go field names to column names for sqlx.
func CamelToSnakeCase(str string) string {
	matches := camelRegex.FindAllString(str, -1)
	lowers := make([]string, len(matches))

	for i, match := range matches {
		lowers[i] = strings.ToLower(match)
	}

	return strings.Join(lowers, "_")
}
