// Package search mirrors stored organization records into Meilisearch.
package search

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterEq builds `attr = "value"`.
func FilterEq(attr, value string) string {
	return fmt.Sprintf("%s = %s", attr, strconv.Quote(value))
}

// FilterIn builds `attr IN ["a", "b"]`. An empty list yields "".
func FilterIn(attr string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return fmt.Sprintf("%s IN [%s]", attr, strings.Join(quoted, ", "))
}

// FilterAnd joins non-empty clauses with AND.
func FilterAnd(clauses ...string) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " AND ")
}
