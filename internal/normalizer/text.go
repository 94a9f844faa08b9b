package normalizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Upper upper-cases s with Russian casing rules.
func Upper(s string) string {
	// cases.Caser keeps state, build one per call
	return cases.Upper(language.Russian).String(s)
}

// CollapseSpaces trims s and squeezes every whitespace run to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Clean brings a raw attribute value to NFC and trims surrounding whitespace.
func Clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
