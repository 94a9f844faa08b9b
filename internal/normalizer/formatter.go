// Package normalizer renders registry address fragments into the canonical
// upper-case, comma-separated form stored for every organization record.
package normalizer

import (
	"strings"
	"unicode/utf8"
)

// Variant selects the punctuation conventions of an address format.
type Variant int

const (
	// Legacy is the pre-FIAS address block; type abbreviations already carry
	// their trailing period.
	Legacy Variant = iota
	// Unified is the FIAS address block; type abbreviations are normalized to
	// exactly one trailing period.
	Unified
)

func (v Variant) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case Unified:
		return "unified"
	default:
		return "unknown"
	}
}

// Separator ends every non-empty address token.
const Separator = ", "

// CityKeyword is the value registry files put in place of a name when the
// object is itself a city. The type slot then holds the city name.
const CityKeyword = "ГОРОД"

// CityAbbrev is the rendered prefix for CityKeyword tokens.
const CityAbbrev = "Г."

// TrimShortToken formats a short house/building/flat value. Values no longer
// than maxLen runes lose their hyphens, since a bare "-" marks an absent value.
// Non-empty results end with Separator.
func TrimShortToken(value string, maxLen int) string {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) <= maxLen {
		value = strings.TrimSpace(strings.ReplaceAll(value, "-", ""))
	}
	if value == "" {
		return ""
	}
	return value + Separator
}

// FormatGeoToken renders a (type, name) pair such as street or locality.
func FormatGeoToken(typ, name string, v Variant) string {
	typ = strings.TrimSpace(typ)
	name = strings.TrimSpace(name)

	if v == Unified {
		typ = unifiedType(typ)
	}

	if strings.EqualFold(name, CityKeyword) {
		if typ == "" {
			return ""
		}
		return CityAbbrev + " " + typ + Separator
	}

	switch {
	case typ == "" && name == "":
		return ""
	case typ == "":
		return name + Separator
	case name == "":
		return typ + Separator
	}
	return typ + " " + name + Separator
}

func unifiedType(typ string) string {
	typ = strings.TrimRight(typ, ".")
	if typ == "" {
		return ""
	}
	return typ + "."
}

// Finish upper-cases an assembled address and collapses its whitespace.
func Finish(addr string) string {
	return CollapseSpaces(Upper(addr))
}
