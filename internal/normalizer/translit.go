package normalizer

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Transliterate returns a lower-case ASCII rendering of s, used as an extra
// search field so names can be found from a latin keyboard.
func Transliterate(s string) string {
	if s == "" {
		return ""
	}
	return CollapseSpaces(strings.ToLower(unidecode.Unidecode(s)))
}
