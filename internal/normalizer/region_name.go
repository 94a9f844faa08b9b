package normalizer

import "strings"

const republicWord = "РЕСПУБЛИКА"

type regionRule struct {
	match   func(name string) bool
	rewrite func(name string) string
}

func containsAll(parts ...string) func(string) bool {
	return func(name string) bool {
		for _, p := range parts {
			if !strings.Contains(name, p) {
				return false
			}
		}
		return true
	}
}

func constant(value string) func(string) string {
	return func(string) string { return value }
}

// First match wins. Every rewrite is a fixed point of the whole table.
var regionRules = []regionRule{
	{containsAll("МОСКВА"), constant("Г. МОСКВА")},
	{containsAll("САНКТ", "ПЕТЕРБУРГ"), constant("Г. САНКТ-ПЕТЕРБУРГ")},
	{containsAll("СЕВАСТОПОЛЬ"), constant("Г. СЕВАСТОПОЛЬ")},
	{containsAll("КЕМЕРОВСКАЯ"), constant("КЕМЕРОВСКАЯ ОБЛАСТЬ - КУЗБАСС")},
	{containsAll("ЧУВАШ"), constant("ЧУВАШСКАЯ РЕСПУБЛИКА - ЧУВАШИЯ")},
	{containsAll("ХАНТЫ", "МАНСИ"), constant("ХАНТЫ-МАНСИЙСКИЙ АВТОНОМНЫЙ ОКРУГ - ЮГРА")},
	{containsAll("ЯМАЛО", "НЕНЕЦКИЙ"), constant("ЯМАЛО-НЕНЕЦКИЙ АВТОНОМНЫЙ ОКРУГ")},
	{containsAll(republicWord), republicFirst},
}

// CastRegionName maps a raw region name (typically "НАИМ ТИП") to its
// official spelling. Unknown names are returned upper-cased with collapsed
// whitespace. The function is idempotent.
func CastRegionName(raw string) string {
	name := CollapseSpaces(Upper(raw))
	for _, rule := range regionRules {
		if rule.match(name) {
			return rule.rewrite(name)
		}
	}
	return name
}

// republicFirst moves the word РЕСПУБЛИКА to the front unless the name
// opens with an adjective ("УДМУРТСКАЯ РЕСПУБЛИКА").
func republicFirst(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 || strings.HasSuffix(words[0], "КАЯ") || words[0] == republicWord {
		return name
	}

	rest := make([]string, 0, len(words))
	for _, w := range words {
		if w != republicWord {
			rest = append(rest, w)
		}
	}
	if len(rest) == len(words) {
		// word is glued to something, e.g. "РЕСПУБЛИКА-"
		return name
	}
	return republicWord + " " + strings.Join(rest, " ")
}
