// Package regions holds the fixed directory of Russian federal subject codes
// and their official names as they appear in registry addresses.
package regions

import "sort"

// UnknownCode is used when an address carries no region code.
const UnknownCode = "00"

// Directory maps two-digit region codes to official upper-case names.
// The zero value is not usable; use Default or New.
type Directory struct {
	names map[string]string
	codes []string
}

var official = map[string]string{
	"01": "РЕСПУБЛИКА АДЫГЕЯ",
	"02": "РЕСПУБЛИКА БАШКОРТОСТАН",
	"03": "РЕСПУБЛИКА БУРЯТИЯ",
	"04": "РЕСПУБЛИКА АЛТАЙ",
	"05": "РЕСПУБЛИКА ДАГЕСТАН",
	"06": "РЕСПУБЛИКА ИНГУШЕТИЯ",
	"07": "КАБАРДИНО-БАЛКАРСКАЯ РЕСПУБЛИКА",
	"08": "РЕСПУБЛИКА КАЛМЫКИЯ",
	"09": "КАРАЧАЕВО-ЧЕРКЕССКАЯ РЕСПУБЛИКА",
	"10": "РЕСПУБЛИКА КАРЕЛИЯ",
	"11": "РЕСПУБЛИКА КОМИ",
	"12": "РЕСПУБЛИКА МАРИЙ ЭЛ",
	"13": "РЕСПУБЛИКА МОРДОВИЯ",
	"14": "РЕСПУБЛИКА САХА (ЯКУТИЯ)",
	"15": "РЕСПУБЛИКА СЕВЕРНАЯ ОСЕТИЯ - АЛАНИЯ",
	"16": "РЕСПУБЛИКА ТАТАРСТАН",
	"17": "РЕСПУБЛИКА ТЫВА",
	"18": "УДМУРТСКАЯ РЕСПУБЛИКА",
	"19": "РЕСПУБЛИКА ХАКАСИЯ",
	"20": "ЧЕЧЕНСКАЯ РЕСПУБЛИКА",
	"21": "ЧУВАШСКАЯ РЕСПУБЛИКА - ЧУВАШИЯ",
	"22": "АЛТАЙСКИЙ КРАЙ",
	"23": "КРАСНОДАРСКИЙ КРАЙ",
	"24": "КРАСНОЯРСКИЙ КРАЙ",
	"25": "ПРИМОРСКИЙ КРАЙ",
	"26": "СТАВРОПОЛЬСКИЙ КРАЙ",
	"27": "ХАБАРОВСКИЙ КРАЙ",
	"28": "АМУРСКАЯ ОБЛАСТЬ",
	"29": "АРХАНГЕЛЬСКАЯ ОБЛАСТЬ",
	"30": "АСТРАХАНСКАЯ ОБЛАСТЬ",
	"31": "БЕЛГОРОДСКАЯ ОБЛАСТЬ",
	"32": "БРЯНСКАЯ ОБЛАСТЬ",
	"33": "ВЛАДИМИРСКАЯ ОБЛАСТЬ",
	"34": "ВОЛГОГРАДСКАЯ ОБЛАСТЬ",
	"35": "ВОЛОГОДСКАЯ ОБЛАСТЬ",
	"36": "ВОРОНЕЖСКАЯ ОБЛАСТЬ",
	"37": "ИВАНОВСКАЯ ОБЛАСТЬ",
	"38": "ИРКУТСКАЯ ОБЛАСТЬ",
	"39": "КАЛИНИНГРАДСКАЯ ОБЛАСТЬ",
	"40": "КАЛУЖСКАЯ ОБЛАСТЬ",
	"41": "КАМЧАТСКИЙ КРАЙ",
	"42": "КЕМЕРОВСКАЯ ОБЛАСТЬ - КУЗБАСС",
	"43": "КИРОВСКАЯ ОБЛАСТЬ",
	"44": "КОСТРОМСКАЯ ОБЛАСТЬ",
	"45": "КУРГАНСКАЯ ОБЛАСТЬ",
	"46": "КУРСКАЯ ОБЛАСТЬ",
	"47": "ЛЕНИНГРАДСКАЯ ОБЛАСТЬ",
	"48": "ЛИПЕЦКАЯ ОБЛАСТЬ",
	"49": "МАГАДАНСКАЯ ОБЛАСТЬ",
	"50": "МОСКОВСКАЯ ОБЛАСТЬ",
	"51": "МУРМАНСКАЯ ОБЛАСТЬ",
	"52": "НИЖЕГОРОДСКАЯ ОБЛАСТЬ",
	"53": "НОВГОРОДСКАЯ ОБЛАСТЬ",
	"54": "НОВОСИБИРСКАЯ ОБЛАСТЬ",
	"55": "ОМСКАЯ ОБЛАСТЬ",
	"56": "ОРЕНБУРГСКАЯ ОБЛАСТЬ",
	"57": "ОРЛОВСКАЯ ОБЛАСТЬ",
	"58": "ПЕНЗЕНСКАЯ ОБЛАСТЬ",
	"59": "ПЕРМСКИЙ КРАЙ",
	"60": "ПСКОВСКАЯ ОБЛАСТЬ",
	"61": "РОСТОВСКАЯ ОБЛАСТЬ",
	"62": "РЯЗАНСКАЯ ОБЛАСТЬ",
	"63": "САМАРСКАЯ ОБЛАСТЬ",
	"64": "САРАТОВСКАЯ ОБЛАСТЬ",
	"65": "САХАЛИНСКАЯ ОБЛАСТЬ",
	"66": "СВЕРДЛОВСКАЯ ОБЛАСТЬ",
	"67": "СМОЛЕНСКАЯ ОБЛАСТЬ",
	"68": "ТАМБОВСКАЯ ОБЛАСТЬ",
	"69": "ТВЕРСКАЯ ОБЛАСТЬ",
	"70": "ТОМСКАЯ ОБЛАСТЬ",
	"71": "ТУЛЬСКАЯ ОБЛАСТЬ",
	"72": "ТЮМЕНСКАЯ ОБЛАСТЬ",
	"73": "УЛЬЯНОВСКАЯ ОБЛАСТЬ",
	"74": "ЧЕЛЯБИНСКАЯ ОБЛАСТЬ",
	"75": "ЗАБАЙКАЛЬСКИЙ КРАЙ",
	"76": "ЯРОСЛАВСКАЯ ОБЛАСТЬ",
	"77": "Г. МОСКВА",
	"78": "Г. САНКТ-ПЕТЕРБУРГ",
	"79": "ЕВРЕЙСКАЯ АВТОНОМНАЯ ОБЛАСТЬ",
	"83": "НЕНЕЦКИЙ АВТОНОМНЫЙ ОКРУГ",
	"86": "ХАНТЫ-МАНСИЙСКИЙ АВТОНОМНЫЙ ОКРУГ - ЮГРА",
	"87": "ЧУКОТСКИЙ АВТОНОМНЫЙ ОКРУГ",
	"89": "ЯМАЛО-НЕНЕЦКИЙ АВТОНОМНЫЙ ОКРУГ",
	"91": "РЕСПУБЛИКА КРЫМ",
	"92": "Г. СЕВАСТОПОЛЬ",
	"99": "Г. БАЙКОНУР",
}

var defaultDirectory = New(official)

// Default returns the built-in directory. It is shared and read-only.
func Default() *Directory {
	return defaultDirectory
}

// New builds a directory from an arbitrary code table. The map is copied.
func New(names map[string]string) *Directory {
	d := &Directory{
		names: make(map[string]string, len(names)),
		codes: make([]string, 0, len(names)),
	}
	for code, name := range names {
		d.names[code] = name
		d.codes = append(d.codes, code)
	}
	sort.Strings(d.codes)
	return d
}

// Lookup returns the official name for a region code.
func (d *Directory) Lookup(code string) (string, bool) {
	name, ok := d.names[code]
	return name, ok
}

// Len returns the number of known regions.
func (d *Directory) Len() int {
	return len(d.names)
}

// Codes returns all region codes in ascending order.
func (d *Directory) Codes() []string {
	out := make([]string, len(d.codes))
	copy(out, d.codes)
	return out
}

// IsOfficial reports whether name is exactly one of the directory names.
func (d *Directory) IsOfficial(name string) bool {
	for _, n := range d.names {
		if n == name {
			return true
		}
	}
	return false
}
