package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/egrul-parser/internal/normalizer"
	"github.com/egrul-parser/internal/regions"
)

type unifiedResolver struct {
	schema  UnifiedSchema
	regions *regions.Directory
	trimMax int
}

func newUnifiedResolver(schema UnifiedSchema, opts ResolverOptions) *unifiedResolver {
	return &unifiedResolver{
		schema:  schema,
		regions: opts.Regions,
		trimMax: opts.UnifiedTrimMax,
	}
}

func (r *unifiedResolver) Variant() normalizer.Variant { return normalizer.Unified }

// Resolve assembles street, houses, flats, locality, region, index. Region
// names in this format are already official and are not canonicalized.
func (r *unifiedResolver) Resolve(addr *etree.Element) (string, string) {
	s := r.schema
	code := childText(addr, s.RegionCode)
	if code == "" {
		code = regions.UnknownCode
	}

	var b strings.Builder
	b.WriteString(geoToken(addr, s.Street, normalizer.Unified))
	for _, n := range children(addr, s.House.Element) {
		b.WriteString(r.numbered(n, s.House))
	}
	for _, n := range children(addr, s.Flat.Element) {
		b.WriteString(r.numbered(n, s.Flat))
	}
	b.WriteString(geoToken(addr, s.Locality, normalizer.Unified))
	if region := r.regionName(addr, code); region != "" {
		b.WriteString(region)
		b.WriteString(normalizer.Separator)
	}
	b.WriteString(attrOr(addr, s.Index, DefaultIndex))

	return normalizer.Finish(b.String()), code
}

// numbered renders a house or premises element. Short numbers lose their
// hyphen placeholders and the token disappears when nothing is left.
func (r *unifiedResolver) numbered(n *etree.Element, part GeoPart) string {
	typ, _ := attr(n, part.Type)
	num, _ := attr(n, part.Name)
	if utf8.RuneCountInString(num) <= r.trimMax {
		num = strings.TrimSpace(strings.ReplaceAll(num, "-", ""))
	}
	if num == "" {
		return ""
	}
	return normalizer.FormatGeoToken(typ, num, normalizer.Unified)
}

func (r *unifiedResolver) regionName(addr *etree.Element, code string) string {
	if name, ok := r.regions.Lookup(code); ok {
		return name
	}
	name := normalizer.CollapseSpaces(normalizer.Upper(childText(addr, r.schema.RegionName)))
	// "Г.МОСКВА" -> "Г. МОСКВА"
	if rest, ok := strings.CutPrefix(name, normalizer.CityAbbrev); ok {
		name = normalizer.CityAbbrev + " " + strings.TrimSpace(rest)
	}
	return name
}
