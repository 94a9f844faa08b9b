package parser

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/egrul-parser/internal/normalizer"
	"github.com/egrul-parser/internal/regions"
)

type legacyResolver struct {
	schema  LegacySchema
	regions *regions.Directory
	trimMax int
	onMiss  RegionMissFunc
}

func newLegacyResolver(schema LegacySchema, opts ResolverOptions) *legacyResolver {
	return &legacyResolver{
		schema:  schema,
		regions: opts.Regions,
		trimMax: opts.LegacyTrimMax,
		onMiss:  opts.OnRegionMiss,
	}
}

func (r *legacyResolver) Variant() normalizer.Variant { return normalizer.Legacy }

// Resolve assembles street, house, building, flat, locality, city, region, index.
func (r *legacyResolver) Resolve(addr *etree.Element) (string, string) {
	s := r.schema
	code := attrOr(addr, s.RegionCode, regions.UnknownCode)

	var b strings.Builder
	b.WriteString(geoToken(addr, s.Street, normalizer.Legacy))
	b.WriteString(normalizer.TrimShortToken(attrOr(addr, s.House, ""), r.trimMax))
	b.WriteString(normalizer.TrimShortToken(attrOr(addr, s.Building, ""), r.trimMax))
	b.WriteString(normalizer.TrimShortToken(attrOr(addr, s.Flat, ""), r.trimMax))
	b.WriteString(geoToken(addr, s.Locality, normalizer.Legacy))
	b.WriteString(geoToken(addr, s.City, normalizer.Legacy))
	if region := r.regionName(addr, code); region != "" {
		b.WriteString(region)
		b.WriteString(normalizer.Separator)
	}
	b.WriteString(attrOr(addr, s.Index, DefaultIndex))

	return normalizer.Finish(b.String()), code
}

func (r *legacyResolver) regionName(addr *etree.Element, code string) string {
	if name, ok := r.regions.Lookup(code); ok {
		return name
	}

	raw := geoToken(addr, r.schema.Region, normalizer.Legacy)
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return ""
	}

	name := normalizer.CastRegionName(raw)
	if r.onMiss != nil {
		r.onMiss(code, name)
	}
	return name
}
