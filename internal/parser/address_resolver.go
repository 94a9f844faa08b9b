package parser

import (
	"github.com/beevik/etree"
	"github.com/egrul-parser/internal/normalizer"
	"github.com/egrul-parser/internal/regions"
)

// MissingAddress is rendered for branches that carry no address block.
const MissingAddress = "НЕ УКАЗАН"

// DefaultIndex stands in for an absent postal index.
const DefaultIndex = "000000"

// AddressResolver renders one address element into (address, region code).
type AddressResolver interface {
	Variant() normalizer.Variant
	Resolve(addr *etree.Element) (string, string)
}

// RegionMissFunc is called when a region code is not in the directory and the
// region name had to be built from the raw XML.
type RegionMissFunc func(code, name string)

// ResolverOptions tunes both address strategies.
type ResolverOptions struct {
	Regions        *regions.Directory
	LegacyTrimMax  int
	UnifiedTrimMax int
	OnRegionMiss   RegionMissFunc
}

// Resolvers picks the address strategy by which child element is present.
type Resolvers struct {
	Legacy  AddressResolver
	Unified AddressResolver
}

// NewResolvers builds both strategies over one schema.
func NewResolvers(schema Schema, opts ResolverOptions) *Resolvers {
	if opts.Regions == nil {
		opts.Regions = regions.Default()
	}
	return &Resolvers{
		Legacy:  newLegacyResolver(schema.Legacy, opts),
		Unified: newUnifiedResolver(schema.Unified, opts),
	}
}

// Pick returns the resolver and element for the first present format, the
// unified one taking precedence.
func (r *Resolvers) Pick(parent *etree.Element, unifiedTag, legacyTag string) (AddressResolver, *etree.Element) {
	if n := child(parent, unifiedTag); n != nil {
		return r.Unified, n
	}
	if n := child(parent, legacyTag); n != nil {
		return r.Legacy, n
	}
	return nil, nil
}

// ResolveIn resolves whichever format parent carries. ok is false when
// neither is present.
func (r *Resolvers) ResolveIn(parent *etree.Element, unifiedTag, legacyTag string) (addr, code string, ok bool) {
	resolver, n := r.Pick(parent, unifiedTag, legacyTag)
	if resolver == nil {
		return "", "", false
	}
	addr, code = resolver.Resolve(n)
	return addr, code, true
}

func geoToken(addr *etree.Element, part GeoPart, v normalizer.Variant) string {
	el := child(addr, part.Element)
	if el == nil {
		return ""
	}
	typ, _ := attr(el, part.Type)
	name, _ := attr(el, part.Name)
	return normalizer.FormatGeoToken(typ, name, v)
}
