package parser

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed schema/egrul.yaml
var egrulSchemaYAML []byte

// GeoPart names an address sub-element and the attributes holding its
// type abbreviation and its value.
type GeoPart struct {
	Element string `yaml:"element"`
	Type    string `yaml:"type"`
	Name    string `yaml:"name"`
}

// NameSchema describes where entity names live.
type NameSchema struct {
	Element          string `yaml:"element"`
	Full             string `yaml:"full"`
	Short            string `yaml:"short"`
	ShortElement     string `yaml:"short_element"`
	ShortElementAttr string `yaml:"short_element_attr"`
}

// AddressSchema names the address container and its two format children.
type AddressSchema struct {
	Element string `yaml:"element"`
	Unified string `yaml:"unified"`
	Legacy  string `yaml:"legacy"`
}

type EntitySchema struct {
	Tag                string        `yaml:"tag"`
	RegistrationNumber string        `yaml:"registration_number"`
	TaxID              string        `yaml:"tax_id"`
	TaxCode            string        `yaml:"tax_code"`
	Liquidation        string        `yaml:"liquidation"`
	Name               NameSchema    `yaml:"name"`
	Address            AddressSchema `yaml:"address"`
}

type BranchSchema struct {
	Container      string `yaml:"container"`
	Tag            string `yaml:"tag"`
	NameElement    string `yaml:"name_element"`
	NameAttr       string `yaml:"name_attr"`
	TaxElement     string `yaml:"tax_element"`
	TaxCode        string `yaml:"tax_code"`
	UnifiedAddress string `yaml:"unified_address"`
	LegacyAddress  string `yaml:"legacy_address"`
}

type LegacySchema struct {
	Index      string  `yaml:"index"`
	RegionCode string  `yaml:"region_code"`
	House      string  `yaml:"house"`
	Building   string  `yaml:"building"`
	Flat       string  `yaml:"flat"`
	Street     GeoPart `yaml:"street"`
	Locality   GeoPart `yaml:"locality"`
	City       GeoPart `yaml:"city"`
	Region     GeoPart `yaml:"region"`
}

type UnifiedSchema struct {
	Index      string  `yaml:"index"`
	RegionCode string  `yaml:"region_code"`
	RegionName string  `yaml:"region_name"`
	Street     GeoPart `yaml:"street"`
	House      GeoPart `yaml:"house"`
	Flat       GeoPart `yaml:"flat"`
	Locality   GeoPart `yaml:"locality"`
}

// Schema is the immutable tag vocabulary shared by the resolvers and
// extractors. It holds strings only, so copies are independent.
type Schema struct {
	Root    string        `yaml:"root"`
	Entity  EntitySchema  `yaml:"entity"`
	Branch  BranchSchema  `yaml:"branch"`
	Legacy  LegacySchema  `yaml:"legacy"`
	Unified UnifiedSchema `yaml:"unified"`
}

var defaultSchema = mustLoadSchema(egrulSchemaYAML)

// DefaultSchema returns the built-in EGRUL vocabulary.
func DefaultSchema() Schema {
	return defaultSchema
}

// LoadSchema decodes a vocabulary from YAML.
func LoadSchema(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("decode schema: %w", err)
	}
	if err := s.validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

func mustLoadSchema(data []byte) Schema {
	s, err := LoadSchema(data)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Schema) validate() error {
	required := map[string]string{
		"entity.tag":                 s.Entity.Tag,
		"entity.registration_number": s.Entity.RegistrationNumber,
		"entity.address.element":     s.Entity.Address.Element,
		"branch.tag":                 s.Branch.Tag,
		"legacy.index":               s.Legacy.Index,
		"unified.index":              s.Unified.Index,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("schema: %s is empty", key)
		}
	}
	return nil
}
