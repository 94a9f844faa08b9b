package parser

import (
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/egrul-parser/app/models"
	"github.com/egrul-parser/internal/normalizer"
	"github.com/egrul-parser/internal/regions"
)

// BranchFallbackName is appended to the parent name for unnamed branches.
const BranchFallbackName = "ФИЛИАЛ"

// ExtractorOptions configures an EntityExtractor.
type ExtractorOptions struct {
	// A nested short name is used only when longer than this many runes.
	ShortNameMinLen int
}

// EntityExtractor turns one entity element into the head-office record
// followed by its branch records.
type EntityExtractor struct {
	schema    EntitySchema
	resolvers *Resolvers
	branches  *BranchExtractor
	opts      ExtractorOptions
}

// NewEntityExtractor wires an extractor over the given schema and resolvers.
func NewEntityExtractor(schema Schema, resolvers *Resolvers, opts ExtractorOptions) *EntityExtractor {
	return &EntityExtractor{
		schema:    schema.Entity,
		resolvers: resolvers,
		branches:  NewBranchExtractor(schema.Branch, resolvers),
		opts:      opts,
	}
}

// RegistrationNumber returns the entity's ОГРН.
func (e *EntityExtractor) RegistrationNumber(entity *etree.Element) (string, bool) {
	return attr(entity, e.schema.RegistrationNumber)
}

// IsLiquidated reports whether the entity carries a termination block.
func (e *EntityExtractor) IsLiquidated(entity *etree.Element) bool {
	return child(entity, e.schema.Liquidation) != nil
}

// Extract returns the main record first, then one record per branch that has
// a tax-registration code. Liquidated entities yield nothing. Records sharing
// a uniqueness triple with an earlier one are dropped.
func (e *EntityExtractor) Extract(entity *etree.Element) ([]models.OrganizationRecord, error) {
	if e.IsLiquidated(entity) {
		return nil, nil
	}

	ogrn, ok := e.RegistrationNumber(entity)
	if !ok {
		return nil, ErrMissingRegistrationNumber
	}

	main := models.OrganizationRecord{
		RegistrationNumber: ogrn,
		TaxID:              attrOr(entity, e.schema.TaxID, ""),
		TaxCode:            attrOr(entity, e.schema.TaxCode, ""),
		FullName:           e.fullName(entity),
		ShortName:          e.shortName(entity),
		IsMain:             true,
	}
	main.Address, main.RegionCode = e.mainAddress(entity)

	records := []models.OrganizationRecord{main}
	seen := map[models.RecordKey]struct{}{main.Key(): {}}
	for _, branch := range e.branches.Extract(entity, main) {
		if _, dup := seen[branch.Key()]; dup {
			continue
		}
		seen[branch.Key()] = struct{}{}
		records = append(records, branch)
	}
	return records, nil
}

func (e *EntityExtractor) fullName(entity *etree.Element) string {
	name, _ := attr(child(entity, e.schema.Name.Element), e.schema.Name.Full)
	return normalizer.Clean(name)
}

func (e *EntityExtractor) shortName(entity *etree.Element) *string {
	n := e.schema.Name
	names := child(entity, n.Element)

	var nested string
	if n.Element != "" && n.ShortElement != "" {
		nested, _ = attr(find(entity, n.Element+"/"+n.ShortElement), n.ShortElementAttr)
		nested = normalizer.Clean(nested)
	}
	if utf8.RuneCountInString(nested) > e.opts.ShortNameMinLen {
		return &nested
	}

	if short, ok := attr(names, n.Short); ok {
		short = normalizer.Clean(short)
		return &short
	}
	return nil
}

func (e *EntityExtractor) mainAddress(entity *etree.Element) (string, string) {
	container := child(entity, e.schema.Address.Element)
	addr, code, ok := e.resolvers.ResolveIn(container, e.schema.Address.Unified, e.schema.Address.Legacy)
	if !ok {
		return MissingAddress, regions.UnknownCode
	}
	return addr, code
}

// BranchExtractor builds branch records from a parent record. It holds no
// reference back to the entity extractor.
type BranchExtractor struct {
	schema    BranchSchema
	resolvers *Resolvers
}

// NewBranchExtractor wires a branch extractor.
func NewBranchExtractor(schema BranchSchema, resolvers *Resolvers) *BranchExtractor {
	return &BranchExtractor{schema: schema, resolvers: resolvers}
}

// Extract returns records for every branch with a tax-registration code.
func (b *BranchExtractor) Extract(entity *etree.Element, parent models.OrganizationRecord) []models.OrganizationRecord {
	var out []models.OrganizationRecord
	for _, branch := range children(child(entity, b.schema.Container), b.schema.Tag) {
		rec, ok := b.record(branch, parent)
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

func (b *BranchExtractor) record(branch *etree.Element, parent models.OrganizationRecord) (models.OrganizationRecord, bool) {
	kpp, ok := attr(child(branch, b.schema.TaxElement), b.schema.TaxCode)
	if !ok {
		return models.OrganizationRecord{}, false
	}

	suffix := BranchFallbackName
	if name, ok := attr(child(branch, b.schema.NameElement), b.schema.NameAttr); ok {
		suffix = normalizer.Clean(name)
	}

	rec := models.OrganizationRecord{
		RegistrationNumber: parent.RegistrationNumber,
		TaxID:              parent.TaxID,
		TaxCode:            kpp,
		FullName:           parent.FullName + ". " + suffix,
		ShortName:          nil,
		IsMain:             false,
	}

	addr, code, ok := b.resolvers.ResolveIn(branch, b.schema.UnifiedAddress, b.schema.LegacyAddress)
	if !ok {
		addr, code = MissingAddress, regions.UnknownCode
	}
	rec.Address, rec.RegionCode = addr, code
	return rec, true
}
