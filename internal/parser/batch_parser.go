package parser

import (
	"context"

	"github.com/beevik/etree"
	"github.com/egrul-parser/app/models"
	"github.com/egrul-parser/internal/regions"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Options configures a BatchParser.
type Options struct {
	Schema          Schema
	Regions         *regions.Directory
	LegacyTrimMax   int
	UnifiedTrimMax  int
	ShortNameMinLen int
}

// DefaultOptions returns the EGRUL schema with the stock thresholds.
func DefaultOptions() Options {
	return Options{
		Schema:          DefaultSchema(),
		Regions:         regions.Default(),
		LegacyTrimMax:   2,
		UnifiedTrimMax:  3,
		ShortNameMinLen: 4,
	}
}

// BatchResult is the output of one pass over a set of documents.
type BatchResult struct {
	Records        []models.OrganizationRecord
	RetractionKeys []string
	// Entities lists the registration number of every entity element that
	// set the current state of an organization, liquidated ones included,
	// in first-seen order. MergeResults uses it to let later shards
	// supersede earlier ones.
	Entities []string
	Stats    Stats
}

// BatchParser reads registry documents and extracts organization records.
// A BatchParser is not safe for concurrent use; give each worker its own.
type BatchParser struct {
	schema    Schema
	regions   *regions.Directory
	extractor *EntityExtractor
	logger    *zap.Logger

	document string
	acc      *accumulator
}

// NewBatchParser builds a parser with its own resolvers and extractor.
func NewBatchParser(opts Options, logger *zap.Logger) *BatchParser {
	if opts.Regions == nil {
		opts.Regions = regions.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BatchParser{
		schema:  opts.Schema,
		regions: opts.Regions,
		logger:  logger,
	}
	resolvers := NewResolvers(opts.Schema, ResolverOptions{
		Regions:        opts.Regions,
		LegacyTrimMax:  opts.LegacyTrimMax,
		UnifiedTrimMax: opts.UnifiedTrimMax,
		OnRegionMiss:   bp.reportRegionMiss,
	})
	bp.extractor = NewEntityExtractor(opts.Schema, resolvers, ExtractorOptions{
		ShortNameMinLen: opts.ShortNameMinLen,
	})
	return bp
}

// Parse runs one pass over docs. In retract mode the registration number of
// every identified entity, liquidated or not, is collected. When an
// organization appears more than once, the last element read wins: its
// records replace the earlier ones, and a liquidated element removes them.
// A document that cannot be read or decoded aborts the pass with a
// *DocumentError.
func (bp *BatchParser) Parse(ctx context.Context, docs []Document, retract bool) (*BatchResult, error) {
	acc := newAccumulator(retract)
	bp.acc = acc
	defer func() { bp.acc = nil }()

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := bp.parseDocument(ctx, doc, acc); err != nil {
			return nil, err
		}
		acc.stats.DocumentsProcessed++
	}

	res := acc.result()
	bp.logger.Debug("Batch parsed",
		zap.Int("documents", res.Stats.DocumentsProcessed),
		zap.Int("records", res.Stats.RecordsEmitted),
		zap.Int("retraction_keys", len(res.RetractionKeys)))
	return res, nil
}

func (bp *BatchParser) parseDocument(ctx context.Context, doc Document, acc *accumulator) error {
	bp.document = doc.Name()

	rc, err := doc.Open()
	if err != nil {
		return &DocumentError{Document: doc.Name(), Err: err}
	}
	defer rc.Close()

	tree := etree.NewDocument()
	tree.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := tree.ReadFrom(rc); err != nil {
		return &DocumentError{Document: doc.Name(), Err: err}
	}

	root := tree.Root()
	if root == nil {
		return &DocumentError{Document: doc.Name(), Err: ErrNoRootElement}
	}

	// only direct children of the root are entities
	entities := root.SelectElements(bp.schema.Entity.Tag)
	for index, entity := range entities {
		if err := ctx.Err(); err != nil {
			return err
		}
		bp.handleEntity(entity, index, acc)
	}

	bp.logger.Debug("Document parsed",
		zap.String("document", doc.Name()),
		zap.Int("entities", len(entities)))
	return nil
}

func (bp *BatchParser) handleEntity(entity *etree.Element, index int, acc *accumulator) {
	acc.stats.EntitiesSeen++

	ogrn, identified := bp.extractor.RegistrationNumber(entity)
	if acc.retract && identified {
		acc.addKey(ogrn)
	}

	if bp.extractor.IsLiquidated(entity) {
		acc.stats.LiquidatedSkipped++
		if identified {
			acc.replace(ogrn, nil)
		}
		return
	}

	records, err := bp.extractor.Extract(entity)
	if err != nil {
		acc.stats.EntitiesFailed++
		bp.logger.Warn("Skipping entity",
			zap.String("document", bp.document),
			zap.Int("entity_index", index),
			zap.Error(&EntityError{Index: index, Err: err}))
		return
	}
	acc.replace(ogrn, records)
}

// reportRegionMiss counts region names built from raw XML that are not
// official directory names. A name with no directory entry at least
// regions.MinSimilarity alike is also counted as unresolved. It only runs
// inside Parse.
func (bp *BatchParser) reportRegionMiss(code, name string) {
	if bp.acc == nil || bp.regions.IsOfficial(name) {
		return
	}
	stats := &bp.acc.stats
	stats.RegionsNonCanonical++

	fields := []zap.Field{
		zap.String("document", bp.document),
		zap.String("region_code", code),
		zap.String("region_name", name),
	}
	m, ok := bp.regions.Nearest(name)
	if ok {
		fields = append(fields,
			zap.String("nearest_code", m.Code),
			zap.String("nearest_name", m.Name),
			zap.Float64("similarity", m.Score))
	}
	if !ok || m.Score < regions.MinSimilarity {
		stats.RegionsUnresolved++
		bp.logger.Warn("Region name matches no directory entry", fields...)
		return
	}
	bp.logger.Debug("Region name not in directory", fields...)
}

// accumulator keeps the current records of every organization seen so far,
// grouped by registration number in first-seen order.
type accumulator struct {
	retract  bool
	order    []string
	current  map[string][]models.OrganizationRecord
	keys     []string
	seenKeys map[string]struct{}
	stats    Stats
}

func newAccumulator(retract bool) *accumulator {
	return &accumulator{
		retract:  retract,
		current:  make(map[string][]models.OrganizationRecord),
		seenKeys: make(map[string]struct{}),
	}
}

// replace makes records the current state of ogrn. Records of an earlier
// element are dropped and the group keeps its original position. A nil
// slice removes the organization from the output.
func (a *accumulator) replace(ogrn string, records []models.OrganizationRecord) {
	prev, seen := a.current[ogrn]
	if !seen {
		a.order = append(a.order, ogrn)
	}
	a.stats.DuplicatesDropped += len(prev)
	a.current[ogrn] = records
}

func (a *accumulator) addKey(ogrn string) {
	if _, dup := a.seenKeys[ogrn]; dup {
		return
	}
	a.seenKeys[ogrn] = struct{}{}
	a.keys = append(a.keys, ogrn)
}

func (a *accumulator) result() *BatchResult {
	var records []models.OrganizationRecord
	for _, ogrn := range a.order {
		records = append(records, a.current[ogrn]...)
	}
	stats := a.stats
	stats.RecordsEmitted = len(records)
	return &BatchResult{
		Records:        records,
		RetractionKeys: a.keys,
		Entities:       a.order,
		Stats:          stats,
	}
}

// MergeResults combines shard results in order. An organization present in
// several shards keeps the records of the last one, and is removed when
// that shard saw it liquidated.
func MergeResults(results ...*BatchResult) *BatchResult {
	acc := newAccumulator(true)
	var stats Stats
	for _, r := range results {
		if r == nil {
			continue
		}
		stats.Merge(r.Stats)

		grouped := make(map[string][]models.OrganizationRecord, len(r.Entities))
		for _, rec := range r.Records {
			grouped[rec.RegistrationNumber] = append(grouped[rec.RegistrationNumber], rec)
		}
		for _, ogrn := range r.Entities {
			acc.replace(ogrn, grouped[ogrn])
		}
		for _, k := range r.RetractionKeys {
			acc.addKey(k)
		}
	}

	out := acc.result()
	// cross-shard replacements on top of the per-shard ones
	stats.DuplicatesDropped += acc.stats.DuplicatesDropped
	stats.RecordsEmitted = out.Stats.RecordsEmitted
	out.Stats = stats
	return out
}
