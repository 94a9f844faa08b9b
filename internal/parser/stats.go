package parser

import "github.com/egrul-parser/app/models"

// Stats counts what a batch pass saw. Stats from independent shards add up,
// except RecordsEmitted which MergeResults recomputes.
type Stats struct {
	DocumentsProcessed int `json:"documents_processed"`
	EntitiesSeen       int `json:"entities_seen"`
	RecordsEmitted     int `json:"records_emitted"`
	LiquidatedSkipped  int `json:"liquidated_skipped"`
	EntitiesFailed     int `json:"entities_failed"`
	// Records replaced or removed by a later element of the same organization.
	DuplicatesDropped int `json:"duplicates_dropped"`
	// Legacy region names rebuilt from raw XML that are not directory names.
	RegionsNonCanonical int `json:"regions_non_canonical"`
	// The subset of RegionsNonCanonical with no close directory entry.
	RegionsUnresolved int `json:"regions_unresolved"`
}

// Merge adds o into s.
func (s *Stats) Merge(o Stats) {
	s.DocumentsProcessed += o.DocumentsProcessed
	s.EntitiesSeen += o.EntitiesSeen
	s.RecordsEmitted += o.RecordsEmitted
	s.LiquidatedSkipped += o.LiquidatedSkipped
	s.EntitiesFailed += o.EntitiesFailed
	s.DuplicatesDropped += o.DuplicatesDropped
	s.RegionsNonCanonical += o.RegionsNonCanonical
	s.RegionsUnresolved += o.RegionsUnresolved
}

// LabeledCount is one counter with a human readable label.
type LabeledCount struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Labeled lists the counters in report order.
func (s Stats) Labeled() []LabeledCount {
	return []LabeledCount{
		{"Files processed", s.DocumentsProcessed},
		{"Entities seen", s.EntitiesSeen},
		{"Records emitted", s.RecordsEmitted},
		{"Liquidated entities skipped", s.LiquidatedSkipped},
		{"Entities failed", s.EntitiesFailed},
		{"Duplicate records dropped", s.DuplicatesDropped},
		{"Non-canonical region names", s.RegionsNonCanonical},
		{"Unresolved region names", s.RegionsUnresolved},
	}
}

// ToModel converts the counters for job tracking.
func (s Stats) ToModel() models.IngestStats {
	return models.IngestStats{
		DocumentsProcessed:  s.DocumentsProcessed,
		EntitiesSeen:        s.EntitiesSeen,
		RecordsEmitted:      s.RecordsEmitted,
		LiquidatedSkipped:   s.LiquidatedSkipped,
		EntitiesFailed:      s.EntitiesFailed,
		DuplicatesDropped:   s.DuplicatesDropped,
		RegionsNonCanonical: s.RegionsNonCanonical,
		RegionsUnresolved:   s.RegionsUnresolved,
	}
}
