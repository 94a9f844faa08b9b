package models

import "time"

// IngestMode selects how a batch replaces stored records.
type IngestMode string

const (
	// ModeFill truncates storage and loads the full registry.
	ModeFill IngestMode = "fill"
	// ModeUpdate deletes every record of the entities in the batch, then inserts.
	ModeUpdate IngestMode = "update"
)

// Valid reports whether m is a known mode.
func (m IngestMode) Valid() bool {
	return m == ModeFill || m == ModeUpdate
}

// Retract reports whether the mode collects retraction keys.
func (m IngestMode) Retract() bool {
	return m == ModeUpdate
}

// Job status values
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// IngestStats mirrors the batch parser counters in a storage-friendly shape.
type IngestStats struct {
	DocumentsProcessed  int   `json:"documents_processed" bson:"documents_processed"`
	EntitiesSeen        int   `json:"entities_seen" bson:"entities_seen"`
	RecordsEmitted      int   `json:"records_emitted" bson:"records_emitted"`
	LiquidatedSkipped   int   `json:"liquidated_skipped" bson:"liquidated_skipped"`
	EntitiesFailed      int   `json:"entities_failed" bson:"entities_failed"`
	DuplicatesDropped   int   `json:"duplicates_dropped" bson:"duplicates_dropped"`
	RegionsNonCanonical int   `json:"regions_non_canonical" bson:"regions_non_canonical"`
	RegionsUnresolved   int   `json:"regions_unresolved" bson:"regions_unresolved"`
	RecordsDeleted      int64 `json:"records_deleted" bson:"records_deleted"`
	RecordsInserted     int64 `json:"records_inserted" bson:"records_inserted"`
}

// IngestJob tracks one background ingest run.
type IngestJob struct {
	ID         string      `json:"job_id"`
	Status     string      `json:"status"`
	Mode       IngestMode  `json:"mode"`
	Dir        string      `json:"dir"`
	Workers    int         `json:"workers"`
	Shards     int         `json:"shards"`
	Documents  int         `json:"documents"`
	Stats      IngestStats `json:"stats"`
	Message    string      `json:"message,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}
