package requests

import "github.com/egrul-parser/app/models"

// IngestRequest starts an ingest run over a directory of registry documents.
type IngestRequest struct {
	// Dir is searched recursively for .xml files.
	Dir string `json:"dir" binding:"required"`
	// Mode fill replaces everything, update replaces the entities in the batch.
	Mode models.IngestMode `json:"mode" binding:"required,oneof=fill update"`
	// Workers is the number of parallel shards; 0 uses the configured default.
	Workers int `json:"workers,omitempty" binding:"omitempty,min=1"`
}

// ReindexRequest rebuilds the search index from storage.
type ReindexRequest struct {
	BatchSize int `json:"batch_size,omitempty" binding:"omitempty,min=1,max=100000"`
}
