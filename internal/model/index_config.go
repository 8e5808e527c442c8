package model

import "time"

// IndexType enumerates the ANN index families Cléa-API knows how to build.
type IndexType string

const (
	IndexTypeIVFFlat IndexType = "ivfflat"
	IndexTypeHNSW    IndexType = "hnsw"
)

// IndexConfig is the per-corpus ANN index lifecycle record (spec.md §3).
// At most one row exists per CorpusID.
type IndexConfig struct {
	BaseModel
	CorpusID           string    `gorm:"size:36;uniqueIndex" json:"corpus_id"`
	IndexType          IndexType `gorm:"size:20;default:'ivfflat'" json:"index_type"`
	IsIndexed          bool      `gorm:"default:false" json:"is_indexed"`
	ChunkCount         int       `gorm:"default:0" json:"chunk_count"`
	LastIndexed         *time.Time `json:"last_indexed,omitempty"`
	IVFLists           int       `gorm:"default:0" json:"ivf_lists"`
	HNSWM              int       `gorm:"default:16" json:"hnsw_m"`
	HNSWEFConstruction int       `gorm:"default:64" json:"hnsw_ef_construction"`
}

func (IndexConfig) TableName() string {
	return "index_configs"
}
