package model

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDims is the fixed dense-vector dimensionality Cléa-API stores
// and searches over (spec.md §3).
const EmbeddingDims = 768

// MaxChunkContentLength is the largest content a single chunk may carry
// (spec.md §3: "length <= 8,000 chars").
const MaxChunkContentLength = 8000

// Chunk is the indexed unit of retrieval: a span of a document's text,
// positioned in a 4-level hierarchy (0..3), with an optional dense
// embedding. Mirrors rag/internal/model.Document's pgvector column
// convention (embedding vector(N)).
type Chunk struct {
	BaseModel
	DocumentID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_chunk_doc_level,priority:1" json:"document_id"`
	Content         string           `gorm:"type:text;not null" json:"content"`
	Embedding       *pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	StartChar       int              `gorm:"not null" json:"start_char"`
	EndChar         int              `gorm:"not null" json:"end_char"`
	HierarchyLevel  int              `gorm:"not null;index:idx_chunk_doc_level,priority:2" json:"hierarchy_level"`
	ParentChunkID   *uuid.UUID       `gorm:"type:uuid;index:idx_chunk_parent" json:"parent_chunk_id,omitempty"`

	Document *Document `gorm:"foreignKey:DocumentID" json:"-"`
	Parent   *Chunk    `gorm:"foreignKey:ParentChunkID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Chunk) TableName() string {
	return "chunks"
}
