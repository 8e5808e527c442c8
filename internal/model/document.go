package model

import "time"

// Document is the metadata-only record owning a corpus-scoped forest of
// Chunks. Mirrors rag/internal/model.Document's field shape, adapted to
// the flat theme/document_type/publish_date/corpus_id schema of
// SPEC_FULL.md §3.
type Document struct {
	BaseModel
	Title        string    `gorm:"size:255;not null" json:"title"`
	Theme        string    `gorm:"size:100;index:idx_document_theme" json:"theme"`
	DocumentType string    `gorm:"size:100;index:idx_document_type" json:"document_type"`
	PublishDate  time.Time `gorm:"type:date;index:idx_document_date" json:"publish_date"`
	CorpusID     string    `gorm:"size:36;index:idx_document_corpus" json:"corpus_id"`
	IndexNeeded  bool      `gorm:"default:false" json:"index_needed"`

	Chunks []Chunk `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"chunks,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}
