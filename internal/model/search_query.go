package model

import (
	"time"

	"github.com/google/uuid"
)

// SearchQuery is an append-only audit record for hybrid_search calls
// (spec.md §3). It carries no referential constraints to chunks or
// documents so it survives their deletion.
type SearchQuery struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	QueryText       string     `gorm:"type:text;not null" json:"query_text"`
	Theme           string     `gorm:"size:100" json:"theme,omitempty"`
	DocumentType    string     `gorm:"size:100" json:"document_type,omitempty"`
	CorpusID        string     `gorm:"size:36" json:"corpus_id,omitempty"`
	ResultsCount    int        `gorm:"not null;default:0" json:"results_count"`
	ConfidenceLevel float64    `gorm:"not null;default:0" json:"confidence_level"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UserID          *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
}

func (SearchQuery) TableName() string {
	return "search_queries"
}
