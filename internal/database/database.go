// Package database wires Cléa-API's GORM connection and schema migration,
// mirroring rag/internal/database/database.go.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/WillIsback/clea-api/internal/config"
	"github.com/WillIsback/clea-api/internal/model"
)

// Connect opens a GORM connection against cfg.DatabaseURL, using Info-level
// SQL logging in development and Warn-level otherwise.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return db, nil
}

// Migrate enables the pgvector extension and brings the schema up to date.
// GORM's AutoMigrate handles the struct-tagged columns and indexes,
// including the composite (document_id, hierarchy_level) index from
// spec.md §6 that Chunk's tags declare as idx_chunk_doc_level; the
// explicit statement below also creates idx_chunk_document_level over
// the same two columns.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
		return fmt.Errorf("enable pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Document{},
		&model.Chunk{},
		&model.IndexConfig{},
		&model.SearchQuery{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if err := db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_chunk_document_level ON chunks (document_id, hierarchy_level)`,
	).Error; err != nil {
		return fmt.Errorf("create composite chunk index: %w", err)
	}

	return nil
}
