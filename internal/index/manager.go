// Package index manages per-corpus ANN vector indexes over materialized
// projections of the chunks table. Grounded on
// original_source/vectordb/src/index_manager.py and index_cleaner.py,
// unified here into a single Manager per spec.md §9's Open Question
// decision (recorded in DESIGN.md).
package index

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"time"

	"github.com/WillIsback/clea-api/internal/apperr"
	"github.com/WillIsback/clea-api/internal/model"
	"gorm.io/gorm"
)

// Manager owns the lifecycle of per-corpus ANN indexes.
type Manager struct {
	db *gorm.DB
}

// New builds a Manager over db.
func New(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// IndexResult summarizes a create or drop operation, per spec.md §4.6.
type IndexResult struct {
	IndexType        model.IndexType
	Lists            int
	DocumentsUpdated int
	ProjectionName   string
	IndexName        string
}

// Status reports a single corpus's index state, per spec.md §4.6.
type Status struct {
	CorpusID         string
	IndexExists      bool
	ConfigExists     bool
	IsIndexed        bool
	IndexType        model.IndexType
	LiveChunkCount   int
	ConfiguredCount  int
	LastIndexed      *time.Time
}

// CleanupReport summarizes a CleanOrphans pass, per spec.md §4.6.
type CleanupReport struct {
	Status           string
	DeletedCount     int
	CleanedCorpusIDs []string
	Errors           []string
	Timestamp        time.Time
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// projectionName and indexName derive names from corpus_id by replacing
// non-identifier characters with underscores, per spec.md:169's literal
// naming rule: "Projection: proj_<corpus_id_sanitized>; index:
// idx_vector_<corpus_id_sanitized>" — no hash suffix. A 36-char UUID
// corpus_id plus either prefix fits well under Postgres's 63-byte
// identifier limit.
func projectionName(corpusID string) string {
	return fmt.Sprintf("proj_%s", sanitize(corpusID))
}

func indexName(corpusID string) string {
	return fmt.Sprintf("idx_vector_%s", sanitize(corpusID))
}

func sanitize(corpusID string) string {
	s := unsafeNameChars.ReplaceAllString(corpusID, "_")
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

// advisoryLockKey hashes corpusID into a single int64 for
// pg_advisory_xact_lock, serializing create/drop per corpus_id within
// the current transaction without new infrastructure, per spec.md §5.
func advisoryLockKey(corpusID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(corpusID))
	return int64(h.Sum64())
}

// CreateSimpleIndex builds an IVFFLAT cosine-distance index over a
// materialized projection of corpusID's live chunks. Returns
// apperr.ErrIndexExists without side effects if one already exists.
func (m *Manager) CreateSimpleIndex(ctx context.Context, corpusID string) (IndexResult, error) {
	var result IndexResult
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryLockKey(corpusID)).Error; err != nil {
			return fmt.Errorf("%w: acquire lock: %v", apperr.ErrTransient, err)
		}

		var cfg model.IndexConfig
		err := tx.Where("corpus_id = ?", corpusID).First(&cfg).Error
		if err == nil && cfg.IsIndexed {
			return apperr.ErrIndexExists
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: load index config: %v", apperr.ErrTransient, err)
		}

		var n int64
		if err := tx.Table("chunks").
			Joins("JOIN documents ON documents.id = chunks.document_id").
			Where("documents.corpus_id = ? AND documents.deleted_at IS NULL", corpusID).
			Count(&n).Error; err != nil {
			return fmt.Errorf("%w: count chunks: %v", apperr.ErrTransient, err)
		}

		lists := int(math.Round(math.Sqrt(float64(n))))
		if lists < 1 {
			lists = 1
		}
		if lists > 1000 {
			lists = 1000
		}

		proj := projectionName(corpusID)
		idx := indexName(corpusID)

		if err := tx.Exec(fmt.Sprintf(`DROP MATERIALIZED VIEW IF EXISTS %s`, proj)).Error; err != nil {
			return fmt.Errorf("%w: drop stale projection: %v", apperr.ErrTransient, err)
		}
		createProj := fmt.Sprintf(`
			CREATE MATERIALIZED VIEW %s AS
			SELECT chunks.id AS chunk_id, chunks.embedding AS embedding
			FROM chunks
			JOIN documents ON documents.id = chunks.document_id
			WHERE documents.corpus_id = ? AND documents.deleted_at IS NULL
		`, proj)
		if err := tx.Exec(createProj, corpusID).Error; err != nil {
			return fmt.Errorf("%w: create projection: %v", apperr.ErrTransient, err)
		}

		createIdx := fmt.Sprintf(
			`CREATE INDEX %s ON %s USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d)`,
			idx, proj, lists,
		)
		if err := tx.Exec(createIdx).Error; err != nil {
			return fmt.Errorf("%w: create index: %v", apperr.ErrTransient, err)
		}

		tx.Exec(fmt.Sprintf("ANALYZE %s", proj))
		tx.Exec("ANALYZE chunks")
		tx.Exec("ANALYZE documents")

		updated := tx.Model(&model.Document{}).
			Where("corpus_id = ? AND index_needed = ?", corpusID, true).
			Update("index_needed", false)
		if updated.Error != nil {
			return fmt.Errorf("%w: clear index_needed: %v", apperr.ErrTransient, updated.Error)
		}

		now := time.Now()
		if err == gorm.ErrRecordNotFound {
			cfg = model.IndexConfig{CorpusID: corpusID}
		}
		cfg.IndexType = model.IndexTypeIVFFlat
		cfg.IsIndexed = true
		cfg.ChunkCount = int(n)
		cfg.IVFLists = lists
		cfg.LastIndexed = &now
		if err := tx.Save(&cfg).Error; err != nil {
			return fmt.Errorf("%w: save index config: %v", apperr.ErrTransient, err)
		}

		result = IndexResult{
			IndexType:        model.IndexTypeIVFFlat,
			Lists:            lists,
			DocumentsUpdated: int(updated.RowsAffected),
			ProjectionName:   proj,
			IndexName:        idx,
		}
		return nil
	})
	if err != nil {
		return IndexResult{}, err
	}
	return result, nil
}

// DropIndex removes corpusID's projection and index, if present.
// Returns apperr.ErrIndexMissing if none exist.
func (m *Manager) DropIndex(ctx context.Context, corpusID string) (IndexResult, error) {
	var result IndexResult
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryLockKey(corpusID)).Error; err != nil {
			return fmt.Errorf("%w: acquire lock: %v", apperr.ErrTransient, err)
		}

		var cfg model.IndexConfig
		err := tx.Where("corpus_id = ?", corpusID).First(&cfg).Error
		if err == gorm.ErrRecordNotFound || (err == nil && !cfg.IsIndexed) {
			return apperr.ErrIndexMissing
		}
		if err != nil {
			return fmt.Errorf("%w: load index config: %v", apperr.ErrTransient, err)
		}

		proj := projectionName(corpusID)
		idx := indexName(corpusID)
		if err := tx.Exec(fmt.Sprintf("DROP INDEX IF EXISTS %s", idx)).Error; err != nil {
			return fmt.Errorf("%w: drop index: %v", apperr.ErrTransient, err)
		}
		if err := tx.Exec(fmt.Sprintf("DROP MATERIALIZED VIEW IF EXISTS %s", proj)).Error; err != nil {
			return fmt.Errorf("%w: drop projection: %v", apperr.ErrTransient, err)
		}

		cfg.IsIndexed = false
		if err := tx.Save(&cfg).Error; err != nil {
			return fmt.Errorf("%w: save index config: %v", apperr.ErrTransient, err)
		}

		result = IndexResult{IndexType: cfg.IndexType, ProjectionName: proj, IndexName: idx}
		return nil
	})
	if err != nil {
		return IndexResult{}, err
	}
	return result, nil
}

// CheckStatus reports corpusID's index state.
func (m *Manager) CheckStatus(ctx context.Context, corpusID string) (Status, error) {
	status := Status{CorpusID: corpusID}

	var cfg model.IndexConfig
	err := m.db.WithContext(ctx).Where("corpus_id = ?", corpusID).First(&cfg).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return status, fmt.Errorf("%w: load index config: %v", apperr.ErrTransient, err)
	}
	if err == nil {
		status.ConfigExists = true
		status.IsIndexed = cfg.IsIndexed
		status.IndexType = cfg.IndexType
		status.ConfiguredCount = cfg.ChunkCount
		status.LastIndexed = cfg.LastIndexed
		status.IndexExists = cfg.IsIndexed
	}

	var live int64
	if err := m.db.WithContext(ctx).Table("chunks").
		Joins("JOIN documents ON documents.id = chunks.document_id").
		Where("documents.corpus_id = ? AND documents.deleted_at IS NULL", corpusID).
		Count(&live).Error; err != nil {
		return status, fmt.Errorf("%w: count live chunks: %v", apperr.ErrTransient, err)
	}
	status.LiveChunkCount = int(live)
	return status, nil
}

// CheckAll reports status for every corpus with at least one live
// document, per SPEC_FULL.md §10's supplemented behavior: it walks live
// documents rather than only the corpora index_configs already knows
// about, so freshly-ingested, not-yet-indexed corpora are reported too.
func (m *Manager) CheckAll(ctx context.Context) ([]Status, error) {
	var corpusIDs []string
	if err := m.db.WithContext(ctx).Model(&model.Document{}).
		Distinct("corpus_id").
		Where("deleted_at IS NULL").
		Pluck("corpus_id", &corpusIDs).Error; err != nil {
		return nil, fmt.Errorf("%w: list corpora: %v", apperr.ErrTransient, err)
	}

	statuses := make([]Status, 0, len(corpusIDs))
	for _, id := range corpusIDs {
		st, err := m.CheckStatus(ctx, id)
		if err != nil {
			return statuses, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// CleanOrphans drops IndexConfigs (and their projection/index) whose
// corpus_id has no remaining live documents. Partial failures are
// collected rather than aborting the whole sweep.
func (m *Manager) CleanOrphans(ctx context.Context) (CleanupReport, error) {
	report := CleanupReport{Status: "success", Timestamp: time.Now()}

	var configs []model.IndexConfig
	if err := m.db.WithContext(ctx).Find(&configs).Error; err != nil {
		return report, fmt.Errorf("%w: list index configs: %v", apperr.ErrTransient, err)
	}

	for _, cfg := range configs {
		var live int64
		if err := m.db.WithContext(ctx).Model(&model.Document{}).
			Where("corpus_id = ? AND deleted_at IS NULL", cfg.CorpusID).
			Count(&live).Error; err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", cfg.CorpusID, err))
			continue
		}
		if live > 0 {
			continue
		}

		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", advisoryLockKey(cfg.CorpusID)).Error; err != nil {
				return err
			}
			proj := projectionName(cfg.CorpusID)
			idx := indexName(cfg.CorpusID)
			tx.Exec(fmt.Sprintf("DROP INDEX IF EXISTS %s", idx))
			tx.Exec(fmt.Sprintf("DROP MATERIALIZED VIEW IF EXISTS %s", proj))
			return tx.Delete(&cfg).Error
		})
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", cfg.CorpusID, err))
			continue
		}
		report.DeletedCount++
		report.CleanedCorpusIDs = append(report.CleanedCorpusIDs, cfg.CorpusID)
	}

	if report.DeletedCount > 0 {
		m.db.WithContext(ctx).Exec("ANALYZE index_configs")
	}

	if len(report.Errors) > 0 {
		report.Status = "partial_success"
	}
	return report, nil
}
