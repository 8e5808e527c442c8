// Package store implements Cléa-API's transactional persistence layer:
// documents, their hierarchical chunks, index configuration bookkeeping,
// and the search audit log. Grounded on
// rag/internal/repository/document_repo.go's plain *gorm.DB wrapper
// shape and original_source/vectordb/src/crud.py's batch/embed/resolve
// algorithm.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/WillIsback/clea-api/internal/apperr"
	"github.com/WillIsback/clea-api/internal/embedding"
	"github.com/WillIsback/clea-api/internal/model"
	"github.com/WillIsback/clea-api/internal/segment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// hnswMigrationThreshold is the chunk_count above which an ivfflat corpus
// should consider migrating to HNSW, per crud.py:124-129.
const hnswMigrationThreshold = 300_000

// Store wraps the database handle for document/chunk persistence.
type Store struct {
	db               *gorm.DB
	logSearchQueries bool
}

// New builds a Store over db. logSearchQueries gates LogSearch, per
// spec.md §6's LOG_SEARCH_QUERIES toggle.
func New(db *gorm.DB, logSearchQueries bool) *Store {
	return &Store{db: db, logSearchQueries: logSearchQueries}
}

// Ping verifies the underlying database connection is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrTransient, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrTransient, err)
	}
	return nil
}

// IngestResult summarizes a completed ingest, per spec.md §4.5.
type IngestResult struct {
	DocumentID  uuid.UUID
	ChunkCount  int
	CorpusID    string
	IndexNeeded bool
}

// DocumentPatch carries the metadata fields UpdateDocument should apply;
// a nil field leaves the corresponding column untouched.
type DocumentPatch struct {
	DocumentID   uuid.UUID
	Title        *string
	Theme        *string
	DocumentType *string
	PublishDate  *time.Time
	CorpusID     *string
}

// CandidateRow is one row returned by FetchCandidates: a chunk joined
// with its owning document's searchable metadata.
type CandidateRow struct {
	ChunkID        uuid.UUID
	DocumentID     uuid.UUID
	Content        string
	Title          string
	Theme          string
	DocumentType   string
	PublishDate    time.Time
	HierarchyLevel int
	Distance       float64
}

// ParentChain is up to three ancestors of a chunk, one per level below
// the chunk's own, per spec.md §4.5's fetch_parent_chain.
type ParentChain struct {
	Level0 *model.Chunk
	Level1 *model.Chunk
	Level2 *model.Chunk
}

const defaultBatchSize = 10

// clampChunkContent enforces model.MaxChunkContentLength at the store
// boundary (SPEC_FULL.md §3), truncating whatever the segmenter produced
// that still exceeds it and shrinking EndChar to match.
func clampChunkContent(r segment.ChunkRecord) segment.ChunkRecord {
	runes := []rune(r.Content)
	if len(runes) <= model.MaxChunkContentLength {
		return r
	}
	r.Content = string(runes[:model.MaxChunkContentLength])
	r.EndChar = r.StartChar + model.MaxChunkContentLength
	return r
}

// AddDocumentWithChunks creates a document and persists every chunk
// drained from chunks, embedding them in batches of batchSize. The whole
// operation is all-or-nothing: any failure rolls back the document.
func (s *Store) AddDocumentWithChunks(ctx context.Context, meta model.Document, chunks <-chan segment.ChunkRecord, embedder embedding.Embedder, batchSize int) (IngestResult, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if meta.CorpusID == "" {
		meta.CorpusID = uuid.New().String()
	}

	var result IngestResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc := meta
		doc.Chunks = nil
		doc.IndexNeeded = true
		if err := tx.Create(&doc).Error; err != nil {
			return fmt.Errorf("%w: create document: %v", apperr.ErrIntegrityViolation, err)
		}

		indices := map[int]uuid.UUID{-1: uuid.Nil}
		total := 0
		batch := make([]segment.ChunkRecord, 0, batchSize)
		positions := make([]int, 0, batchSize)
		position := 0

		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			texts := make([]string, len(batch))
			for i, r := range batch {
				texts[i] = r.Content
			}
			vectors, err := embedder.EmbedBatch(ctx, texts)
			if err != nil {
				return err
			}
			for i, r := range batch {
				id := uuid.New()
				parentID := indices[r.ParentIndex]
				var parentPtr *uuid.UUID
				if parentID != uuid.Nil {
					parentPtr = &parentID
				}
				vec := vectors[i]
				c := model.Chunk{
					BaseModel:      model.BaseModel{ID: id},
					DocumentID:     doc.ID,
					Content:        r.Content,
					Embedding:      &vec,
					StartChar:      r.StartChar,
					EndChar:        r.EndChar,
					HierarchyLevel: r.HierarchyLevel,
					ParentChunkID:  parentPtr,
				}
				if err := tx.Create(&c).Error; err != nil {
					return fmt.Errorf("%w: create chunk: %v", apperr.ErrIntegrityViolation, err)
				}
				indices[positions[i]] = id
				total++
			}
			batch = batch[:0]
			positions = positions[:0]
			return nil
		}

		for rec := range chunks {
			rec = clampChunkContent(rec)
			batch = append(batch, rec)
			positions = append(positions, position)
			position++
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := flush(); err != nil {
			return err
		}

		if err := upsertIndexConfig(tx, doc.CorpusID, total); err != nil {
			return err
		}

		result = IngestResult{DocumentID: doc.ID, ChunkCount: total, CorpusID: doc.CorpusID, IndexNeeded: true}
		return nil
	})
	if err != nil {
		return IngestResult{}, err
	}
	return result, nil
}

// upsertIndexConfig increments chunk_count for corpusID, creating the
// IndexConfig row if it doesn't exist yet, and marks it as needing a
// rebuild.
func upsertIndexConfig(tx *gorm.DB, corpusID string, delta int) error {
	var cfg model.IndexConfig
	err := tx.Where("corpus_id = ?", corpusID).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		cfg = model.IndexConfig{
			CorpusID:   corpusID,
			IndexType:  model.IndexTypeIVFFlat,
			ChunkCount: delta,
		}
		return tx.Create(&cfg).Error
	}
	if err != nil {
		return fmt.Errorf("%w: load index config: %v", apperr.ErrTransient, err)
	}
	newCount := cfg.ChunkCount + delta
	if err := tx.Model(&cfg).Updates(map[string]any{
		"chunk_count": newCount,
		"is_indexed":  false,
	}).Error; err != nil {
		return err
	}
	if newCount > hnswMigrationThreshold && cfg.IndexType == model.IndexTypeIVFFlat {
		slog.Warn("corpus chunk count exceeds ivfflat threshold, consider migrating to HNSW",
			"corpus_id", corpusID, "chunk_count", newCount)
	}
	return nil
}

// UpdateDocument applies patch's present fields and appends any new
// chunks, embedding them; corpus moves adjust both IndexConfigs.
func (s *Store) UpdateDocument(ctx context.Context, patch DocumentPatch, newChunks <-chan segment.ChunkRecord, embedder embedding.Embedder) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.Document
		if err := tx.First(&doc, "id = ?", patch.DocumentID).Error; err != nil {
			return translateLookupErr(err)
		}

		updates := map[string]any{}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Theme != nil {
			updates["theme"] = *patch.Theme
		}
		if patch.DocumentType != nil {
			updates["document_type"] = *patch.DocumentType
		}
		if patch.PublishDate != nil {
			updates["publish_date"] = *patch.PublishDate
		}
		oldCorpus := doc.CorpusID
		newCorpus := oldCorpus
		if patch.CorpusID != nil && *patch.CorpusID != oldCorpus {
			newCorpus = *patch.CorpusID
			updates["corpus_id"] = newCorpus
		}
		if len(updates) > 0 {
			if err := tx.Model(&doc).Updates(updates).Error; err != nil {
				return fmt.Errorf("%w: update document: %v", apperr.ErrIntegrityViolation, err)
			}
		}

		added := 0
		if newChunks != nil {
			indices := map[int]uuid.UUID{-1: uuid.Nil}
			position := 0
			for rec := range newChunks {
				rec = clampChunkContent(rec)
				vectors, err := embedder.EmbedBatch(ctx, []string{rec.Content})
				if err != nil {
					return err
				}
				id := uuid.New()
				parentID := indices[rec.ParentIndex]
				var parentPtr *uuid.UUID
				if parentID != uuid.Nil {
					parentPtr = &parentID
				}
				vec := vectors[0]
				c := model.Chunk{
					BaseModel:      model.BaseModel{ID: id},
					DocumentID:     doc.ID,
					Content:        rec.Content,
					Embedding:      &vec,
					StartChar:      rec.StartChar,
					EndChar:        rec.EndChar,
					HierarchyLevel: rec.HierarchyLevel,
					ParentChunkID:  parentPtr,
				}
				if err := tx.Create(&c).Error; err != nil {
					return fmt.Errorf("%w: create chunk: %v", apperr.ErrIntegrityViolation, err)
				}
				indices[position] = id
				position++
				added++
			}
		}

		if newCorpus != oldCorpus {
			var docChunks int64
			tx.Model(&model.Chunk{}).Where("document_id = ?", doc.ID).Count(&docChunks)
			if err := upsertIndexConfig(tx, oldCorpus, -int(docChunks)); err != nil {
				return err
			}
			if err := upsertIndexConfig(tx, newCorpus, int(docChunks)); err != nil {
				return err
			}
			if err := tx.Model(&doc).Update("index_needed", true).Error; err != nil {
				return fmt.Errorf("%w: mark index needed: %v", apperr.ErrIntegrityViolation, err)
			}
		} else if added > 0 {
			if err := upsertIndexConfig(tx, newCorpus, added); err != nil {
				return err
			}
			if err := tx.Model(&doc).Update("index_needed", true).Error; err != nil {
				return fmt.Errorf("%w: mark index needed: %v", apperr.ErrIntegrityViolation, err)
			}
		}
		return nil
	})
}

// DeleteChunks deletes the listed chunks (or every chunk of the
// document when chunkIDs is empty) and adjusts the owning IndexConfig.
func (s *Store) DeleteChunks(ctx context.Context, documentID uuid.UUID, chunkIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.Document
		if err := tx.First(&doc, "id = ?", documentID).Error; err != nil {
			return translateLookupErr(err)
		}

		query := tx.Where("document_id = ?", documentID)
		if len(chunkIDs) > 0 {
			query = query.Where("id IN ?", chunkIDs)
		}
		var toDelete []model.Chunk
		if err := query.Find(&toDelete).Error; err != nil {
			return fmt.Errorf("%w: list chunks: %v", apperr.ErrTransient, err)
		}
		if len(toDelete) == 0 {
			return nil
		}
		if err := query.Delete(&model.Chunk{}).Error; err != nil {
			return fmt.Errorf("%w: delete chunks: %v", apperr.ErrIntegrityViolation, err)
		}
		return upsertIndexConfig(tx, doc.CorpusID, -len(toDelete))
	})
}

// DeleteDocument cascades chunk deletion and adjusts the IndexConfig.
func (s *Store) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc model.Document
		if err := tx.First(&doc, "id = ?", documentID).Error; err != nil {
			return translateLookupErr(err)
		}

		var count int64
		tx.Model(&model.Chunk{}).Where("document_id = ?", documentID).Count(&count)

		if err := tx.Where("document_id = ?", documentID).Delete(&model.Chunk{}).Error; err != nil {
			return fmt.Errorf("%w: delete chunks: %v", apperr.ErrIntegrityViolation, err)
		}
		if err := tx.Delete(&doc).Error; err != nil {
			return fmt.Errorf("%w: delete document: %v", apperr.ErrIntegrityViolation, err)
		}
		return upsertIndexConfig(tx, doc.CorpusID, -int(count))
	})
}

// FetchCandidates executes SearchEngine's parameterized SQL within a
// read-only transaction and returns the matching rows.
func (s *Store) FetchCandidates(ctx context.Context, sql string, args ...any) ([]CandidateRow, error) {
	var rows []CandidateRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET TRANSACTION READ ONLY").Error; err != nil {
			return err
		}
		return tx.Raw(sql, args...).Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch candidates: %v", apperr.ErrTransient, err)
	}
	return rows, nil
}

// FetchParentChain walks chunkID's parent pointer up to three levels,
// returning nil for any level that has no ancestor.
func (s *Store) FetchParentChain(ctx context.Context, chunkID uuid.UUID) (ParentChain, error) {
	var chain ParentChain
	var current model.Chunk
	if err := s.db.WithContext(ctx).First(&current, "id = ?", chunkID).Error; err != nil {
		return chain, translateLookupErr(err)
	}

	for current.ParentChunkID != nil {
		var parent model.Chunk
		if err := s.db.WithContext(ctx).First(&parent, "id = ?", *current.ParentChunkID).Error; err != nil {
			break
		}
		switch parent.HierarchyLevel {
		case 0:
			chain.Level0 = &parent
		case 1:
			chain.Level1 = &parent
		case 2:
			chain.Level2 = &parent
		}
		current = parent
	}
	return chain, nil
}

// LogSearch best-effort inserts a search audit record; failures are
// swallowed, never propagated to the caller.
func (s *Store) LogSearch(ctx context.Context, rec model.SearchQuery) {
	if !s.logSearchQueries {
		return
	}
	_ = s.db.WithContext(ctx).Create(&rec).Error
}

func translateLookupErr(err error) error {
	if err == gorm.ErrRecordNotFound {
		return apperr.ErrNotFound
	}
	return fmt.Errorf("%w: %v", apperr.ErrTransient, err)
}
