package documentctrl

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
)

// DocumentService persists embedded chunk rows in the documents table and
// answers nearest-neighbor queries against the pgvector index.
type DocumentService struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewDocumentService(db *gorm.DB) (*DocumentService, error) {
	// Initialize snowflake node
	node, err := snowflake.NewNode(1) // Node number 1 for documents
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	return &DocumentService{
		db:        db,
		snowflake: node,
	}, nil
}

// EnsureSchema provisions the vector extension, the documents table and the
// cosine index. Safe to call on every startup.
func (s *DocumentService) EnsureSchema(ctx context.Context, dimension int) error {
	db := s.db.WithContext(ctx)

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS documents (
			id BIGINT PRIMARY KEY,
			source TEXT NOT NULL,
			url TEXT,
			title TEXT,
			article TEXT,
			date_published TEXT,
			chunk_id TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, dimension)
	if err := db.Exec(createTable).Error; err != nil {
		return fmt.Errorf("failed to create documents table: %v", err)
	}

	createIndex := `
		CREATE INDEX IF NOT EXISTS documents_embedding_idx
		ON documents USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`
	if err := db.Exec(createIndex).Error; err != nil {
		return fmt.Errorf("failed to create embedding index: %v", err)
	}

	return nil
}

// InsertBatch inserts all records in one transaction. Any failed insert
// rolls the whole batch back.
func (s *DocumentService) InsertBatch(ctx context.Context, records []knowledge.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range records {
			result := tx.Exec(`
				INSERT INTO documents (id, source, url, title, article, date_published, chunk_id, content, embedding)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?::vector)`,
				s.snowflake.Generate().Int64(),
				r.Source,
				nullable(r.URL),
				nullable(r.Title),
				nullable(r.Article),
				nullable(r.DatePublished),
				r.ChunkID,
				r.Content,
				VectorLiteral(r.Embedding),
			)
			if result.Error != nil {
				return fmt.Errorf("failed to insert chunk %s: %v", r.ChunkID, result.Error)
			}
		}
		return nil
	})
}

// documentRow scans one search result with its nullable columns.
type documentRow struct {
	ID            int64
	Source        string
	URL           sql.NullString
	Title         sql.NullString
	Article       sql.NullString
	DatePublished sql.NullString
	ChunkID       string
	Content       string
	Score         float64
}

// NearestNeighbors returns the k rows closest to embedding by cosine
// distance, each with score = 1 - distance.
func (s *DocumentService) NearestNeighbors(ctx context.Context, embedding []float32, k int) ([]knowledge.QueryResult, error) {
	literal := VectorLiteral(embedding)

	var rows []documentRow
	result := s.db.WithContext(ctx).Raw(`
		SELECT id, source, url, title, article, date_published, chunk_id, content,
		       1 - (embedding <=> ?::vector) AS score
		  FROM documents
		 ORDER BY embedding <-> ?::vector
		 LIMIT ?`,
		literal, literal, k,
	).Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query neighbors: %v", result.Error)
	}

	results := make([]knowledge.QueryResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, knowledge.QueryResult{
			ID:            row.ID,
			Source:        row.Source,
			URL:           row.URL.String,
			Title:         row.Title.String,
			Article:       row.Article.String,
			DatePublished: row.DatePublished.String,
			ChunkID:       row.ChunkID,
			Content:       row.Content,
			Score:         row.Score,
		})
	}

	return results, nil
}

// VectorLiteral encodes an embedding as a pgvector literal, e.g. [0.1,0.2].
func VectorLiteral(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
