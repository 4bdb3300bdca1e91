package knowledge

import (
	"context"
	"errors"
)

const (
	// DefaultChunkSize is the soft cap on chunk length in characters.
	DefaultChunkSize = 1200

	// DefaultSearchLimit is the number of neighbors returned per query.
	DefaultSearchLimit = 8

	// DefaultSource labels descriptors that carry no source of their own.
	DefaultSource = "unknown"
)

// ErrEmbeddingMismatch is returned when the embedding provider returns a
// batch whose size does not match the request.
var ErrEmbeddingMismatch = errors.New("embedding batch size does not match input")

// DocumentDescriptor describes one document to ingest. Exactly one of
// Content or URL is expected to yield the text to process.
type DocumentDescriptor struct {
	Source        string `json:"source"`
	URL           string `json:"url,omitempty"`
	Title         string `json:"title,omitempty"`
	Article       string `json:"article,omitempty"`
	DatePublished string `json:"date_published,omitempty"`
	Content       string `json:"content,omitempty"`
}

// Key returns the identifier chunk IDs are derived from.
func (d DocumentDescriptor) Key() string {
	switch {
	case d.Article != "":
		return d.Article
	case d.Title != "":
		return d.Title
	case d.URL != "":
		return d.URL
	default:
		return "doc"
	}
}

// ChunkRecord is one persisted chunk row. ChunkID is unique within a single
// ingest of one document only; re-ingesting the same document produces
// duplicate rows.
type ChunkRecord struct {
	Source        string    `json:"source"`
	URL           string    `json:"url,omitempty"`
	Title         string    `json:"title,omitempty"`
	Article       string    `json:"article,omitempty"`
	DatePublished string    `json:"date_published,omitempty"`
	ChunkID       string    `json:"chunk_id"`
	Content       string    `json:"content"`
	Embedding     []float32 `json:"-"`
}

// QueryResult is a stored chunk row plus its similarity score for one query.
// Score is 1 - distance under a cosine metric, higher is more similar.
type QueryResult struct {
	ID            int64   `json:"id"`
	Source        string  `json:"source"`
	URL           string  `json:"url,omitempty"`
	Title         string  `json:"title,omitempty"`
	Article       string  `json:"article,omitempty"`
	DatePublished string  `json:"date_published,omitempty"`
	ChunkID       string  `json:"chunk_id"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
}

// SkippedItem reports one descriptor dropped during ingest and why.
type SkippedItem struct {
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason"`
}

// IngestResult summarizes one ingest call.
type IngestResult struct {
	Inserted int           `json:"inserted"`
	Skipped  []SkippedItem `json:"skipped,omitempty"`
}

// Embedder maps a batch of texts to a batch of fixed-dimension vectors,
// in input order. A failed call returns no partial results.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentStore persists chunk rows and answers nearest-neighbor queries.
// InsertBatch is transactional: either every record is persisted or none.
type DocumentStore interface {
	InsertBatch(ctx context.Context, records []ChunkRecord) error
	NearestNeighbors(ctx context.Context, embedding []float32, k int) ([]QueryResult, error)
}

// Fetcher retrieves a remote document, returning body bytes and a
// content-type hint. Network failures and non-2xx statuses are errors,
// distinct from successful empty responses.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// Archiver stores a raw fetched payload for audit. Implementations are
// optional; a nil Archiver disables archiving.
type Archiver interface {
	Archive(ctx context.Context, objectName string, data []byte) error
}
