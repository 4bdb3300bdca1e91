package knowledge

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Emmand87/ricomu-knowledge-service/src/log"
)

// IngestionPipeline turns document descriptors into persisted, embedded
// chunk rows: fetch/normalize, chunk, embed in one batch, insert in one
// transaction.
type IngestionPipeline struct {
	fetcher    Fetcher
	normalizer *Normalizer
	embedder   Embedder
	store      DocumentStore
	archiver   Archiver
}

func NewIngestionPipeline(fetcher Fetcher, normalizer *Normalizer, embedder Embedder, store DocumentStore) *IngestionPipeline {
	return &IngestionPipeline{
		fetcher:    fetcher,
		normalizer: normalizer,
		embedder:   embedder,
		store:      store,
	}
}

// WithArchiver enables archiving of fetched raw payloads. Archive failures
// are logged and never fail an ingest.
func (p *IngestionPipeline) WithArchiver(archiver Archiver) *IngestionPipeline {
	p.archiver = archiver
	return p
}

// Ingest processes descriptors and returns the number of rows inserted plus
// the descriptors skipped with their reasons. A fetch or extraction failure
// is isolated to its descriptor; embedding and persistence failures abort
// the whole batch with nothing persisted.
func (p *IngestionPipeline) Ingest(ctx context.Context, items []DocumentDescriptor, chunkSize int) (*IngestResult, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	result := &IngestResult{}
	var records []ChunkRecord

	for _, item := range items {
		text, err := p.resolveText(ctx, item)
		if err != nil {
			log.Error(err, "skipping descriptor", "source", item.Source, "url", item.URL)
			result.Skipped = append(result.Skipped, SkippedItem{
				Source: item.Source,
				URL:    item.URL,
				Reason: err.Error(),
			})
			continue
		}
		if text == "" {
			// No inline content and no URL, or the document was empty.
			continue
		}

		source := item.Source
		if source == "" {
			source = DefaultSource
		}

		key := item.Key()
		for idx, chunk := range Chunk(text, chunkSize) {
			records = append(records, ChunkRecord{
				Source:        source,
				URL:           item.URL,
				Title:         item.Title,
				Article:       item.Article,
				DatePublished: item.DatePublished,
				ChunkID:       fmt.Sprintf("%s#%d", key, idx),
				Content:       chunk,
			})
		}
	}

	if len(records) == 0 {
		return result, nil
	}

	// One provider round-trip for every chunk of every descriptor, so
	// embeddings align positionally with records.
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Content
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(records) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbeddingMismatch, len(embeddings), len(records))
	}

	for i := range records {
		records[i].Embedding = embeddings[i]
	}

	if err := p.store.InsertBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to insert chunk batch: %w", err)
	}

	result.Inserted = len(records)
	log.Info("ingest completed", "documents", len(items), "inserted", result.Inserted, "skipped", len(result.Skipped))

	return result, nil
}

// resolveText produces the plain text of one descriptor. Inline content is
// used verbatim; otherwise the URL is fetched and normalized.
func (p *IngestionPipeline) resolveText(ctx context.Context, item DocumentDescriptor) (string, error) {
	if item.Content != "" {
		return item.Content, nil
	}
	if item.URL == "" {
		return "", nil
	}

	data, contentType, err := p.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", item.URL, err)
	}

	if p.archiver != nil {
		objectName := uuid.New().String()
		if err := p.archiver.Archive(ctx, objectName, data); err != nil {
			log.Error(err, "failed to archive payload", "url", item.URL, "object", objectName)
		}
	}

	text, err := p.normalizer.Normalize(ctx, data, contentType, item.URL)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", item.URL, err)
	}

	return text, nil
}
