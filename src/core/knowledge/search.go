package knowledge

import (
	"context"
	"fmt"
)

// RetrievalPipeline embeds queries in one batch and runs a nearest-neighbor
// lookup per query against the document store.
type RetrievalPipeline struct {
	embedder Embedder
	store    DocumentStore
}

func NewRetrievalPipeline(embedder Embedder, store DocumentStore) *RetrievalPipeline {
	return &RetrievalPipeline{
		embedder: embedder,
		store:    store,
	}
}

// Search returns up to k rows per query, grouped by query in input order.
// No re-ranking or deduplication happens across queries. An empty query
// list returns an empty result without calling the embedding provider.
func (p *RetrievalPipeline) Search(ctx context.Context, queries []string, k int) ([]QueryResult, error) {
	if len(queries) == 0 {
		return []QueryResult{}, nil
	}
	if k <= 0 {
		k = DefaultSearchLimit
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("failed to embed queries: %w", err)
	}
	if len(embeddings) != len(queries) {
		return nil, fmt.Errorf("%w: got %d vectors for %d queries", ErrEmbeddingMismatch, len(embeddings), len(queries))
	}

	results := make([]QueryResult, 0, len(queries)*k)
	for i := range queries {
		rows, err := p.store.NearestNeighbors(ctx, embeddings[i], k)
		if err != nil {
			return nil, fmt.Errorf("failed to search neighbors for query %d: %w", i, err)
		}
		results = append(results, rows...)
	}

	return results, nil
}
