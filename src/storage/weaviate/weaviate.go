package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
)

const DefaultClassName = "KnowledgeChunk"

var chunkProperties = []string{"source", "url", "title", "article", "datePublished", "chunkId", "content"}

// ChunkStore is a Weaviate-backed document store. Unlike the Postgres
// backend it has no row IDs, so result IDs are zero; batch inserts are
// checked per object but Weaviate offers no cross-object transaction.
type ChunkStore struct {
	client    *weaviate.Client
	className string
}

// NewChunkStore creates a store over client. An empty className falls back
// to DefaultClassName.
func NewChunkStore(client *weaviate.Client, className string) *ChunkStore {
	if className == "" {
		className = DefaultClassName
	}
	return &ChunkStore{
		client:    client,
		className: className,
	}
}

// EnsureSchema creates the chunk class unless it already exists.
func (s *ChunkStore) EnsureSchema(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %v", err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.className {
			return nil
		}
	}

	properties := make([]*models.Property, 0, len(chunkProperties))
	for _, name := range chunkProperties {
		properties = append(properties, &models.Property{
			Name:     name,
			DataType: []string{"text"},
		})
	}

	class := &models.Class{
		Class:      s.className,
		Properties: properties,
		Vectorizer: "none",
	}

	if err := s.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
		return fmt.Errorf("failed to create class %s: %v", s.className, err)
	}

	return nil
}

// InsertBatch adds all records in a single batch operation and fails if any
// object was rejected.
func (s *ChunkStore) InsertBatch(ctx context.Context, records []knowledge.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	objs := make([]*models.Object, len(records))
	for i, r := range records {
		objs[i] = &models.Object{
			Class: s.className,
			Properties: map[string]interface{}{
				"source":        r.Source,
				"url":           r.URL,
				"title":         r.Title,
				"article":       r.Article,
				"datePublished": r.DatePublished,
				"chunkId":       r.ChunkID,
				"content":       r.Content,
			},
			Vector: r.Embedding,
		}
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objs...).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to batch add chunks: %v", err)
	}
	if len(resp) == 0 {
		return fmt.Errorf("batch operation returned no results")
	}
	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			return fmt.Errorf("failed to add chunk object: %v", obj.Result.Errors.Error[0].Message)
		}
	}

	return nil
}

// NearestNeighbors performs a nearVector query and converts the reported
// distance into score = 1 - distance.
func (s *ChunkStore) NearestNeighbors(ctx context.Context, embedding []float32, k int) ([]knowledge.QueryResult, error) {
	fields := make([]graphql.Field, 0, len(chunkProperties)+1)
	for _, name := range chunkProperties {
		fields = append(fields, graphql.Field{Name: name})
	}
	fields = append(fields, graphql.Field{Name: "_additional { distance }"})

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(embedding)

	result, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(k).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %v", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("failed to query vectors: %v", result.Errors[0].Message)
	}

	var results []knowledge.QueryResult
	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return results, nil
	}
	objects, ok := data[s.className].([]interface{})
	if !ok {
		return results, nil
	}

	for _, obj := range objects {
		objMap, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}

		score := 0.0
		if additional, ok := objMap["_additional"].(map[string]interface{}); ok {
			if distance, ok := additional["distance"].(float64); ok {
				score = 1 - distance
			}
		}

		results = append(results, knowledge.QueryResult{
			Source:        stringProp(objMap, "source"),
			URL:           stringProp(objMap, "url"),
			Title:         stringProp(objMap, "title"),
			Article:       stringProp(objMap, "article"),
			DatePublished: stringProp(objMap, "datePublished"),
			ChunkID:       stringProp(objMap, "chunkId"),
			Content:       stringProp(objMap, "content"),
			Score:         score,
		})
	}

	return results, nil
}

func stringProp(props map[string]interface{}, name string) string {
	if v, ok := props[name].(string); ok {
		return v
	}
	return ""
}
