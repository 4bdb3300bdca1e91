package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
	"github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/fetch"
	"github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/integrations/ollama"
	"github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/integrations/openai"
	"github.com/Emmand87/ricomu-knowledge-service/src/storage/minioctrl"
	"github.com/Emmand87/ricomu-knowledge-service/src/storage/postgres/documentctrl"
	"github.com/Emmand87/ricomu-knowledge-service/src/storage/weaviate"
)

// openDatabase connects to PostgreSQL with config from viper
func openDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		viper.GetString("postgres.host"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.port"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// newEmbedder builds the configured embedding provider client
func newEmbedder() (knowledge.Embedder, error) {
	httpClient := &http.Client{Timeout: 60 * time.Second}
	model := viper.GetString("embedding.model")

	switch provider := viper.GetString("embedding.provider"); provider {
	case "openai":
		return openai.NewClient(
			viper.GetString("openai.url"),
			viper.GetString("openai.api_key"),
			model,
			httpClient,
		), nil
	case "ollama":
		return ollama.NewClient(viper.GetString("ollama.url"), model, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}

// newDocumentStore builds the configured store backend. The Postgres backend
// provisions its schema on startup.
func newDocumentStore(ctx context.Context, db *gorm.DB) (knowledge.DocumentStore, error) {
	switch backend := viper.GetString("store.backend"); backend {
	case "postgres":
		store, err := documentctrl.NewDocumentService(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create document service: %w", err)
		}
		if err := store.EnsureSchema(ctx, viper.GetInt("embedding.dimension")); err != nil {
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		return store, nil
	case "weaviate":
		wc := weaviateClient.New(weaviateClient.Config{
			Host:   viper.GetString("weaviate.url"),
			Scheme: "http",
		})
		store := weaviate.NewChunkStore(wc, viper.GetString("weaviate.class"))
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure weaviate schema: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}

// newIngestionPipeline assembles the ingest path, with MinIO payload
// archiving when an archive bucket is configured
func newIngestionPipeline(ctx context.Context, embedder knowledge.Embedder, store knowledge.DocumentStore) (*knowledge.IngestionPipeline, error) {
	timeout, err := time.ParseDuration(viper.GetString("knowledge.fetch_timeout"))
	if err != nil {
		timeout = 30 * time.Second
	}

	fetcher := fetch.NewClient(&http.Client{Timeout: timeout})
	pipeline := knowledge.NewIngestionPipeline(fetcher, knowledge.NewNormalizer(), embedder, store)

	if bucket := viper.GetString("minio.archive_bucket"); bucket != "" {
		archive, err := minioctrl.NewArchiveStore(
			viper.GetString("minio.endpoint"),
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"),
			bucket,
			viper.GetBool("minio.use_ssl"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive store: %w", err)
		}
		if err := archive.EnsureBucketExists(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure archive bucket: %w", err)
		}
		pipeline = pipeline.WithArchiver(archive)
	}

	return pipeline, nil
}
