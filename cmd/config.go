package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for PostgreSQL
	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.db", "POSTGRES_DB")

	// Map environment variables to Viper keys for the embedding provider
	viper.BindEnv("embedding.provider", "EMBEDDING_PROVIDER")
	viper.BindEnv("embedding.model", "EMBEDDING_MODEL")
	viper.BindEnv("embedding.dimension", "EMBEDDING_DIMENSION")
	viper.BindEnv("openai.url", "OPENAI_API_URL")
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("ollama.url", "OLLAMA_URL")

	// Map environment variables to Viper keys for storage backends
	viper.BindEnv("store.backend", "STORE_BACKEND")
	viper.BindEnv("weaviate.url", "WEAVIATE_URL")
	viper.BindEnv("weaviate.class", "WEAVIATE_CLASS")
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.archive_bucket", "MINIO_ARCHIVE_BUCKET")
	viper.BindEnv("minio.use_ssl", "MINIO_USE_SSL")

	// Map environment variables to Viper keys for the server and queue
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")
	viper.BindEnv("amqp.url", "AMQP_URL")

	// Map environment variables to Viper keys for pipeline tuning
	viper.BindEnv("knowledge.chunk_size", "KNOWLEDGE_CHUNK_SIZE")
	viper.BindEnv("knowledge.search_limit", "KNOWLEDGE_SEARCH_LIMIT")
	viper.BindEnv("knowledge.fetch_timeout", "KNOWLEDGE_FETCH_TIMEOUT")

	// Set default values for PostgreSQL
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.db", "knowledge")

	// Set default values for the embedding provider
	viper.SetDefault("embedding.provider", "openai")
	viper.SetDefault("embedding.model", "text-embedding-3-large")
	viper.SetDefault("embedding.dimension", 3072)
	viper.SetDefault("openai.url", "https://api.openai.com/v1")
	viper.SetDefault("ollama.url", "http://ollama:11434/api")

	// Set default values for storage backends
	viper.SetDefault("store.backend", "postgres")
	viper.SetDefault("weaviate.url", "weaviate:8080")
	viper.SetDefault("weaviate.class", "KnowledgeChunk")
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.archive_bucket", "")
	viper.SetDefault("minio.use_ssl", false)

	// Set default values for the server and queue
	viper.SetDefault("server.port", "4000")
	viper.SetDefault("server.shutdown_timeout", "5s")
	viper.SetDefault("amqp.url", "")

	// Set default values for pipeline tuning
	viper.SetDefault("knowledge.chunk_size", 1200)
	viper.SetDefault("knowledge.search_limit", 8)
	viper.SetDefault("knowledge.fetch_timeout", "30s")
}
