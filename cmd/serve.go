/*
Copyright © 2024 Emmand87
*/
package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "github.com/Emmand87/ricomu-knowledge-service/handler/http"
	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
	jobctrl "github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/job"
	"github.com/Emmand87/ricomu-knowledge-service/src/log"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the knowledge service HTTP server",
	Long:  `The serve command starts an HTTP server that provides document ingestion and similarity search.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	settingDefaultConfig()
}

func RunServer(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	// Initialize PostgreSQL connection
	db, err := openDatabase()
	if err != nil {
		log.Error(err, "Failed to connect to database")
		return
	}

	// Initialize embedding provider and document store
	embedder, err := newEmbedder()
	if err != nil {
		log.Error(err, "Failed to create embedder")
		return
	}

	store, err := newDocumentStore(ctx, db)
	if err != nil {
		log.Error(err, "Failed to create document store")
		return
	}

	// Assemble pipelines
	ingestion, err := newIngestionPipeline(ctx, embedder, store)
	if err != nil {
		log.Error(err, "Failed to create ingestion pipeline")
		return
	}
	retrieval := knowledge.NewRetrievalPipeline(embedder, store)

	// Initialize knowledge handler
	knowledgeHandler, err := httpHdlr.NewKnowledgeHandler(ingestion, retrieval)
	if err != nil {
		log.Error(err, "Failed to initialize knowledge handler")
		return
	}

	// Setup gin router
	r := gin.Default()

	// Register routes
	knowledgeHandler.RegisterRoutes(r)

	// Mount async ingest jobs when a queue is configured
	if amqpURL := viper.GetString("amqp.url"); amqpURL != "" {
		amqpPublisher, err := amqp.NewPublisher(
			amqp.NewDurableQueueConfig(amqpURL),
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Error(err, "Failed to create AMQP publisher")
			return
		}
		defer amqpPublisher.Close()

		jobRepo := jobctrl.NewPostgresJobRepository(db)
		if err := jobRepo.Migrate(ctx); err != nil {
			log.Error(err, "Failed to migrate jobs table")
			return
		}

		jobService := jobctrl.NewJobService(amqpPublisher, jobRepo, watermill.NewStdLogger(false, false), ingestion)
		jobHandler, err := httpHdlr.NewJobHandler(jobService)
		if err != nil {
			log.Error(err, "Failed to initialize job handler")
			return
		}
		jobHandler.RegisterRoutes(r)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Get underlying *sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		log.Error(err, "Failed to get underlying *sql.DB")
	} else {
		// Close database connection
		if err := sqlDB.Close(); err != nil {
			log.Error(err, "Error closing database connection")
		}
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
