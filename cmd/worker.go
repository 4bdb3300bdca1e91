package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	jobctrl "github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/job"
	"github.com/Emmand87/ricomu-knowledge-service/src/log"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background ingest job worker",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
	settingDefaultConfig()
}

func runWorker(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger
	logger := watermill.NewStdLogger(false, false)

	amqpURL := viper.GetString("amqp.url")
	if amqpURL == "" {
		return fmt.Errorf("amqp.url must be configured for the worker")
	}

	// Initialize PostgreSQL connection
	db, err := openDatabase()
	if err != nil {
		return err
	}

	// Get underlying *sql.DB for cleanup
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %v", err)
	}
	defer sqlDB.Close()

	// Initialize AMQP publisher
	amqpPublisher, err := amqp.NewPublisher(
		amqp.NewDurableQueueConfig(amqpURL),
		logger,
	)
	if err != nil {
		return err
	}
	defer amqpPublisher.Close()

	// Initialize AMQP subscriber
	subscriberConfig := amqp.NewDurableQueueConfig(amqpURL)
	subscriberConfig.Consume.NoRequeueOnNack = true
	amqpSubscriber, err := amqp.NewSubscriber(
		subscriberConfig,
		logger,
	)
	if err != nil {
		return err
	}
	defer amqpSubscriber.Close()

	// Initialize router
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return err
	}

	// Add middleware
	router.AddMiddleware(
		middleware.Recoverer,
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: time.Second,
			Logger:          logger,
		}.Middleware,
	)

	// Assemble the ingest pipeline
	embedder, err := newEmbedder()
	if err != nil {
		return fmt.Errorf("failed to create embedder: %v", err)
	}

	store, err := newDocumentStore(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to create document store: %v", err)
	}

	ingestion, err := newIngestionPipeline(ctx, embedder, store)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %v", err)
	}

	// Initialize job repository and service
	jobRepo := jobctrl.NewPostgresJobRepository(db)
	if err := jobRepo.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate jobs table: %v", err)
	}
	jobService := jobctrl.NewJobService(amqpPublisher, jobRepo, logger, ingestion)

	// Add handler for processing ingest jobs
	router.AddNoPublisherHandler(
		"ingest_job_processor",
		jobctrl.QueueTopic,
		amqpSubscriber,
		func(msg *message.Message) error {
			return jobService.ProcessJobMessage(msg)
		},
	)

	// Run the router
	go func() {
		if err := router.Run(ctx); err != nil {
			log.Error(err, "Router stopped with error")
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	log.Info("Shutting down...")
	cancel()
	<-router.Running()
	log.Info("Router stopped")

	return nil
}
