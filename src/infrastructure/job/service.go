package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
)

// QueueTopic is the AMQP topic ingest jobs travel on.
const QueueTopic = "ingest_jobs"

type JobService struct {
	publisher message.Publisher
	repo      JobRepository
	logger    watermill.LoggerAdapter
	pipeline  *knowledge.IngestionPipeline
}

type JobMessage struct {
	JobID    int             `json:"job_id"`
	TaskType string          `json:"task_type"`
	Payload  json.RawMessage `json:"payload"`
}

func NewJobService(
	publisher message.Publisher,
	repo JobRepository,
	logger watermill.LoggerAdapter,
	pipeline *knowledge.IngestionPipeline,
) *JobService {
	return &JobService{
		publisher: publisher,
		repo:      repo,
		logger:    logger,
		pipeline:  pipeline,
	}
}

// EnqueueIngest creates an ingest job record and publishes it to the queue
func (s *JobService) EnqueueIngest(ctx context.Context, payload IngestPayload) (*Job, error) {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingest payload: %w", err)
	}

	// Create job record
	job, err := s.repo.Create(ctx, TaskTypeIngest, rawPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	// Prepare message
	jobMsg := JobMessage{
		JobID:    job.ID,
		TaskType: job.TaskType,
		Payload:  job.Payload,
	}

	msgPayload, err := json.Marshal(jobMsg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job message: %w", err)
	}

	// Publish message
	msg := message.NewMessage(watermill.NewUUID(), msgPayload)
	if err := s.publisher.Publish(QueueTopic, msg); err != nil {
		return nil, fmt.Errorf("failed to publish job message: %w", err)
	}

	return job, nil
}

// GetJob returns a job by ID, or nil when it does not exist.
func (s *JobService) GetJob(ctx context.Context, id int) (*Job, error) {
	return s.repo.Get(ctx, id)
}

// ProcessJobMessage processes a job message from the queue
func (s *JobService) ProcessJobMessage(msg *message.Message) error {
	var jobMsg JobMessage
	if err := json.Unmarshal(msg.Payload, &jobMsg); err != nil {
		return fmt.Errorf("failed to unmarshal job message: %w", err)
	}

	ctx := context.Background()

	// Get job from database
	job, err := s.repo.Get(ctx, jobMsg.JobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("job not found: %d", jobMsg.JobID)
	}

	// Update status to running
	if err := s.repo.UpdateStatus(ctx, job.ID, JobStatusRunning, nil); err != nil {
		return fmt.Errorf("failed to update job status to running: %w", err)
	}

	err = s.processJob(ctx, job)

	if err != nil {
		// Update status to failed
		errStr := err.Error()
		if updateErr := s.repo.UpdateStatus(ctx, job.ID, JobStatusFailed, &errStr); updateErr != nil {
			s.logger.Error("Failed to update job status to failed", updateErr, watermill.LogFields{
				"job_id": job.ID,
			})
		}
		return fmt.Errorf("failed to process job: %w", err)
	}

	// Update status to completed
	if err := s.repo.UpdateStatus(ctx, job.ID, JobStatusCompleted, nil); err != nil {
		return fmt.Errorf("failed to update job status to completed: %w", err)
	}

	return nil
}

// processJob runs the ingest pipeline for one job and records its result
func (s *JobService) processJob(ctx context.Context, j *Job) error {
	if j.TaskType != TaskTypeIngest {
		return fmt.Errorf("unknown task type: %s", j.TaskType)
	}

	var payload IngestPayload
	if err := json.Unmarshal(j.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal ingest payload: %w", err)
	}

	result, err := s.pipeline.Ingest(ctx, payload.Items, payload.ChunkSize)
	if err != nil {
		return err
	}

	rawResult, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal ingest result: %w", err)
	}
	if err := s.repo.SetResult(ctx, j.ID, rawResult); err != nil {
		s.logger.Error("Failed to store job result", err, watermill.LogFields{
			"job_id": j.ID,
		})
	}

	return nil
}
