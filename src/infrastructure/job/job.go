package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// TaskTypeIngest is the only task type this service processes.
const TaskTypeIngest = "ingest"

// IngestPayload is the body of an ingest job.
type IngestPayload struct {
	Items     []knowledge.DocumentDescriptor `json:"items"`
	ChunkSize int                            `json:"chunk_size,omitempty"`
}

// Job represents a background ingest job
type Job struct {
	ID        int             `json:"id"`
	TaskType  string          `json:"task_type"`
	Payload   json.RawMessage `json:"payload"`
	Status    JobStatus       `json:"status"`
	Error     *string         `json:"error,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// JobRepository defines the interface for job persistence
type JobRepository interface {
	Create(ctx context.Context, taskType string, payload json.RawMessage) (*Job, error)
	Get(ctx context.Context, id int) (*Job, error)
	UpdateStatus(ctx context.Context, id int, status JobStatus, err *string) error
	SetResult(ctx context.Context, id int, result json.RawMessage) error
}
