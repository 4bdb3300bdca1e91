package job_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
	jobctrl "github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/job"
)

type memoryRepo struct {
	jobs   map[int]*jobctrl.Job
	nextID int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{jobs: map[int]*jobctrl.Job{}, nextID: 1}
}

func (r *memoryRepo) Create(ctx context.Context, taskType string, payload json.RawMessage) (*jobctrl.Job, error) {
	j := &jobctrl.Job{ID: r.nextID, TaskType: taskType, Payload: payload, Status: jobctrl.JobStatusPending}
	r.jobs[j.ID] = j
	r.nextID++
	return j, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int) (*jobctrl.Job, error) {
	return r.jobs[id], nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id int, status jobctrl.JobStatus, errStr *string) error {
	r.jobs[id].Status = status
	r.jobs[id].Error = errStr
	return nil
}

func (r *memoryRepo) SetResult(ctx context.Context, id int, result json.RawMessage) error {
	r.jobs[id].Result = result
	return nil
}

type memoryPublisher struct {
	messages []*message.Message
}

func (p *memoryPublisher) Publish(topic string, messages ...*message.Message) error {
	p.messages = append(p.messages, messages...)
	return nil
}

func (p *memoryPublisher) Close() error { return nil }

type nopEmbedder struct{}

func (nopEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

type countingStore struct {
	inserted int
}

func (s *countingStore) InsertBatch(ctx context.Context, records []knowledge.ChunkRecord) error {
	s.inserted += len(records)
	return nil
}

func (s *countingStore) NearestNeighbors(ctx context.Context, embedding []float32, k int) ([]knowledge.QueryResult, error) {
	return nil, nil
}

type nopFetcher struct{}

func (nopFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	return nil, "", nil
}

func newTestService(store *countingStore) (*jobctrl.JobService, *memoryRepo, *memoryPublisher) {
	repo := newMemoryRepo()
	publisher := &memoryPublisher{}
	pipeline := knowledge.NewIngestionPipeline(nopFetcher{}, knowledge.NewNormalizer(), nopEmbedder{}, store)
	service := jobctrl.NewJobService(publisher, repo, watermill.NopLogger{}, pipeline)
	return service, repo, publisher
}

func TestEnqueueIngestPublishesJob(t *testing.T) {
	service, repo, publisher := newTestService(&countingStore{})

	j, err := service.EnqueueIngest(context.Background(), jobctrl.IngestPayload{
		Items: []knowledge.DocumentDescriptor{{Source: "test", Content: "hello world"}},
	})
	if err != nil {
		t.Fatalf("EnqueueIngest() error = %v", err)
	}

	if j.Status != jobctrl.JobStatusPending {
		t.Errorf("job status = %q, want pending", j.Status)
	}
	if repo.jobs[j.ID] == nil {
		t.Error("job not persisted")
	}
	if len(publisher.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(publisher.messages))
	}

	var msg jobctrl.JobMessage
	if err := json.Unmarshal(publisher.messages[0].Payload, &msg); err != nil {
		t.Fatalf("failed to parse message: %v", err)
	}
	if msg.JobID != j.ID || msg.TaskType != jobctrl.TaskTypeIngest {
		t.Errorf("message = %+v, want ingest job %d", msg, j.ID)
	}
}

func TestProcessJobMessageRunsIngest(t *testing.T) {
	store := &countingStore{}
	service, repo, publisher := newTestService(store)

	_, err := service.EnqueueIngest(context.Background(), jobctrl.IngestPayload{
		Items:     []knowledge.DocumentDescriptor{{Source: "test", Content: "a b c d e f g h"}},
		ChunkSize: 5,
	})
	if err != nil {
		t.Fatalf("EnqueueIngest() error = %v", err)
	}

	if err := service.ProcessJobMessage(publisher.messages[0]); err != nil {
		t.Fatalf("ProcessJobMessage() error = %v", err)
	}

	j := repo.jobs[1]
	if j.Status != jobctrl.JobStatusCompleted {
		t.Errorf("job status = %q, want completed", j.Status)
	}
	if store.inserted != 3 {
		t.Errorf("store rows = %d, want 3", store.inserted)
	}

	var result knowledge.IngestResult
	if err := json.Unmarshal(j.Result, &result); err != nil {
		t.Fatalf("failed to parse job result: %v", err)
	}
	if result.Inserted != 3 {
		t.Errorf("result inserted = %d, want 3", result.Inserted)
	}
}

func TestProcessJobMessageUnknownTask(t *testing.T) {
	service, repo, _ := newTestService(&countingStore{})

	j, _ := repo.Create(context.Background(), "translate", json.RawMessage(`{}`))
	payload, _ := json.Marshal(jobctrl.JobMessage{JobID: j.ID, TaskType: j.TaskType, Payload: j.Payload})

	err := service.ProcessJobMessage(message.NewMessage(watermill.NewUUID(), payload))
	if err == nil {
		t.Fatal("ProcessJobMessage() expected error for unknown task type")
	}
	if repo.jobs[j.ID].Status != jobctrl.JobStatusFailed {
		t.Errorf("job status = %q, want failed", repo.jobs[j.ID].Status)
	}
}
