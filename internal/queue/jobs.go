package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/dharsanguruparan/Pokedex/internal/ingest"
)

const (
	// IngestImageTask is scheduled each time a record is created.
	IngestImageTask = "image:ingest"
)

// Enqueuer is the subset of asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewIngestTask serializes job into an asynq task.
func NewIngestTask(job ingest.Job) (*asynq.Task, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(IngestImageTask, data), nil
}

// ImageQueue schedules image ingest on Redis via asynq.
type ImageQueue struct {
	client Enqueuer
}

func NewImageQueue(client Enqueuer) *ImageQueue {
	return &ImageQueue{client: client}
}

// EnqueueImage enqueues an image ingest job.
func (q *ImageQueue) EnqueueImage(ctx context.Context, name, source string) error {
	task, err := NewIngestTask(ingest.Job{Name: name, Source: source})
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.TaskID(uuid.NewString())); err != nil {
		return fmt.Errorf("enqueue ingest task: %w", err)
	}
	return nil
}
