package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/dharsanguruparan/Pokedex/internal/ingest"
	"github.com/dharsanguruparan/Pokedex/internal/queue"
)

// Ingester is the image ingest step run for each task.
type Ingester interface {
	Ingest(ctx context.Context, job ingest.Job) error
}

// Processor is plugged into the asynq worker loop.
type Processor struct {
	ingester Ingester
	log      *slog.Logger
}

// NewProcessor constructs a worker processor.
func NewProcessor(ingester Ingester, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{ingester: ingester, log: log}
}

// Handler registers the ingest job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.IngestImageTask, p.handleIngest)
	return mux
}

func (p *Processor) handleIngest(ctx context.Context, task *asynq.Task) error {
	var job ingest.Job
	if err := json.Unmarshal(task.Payload(), &job); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.ingester.Ingest(ctx, job); err != nil {
		p.log.Warn("ingest failed", slog.String("name", job.Name), slog.String("error", err.Error()))
		if errors.Is(err, ingest.ErrUnsupportedSource) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	return nil
}
