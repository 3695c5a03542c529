package async

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task is the smallest useful unit: one document job to drive end to end.
type Task struct {
	JobID       uuid.UUID
	SubmittedAt time.Time
}

// Queue accepts document tasks for asynchronous processing.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Shutdown(ctx context.Context)
}
