package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/creditscope/credit-analyzer/constants"
	"github.com/creditscope/credit-analyzer/internal/async"
	"github.com/creditscope/credit-analyzer/internal/common"
	"github.com/creditscope/credit-analyzer/internal/entity"
	"github.com/creditscope/credit-analyzer/internal/pipeline"
	"github.com/creditscope/credit-analyzer/internal/repository"
)

// Tracker is the per-document state machine: pending → processing →
// {completed, error}. It is the only writer of job state, so Status reads
// are always the authoritative view of a document's pipeline run.
type Tracker struct {
	logger *slog.Logger
	jobs   repository.JobStore
	docs   repository.DocumentStore
	proc   *pipeline.Processor
	queue  async.Queue

	// mu serializes state transitions so a duplicate Start on a processing
	// job is rejected synchronously, never queued.
	mu sync.Mutex
}

func New(logger *slog.Logger, jobs repository.JobStore, docs repository.DocumentStore, proc *pipeline.Processor, opts ...async.Option) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{
		logger: logger,
		jobs:   jobs,
		docs:   docs,
		proc:   proc,
	}
	t.queue = async.NewWorkerQueue(t.runTask, logger, opts...)
	return t
}

// Shutdown drains the worker queue.
func (t *Tracker) Shutdown(ctx context.Context) {
	t.queue.Shutdown(ctx)
}

// Enqueue registers an uploaded document and returns its job id. The job
// starts in pending with progress 0.
func (t *Tracker) Enqueue(ctx context.Context, filename, sourcePath, mimeType string) (uuid.UUID, error) {
	if _, ok := constants.FormatForMime(mimeType); !ok {
		return uuid.Nil, common.NewAppError("ENQUEUE_MIME", mimeType, common.ErrUnsupportedMediaType)
	}
	now := time.Now().UTC()
	job := &entity.DocumentJob{
		ID:         uuid.New(),
		Filename:   filename,
		SourcePath: sourcePath,
		MimeType:   mimeType,
		Status:     constants.JobStatusPending,
		Progress:   0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := t.jobs.SaveJob(ctx, job); err != nil {
		return uuid.Nil, err
	}
	t.logger.Info("job enqueued", "job_id", job.ID, "file", filename, "mime_type", mimeType)
	return job.ID, nil
}

// Start transitions a job to processing and schedules its pipeline run.
// A job already processing is rejected with ErrAlreadyProcessing and left
// untouched; an unknown id yields ErrNotFound. Terminal jobs may be started
// again (explicit reprocessing): state resets, the id stays.
func (t *Tracker) Start(ctx context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, err := t.jobs.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if job.Status == constants.JobStatusProcessing {
		t.logger.Warn("duplicate start rejected", "job_id", id, "progress", job.Progress)
		return common.NewAppError("START_DUPLICATE", id.String(), common.ErrAlreadyProcessing)
	}

	job.Status = constants.JobStatusProcessing
	job.Progress = 10 // accepted; page loop advances from here
	job.ErrorMessage = ""
	job.UpdatedAt = time.Now().UTC()
	if err := t.jobs.SaveJob(ctx, job); err != nil {
		return err
	}

	t.logger.Info("job started", "job_id", id, "file", job.Filename)
	return t.queue.Enqueue(ctx, async.Task{JobID: id, SubmittedAt: time.Now().UTC()})
}

// Status returns the read-only snapshot for a job; merged data is attached
// only when the job completed.
func (t *Tracker) Status(ctx context.Context, id uuid.UUID) (*entity.JobStatusView, error) {
	job, err := t.jobs.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &entity.JobStatusView{
		ID:       job.ID,
		Filename: job.Filename,
		Status:   job.Status,
		Progress: job.Progress,
		Error:    job.ErrorMessage,
	}
	if job.Status == constants.JobStatusCompleted {
		doc, err := t.docs.GetDocument(ctx, id)
		if err == nil {
			view.Data = doc
		} else {
			t.logger.Warn("completed job has no stored document", "job_id", id, "error", err)
		}
	}
	return view, nil
}

// runTask is the worker entry point: it drives one document's page loop and
// converts any raised error into persisted job state. No error escapes to a
// caller without the job table reflecting it first.
func (t *Tracker) runTask(ctx context.Context, task async.Task) error {
	ctx = common.WithJobID(ctx, task.JobID.String())
	job, err := t.jobs.GetJob(ctx, task.JobID)
	if err != nil {
		t.logger.Error("task references unknown job", "job_id", task.JobID, "error", err)
		return err
	}

	doc, err := t.proc.ProcessDocument(ctx, job.ID, job.SourcePath, job.Filename, job.MimeType, func(progress int) {
		t.setProgress(ctx, job.ID, progress)
	})
	if err != nil {
		// Partial per-page successes are discarded: the job carries no
		// partial-completion state and any previously stored record for
		// this id stays superseded-or-absent.
		t.fail(ctx, job.ID, err)
		return err
	}

	if err := t.docs.SaveDocument(ctx, doc); err != nil {
		t.fail(ctx, job.ID, err)
		return err
	}
	t.complete(ctx, job.ID)
	return nil
}

// setProgress raises a processing job's progress. Progress is monotone
// non-decreasing; late or out-of-order callbacks never move it backwards.
func (t *Tracker) setProgress(ctx context.Context, id uuid.UUID, progress int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, err := t.jobs.GetJob(ctx, id)
	if err != nil || job.Status != constants.JobStatusProcessing {
		return
	}
	if progress <= job.Progress {
		return
	}
	if progress > 99 {
		progress = 99 // 100 is reserved for completed
	}
	job.Progress = progress
	job.UpdatedAt = time.Now().UTC()
	if err := t.jobs.SaveJob(ctx, job); err != nil {
		t.logger.Warn("progress update failed", "job_id", id, "error", err)
	}
}

func (t *Tracker) complete(ctx context.Context, id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, err := t.jobs.GetJob(ctx, id)
	if err != nil {
		return
	}
	job.Status = constants.JobStatusCompleted
	job.Progress = 100
	job.ErrorMessage = ""
	job.UpdatedAt = time.Now().UTC()
	if err := t.jobs.SaveJob(ctx, job); err != nil {
		t.logger.Error("completion update failed", "job_id", id, "error", err)
		return
	}
	t.logger.Info("job completed", "job_id", id)
}

func (t *Tracker) fail(ctx context.Context, id uuid.UUID, cause error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, err := t.jobs.GetJob(ctx, id)
	if err != nil {
		return
	}
	job.Status = constants.JobStatusError
	job.Progress = 0
	job.ErrorMessage = cause.Error()
	job.UpdatedAt = time.Now().UTC()
	if err := t.jobs.SaveJob(ctx, job); err != nil {
		t.logger.Error("failure update failed", "job_id", id, "error", err)
		return
	}
	t.logger.Error("job failed", "job_id", id, "error", cause)
}
