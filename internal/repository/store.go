package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/creditscope/credit-analyzer/internal/entity"
)

// JobStore persists DocumentJobs by id. Writes replace the whole row so a
// concurrent reader always observes a consistent snapshot.
type JobStore interface {
	SaveJob(ctx context.Context, job *entity.DocumentJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*entity.DocumentJob, error)
	ListJobs(ctx context.Context) ([]entity.DocumentJob, error)
}

// DocumentStore persists canonical DocumentRecords by id. A re-processed
// document is superseded by a fresh write under the same id.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc *entity.DocumentRecord) error
	GetDocument(ctx context.Context, id uuid.UUID) (*entity.DocumentRecord, error)
	ListDocuments(ctx context.Context) ([]entity.DocumentRecord, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// Store bundles both stores behind one backend.
type Store interface {
	JobStore
	DocumentStore
	Close() error
}
