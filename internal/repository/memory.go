package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/creditscope/credit-analyzer/internal/common"
	"github.com/creditscope/credit-analyzer/internal/entity"
)

// MemoryStore is an in-process Store with exclusive-write/shared-read
// discipline. Used by tests and as a fallback when no database is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]entity.DocumentJob
	docs map[uuid.UUID]entity.DocumentRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[uuid.UUID]entity.DocumentJob),
		docs: make(map[uuid.UUID]entity.DocumentRecord),
	}
}

func (s *MemoryStore) SaveJob(_ context.Context, job *entity.DocumentJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryStore) GetJob(_ context.Context, id uuid.UUID) (*entity.DocumentJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, common.NewAppError("JOB_NOT_FOUND", id.String(), common.ErrNotFound)
	}
	return &job, nil
}

func (s *MemoryStore) ListJobs(_ context.Context) ([]entity.DocumentJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.DocumentJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (s *MemoryStore) SaveDocument(_ context.Context, doc *entity.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

func (s *MemoryStore) GetDocument(_ context.Context, id uuid.UUID) (*entity.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, common.NewAppError("DOCUMENT_NOT_FOUND", id.String(), common.ErrNotFound)
	}
	return &doc, nil
}

func (s *MemoryStore) ListDocuments(_ context.Context) ([]entity.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.DocumentRecord, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out, nil
}

func (s *MemoryStore) DeleteDocument(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
