package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditscope/credit-analyzer/constants"
	"github.com/creditscope/credit-analyzer/internal/common"
	"github.com/creditscope/credit-analyzer/internal/entity"
)

func TestMemoryStoreJobs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.GetJob(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)

	job := &entity.DocumentJob{ID: uuid.New(), Filename: "a.pdf", Status: constants.JobStatusPending}
	require.NoError(t, s.SaveJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.Filename)

	// reads return copies; mutating one must not leak into the store
	got.Progress = 50
	again, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Zero(t, again.Progress)

	job.Status = constants.JobStatusCompleted
	require.NoError(t, s.SaveJob(ctx, job))
	got, err = s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusCompleted, got.Status)

	jobs, err := s.ListJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestMemoryStoreDocuments(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.GetDocument(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)

	doc := &entity.DocumentRecord{
		ID:         uuid.New(),
		SourceFile: "bs.pdf",
		ExtractionRecord: entity.ExtractionRecord{
			DocumentType: "Balance Sheet",
			Confidence:   0.8,
		},
	}
	require.NoError(t, s.SaveDocument(ctx, doc))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Balance Sheet", got.DocumentType)

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, s.DeleteDocument(ctx, doc.ID))
	_, err = s.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// deleting an absent document is a no-op
	assert.NoError(t, s.DeleteDocument(ctx, doc.ID))
}
