package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditscope/credit-analyzer/constants"
	"github.com/creditscope/credit-analyzer/internal/common"
	"github.com/creditscope/credit-analyzer/internal/entity"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteJobRoundTrip(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	job := &entity.DocumentJob{
		ID:       uuid.New(),
		Filename: "bs.pdf",
		MimeType: "application/pdf",
		Status:   constants.JobStatusPending,
	}
	require.NoError(t, s.SaveJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Filename, got.Filename)
	assert.Equal(t, constants.JobStatusPending, got.Status)

	// save is an upsert
	job.Status = constants.JobStatusCompleted
	job.Progress = 100
	require.NoError(t, s.SaveJob(ctx, job))
	got, err = s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)

	_, err = s.GetJob(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteDocumentRoundTrip(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	assets := 200000.0
	doc := &entity.DocumentRecord{
		ID:         uuid.New(),
		SourceFile: "bs.pdf",
		PageCount:  3,
		ExtractionRecord: entity.ExtractionRecord{
			DocumentType: "Balance Sheet",
			Confidence:   0.85,
			Financial: entity.FinancialData{
				BalanceSheet: &entity.BalanceSheet{TotalAssets: &assets, AsOfDate: "Dec 2023"},
			},
		},
	}
	require.NoError(t, s.SaveDocument(ctx, doc))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Balance Sheet", got.DocumentType)
	require.NotNil(t, got.Financial.BalanceSheet)
	assert.Equal(t, 200000.0, *got.Financial.BalanceSheet.TotalAssets)

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, s.DeleteDocument(ctx, doc.ID))
	_, err = s.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
