package tracker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditscope/credit-analyzer/constants"
	"github.com/creditscope/credit-analyzer/internal/async"
	"github.com/creditscope/credit-analyzer/internal/common"
	"github.com/creditscope/credit-analyzer/internal/entity"
	"github.com/creditscope/credit-analyzer/internal/merge"
	"github.com/creditscope/credit-analyzer/internal/pipeline"
	"github.com/creditscope/credit-analyzer/internal/raster"
	"github.com/creditscope/credit-analyzer/internal/recovery"
	"github.com/creditscope/credit-analyzer/internal/repository"
)

// stubRaster returns n synthetic pages for any input.
type stubRaster struct {
	pages int
	err   error
}

func (s *stubRaster) Rasterize(context.Context, string, string) ([]raster.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	pages := make([]raster.Page, s.pages)
	for i := range pages {
		pages[i] = raster.Page{Data: []byte{0x89}, MimeType: "image/png"}
	}
	return pages, nil
}

// stubExtractor replays canned responses, one per page, and fails once the
// script is exhausted.
type stubExtractor struct {
	responses []string
	calls     atomic.Int32
}

func (s *stubExtractor) ExtractPage(context.Context, []byte, string) (string, error) {
	n := int(s.calls.Add(1)) - 1
	if n >= len(s.responses) {
		return "", errors.New("model unavailable")
	}
	return s.responses[n], nil
}

func newTestTracker(t *testing.T, pages int, responses []string) (*Tracker, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	proc := pipeline.NewProcessor(nil,
		&stubRaster{pages: pages},
		&stubExtractor{responses: responses},
		recovery.NewRecoverer(nil),
		merge.NewMerger(nil),
	)
	trk := New(nil, store, store, proc, async.WithWorkers(1), async.WithProcessTimeout(5*time.Second))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		trk.Shutdown(ctx)
	})
	return trk, store
}

func waitForStatus(t *testing.T, trk *Tracker, id uuid.UUID, want constants.JobStatus) *entity.JobStatusView {
	t.Helper()
	var view *entity.JobStatusView
	require.Eventually(t, func() bool {
		v, err := trk.Status(context.Background(), id)
		if err != nil {
			return false
		}
		view = v
		return v.Status == want
	}, 5*time.Second, 10*time.Millisecond)
	return view
}

func TestEnqueueRejectsUnsupportedMime(t *testing.T) {
	trk, _ := newTestTracker(t, 1, nil)

	_, err := trk.Enqueue(context.Background(), "notes.txt", "/tmp/notes.txt", "text/plain")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedMediaType)
}

func TestEnqueueCreatesPendingJob(t *testing.T) {
	trk, _ := newTestTracker(t, 1, nil)

	id, err := trk.Enqueue(context.Background(), "doc.pdf", "/tmp/doc.pdf", "application/pdf")
	require.NoError(t, err)

	view, err := trk.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusPending, view.Status)
	assert.Zero(t, view.Progress)
	assert.Nil(t, view.Data)
}

func TestStartUnknownJob(t *testing.T) {
	trk, _ := newTestTracker(t, 1, nil)

	err := trk.Start(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStartRejectsProcessingJob(t *testing.T) {
	trk, store := newTestTracker(t, 1, nil)

	job := &entity.DocumentJob{
		ID:       uuid.New(),
		Filename: "doc.pdf",
		MimeType: "application/pdf",
		Status:   constants.JobStatusProcessing,
		Progress: 57,
	}
	require.NoError(t, store.SaveJob(context.Background(), job))

	err := trk.Start(context.Background(), job.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAlreadyProcessing)

	// rejection leaves the running job untouched
	got, err := store.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusProcessing, got.Status)
	assert.Equal(t, 57, got.Progress)
}

func TestJobCompletes(t *testing.T) {
	page := `{"documentType":"Balance Sheet","confidence":0.8,"financial":{"balanceSheet":{"totalAssets":1000,"asOfDate":"Dec 2023"}}}`
	trk, store := newTestTracker(t, 2, []string{page, page})

	id, err := trk.Enqueue(context.Background(), "bs.pdf", "/tmp/bs.pdf", "application/pdf")
	require.NoError(t, err)
	require.NoError(t, trk.Start(context.Background(), id))

	view := waitForStatus(t, trk, id, constants.JobStatusCompleted)
	assert.Equal(t, 100, view.Progress)
	assert.Empty(t, view.Error)
	require.NotNil(t, view.Data)
	assert.Equal(t, "Balance Sheet", view.Data.DocumentType)
	assert.Equal(t, 2, view.Data.PageCount)
	assert.InDelta(t, 0.8, view.Data.Confidence, 1e-9)

	doc, err := store.GetDocument(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
}

func TestJobFailureResetsProgress(t *testing.T) {
	page := `{"documentType":"Balance Sheet","confidence":0.8}`
	// 3 pages but only one scripted response: page 2 fails
	trk, store := newTestTracker(t, 3, []string{page})

	id, err := trk.Enqueue(context.Background(), "bs.pdf", "/tmp/bs.pdf", "application/pdf")
	require.NoError(t, err)
	require.NoError(t, trk.Start(context.Background(), id))

	view := waitForStatus(t, trk, id, constants.JobStatusError)
	assert.Zero(t, view.Progress)
	assert.Contains(t, view.Error, "page 2")
	assert.Nil(t, view.Data)

	// partial per-page successes are discarded
	_, err = store.GetDocument(context.Background(), id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestTerminalJobCanBeRestarted(t *testing.T) {
	page := `{"documentType":"Bank Statement","confidence":0.9}`
	trk, _ := newTestTracker(t, 1, []string{page, page})

	id, err := trk.Enqueue(context.Background(), "bank.pdf", "/tmp/bank.pdf", "application/pdf")
	require.NoError(t, err)
	require.NoError(t, trk.Start(context.Background(), id))
	waitForStatus(t, trk, id, constants.JobStatusCompleted)

	// explicit reprocessing of a terminal job keeps the id
	require.NoError(t, trk.Start(context.Background(), id))
	view := waitForStatus(t, trk, id, constants.JobStatusCompleted)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, 100, view.Progress)
}
