package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditscope/credit-analyzer/internal/merge"
	"github.com/creditscope/credit-analyzer/internal/raster"
	"github.com/creditscope/credit-analyzer/internal/recovery"
)

type fakeRaster struct {
	pages int
	err   error
}

func (f *fakeRaster) Rasterize(context.Context, string, string) ([]raster.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	pages := make([]raster.Page, f.pages)
	for i := range pages {
		pages[i] = raster.Page{Data: []byte{1}, MimeType: "image/png"}
	}
	return pages, nil
}

type fakeExtractor struct {
	response string
	failAt   int // 1-based page index to fail on; 0 = never
	calls    int
}

func (f *fakeExtractor) ExtractPage(context.Context, []byte, string) (string, error) {
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		return "", errors.New("model unavailable")
	}
	return f.response, nil
}

func newTestProcessor(r *fakeRaster, ex *fakeExtractor) *Processor {
	return NewProcessor(nil, r, ex, recovery.NewRecoverer(nil), merge.NewMerger(nil))
}

func TestProcessDocumentReportsPageProgress(t *testing.T) {
	p := newTestProcessor(
		&fakeRaster{pages: 4},
		&fakeExtractor{response: `{"documentType":"Bank Statement","confidence":0.9}`},
	)

	var progress []int
	doc, err := p.ProcessDocument(context.Background(), uuid.New(), "/tmp/a.pdf", "a.pdf", "application/pdf", func(v int) {
		progress = append(progress, v)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{31, 52, 73, 95}, progress)
	assert.Equal(t, 4, doc.PageCount)
	assert.Equal(t, "Bank Statement", doc.DocumentType)
}

func TestProcessDocumentSinglePage(t *testing.T) {
	p := newTestProcessor(
		&fakeRaster{pages: 1},
		&fakeExtractor{response: `{"documentType":"Credit Report","confidence":0.7}`},
	)

	var progress []int
	doc, err := p.ProcessDocument(context.Background(), uuid.New(), "/tmp/a.png", "a.png", "image/png", func(v int) {
		progress = append(progress, v)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{95}, progress)
	assert.Equal(t, 1, doc.PageCount)
}

func TestProcessDocumentAbortsOnPageFailure(t *testing.T) {
	ex := &fakeExtractor{response: `{"documentType":"Bank Statement","confidence":0.9}`, failAt: 2}
	p := newTestProcessor(&fakeRaster{pages: 3}, ex)

	_, err := p.ProcessDocument(context.Background(), uuid.New(), "/tmp/a.pdf", "a.pdf", "application/pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	// the loop stops at the failed page
	assert.Equal(t, 2, ex.calls)
}

func TestProcessDocumentRasterFailure(t *testing.T) {
	p := newTestProcessor(&fakeRaster{err: errors.New("pdftoppm exited 1")}, &fakeExtractor{})

	_, err := p.ProcessDocument(context.Background(), uuid.New(), "/tmp/a.pdf", "a.pdf", "application/pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rasterize")
}
