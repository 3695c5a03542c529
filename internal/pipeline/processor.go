package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/creditscope/credit-analyzer/internal/entity"
	"github.com/creditscope/credit-analyzer/internal/llm"
	"github.com/creditscope/credit-analyzer/internal/merge"
	"github.com/creditscope/credit-analyzer/internal/raster"
	"github.com/creditscope/credit-analyzer/internal/recovery"
)

// Progress base and span: start() reports progressStart, page completion
// advances toward progressStart+progressSpan, completed jobs report 100.
const (
	progressStart = 10
	progressSpan  = 85
)

// Processor drives extraction for one document: rasterize, then per page
// (strictly sequential) call the model and recover a record, then merge.
// It persists nothing and owns no job state — the lifecycle tracker does.
type Processor struct {
	Logger    *slog.Logger
	Raster    raster.Rasterizer
	Extractor llm.VisionExtractor
	Recoverer *recovery.Recoverer
	Merger    *merge.Merger
}

func NewProcessor(logger *slog.Logger, r raster.Rasterizer, ex llm.VisionExtractor, rec *recovery.Recoverer, m *merge.Merger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Raster: r, Extractor: ex, Recoverer: rec, Merger: m}
}

// ProcessDocument runs the page loop for one document and returns the merged
// record. onProgress is invoked with 0-100 values after each completed page;
// it may be nil. Any page failure aborts the whole document — partial
// per-page successes are discarded.
func (p *Processor) ProcessDocument(
	ctx context.Context,
	id uuid.UUID,
	path, filename, mimeType string,
	onProgress func(int),
) (*entity.DocumentRecord, error) {
	pages, err := p.Raster.Rasterize(ctx, path, mimeType)
	if err != nil {
		p.Logger.Error("pipeline.rasterize.failed", "document_id", id, "file", filename, "err", err)
		return nil, fmt.Errorf("rasterize %s: %w", filename, err)
	}
	p.Logger.Info("pipeline.rasterize.ok", "document_id", id, "file", filename, "pages", len(pages))

	records := make([]entity.ExtractionRecord, 0, len(pages))
	for i, page := range pages {
		// Each page must finish before the next begins; the merger relies
		// on a stable ordered record sequence and the model call is rate
		// limited upstream.
		rawText, err := p.Extractor.ExtractPage(ctx, page.Data, page.MimeType)
		if err != nil {
			p.Logger.Error("pipeline.extract.failed", "document_id", id, "page", i+1, "err", err)
			return nil, fmt.Errorf("extract page %d of %s: %w", i+1, filename, err)
		}

		rec, err := p.Recoverer.Recover(rawText)
		if err != nil {
			p.Logger.Error("pipeline.recover.failed", "document_id", id, "page", i+1, "err", err)
			return nil, fmt.Errorf("recover page %d of %s: %w", i+1, filename, err)
		}
		records = append(records, rec)

		if onProgress != nil {
			onProgress(progressStart + progressSpan*(i+1)/len(pages))
		}
		p.Logger.Info("pipeline.page.ok",
			"document_id", id, "page", i+1, "of", len(pages),
			"document_type", rec.DocumentType, "confidence", rec.Confidence,
		)
	}

	doc := p.Merger.Merge(id, records, filename)
	return &doc, nil
}
