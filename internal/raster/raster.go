package raster

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/creditscope/credit-analyzer/constants"
	"github.com/creditscope/credit-analyzer/internal/common"
)

// Page is one rendered page image, ready for the model boundary.
type Page struct {
	Data     []byte
	MimeType string
}

// Rasterizer turns one document file into its ordered sequence of page
// images.
type Rasterizer interface {
	Rasterize(ctx context.Context, path, mimeType string) ([]Page, error)
}

// Config holds rasterization settings.
type Config struct {
	Pdftoppm string // pdftoppm binary, default "pdftoppm"
	DPI      int    // render resolution, default 300
	MaxPages int    // 0 = unlimited
}

// PopplerRasterizer renders PDFs to PNG pages with pdftoppm and passes
// image files through as single pages.
type PopplerRasterizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewPopplerRasterizer(cfg Config, logger *slog.Logger) *PopplerRasterizer {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PopplerRasterizer{cfg: cfg, runner: execRunner{log: logger}, logger: logger}
}

func (r *PopplerRasterizer) Rasterize(ctx context.Context, path, mimeType string) ([]Page, error) {
	format, ok := constants.FormatForMime(mimeType)
	if !ok {
		return nil, common.NewAppError("RASTER_MIME", mimeType, common.ErrUnsupportedMediaType)
	}
	switch format {
	case "IMAGE":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, common.NewAppError("RASTER_READ", path, common.ErrUpstreamFailure)
		}
		return []Page{{Data: data, MimeType: mimeType}}, nil
	case "PDF":
		return r.pdfToPages(ctx, path)
	default:
		return nil, common.NewAppError("RASTER_FORMAT", format, common.ErrUnsupportedMediaType)
	}
}

func (r *PopplerRasterizer) pdfToPages(ctx context.Context, path string) ([]Page, error) {
	tmpDir, err := os.MkdirTemp("", "ca-raster-*")
	if err != nil {
		return nil, common.NewAppError("RASTER_TMP", "create temp dir", common.ErrUpstreamFailure)
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			r.logger.Warn("failed to remove temp dir", "dir", dir, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", path, prefix)
	if err != nil {
		r.logger.Error("pdftoppm failed", "path", path, "stderr", truncate(string(errb), 2<<10))
		return nil, common.NewAppError("RASTER_RENDER", path, common.ErrUpstreamFailure)
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if r.cfg.MaxPages > 0 && len(matches) > r.cfg.MaxPages {
		matches = matches[:r.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, common.NewAppError("RASTER_EMPTY", "pdftoppm produced no pages", common.ErrUpstreamFailure)
	}

	pages := make([]Page, 0, len(matches))
	for _, img := range matches {
		data, err := os.ReadFile(img)
		if err != nil {
			return nil, common.NewAppError("RASTER_READ", img, common.ErrUpstreamFailure)
		}
		pages = append(pages, Page{Data: data, MimeType: "image/png"})
	}
	r.logger.Info("rasterized pdf", "path", path, "pages", len(pages), "dpi", r.cfg.DPI)
	return pages, nil
}
