package llm

import "context"

// VisionExtractor is the model-invocation boundary the pipeline depends on:
// one page image in, raw model text out. The text carries no well-formedness
// guarantee — structured-text recovery deals with that downstream. Transport
// failures surface as errors wrapping common.ErrUpstreamFailure.
type VisionExtractor interface {
	ExtractPage(ctx context.Context, image []byte, mimeType string) (string, error)
}
