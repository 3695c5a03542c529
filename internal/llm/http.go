package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/creditscope/credit-analyzer/internal/common"
)

const defaultRequestTimeout = 90 * time.Second

// PostJSON posts a JSON payload and returns the raw response body and status
// code. It is provider-agnostic; callers pick the URL and auth headers.
// Transport failures and non-2xx statuses come back as AppErrors wrapping
// common.ErrUpstreamFailure, so callers only need errors.Is to classify them.
func PostJSON(ctx context.Context, client *http.Client, url string, payload any, headers map[string]string, logger *slog.Logger) ([]byte, int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, common.NewAppError("HTTP_ENCODE", "encode request payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, common.NewAppError("HTTP_REQUEST", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	logger.Info("llm.http.request", "url", url, "payload_bytes", len(body))

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("llm.http.send_error", "url", url, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, 0, common.NewAppError("HTTP_SEND", url, common.ErrUpstreamFailure)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("llm.http.body_close_error", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("llm.http.read_error", "url", url, "status", resp.StatusCode, "error", err)
		return nil, resp.StatusCode, common.NewAppError("HTTP_READ", url, common.ErrUpstreamFailure)
	}

	logger.Info("llm.http.response",
		"url", url,
		"status", resp.StatusCode,
		"response_bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return raw, resp.StatusCode, common.NewAppError("HTTP_STATUS",
			fmt.Sprintf("status %d from %s", resp.StatusCode, url), common.ErrUpstreamFailure)
	}
	return raw, resp.StatusCode, nil
}
