package recovery

import (
	"fmt"
	"log/slog"

	"github.com/creditscope/credit-analyzer/internal/common"
	"github.com/creditscope/credit-analyzer/internal/entity"
)

// maxExcerptLen caps the raw-text excerpt included in failure diagnostics.
const maxExcerptLen = 200

// strategy is one attempt at pulling a JSON document out of raw model text.
// It returns candidate JSON bytes; the cascade decides whether they decode.
type strategy struct {
	name string
	fn   func(raw string) ([]byte, error)
}

// Recoverer extracts a well-formed ExtractionRecord from arbitrary, possibly
// malformed, model-generated text. Strategies are tried strictly in order;
// the first one whose output decodes wins.
type Recoverer struct {
	logger     *slog.Logger
	strategies []strategy
}

func NewRecoverer(logger *slog.Logger) *Recoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recoverer{
		logger: logger,
		strategies: []strategy{
			{"trim_boilerplate", trimBoilerplate},
			{"fenced_block", fencedBlock},
			{"balanced_braces", balancedBraces},
			{"brace_slice", braceSlice},
			{"textual_repairs", textualRepairs},
			{"json_repair", libraryRepair},
			{"hjson", hjsonLenient},
			{"line_reconstruct", lineReconstruct},
		},
	}
}

// Recover returns the parsed record, or an error wrapping
// common.ErrRecoveryFailed once every strategy is exhausted. Individual
// strategy failures never escape the cascade.
func (r *Recoverer) Recover(raw string) (entity.ExtractionRecord, error) {
	for _, s := range r.strategies {
		candidate, err := s.fn(raw)
		if err != nil {
			r.logger.Debug("recovery strategy failed", "strategy", s.name, "error", err)
			continue
		}
		rec, err := decodeRecord(candidate)
		if err != nil {
			r.logger.Debug("recovery candidate rejected", "strategy", s.name, "error", err)
			continue
		}
		r.logger.Info("recovery succeeded", "strategy", s.name, "bytes", len(candidate))
		return rec, nil
	}

	// Last resort: salvage bare key/value pairs. Partial by construction,
	// accepted only when it recovers at least one field.
	if rec, fields := salvagePairs(raw); fields > 0 {
		r.logger.Warn("recovery salvaged flat key/value pairs", "fields", fields)
		return rec, nil
	}

	r.logger.Error("recovery exhausted all strategies", "response_len", len(raw))
	return entity.ExtractionRecord{}, common.NewAppError(
		"RECOVERY_FAILED",
		fmt.Sprintf("no strategy produced a record (response length %d, excerpt %q)", len(raw), excerpt(raw)),
		common.ErrRecoveryFailed,
	)
}

// excerpt returns a redacted prefix of raw for diagnostics. Digit runs are
// masked so statement values never land in logs or error messages.
func excerpt(raw string) string {
	s := raw
	if len(s) > maxExcerptLen {
		s = s[:maxExcerptLen]
	}
	b := []byte(s)
	for i, c := range b {
		if c >= '0' && c <= '9' {
			b[i] = '#'
		}
	}
	return string(b)
}
