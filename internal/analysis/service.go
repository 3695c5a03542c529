package analysis

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/creditscope/credit-analyzer/internal/entity"
	"github.com/creditscope/credit-analyzer/internal/grouping"
	"github.com/creditscope/credit-analyzer/internal/repository"
	"github.com/creditscope/credit-analyzer/internal/trends"
)

// Service answers the group+analyze operation: load stored DocumentRecords,
// regroup them by statement type and compute trend and consistency metrics.
// Grouping and analysis are pure; only the load can fail.
type Service struct {
	docs   repository.DocumentStore
	logger *slog.Logger
}

func NewService(docs repository.DocumentStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, logger: logger}
}

// Analyze builds the combined result for the given document ids. An empty
// ids slice analyzes every stored document. Unknown ids are skipped rather
// than failing the whole aggregation.
func (s *Service) Analyze(ctx context.Context, ids []uuid.UUID) (*entity.AnalysisResult, error) {
	var docs []entity.DocumentRecord
	if len(ids) == 0 {
		all, err := s.docs.ListDocuments(ctx)
		if err != nil {
			return nil, err
		}
		// Stable input order keeps grouping deterministic regardless of the
		// backend's iteration order.
		sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })
		docs = all
	} else {
		for _, id := range ids {
			doc, err := s.docs.GetDocument(ctx, id)
			if err != nil {
				s.logger.Warn("skipping unknown document", "document_id", id, "error", err)
				continue
			}
			docs = append(docs, *doc)
		}
	}

	grouped := grouping.Group(docs)
	result := &entity.AnalysisResult{
		GroupedFinancialData: grouped,
		FinancialTrends:      trends.AnalyzeTrends(grouped),
		MultiPeriodAnalysis:  trends.AnalyzeMultiPeriod(grouped),
	}

	s.logger.Info("analysis complete",
		"documents", len(docs),
		"profit_loss", len(grouped.ProfitLossStatements),
		"balance_sheets", len(grouped.BalanceSheets),
		"bank_statements", len(grouped.BankStatements),
		"credit_reports", len(grouped.CreditReports),
		"cash_flow", len(grouped.CashFlowStatements),
		"other", len(grouped.OtherDocuments),
		"data_quality", result.MultiPeriodAnalysis.DataQuality,
	)
	return result, nil
}
