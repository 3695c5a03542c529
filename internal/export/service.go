package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/creditscope/credit-analyzer/internal/entity"
)

// Service produces XLSX bytes for the aggregated credit-risk dataset: one
// sheet per statement collection plus a trends summary.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportAnalysisXLSX returns a workbook (as bytes) for a group+analyze result.
func (s *Service) ExportAnalysisXLSX(result *entity.AnalysisResult) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()

	if err := s.writeProfitLoss(f, result.GroupedFinancialData.ProfitLossStatements); err != nil {
		return nil, err
	}
	if err := s.writeBalanceSheets(f, result.GroupedFinancialData.BalanceSheets); err != nil {
		return nil, err
	}
	if err := s.writeBankStatements(f, result.GroupedFinancialData.BankStatements); err != nil {
		return nil, err
	}
	if err := s.writeCashFlow(f, result.GroupedFinancialData.CashFlowStatements); err != nil {
		return nil, err
	}
	if err := s.writeTrends(f, result); err != nil {
		return nil, err
	}

	// drop the default sheet
	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Trends"); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("exported analysis workbook",
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string, headers []string) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeProfitLoss(f *excelize.File, entries []entity.ProfitLossEntry) error {
	const sheet = "Profit & Loss"
	if err := newSheet(f, sheet, []string{"Period", "Revenue", "Expenses", "Net Income", "Gross Profit", "Source File", "Confidence"}); err != nil {
		return err
	}
	for i, e := range entries {
		if err := setRow(f, sheet, i+2, []any{e.Period, e.Revenue, e.Expenses, e.NetIncome, e.GrossProfit, e.SourceFile, e.Confidence}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeBalanceSheets(f *excelize.File, entries []entity.BalanceSheetEntry) error {
	const sheet = "Balance Sheets"
	if err := newSheet(f, sheet, []string{"As Of", "Total Assets", "Total Liabilities", "Equity", "Net Worth", "Debt/Asset", "Source File", "Confidence"}); err != nil {
		return err
	}
	for i, e := range entries {
		if err := setRow(f, sheet, i+2, []any{e.AsOfDate, e.TotalAssets, e.TotalLiabilities, e.Equity, e.NetWorth, e.DebtToAssetRatio, e.SourceFile, e.Confidence}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeBankStatements(f *excelize.File, entries []entity.BankStatementEntry) error {
	const sheet = "Bank Statements"
	if err := newSheet(f, sheet, []string{"Account", "Type", "Period", "Balance", "Total Credits", "Total Debits", "Source File"}); err != nil {
		return err
	}
	for i, e := range entries {
		if err := setRow(f, sheet, i+2, []any{e.AccountNumber, e.AccountType, e.Period, e.Balance, e.TotalCredits, e.TotalDebits, e.SourceFile}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeCashFlow(f *excelize.File, entries []entity.CashFlowEntry) error {
	const sheet = "Cash Flow"
	if err := newSheet(f, sheet, []string{"Period", "Operating", "Investing", "Financing", "Net Cash Flow", "Source File"}); err != nil {
		return err
	}
	for i, e := range entries {
		if err := setRow(f, sheet, i+2, []any{e.Period, e.OperatingCashFlow, e.InvestingCashFlow, e.FinancingCashFlow, e.NetCashFlow, e.SourceFile}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) writeTrends(f *excelize.File, result *entity.AnalysisResult) error {
	const sheet = "Trends"
	if err := newSheet(f, sheet, []string{"Metric", "Trend", "Change %", "First", "Last", "Periods"}); err != nil {
		return err
	}
	rows := []struct {
		name string
		tr   entity.TrendResult
	}{
		{"Revenue", result.FinancialTrends.Revenue},
		{"Profitability", result.FinancialTrends.Profitability},
		{"Assets", result.FinancialTrends.Assets},
		{"Liquidity", result.FinancialTrends.Liquidity},
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+2, []any{r.name, r.tr.Trend, r.tr.ChangePercent, r.tr.FirstValue, r.tr.LastValue, len(r.tr.Periods)}); err != nil {
			return err
		}
	}
	mp := result.MultiPeriodAnalysis
	if err := setRow(f, sheet, len(rows)+3, []any{"Data Quality", mp.DataQuality, mp.ConsistencyScore, "", "", len(mp.PeriodsAnalyzed)}); err != nil {
		return err
	}
	return nil
}
