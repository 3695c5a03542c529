package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/creditscope/credit-analyzer/internal/entity"
)

func TestExportAnalysisXLSX(t *testing.T) {
	result := &entity.AnalysisResult{
		GroupedFinancialData: entity.GroupedFinancialData{
			ProfitLossStatements: []entity.ProfitLossEntry{
				{Period: "FY 2023", Revenue: 120000, Expenses: 90000, NetIncome: 30000, GrossProfit: 30000, SourceFile: "pl.pdf", Confidence: 0.9},
			},
			BalanceSheets: []entity.BalanceSheetEntry{
				{AsOfDate: "Dec 2023", TotalAssets: 200000, TotalLiabilities: 80000, NetWorth: 120000, DebtToAssetRatio: 0.4, SourceFile: "bs.pdf"},
			},
		},
		FinancialTrends: entity.FinancialTrends{
			Revenue: entity.TrendResult{Trend: entity.TrendIncreasing, ChangePercent: 30, Periods: []string{"FY 2022", "FY 2023"}},
		},
		MultiPeriodAnalysis: entity.MultiPeriodAnalysis{
			DataQuality:      entity.DataQualityGood,
			ConsistencyScore: 0.7,
		},
	}

	data, err := NewService(nil).ExportAnalysisXLSX(result)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Profit & Loss")
	assert.Contains(t, sheets, "Balance Sheets")
	assert.Contains(t, sheets, "Trends")
	assert.NotContains(t, sheets, "Sheet1")

	period, err := f.GetCellValue("Profit & Loss", "A2")
	require.NoError(t, err)
	assert.Equal(t, "FY 2023", period)

	revenue, err := f.GetCellValue("Profit & Loss", "B2")
	require.NoError(t, err)
	assert.Equal(t, "120000", revenue)

	trend, err := f.GetCellValue("Trends", "B2")
	require.NoError(t, err)
	assert.Equal(t, entity.TrendIncreasing, trend)
}

func TestExportEmptyResult(t *testing.T) {
	data, err := NewService(nil).ExportAnalysisXLSX(&entity.AnalysisResult{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	// headers only
	rows, err := f.GetRows("Bank Statements")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Account", rows[0][0])
}
