package merge

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditscope/credit-analyzer/internal/entity"
)

func fp(v float64) *float64 { return &v }

func TestMergeZeroRecords(t *testing.T) {
	m := NewMerger(nil)
	id := uuid.New()

	doc := m.Merge(id, nil, "empty.pdf")
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, entity.UnknownDocumentType, doc.DocumentType)
	assert.Zero(t, doc.Confidence)
	assert.Zero(t, doc.PageCount)
	assert.False(t, doc.ExtractionDate.IsZero())
}

func TestMergeScalarsFirstNonEmptyWins(t *testing.T) {
	m := NewMerger(nil)

	records := []entity.ExtractionRecord{
		{
			DocumentType: entity.UnknownDocumentType,
			CompanyInfo:  entity.CompanyInfo{Name: "Acme Ltd"},
			Financial: entity.FinancialData{
				ProfitLoss: &entity.ProfitLoss{Revenue: fp(100), Period: "FY 2023"},
			},
		},
		{
			DocumentType: "Profit and Loss Statement",
			CompanyInfo:  entity.CompanyInfo{Name: "Acme Limited", TaxID: "TX-42"},
			Financial: entity.FinancialData{
				ProfitLoss: &entity.ProfitLoss{Revenue: fp(999), Expenses: fp(60)},
			},
		},
	}

	doc := m.Merge(uuid.New(), records, "pl.pdf")
	// Unknown never wins over a concrete type, regardless of page order
	assert.Equal(t, "Profit and Loss Statement", doc.DocumentType)
	assert.Equal(t, "Acme Ltd", doc.CompanyInfo.Name)
	assert.Equal(t, "TX-42", doc.CompanyInfo.TaxID)
	require.NotNil(t, doc.Financial.ProfitLoss)
	assert.Equal(t, 100.0, *doc.Financial.ProfitLoss.Revenue)
	assert.Equal(t, 60.0, *doc.Financial.ProfitLoss.Expenses)
	assert.Equal(t, "FY 2023", doc.Financial.ProfitLoss.Period)
	assert.Equal(t, 2, doc.PageCount)
}

func TestMergeConfidenceMeanSkipsZeroes(t *testing.T) {
	m := NewMerger(nil)

	records := []entity.ExtractionRecord{
		{Confidence: 0.8},
		{Confidence: 0},
		{Confidence: 0.6},
	}
	doc := m.Merge(uuid.New(), records, "doc.pdf")
	assert.InDelta(t, 0.7, doc.Confidence, 1e-9)
}

func TestMergeDedupesBankStatements(t *testing.T) {
	m := NewMerger(nil)

	stmt := entity.BankStatement{AccountNumber: "123", Period: "Jan 2024", Balance: fp(500)}
	records := []entity.ExtractionRecord{
		{Financial: entity.FinancialData{BankStatements: []entity.BankStatement{stmt}}},
		{Financial: entity.FinancialData{BankStatements: []entity.BankStatement{
			stmt,
			{AccountNumber: "123", Period: "Feb 2024", Balance: fp(700)},
		}}},
	}

	doc := m.Merge(uuid.New(), records, "bank.pdf")
	require.Len(t, doc.Financial.BankStatements, 2)
	assert.Equal(t, "Jan 2024", doc.Financial.BankStatements[0].Period)
	assert.Equal(t, "Feb 2024", doc.Financial.BankStatements[1].Period)
}

func TestMergeDedupesIndividualsAndHistory(t *testing.T) {
	m := NewMerger(nil)

	records := []entity.ExtractionRecord{
		{
			Individuals: []entity.Individual{{Name: "Jo Smith", Position: "Director"}},
			Financial: entity.FinancialData{CreditInfo: &entity.CreditInfo{
				Score:         fp(710),
				CreditHistory: []entity.CreditHistoryEntry{{Creditor: "BigBank", AccountType: "loan", Balance: fp(1000)}},
			}},
		},
		{
			Individuals: []entity.Individual{
				{Name: "Jo Smith", Position: "Director"},
				{Name: "Jo Smith", Position: "Owner"},
			},
			Financial: entity.FinancialData{CreditInfo: &entity.CreditInfo{
				CreditHistory: []entity.CreditHistoryEntry{{Creditor: "BigBank", AccountType: "loan", Balance: fp(1000)}},
			}},
		},
	}

	doc := m.Merge(uuid.New(), records, "report.pdf")
	assert.Len(t, doc.Individuals, 2)
	require.NotNil(t, doc.Financial.CreditInfo)
	assert.Equal(t, 710.0, *doc.Financial.CreditInfo.Score)
	assert.Len(t, doc.Financial.CreditInfo.CreditHistory, 1)
}

func TestMergeStampsExtractionDate(t *testing.T) {
	m := NewMerger(nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	doc := m.Merge(uuid.New(), []entity.ExtractionRecord{{Confidence: 0.5}}, "doc.pdf")
	assert.Equal(t, fixed, doc.ExtractionDate)

	stamped := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	doc = m.Merge(uuid.New(), []entity.ExtractionRecord{{ExtractionDate: stamped}}, "doc.pdf")
	assert.Equal(t, stamped, doc.ExtractionDate)
}
