package grouping

import (
	"sort"

	"github.com/creditscope/credit-analyzer/constants"
	"github.com/creditscope/credit-analyzer/internal/entity"
)

// Group reclassifies documents by statement type and folds them into typed,
// period-indexed collections. Pure and deterministic: the same input set
// always yields byte-equal output, and malformed sub-fields degrade to
// zero values and period sentinels instead of failing.
func Group(documents []entity.DocumentRecord) entity.GroupedFinancialData {
	grouped := entity.GroupedFinancialData{
		ProfitLossStatements: []entity.ProfitLossEntry{},
		BalanceSheets:        []entity.BalanceSheetEntry{},
		BankStatements:       []entity.BankStatementEntry{},
		CreditReports:        []entity.CreditReportEntry{},
		CashFlowStatements:   []entity.CashFlowEntry{},
		OtherDocuments:       []entity.OtherDocumentEntry{},
	}

	for _, doc := range documents {
		st, matched := constants.CanonicalizeStatementType(doc.DocumentType)
		if !matched {
			grouped.OtherDocuments = append(grouped.OtherDocuments, entity.OtherDocumentEntry{
				DocumentType: doc.DocumentType,
				SourceFile:   doc.SourceFile,
				Confidence:   doc.Confidence,
				Record:       doc,
			})
			continue
		}
		switch st {
		case constants.ProfitLoss:
			grouped.ProfitLossStatements = append(grouped.ProfitLossStatements, profitLossEntry(doc))
		case constants.BalanceSheet:
			grouped.BalanceSheets = append(grouped.BalanceSheets, balanceSheetEntry(doc))
		case constants.BankStatement:
			// one row per statement object; a single document may contribute several
			grouped.BankStatements = append(grouped.BankStatements, bankStatementEntries(doc)...)
		case constants.CreditReport:
			grouped.CreditReports = append(grouped.CreditReports, creditReportEntry(doc))
		case constants.CashFlow:
			grouped.CashFlowStatements = append(grouped.CashFlowStatements, cashFlowEntry(doc))
		}
	}

	// Period-sorted collections; bank statements and credit reports keep
	// insertion order.
	sort.SliceStable(grouped.ProfitLossStatements, func(i, j int) bool {
		return ComparePeriods(grouped.ProfitLossStatements[i].Period, grouped.ProfitLossStatements[j].Period) < 0
	})
	sort.SliceStable(grouped.BalanceSheets, func(i, j int) bool {
		return ComparePeriods(grouped.BalanceSheets[i].AsOfDate, grouped.BalanceSheets[j].AsOfDate) < 0
	})
	sort.SliceStable(grouped.CashFlowStatements, func(i, j int) bool {
		return ComparePeriods(grouped.CashFlowStatements[i].Period, grouped.CashFlowStatements[j].Period) < 0
	})

	return grouped
}

func profitLossEntry(doc entity.DocumentRecord) entity.ProfitLossEntry {
	revenue, expenses, netIncome := 0.0, 0.0, 0.0
	period := UnknownPeriod
	if pl := doc.Financial.ProfitLoss; pl != nil {
		revenue = orZero(pl.Revenue)
		expenses = orZero(pl.Expenses)
		netIncome = orZero(pl.NetIncome)
		if pl.Period != "" {
			period = pl.Period
		}
	}
	return entity.ProfitLossEntry{
		Period:       period,
		Revenue:      revenue,
		Expenses:     expenses,
		NetIncome:    netIncome,
		GrossProfit:  revenue - expenses,
		SourceFile:   doc.SourceFile,
		DocumentType: doc.DocumentType,
		Confidence:   doc.Confidence,
	}
}

func balanceSheetEntry(doc entity.DocumentRecord) entity.BalanceSheetEntry {
	assets, liabilities, equity := 0.0, 0.0, 0.0
	asOf := UnknownDate
	if bs := doc.Financial.BalanceSheet; bs != nil {
		assets = orZero(bs.TotalAssets)
		liabilities = orZero(bs.TotalLiabilities)
		equity = orZero(bs.Equity)
		if bs.AsOfDate != "" {
			asOf = bs.AsOfDate
		}
	}
	ratio := 0.0
	if assets > 0 {
		ratio = liabilities / assets
	}
	return entity.BalanceSheetEntry{
		AsOfDate:         asOf,
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		Equity:           equity,
		NetWorth:         assets - liabilities,
		DebtToAssetRatio: ratio,
		SourceFile:       doc.SourceFile,
		DocumentType:     doc.DocumentType,
		Confidence:       doc.Confidence,
	}
}

func bankStatementEntries(doc entity.DocumentRecord) []entity.BankStatementEntry {
	entries := make([]entity.BankStatementEntry, 0, len(doc.Financial.BankStatements))
	for _, stmt := range doc.Financial.BankStatements {
		period := stmt.Period
		if period == "" {
			period = UnknownPeriod
		}
		balance := orZero(stmt.Balance)
		credits, debits := 0.0, 0.0
		for _, tx := range stmt.Transactions {
			switch tx.Type {
			case "credit":
				credits += orZero(tx.Amount)
			case "debit":
				debits += orZero(tx.Amount)
			}
		}
		entries = append(entries, entity.BankStatementEntry{
			AccountNumber: stmt.AccountNumber,
			AccountType:   stmt.AccountType,
			Period:        period,
			Balance:       balance,
			TotalCredits:  credits,
			TotalDebits:   debits,
			// single-sample stand-in, kept for downstream compatibility
			AverageBalance: balance,
			SourceFile:     doc.SourceFile,
			DocumentType:   doc.DocumentType,
			Confidence:     doc.Confidence,
		})
	}
	return entries
}

func creditReportEntry(doc entity.DocumentRecord) entity.CreditReportEntry {
	score := 0.0
	history := []entity.CreditHistoryEntry{}
	if ci := doc.Financial.CreditInfo; ci != nil {
		score = orZero(ci.Score)
		if ci.CreditHistory != nil {
			history = ci.CreditHistory
		}
	}
	total := 0.0
	for _, h := range history {
		total += orZero(h.Balance)
	}
	reportDate := UnknownDate
	if !doc.ExtractionDate.IsZero() {
		reportDate = doc.ExtractionDate.UTC().Format("2006-01-02")
	}
	return entity.CreditReportEntry{
		ReportDate:          reportDate,
		Score:               score,
		TotalCreditAccounts: len(history),
		TotalCreditBalance:  total,
		CreditHistory:       history,
		SourceFile:          doc.SourceFile,
		DocumentType:        doc.DocumentType,
		Confidence:          doc.Confidence,
	}
}

func cashFlowEntry(doc entity.DocumentRecord) entity.CashFlowEntry {
	operating, investing, financing := 0.0, 0.0, 0.0
	period := UnknownPeriod
	if cf := doc.Financial.CashFlow; cf != nil {
		operating = orZero(cf.OperatingCashFlow)
		investing = orZero(cf.InvestingCashFlow)
		financing = orZero(cf.FinancingCashFlow)
		if cf.Period != "" {
			period = cf.Period
		}
	}
	return entity.CashFlowEntry{
		Period:            period,
		OperatingCashFlow: operating,
		InvestingCashFlow: investing,
		FinancingCashFlow: financing,
		NetCashFlow:       operating + investing + financing,
		SourceFile:        doc.SourceFile,
		DocumentType:      doc.DocumentType,
		Confidence:        doc.Confidence,
	}
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
