package trends

import (
	"fmt"
	"sort"

	"github.com/creditscope/credit-analyzer/internal/entity"
	"github.com/creditscope/credit-analyzer/internal/grouping"
)

// Data-quality scoring: total profit-loss + balance-sheet + cash-flow
// statements drives the classification.
const (
	excellentStatementCount = 6
	goodStatementCount      = 3

	excellentConsistency = 0.9
	goodConsistency      = 0.7
	limitedConsistency   = 0.4
)

// AnalyzeMultiPeriod summarizes period coverage and data quality across all
// collections. Pure companion to AnalyzeTrends.
func AnalyzeMultiPeriod(grouped entity.GroupedFinancialData) entity.MultiPeriodAnalysis {
	periodSet := map[string]struct{}{}
	addPeriod := func(p string) {
		if p == "" || p == grouping.UnknownPeriod || p == grouping.UnknownDate {
			return
		}
		periodSet[p] = struct{}{}
	}
	for _, e := range grouped.ProfitLossStatements {
		addPeriod(e.Period)
	}
	for _, e := range grouped.BalanceSheets {
		addPeriod(e.AsOfDate)
	}
	for _, e := range grouped.BankStatements {
		addPeriod(e.Period)
	}
	for _, e := range grouped.CashFlowStatements {
		addPeriod(e.Period)
	}

	periods := make([]string, 0, len(periodSet))
	for p := range periodSet {
		periods = append(periods, p)
	}
	sort.SliceStable(periods, func(i, j int) bool {
		return grouping.ComparePeriods(periods[i], periods[j]) < 0
	})

	statementCount := len(grouped.ProfitLossStatements) + len(grouped.BalanceSheets) + len(grouped.CashFlowStatements)
	quality := entity.DataQualityLimited
	consistency := limitedConsistency
	switch {
	case statementCount >= excellentStatementCount:
		quality = entity.DataQualityExcellent
		consistency = excellentConsistency
	case statementCount >= goodStatementCount:
		quality = entity.DataQualityGood
		consistency = goodConsistency
	}

	analysis := entity.MultiPeriodAnalysis{
		PeriodsAnalyzed:  periods,
		DataQuality:      quality,
		ConsistencyScore: consistency,
		Insights:         []string{},
		Recommendations:  []string{},
	}

	if n := distinctPeriods(profitLossPeriods(grouped)); n >= 2 {
		analysis.Insights = append(analysis.Insights,
			fmt.Sprintf("Profit & loss data covers %d reporting periods, enabling revenue trend comparison", n))
	}
	if n := distinctPeriods(balanceSheetPeriods(grouped)); n >= 2 {
		analysis.Insights = append(analysis.Insights,
			fmt.Sprintf("Balance sheets cover %d reporting dates, enabling asset and leverage comparison", n))
	}
	if n := distinctPeriods(cashFlowPeriods(grouped)); n >= 2 {
		analysis.Insights = append(analysis.Insights,
			fmt.Sprintf("Cash flow statements cover %d reporting periods, enabling liquidity trend comparison", n))
	}

	if len(periods) < 2 {
		analysis.Recommendations = append(analysis.Recommendations,
			"Provide statements from at least two reporting periods to enable trend analysis")
	}
	if len(grouped.CashFlowStatements) == 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			"Add cash flow statements to assess operating liquidity")
	}
	if len(grouped.CreditReports) == 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			"Add a credit report to complete the credit-risk picture")
	}

	return analysis
}

func profitLossPeriods(g entity.GroupedFinancialData) []string {
	out := make([]string, 0, len(g.ProfitLossStatements))
	for _, e := range g.ProfitLossStatements {
		out = append(out, e.Period)
	}
	return out
}

func balanceSheetPeriods(g entity.GroupedFinancialData) []string {
	out := make([]string, 0, len(g.BalanceSheets))
	for _, e := range g.BalanceSheets {
		out = append(out, e.AsOfDate)
	}
	return out
}

func cashFlowPeriods(g entity.GroupedFinancialData) []string {
	out := make([]string, 0, len(g.CashFlowStatements))
	for _, e := range g.CashFlowStatements {
		out = append(out, e.Period)
	}
	return out
}

func distinctPeriods(periods []string) int {
	set := map[string]struct{}{}
	for _, p := range periods {
		if p == "" || p == grouping.UnknownPeriod || p == grouping.UnknownDate {
			continue
		}
		set[p] = struct{}{}
	}
	return len(set)
}
