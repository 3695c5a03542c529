package trends

import (
	"fmt"
	"math"
	"sort"

	"github.com/creditscope/credit-analyzer/internal/entity"
	"github.com/creditscope/credit-analyzer/internal/grouping"
)

// Classification thresholds, preserved from the established scoring
// behavior; confirm with domain owners before changing.
const (
	increaseThresholdPct = 10.0
	decreaseThresholdPct = -10.0
)

type sample struct {
	period string
	value  float64
}

// AnalyzeTrends computes direction and magnitude of change for the four core
// metrics. Never fails: a metric with fewer than two usable samples reports
// insufficient_data.
func AnalyzeTrends(grouped entity.GroupedFinancialData) entity.FinancialTrends {
	revenueSamples := make([]sample, 0, len(grouped.ProfitLossStatements))
	profitSamples := make([]sample, 0, len(grouped.ProfitLossStatements))
	for _, pl := range grouped.ProfitLossStatements {
		revenueSamples = append(revenueSamples, sample{pl.Period, pl.Revenue})
		profitSamples = append(profitSamples, sample{pl.Period, pl.NetIncome})
	}
	assetSamples := make([]sample, 0, len(grouped.BalanceSheets))
	for _, bs := range grouped.BalanceSheets {
		assetSamples = append(assetSamples, sample{bs.AsOfDate, bs.TotalAssets})
	}
	liquiditySamples := make([]sample, 0, len(grouped.BankStatements))
	for _, stmt := range grouped.BankStatements {
		liquiditySamples = append(liquiditySamples, sample{stmt.Period, stmt.Balance})
	}

	return entity.FinancialTrends{
		Revenue:       analyzeMetric("revenue", revenueSamples),
		Profitability: analyzeMetric("profitability", profitSamples),
		Assets:        analyzeMetric("assets", assetSamples),
		Liquidity:     analyzeMetric("liquidity", liquiditySamples),
	}
}

func analyzeMetric(metric string, samples []sample) entity.TrendResult {
	// Order by period before comparing endpoints; the bank-statement
	// collection arrives in insertion order.
	sort.SliceStable(samples, func(i, j int) bool {
		return grouping.ComparePeriods(samples[i].period, samples[j].period) < 0
	})

	usable := samples[:0]
	for _, s := range samples {
		if math.IsNaN(s.value) || math.IsInf(s.value, 0) {
			continue
		}
		usable = append(usable, s)
	}

	if len(usable) < 2 {
		return entity.TrendResult{
			Trend:         entity.TrendInsufficientData,
			ChangePercent: 0,
			Periods:       periodsOf(usable),
			Label:         fmt.Sprintf("Not enough data to assess %s", metric),
		}
	}

	first := usable[0].value
	last := usable[len(usable)-1].value

	var changePct float64
	var trend string
	switch {
	case first == 0 && last > 0:
		changePct = 100
		trend = entity.TrendIncreasing
	case first == 0:
		changePct = 0
		trend = entity.TrendStable
	default:
		changePct = round2((last - first) / math.Abs(first) * 100)
		switch {
		case changePct > increaseThresholdPct:
			trend = entity.TrendIncreasing
		case changePct < decreaseThresholdPct:
			trend = entity.TrendDecreasing
		default:
			trend = entity.TrendStable
		}
	}

	return entity.TrendResult{
		Trend:         trend,
		ChangePercent: changePct,
		Periods:       periodsOf(usable),
		FirstValue:    first,
		LastValue:     last,
		Label:         fmt.Sprintf("%s %s by %.2f%% over %d periods", metric, trend, changePct, len(usable)),
	}
}

func periodsOf(samples []sample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.period
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
