package entity

// Trend directions.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// Data-quality classifications for multi-period analysis.
const (
	DataQualityExcellent = "excellent"
	DataQualityGood      = "good"
	DataQualityLimited   = "limited"
)

// TrendResult describes direction and magnitude of change for one metric
// across ordered periods. Derived, never persisted.
type TrendResult struct {
	Trend         string   `json:"trend"`
	ChangePercent float64  `json:"changePercent"`
	Periods       []string `json:"periods"`
	FirstValue    float64  `json:"firstValue"`
	LastValue     float64  `json:"lastValue"`
	Label         string   `json:"label"`
}

// FinancialTrends bundles the four metric trends.
type FinancialTrends struct {
	Revenue       TrendResult `json:"revenue"`
	Profitability TrendResult `json:"profitability"`
	Assets        TrendResult `json:"assets"`
	Liquidity     TrendResult `json:"liquidity"`
}

// MultiPeriodAnalysis summarizes cross-period coverage and consistency.
type MultiPeriodAnalysis struct {
	PeriodsAnalyzed  []string `json:"periodsAnalyzed"`
	DataQuality      string   `json:"dataQuality"`
	ConsistencyScore float64  `json:"consistencyScore"`
	Insights         []string `json:"insights"`
	Recommendations  []string `json:"recommendations"`
}

// AnalysisResult is the combined group+analyze payload.
type AnalysisResult struct {
	GroupedFinancialData GroupedFinancialData `json:"groupedFinancialData"`
	FinancialTrends      FinancialTrends      `json:"financialTrends"`
	MultiPeriodAnalysis  MultiPeriodAnalysis  `json:"multiPeriodAnalysis"`
}
