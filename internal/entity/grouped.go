package entity

// GroupedFinancialData reclassifies all stored DocumentRecords by statement
// type. It is recomputed on demand and never persisted.
type GroupedFinancialData struct {
	ProfitLossStatements []ProfitLossEntry    `json:"profitLossStatements"`
	BalanceSheets        []BalanceSheetEntry  `json:"balanceSheets"`
	BankStatements       []BankStatementEntry `json:"bankStatements"`
	CreditReports        []CreditReportEntry  `json:"creditReports"`
	CashFlowStatements   []CashFlowEntry      `json:"cashFlowStatements"`
	OtherDocuments       []OtherDocumentEntry `json:"otherDocuments"`
}

// ProfitLossEntry is one profit & loss statement with derived gross profit.
type ProfitLossEntry struct {
	Period       string  `json:"period"`
	Revenue      float64 `json:"revenue"`
	Expenses     float64 `json:"expenses"`
	NetIncome    float64 `json:"netIncome"`
	GrossProfit  float64 `json:"grossProfit"`
	SourceFile   string  `json:"sourceFile"`
	DocumentType string  `json:"documentType"`
	Confidence   float64 `json:"confidence"`
}

// BalanceSheetEntry is one balance sheet with derived net worth and leverage.
type BalanceSheetEntry struct {
	AsOfDate         string  `json:"asOfDate"`
	TotalAssets      float64 `json:"totalAssets"`
	TotalLiabilities float64 `json:"totalLiabilities"`
	Equity           float64 `json:"equity"`
	NetWorth         float64 `json:"netWorth"`
	DebtToAssetRatio float64 `json:"debtToAssetRatio"`
	SourceFile       string  `json:"sourceFile"`
	DocumentType     string  `json:"documentType"`
	Confidence       float64 `json:"confidence"`
}

// BankStatementEntry is one bank statement row. A single document may
// contribute several rows, one per statement object it carried.
type BankStatementEntry struct {
	AccountNumber  string  `json:"accountNumber"`
	AccountType    string  `json:"accountType"`
	Period         string  `json:"period"`
	Balance        float64 `json:"balance"`
	TotalCredits   float64 `json:"totalCredits"`
	TotalDebits    float64 `json:"totalDebits"`
	AverageBalance float64 `json:"averageBalance"`
	SourceFile     string  `json:"sourceFile"`
	DocumentType   string  `json:"documentType"`
	Confidence     float64 `json:"confidence"`
}

// CreditReportEntry is one credit report with tradeline totals. Credit
// reports carry no statement period, so ReportDate is the extraction date
// of the source document.
type CreditReportEntry struct {
	ReportDate          string               `json:"reportDate"`
	Score               float64              `json:"score"`
	TotalCreditAccounts int                  `json:"totalCreditAccounts"`
	TotalCreditBalance  float64              `json:"totalCreditBalance"`
	CreditHistory       []CreditHistoryEntry `json:"creditHistory"`
	SourceFile          string               `json:"sourceFile"`
	DocumentType        string               `json:"documentType"`
	Confidence          float64              `json:"confidence"`
}

// CashFlowEntry is one cash-flow statement with derived net cash flow.
type CashFlowEntry struct {
	Period            string  `json:"period"`
	OperatingCashFlow float64 `json:"operatingCashFlow"`
	InvestingCashFlow float64 `json:"investingCashFlow"`
	FinancingCashFlow float64 `json:"financingCashFlow"`
	NetCashFlow       float64 `json:"netCashFlow"`
	SourceFile        string  `json:"sourceFile"`
	DocumentType      string  `json:"documentType"`
	Confidence        float64 `json:"confidence"`
}

// OtherDocumentEntry carries the full original record for documents that
// matched no statement bucket.
type OtherDocumentEntry struct {
	DocumentType string         `json:"documentType"`
	SourceFile   string         `json:"sourceFile"`
	Confidence   float64        `json:"confidence"`
	Record       DocumentRecord `json:"record"`
}
