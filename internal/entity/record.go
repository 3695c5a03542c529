package entity

import (
	"time"
)

// UnknownDocumentType is the sentinel for documents whose type could not be
// determined.
const UnknownDocumentType = "Unknown"

// CompanyInfo holds the optional company identity fields extracted from a page.
type CompanyInfo struct {
	Name               string `json:"name,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	TaxID              string `json:"taxId,omitempty"`
	Address            string `json:"address,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Email              string `json:"email,omitempty"`
	Industry           string `json:"industry,omitempty"`
}

// Individual is one person entry (owner, director, guarantor). Name is the
// only required field.
type Individual struct {
	Name                string   `json:"name"`
	Position            string   `json:"position,omitempty"`
	Address             string   `json:"address,omitempty"`
	Phone               string   `json:"phone,omitempty"`
	Email               string   `json:"email,omitempty"`
	OwnershipPercentage *float64 `json:"ownershipPercentage,omitempty"`
}

// ProfitLoss holds the optional profit & loss scalars of one page.
type ProfitLoss struct {
	Revenue   *float64 `json:"revenue,omitempty"`
	Expenses  *float64 `json:"expenses,omitempty"`
	NetIncome *float64 `json:"netIncome,omitempty"`
	Period    string   `json:"period,omitempty"`
}

// BalanceSheet holds the optional balance-sheet scalars of one page.
type BalanceSheet struct {
	TotalAssets      *float64 `json:"totalAssets,omitempty"`
	TotalLiabilities *float64 `json:"totalLiabilities,omitempty"`
	Equity           *float64 `json:"equity,omitempty"`
	AsOfDate         string   `json:"asOfDate,omitempty"`
}

// Transaction is one line item inside a bank statement.
type Transaction struct {
	Date        string   `json:"date,omitempty"`
	Description string   `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Type        string   `json:"type,omitempty"` // "credit" | "debit"
}

// BankStatement is one account statement extracted from a page.
type BankStatement struct {
	AccountNumber string        `json:"accountNumber,omitempty"`
	AccountType   string        `json:"accountType,omitempty"`
	Balance       *float64      `json:"balance,omitempty"`
	Period        string        `json:"period,omitempty"`
	Transactions  []Transaction `json:"transactions,omitempty"`
}

// CreditHistoryEntry is one tradeline in a credit report.
type CreditHistoryEntry struct {
	Creditor      string   `json:"creditor,omitempty"`
	AccountType   string   `json:"accountType,omitempty"`
	Balance       *float64 `json:"balance,omitempty"`
	PaymentStatus string   `json:"paymentStatus,omitempty"`
	Opened        string   `json:"opened,omitempty"`
}

// CreditInfo holds the optional credit-report data of one page.
type CreditInfo struct {
	Score         *float64             `json:"score,omitempty"`
	CreditHistory []CreditHistoryEntry `json:"creditHistory,omitempty"`
}

// CashFlow holds the optional cash-flow scalars of one page.
type CashFlow struct {
	OperatingCashFlow *float64 `json:"operatingCashFlow,omitempty"`
	InvestingCashFlow *float64 `json:"investingCashFlow,omitempty"`
	FinancingCashFlow *float64 `json:"financingCashFlow,omitempty"`
	Period            string   `json:"period,omitempty"`
}

// FinancialData groups the statement sub-records of one page.
type FinancialData struct {
	ProfitLoss     *ProfitLoss     `json:"profitLoss,omitempty"`
	BalanceSheet   *BalanceSheet   `json:"balanceSheet,omitempty"`
	BankStatements []BankStatement `json:"bankStatements,omitempty"`
	CreditInfo     *CreditInfo     `json:"creditInfo,omitempty"`
	CashFlow       *CashFlow       `json:"cashFlow,omitempty"`
}

// ExtractionRecord is one page/image's parsed model output.
// Every optional numeric field is either a finite number or absent — never NaN.
type ExtractionRecord struct {
	DocumentType   string        `json:"documentType"`
	CompanyInfo    CompanyInfo   `json:"companyInfo"`
	Individuals    []Individual  `json:"individuals,omitempty"`
	Financial      FinancialData `json:"financial"`
	ExtractionDate time.Time     `json:"extractionDate"`
	Confidence     float64       `json:"confidence"`
}

// NewExtractionRecord returns a record with the Unknown document type set.
func NewExtractionRecord() ExtractionRecord {
	return ExtractionRecord{DocumentType: UnknownDocumentType}
}
