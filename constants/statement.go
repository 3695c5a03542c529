package constants

import "strings"

// StatementType is the canonical classification of a financial document.
type StatementType string

const (
	ProfitLoss    StatementType = "ProfitLoss"
	BalanceSheet  StatementType = "BalanceSheet"
	BankStatement StatementType = "BankStatement"
	CreditReport  StatementType = "CreditReport"
	CashFlow      StatementType = "CashFlow"
	OtherDocument StatementType = "Other"
)

var allStatementTypes = []StatementType{
	ProfitLoss,
	BalanceSheet,
	BankStatement,
	CreditReport,
	CashFlow,
	OtherDocument,
}

func StatementTypesAsStrings() []string {
	result := make([]string, len(allStatementTypes))
	for i, st := range allStatementTypes {
		result[i] = string(st)
	}
	return result
}

// statementSynonyms maps lowercased document-type labels to their canonical bucket.
// Matching is exact on the normalized label; unmatched labels classify as Other.
var statementSynonyms = map[string]StatementType{
	"profit and loss statement": ProfitLoss,
	"profit & loss":             ProfitLoss,
	"profit & loss statement":   ProfitLoss,
	"profit and loss":           ProfitLoss,
	"income statement":          ProfitLoss,
	"p&l":                       ProfitLoss,
	"p&l statement":             ProfitLoss,

	"balance sheet":                   BalanceSheet,
	"balance sheet statement":         BalanceSheet,
	"statement of financial position": BalanceSheet,

	"bank statement":         BankStatement,
	"account statement":      BankStatement,
	"bank account statement": BankStatement,

	"credit report":             CreditReport,
	"credit bureau report":      CreditReport,
	"credit history report":     CreditReport,
	"consumer credit report":    CreditReport,
	"commercial credit report":  CreditReport,
	"business credit report":    CreditReport,
	"personal credit statement": CreditReport,

	"cash flow statement":     CashFlow,
	"statement of cash flows": CashFlow,
	"cashflow statement":      CashFlow,
	"cash flow":               CashFlow,
}

// CanonicalizeStatementType maps a free-text document type to its statement
// bucket. The second return is false when the label did not match any synonym.
func CanonicalizeStatementType(input string) (StatementType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return OtherDocument, false
	}
	if st, ok := statementSynonyms[normalized]; ok {
		return st, true
	}
	return OtherDocument, false
}
