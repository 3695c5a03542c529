package llm

import "strings"

// BuildExtractionPrompt composes the fixed extraction instruction sent with
// every page image. The field names here must track the ExtractionRecord
// JSON shape in internal/entity.
func BuildExtractionPrompt() string {
	parts := []string{
		"You are a financial document analyst. Examine the attached scanned page and return ONLY a JSON object, no prose.",
		"The object has this shape:",
		`{"documentType": "...", "companyInfo": {"name", "registrationNumber", "taxId", "address", "phone", "email", "industry"},` +
			` "individuals": [{"name", "position", "address", "phone", "email", "ownershipPercentage"}],` +
			` "financial": {` +
			`"profitLoss": {"revenue", "expenses", "netIncome", "period"},` +
			` "balanceSheet": {"totalAssets", "totalLiabilities", "equity", "asOfDate"},` +
			` "bankStatements": [{"accountNumber", "accountType", "balance", "period", "transactions": [{"date", "description", "amount", "type"}]}],` +
			` "creditInfo": {"score", "creditHistory": [{"creditor", "accountType", "balance", "paymentStatus", "opened"}]},` +
			` "cashFlow": {"operatingCashFlow", "investingCashFlow", "financingCashFlow", "period"}},` +
			` "confidence": 0.0}`,
		"documentType is the document's own title, e.g. 'Balance Sheet', 'Profit and Loss Statement', 'Bank Statement', 'Credit Report', 'Cash Flow Statement'. Use 'Unknown' if unclear.",
		"All monetary values are plain numbers without currency symbols or thousands separators.",
		"Transaction 'type' is exactly 'credit' or 'debit'.",
		"Periods are human labels as printed on the document, e.g. 'December 2023' or 'FY 2022'.",
		"confidence is your overall extraction confidence in [0,1].",
		"Never output null. If a field is not visible on this page, omit it.",
	}
	return strings.Join(parts, "\n")
}
