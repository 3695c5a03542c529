package merge

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/creditscope/credit-analyzer/internal/entity"
)

// Merger folds per-page ExtractionRecords into one canonical DocumentRecord.
// It never fails: zero input yields the constant Unknown record.
type Merger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger, now: time.Now}
}

// Merge combines records in input order. Scalars: first non-empty wins.
// Lists: concatenated, then deduplicated on their composite keys.
func (m *Merger) Merge(id uuid.UUID, records []entity.ExtractionRecord, sourceFile string) entity.DocumentRecord {
	out := entity.DocumentRecord{
		ExtractionRecord: entity.NewExtractionRecord(),
		ID:               id,
		SourceFile:       sourceFile,
		PageCount:        len(records),
	}

	var confSum float64
	var confN int

	for _, rec := range records {
		if out.DocumentType == entity.UnknownDocumentType && rec.DocumentType != "" && rec.DocumentType != entity.UnknownDocumentType {
			out.DocumentType = rec.DocumentType
		}
		mergeCompanyInfo(&out.CompanyInfo, rec.CompanyInfo)
		mergeFinancial(&out.Financial, rec.Financial)
		out.Individuals = append(out.Individuals, rec.Individuals...)
		if rec.Confidence > 0 {
			confSum += rec.Confidence
			confN++
		}
		if out.ExtractionDate.IsZero() && !rec.ExtractionDate.IsZero() {
			out.ExtractionDate = rec.ExtractionDate
		}
	}

	out.Individuals = dedupeIndividuals(out.Individuals)
	out.Financial.BankStatements = dedupeBankStatements(out.Financial.BankStatements)
	if out.Financial.CreditInfo != nil {
		out.Financial.CreditInfo.CreditHistory = dedupeCreditHistory(out.Financial.CreditInfo.CreditHistory)
	}

	if confN > 0 {
		out.Confidence = confSum / float64(confN)
	}
	if out.ExtractionDate.IsZero() {
		out.ExtractionDate = m.now().UTC()
	}

	m.logger.Info("merged extraction records",
		"document_id", id,
		"source_file", sourceFile,
		"pages", len(records),
		"document_type", out.DocumentType,
		"individuals", len(out.Individuals),
		"bank_statements", len(out.Financial.BankStatements),
		"confidence", out.Confidence,
	)
	return out
}

// mergeCompanyInfo fills empty destination fields; later values never
// overwrite earlier non-empty ones.
func mergeCompanyInfo(dst *entity.CompanyInfo, src entity.CompanyInfo) {
	fillStr(&dst.Name, src.Name)
	fillStr(&dst.RegistrationNumber, src.RegistrationNumber)
	fillStr(&dst.TaxID, src.TaxID)
	fillStr(&dst.Address, src.Address)
	fillStr(&dst.Phone, src.Phone)
	fillStr(&dst.Email, src.Email)
	fillStr(&dst.Industry, src.Industry)
}

func mergeFinancial(dst *entity.FinancialData, src entity.FinancialData) {
	if src.ProfitLoss != nil {
		if dst.ProfitLoss == nil {
			dst.ProfitLoss = &entity.ProfitLoss{}
		}
		fillNum(&dst.ProfitLoss.Revenue, src.ProfitLoss.Revenue)
		fillNum(&dst.ProfitLoss.Expenses, src.ProfitLoss.Expenses)
		fillNum(&dst.ProfitLoss.NetIncome, src.ProfitLoss.NetIncome)
		fillStr(&dst.ProfitLoss.Period, src.ProfitLoss.Period)
	}
	if src.BalanceSheet != nil {
		if dst.BalanceSheet == nil {
			dst.BalanceSheet = &entity.BalanceSheet{}
		}
		fillNum(&dst.BalanceSheet.TotalAssets, src.BalanceSheet.TotalAssets)
		fillNum(&dst.BalanceSheet.TotalLiabilities, src.BalanceSheet.TotalLiabilities)
		fillNum(&dst.BalanceSheet.Equity, src.BalanceSheet.Equity)
		fillStr(&dst.BalanceSheet.AsOfDate, src.BalanceSheet.AsOfDate)
	}
	if src.CashFlow != nil {
		if dst.CashFlow == nil {
			dst.CashFlow = &entity.CashFlow{}
		}
		fillNum(&dst.CashFlow.OperatingCashFlow, src.CashFlow.OperatingCashFlow)
		fillNum(&dst.CashFlow.InvestingCashFlow, src.CashFlow.InvestingCashFlow)
		fillNum(&dst.CashFlow.FinancingCashFlow, src.CashFlow.FinancingCashFlow)
		fillStr(&dst.CashFlow.Period, src.CashFlow.Period)
	}
	if src.CreditInfo != nil {
		if dst.CreditInfo == nil {
			dst.CreditInfo = &entity.CreditInfo{}
		}
		fillNum(&dst.CreditInfo.Score, src.CreditInfo.Score)
		dst.CreditInfo.CreditHistory = append(dst.CreditInfo.CreditHistory, src.CreditInfo.CreditHistory...)
	}
	dst.BankStatements = append(dst.BankStatements, src.BankStatements...)
}

// fillStr sets *dst to src only when *dst is empty.
func fillStr(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

// fillNum sets *dst to src only when *dst is nil. Later non-nil values for an
// already-filled field are dropped silently.
func fillNum(dst **float64, src *float64) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

// Dedup keys are composite, exact-match and case-sensitive; the first
// occurrence under each key is retained.

func dedupeBankStatements(in []entity.BankStatement) []entity.BankStatement {
	if len(in) == 0 {
		return in
	}
	seen := make(map[[2]string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		key := [2]string{s.AccountNumber, s.Period}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func dedupeCreditHistory(in []entity.CreditHistoryEntry) []entity.CreditHistoryEntry {
	if len(in) == 0 {
		return in
	}
	type key struct {
		creditor    string
		accountType string
		balance     float64
		hasBalance  bool
	}
	seen := make(map[key]struct{}, len(in))
	out := in[:0]
	for _, e := range in {
		k := key{creditor: e.Creditor, accountType: e.AccountType}
		if e.Balance != nil {
			k.balance = *e.Balance
			k.hasBalance = true
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

func dedupeIndividuals(in []entity.Individual) []entity.Individual {
	if len(in) == 0 {
		return in
	}
	seen := make(map[[2]string]struct{}, len(in))
	out := in[:0]
	for _, p := range in {
		key := [2]string{p.Name, p.Position}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
