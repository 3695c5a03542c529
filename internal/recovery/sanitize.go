package recovery

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/creditscope/credit-analyzer/internal/entity"
)

// decodeRecord turns candidate JSON bytes into an ExtractionRecord.
// Malformed field values degrade to defaults; only a structurally unusable
// candidate is rejected.
func decodeRecord(candidate []byte) (entity.ExtractionRecord, error) {
	var m map[string]any
	if err := json.Unmarshal(candidate, &m); err != nil {
		return entity.ExtractionRecord{}, fmt.Errorf("decode candidate: %w", err)
	}

	sanitizeRecordMap(m)

	// Re-validate after sanitizing; a candidate that still violates the
	// lenient schema is not a record at all.
	cleaned, err := json.Marshal(m)
	if err != nil {
		return entity.ExtractionRecord{}, fmt.Errorf("encode sanitized: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildExtractionJSONSchema(), cleaned); err != nil {
		return entity.ExtractionRecord{}, fmt.Errorf("schema: %w", err)
	}

	var rec entity.ExtractionRecord
	if err := json.Unmarshal(cleaned, &rec); err != nil {
		return entity.ExtractionRecord{}, fmt.Errorf("unmarshal record: %w", err)
	}
	applyDefaults(&rec)
	return rec, nil
}

// sanitizeRecordMap normalizes a raw record map in place:
// string-typed numbers are coerced, nulls dropped, and mistyped
// values for known fields removed so the lenient schema passes.
func sanitizeRecordMap(m map[string]any) {
	if v, ok := m["documentType"]; ok {
		if s, ok := v.(string); ok {
			m["documentType"] = strings.TrimSpace(s)
		} else {
			delete(m, "documentType")
		}
	}
	coerceNumber(m, "confidence")
	if _, isStr := m["confidence"].(string); isStr {
		delete(m, "confidence")
	}
	// extractionDate must decode as RFC 3339 or be absent; the merger stamps it.
	if s, ok := m["extractionDate"].(string); !ok || s == "" {
		delete(m, "extractionDate")
	} else if _, err := time.Parse(time.RFC3339, s); err != nil {
		delete(m, "extractionDate")
	}
	if v, ok := m["confidence"].(float64); ok {
		if v < 0 {
			m["confidence"] = 0.0
		} else if v > 1 {
			m["confidence"] = 1.0
		}
	}
	if ci, ok := m["companyInfo"].(map[string]any); ok {
		coerceString(ci, "name", "registrationNumber", "taxId", "address", "phone", "email", "industry")
	} else {
		delete(m, "companyInfo")
	}
	if people, ok := m["individuals"].([]any); ok {
		kept := make([]any, 0, len(people))
		for _, p := range people {
			pm, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if name, _ := pm["name"].(string); strings.TrimSpace(name) == "" {
				continue // name is the one required field
			}
			coerceString(pm, "position", "address", "phone", "email")
			coerceNumber(pm, "ownershipPercentage")
			if _, isStr := pm["ownershipPercentage"].(string); isStr {
				delete(pm, "ownershipPercentage")
			}
			kept = append(kept, pm)
		}
		m["individuals"] = kept
	} else {
		delete(m, "individuals")
	}
	if _, ok := m["financial"].(map[string]any); !ok {
		delete(m, "financial")
	}
	if fin, ok := m["financial"].(map[string]any); ok {
		numericKeys := map[string][]string{
			"profitLoss":   {"revenue", "expenses", "netIncome"},
			"balanceSheet": {"totalAssets", "totalLiabilities", "equity"},
			"creditInfo":   {"score"},
			"cashFlow":     {"operatingCashFlow", "investingCashFlow", "financingCashFlow"},
		}
		stringKeys := map[string][]string{
			"profitLoss":   {"period"},
			"balanceSheet": {"asOfDate"},
			"cashFlow":     {"period"},
		}
		for key, nums := range numericKeys {
			if sub, ok := fin[key].(map[string]any); ok {
				for _, k := range nums {
					coerceNumber(sub, k)
					if _, isStr := sub[k].(string); isStr {
						delete(sub, k) // unparseable numeric → absent
					}
				}
				coerceString(sub, stringKeys[key]...)
			} else if _, present := fin[key]; present {
				delete(fin, key)
			}
		}
		if ci, ok := fin["creditInfo"].(map[string]any); ok {
			if hist, ok := ci["creditHistory"].([]any); ok {
				kept := make([]any, 0, len(hist))
				for _, h := range hist {
					hm, ok := h.(map[string]any)
					if !ok {
						continue // list noise, not an account entry
					}
					coerceString(hm, "creditor", "accountType", "paymentStatus", "opened")
					coerceNumber(hm, "balance")
					if _, isStr := hm["balance"].(string); isStr {
						delete(hm, "balance")
					}
					kept = append(kept, hm)
				}
				ci["creditHistory"] = kept
			} else if _, present := ci["creditHistory"]; present {
				delete(ci, "creditHistory")
			}
		}
		if _, ok := fin["bankStatements"].([]any); !ok {
			delete(fin, "bankStatements")
		}
		if stmts, ok := fin["bankStatements"].([]any); ok {
			kept := make([]any, 0, len(stmts))
			for _, s := range stmts {
				sm, ok := s.(map[string]any)
				if !ok {
					continue
				}
				coerceString(sm, "accountNumber", "accountType", "period")
				coerceNumber(sm, "balance")
				if _, isStr := sm["balance"].(string); isStr {
					delete(sm, "balance")
				}
				if txs, ok := sm["transactions"].([]any); ok {
					keptTx := make([]any, 0, len(txs))
					for _, tx := range txs {
						tm, ok := tx.(map[string]any)
						if !ok {
							continue
						}
						coerceString(tm, "date", "description", "type")
						coerceNumber(tm, "amount")
						if _, isStr := tm["amount"].(string); isStr {
							delete(tm, "amount")
						}
						keptTx = append(keptTx, tm)
					}
					sm["transactions"] = keptTx
				} else if _, present := sm["transactions"]; present {
					delete(sm, "transactions")
				}
				kept = append(kept, sm)
			}
			fin["bankStatements"] = kept
		}
	}
}

// coerceNumber rewrites m[k] as a float64 when it is a numeric string, and
// drops it when it is null, non-finite, or not a number at all.
func coerceNumber(m map[string]any, k string) {
	v, ok := m[k]
	if !ok {
		return
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			delete(m, k)
		}
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		s = strings.TrimPrefix(s, "$")
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			m[k] = f
		}
		// non-numeric strings (period labels, dates) pass through untouched
	default:
		// null, bool, array, object: not a number; the field degrades to
		// absent rather than sinking the whole candidate
		delete(m, k)
	}
}

// coerceString normalizes known text fields: numbers are stringified
// (account numbers often arrive bare), anything else non-string is dropped.
func coerceString(m map[string]any, keys ...string) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
		case float64:
			m[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			delete(m, k)
		}
	}
}

// applyDefaults enforces the record invariants after unmarshalling.
func applyDefaults(rec *entity.ExtractionRecord) {
	if strings.TrimSpace(rec.DocumentType) == "" {
		rec.DocumentType = entity.UnknownDocumentType
	}
	if math.IsNaN(rec.Confidence) || rec.Confidence < 0 {
		rec.Confidence = 0
	}
	if rec.Confidence > 1 {
		rec.Confidence = 1
	}
	dropNonFinite(&rec.Financial)
}

func dropNonFinite(f *entity.FinancialData) {
	clean := func(p **float64) {
		if *p != nil && (math.IsNaN(**p) || math.IsInf(**p, 0)) {
			*p = nil
		}
	}
	if pl := f.ProfitLoss; pl != nil {
		clean(&pl.Revenue)
		clean(&pl.Expenses)
		clean(&pl.NetIncome)
	}
	if bs := f.BalanceSheet; bs != nil {
		clean(&bs.TotalAssets)
		clean(&bs.TotalLiabilities)
		clean(&bs.Equity)
	}
	for i := range f.BankStatements {
		clean(&f.BankStatements[i].Balance)
		for j := range f.BankStatements[i].Transactions {
			clean(&f.BankStatements[i].Transactions[j].Amount)
		}
	}
	if ci := f.CreditInfo; ci != nil {
		clean(&ci.Score)
		for i := range ci.CreditHistory {
			clean(&ci.CreditHistory[i].Balance)
		}
	}
	if cf := f.CashFlow; cf != nil {
		clean(&cf.OperatingCashFlow)
		clean(&cf.InvestingCashFlow)
		clean(&cf.FinancingCashFlow)
	}
}

// salvagePairs regex-extracts individual key/value pairs from the raw text
// and assembles what it can into a flat record. Returns the number of fields
// it managed to place.
func salvagePairs(raw string) (entity.ExtractionRecord, int) {
	rec := entity.NewExtractionRecord()
	fields := 0

	flat := map[string]any{}
	for _, m := range rePair.FindAllStringSubmatch(raw, -1) {
		key := strings.TrimSpace(m[1])
		val := m[2]
		if key == "" {
			continue
		}
		switch {
		case strings.HasPrefix(val, `"`):
			var s string
			if err := json.Unmarshal([]byte(val), &s); err == nil {
				flat[key] = s
			}
		case val == "true" || val == "false":
			flat[key] = val == "true"
		case val == "null":
			// absent, not zero
		default:
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				flat[key] = f
			}
		}
	}

	str := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if s, ok := flat[k].(string); ok && s != "" {
				return s, true
			}
		}
		return "", false
	}
	num := func(keys ...string) (*float64, bool) {
		for _, k := range keys {
			if f, ok := flat[k].(float64); ok {
				return &f, true
			}
		}
		return nil, false
	}

	if s, ok := str("documentType", "document_type", "type"); ok {
		rec.DocumentType = s
		fields++
	}
	if f, ok := num("confidence"); ok {
		c := *f
		if c >= 0 && c <= 1 {
			rec.Confidence = c
			fields++
		}
	}
	if s, ok := str("companyName", "company_name", "name"); ok {
		rec.CompanyInfo.Name = s
		fields++
	}
	pl := &entity.ProfitLoss{}
	plFields := 0
	if f, ok := num("revenue", "totalRevenue"); ok {
		pl.Revenue = f
		plFields++
	}
	if f, ok := num("expenses", "totalExpenses"); ok {
		pl.Expenses = f
		plFields++
	}
	if f, ok := num("netIncome", "net_income"); ok {
		pl.NetIncome = f
		plFields++
	}
	if s, ok := str("period"); ok {
		pl.Period = s
		plFields++
	}
	if plFields > 0 {
		rec.Financial.ProfitLoss = pl
		fields += plFields
	}
	bs := &entity.BalanceSheet{}
	bsFields := 0
	if f, ok := num("totalAssets", "total_assets"); ok {
		bs.TotalAssets = f
		bsFields++
	}
	if f, ok := num("totalLiabilities", "total_liabilities"); ok {
		bs.TotalLiabilities = f
		bsFields++
	}
	if f, ok := num("equity"); ok {
		bs.Equity = f
		bsFields++
	}
	if s, ok := str("asOfDate", "as_of_date"); ok {
		bs.AsOfDate = s
		bsFields++
	}
	if bsFields > 0 {
		rec.Financial.BalanceSheet = bs
		fields += bsFields
	}

	return rec, fields
}
