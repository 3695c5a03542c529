package recovery

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildExtractionJSONSchema returns the lenient schema a recovered record
// must satisfy (draft 2020-12 subset, as a generic map). It constrains TYPES
// of known fields only; unknown keys and missing optionals are fine — the
// merger fills defaults. It is deliberately looser than the prompt schema
// sent to the model.
func BuildExtractionJSONSchema() map[string]any {
	moneyProp := map[string]any{"type": "number"}
	periodProp := map[string]any{"type": "string"}

	profitLoss := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"revenue":   moneyProp,
			"expenses":  moneyProp,
			"netIncome": moneyProp,
			"period":    periodProp,
		},
	}
	balanceSheet := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"totalAssets":      moneyProp,
			"totalLiabilities": moneyProp,
			"equity":           moneyProp,
			"asOfDate":         periodProp,
		},
	}
	bankStatement := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"accountNumber": map[string]any{"type": "string"},
			"accountType":   map[string]any{"type": "string"},
			"balance":       moneyProp,
			"period":        periodProp,
			"transactions":  map[string]any{"type": "array"},
		},
	}
	cashFlow := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operatingCashFlow": moneyProp,
			"investingCashFlow": moneyProp,
			"financingCashFlow": moneyProp,
			"period":            periodProp,
		},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"documentType": map[string]any{"type": "string"},
			"companyInfo":  map[string]any{"type": "object"},
			"individuals":  map[string]any{"type": "array"},
			"confidence":   map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"financial": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"profitLoss":     profitLoss,
					"balanceSheet":   balanceSheet,
					"bankStatements": map[string]any{"type": "array", "items": bankStatement},
					"creditInfo":     map[string]any{"type": "object"},
					"cashFlow":       cashFlow,
				},
			},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
