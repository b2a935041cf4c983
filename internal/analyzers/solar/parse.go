package solar

import (
	"encoding/json"
	"strings"
)

// ExtractedData is the closed schema the model is asked to fill. Everything
// is optional; missing or malformed output degrades to nulls.
type ExtractedData struct {
	MonthlyPayment  *float64 `json:"monthly_payment"`
	EscalatorClause *bool    `json:"escalator_clause"`
	EscalatorPct    *float64 `json:"escalator_pct"`
	BuyoutAmount    *float64 `json:"buyout_amount"`
	TransferFee     *float64 `json:"transfer_fee"`
	LeaseTermYears  *float64 `json:"lease_term_years"`
	ContractType    string   `json:"contract_type"`
	Vendor          string   `json:"vendor"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

// ParseModelResponse parses the model's JSON reply. Markdown code fences are
// stripped first since models routinely wrap JSON in them. On any parse
// failure the result carries only the vendor fallback and a zeroed
// confidence, never an error.
func ParseModelResponse(text, vendorFallback string) ExtractedData {
	cleaned := stripCodeFences(text)

	var data ExtractedData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		low := 0.0
		return ExtractedData{
			Vendor:          vendorFallback,
			ContractType:    "unknown",
			ConfidenceScore: &low,
		}
	}

	if data.Vendor == "" || strings.EqualFold(data.Vendor, "null") {
		data.Vendor = vendorFallback
	}
	switch data.ContractType {
	case "lease", "ppa", "loan":
	default:
		data.ContractType = "unknown"
	}
	return data
}

func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
