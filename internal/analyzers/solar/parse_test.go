package solar

import "testing"

func TestParseModelResponsePlainJSON(t *testing.T) {
	text := `{"monthly_payment": 185.5, "escalator_clause": true, "escalator_pct": 2.9, "contract_type": "lease", "vendor": "Sunrun", "confidence_score": 0.92}`

	data := ParseModelResponse(text, "")
	if data.MonthlyPayment == nil || *data.MonthlyPayment != 185.5 {
		t.Fatalf("expected monthly payment 185.5, got %v", data.MonthlyPayment)
	}
	if data.EscalatorPct == nil || *data.EscalatorPct != 2.9 {
		t.Fatalf("expected escalator pct 2.9, got %v", data.EscalatorPct)
	}
	if data.ContractType != "lease" {
		t.Fatalf("expected lease, got %q", data.ContractType)
	}
	if data.Vendor != "Sunrun" {
		t.Fatalf("expected Sunrun, got %q", data.Vendor)
	}
}

func TestParseModelResponseCodeFenced(t *testing.T) {
	text := "```json\n{\"monthly_payment\": 250, \"contract_type\": \"ppa\"}\n```"

	data := ParseModelResponse(text, "")
	if data.MonthlyPayment == nil || *data.MonthlyPayment != 250 {
		t.Fatalf("expected monthly payment 250, got %v", data.MonthlyPayment)
	}
	if data.ContractType != "ppa" {
		t.Fatalf("expected ppa, got %q", data.ContractType)
	}
}

func TestParseModelResponseMalformed(t *testing.T) {
	data := ParseModelResponse("I could not read the document, sorry.", "Tesla Energy")

	if data.Vendor != "Tesla Energy" {
		t.Fatalf("expected vendor fallback, got %q", data.Vendor)
	}
	if data.ContractType != "unknown" {
		t.Fatalf("expected unknown contract type, got %q", data.ContractType)
	}
	if data.ConfidenceScore == nil || *data.ConfidenceScore != 0 {
		t.Fatalf("expected zero confidence, got %v", data.ConfidenceScore)
	}
	if data.MonthlyPayment != nil {
		t.Fatal("expected nil monthly payment on parse failure")
	}
}

func TestParseModelResponseNullVendorUsesFallback(t *testing.T) {
	data := ParseModelResponse(`{"vendor": "null", "contract_type": "lease"}`, "Vivint Solar")
	if data.Vendor != "Vivint Solar" {
		t.Fatalf("expected vendor fallback, got %q", data.Vendor)
	}
}

func TestParseModelResponseInvalidContractType(t *testing.T) {
	data := ParseModelResponse(`{"contract_type": "mortgage"}`, "")
	if data.ContractType != "unknown" {
		t.Fatalf("expected unknown, got %q", data.ContractType)
	}
}
