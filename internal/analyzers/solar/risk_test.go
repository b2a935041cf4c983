package solar

import "testing"

func f64(v float64) *float64 { return &v }
func boolp(v bool) *bool     { return &v }

func TestDeriveRiskLevelEscalatorAboveThreshold(t *testing.T) {
	data := ExtractedData{EscalatorPct: f64(2.9), MonthlyPayment: f64(180)}
	if level := DeriveRiskLevel(data); level != "high" {
		t.Fatalf("expected high, got %q", level)
	}
}

func TestDeriveRiskLevelPaymentAboveThreshold(t *testing.T) {
	data := ExtractedData{MonthlyPayment: f64(320)}
	if level := DeriveRiskLevel(data); level != "high" {
		t.Fatalf("expected high, got %q", level)
	}
}

func TestDeriveRiskLevelBothBelowThreshold(t *testing.T) {
	data := ExtractedData{
		EscalatorClause: boolp(true),
		EscalatorPct:    f64(1.5),
		MonthlyPayment:  f64(150),
	}
	if level := DeriveRiskLevel(data); level != "medium" {
		t.Fatalf("expected medium, got %q", level)
	}
}

func TestDeriveRiskLevelNoFields(t *testing.T) {
	if level := DeriveRiskLevel(ExtractedData{}); level != "medium" {
		t.Fatalf("expected medium floor, got %q", level)
	}
}

func TestDeriveRiskLevelExactThresholds(t *testing.T) {
	// Thresholds are strict inequalities.
	data := ExtractedData{EscalatorPct: f64(2.0), MonthlyPayment: f64(300)}
	if level := DeriveRiskLevel(data); level != "medium" {
		t.Fatalf("expected medium at exact thresholds, got %q", level)
	}
}

func TestSolarStatus(t *testing.T) {
	if got := SolarStatus(ExtractedData{ContractType: "lease"}); got != "leased" {
		t.Fatalf("expected leased, got %q", got)
	}
	if got := SolarStatus(ExtractedData{ContractType: "loan"}); got != "owned" {
		t.Fatalf("expected owned, got %q", got)
	}
	if got := SolarStatus(ExtractedData{}); got != "owned" {
		t.Fatalf("expected owned for unknown, got %q", got)
	}
}
