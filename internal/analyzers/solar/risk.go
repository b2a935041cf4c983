package solar

// Risk thresholds: an escalator above 2% annually or a payment above $300
// per month is a deal-level liability for a buyer assuming the contract.
const (
	escalatorPctThreshold   = 2.0
	monthlyPaymentThreshold = 300.0
)

// DeriveRiskLevel maps extracted contract terms to a risk tier. A scanned
// contract is never "low": the floor is medium because the document's
// existence already implies an encumbrance.
func DeriveRiskLevel(data ExtractedData) string {
	// A stated escalator percentage implies an escalator clause even when
	// the flag itself was not extracted.
	if data.EscalatorPct != nil && *data.EscalatorPct > escalatorPctThreshold {
		return "high"
	}
	if data.MonthlyPayment != nil && *data.MonthlyPayment > monthlyPaymentThreshold {
		return "high"
	}
	return "medium"
}

// SolarStatus infers owned-versus-leased from the contract type.
func SolarStatus(data ExtractedData) string {
	if data.ContractType == "lease" {
		return "leased"
	}
	return "owned"
}
