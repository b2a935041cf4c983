// Package liability implements keyword-based solar lease liability detection
// on caller speech. Leased solar carries a monthly payment that lenders count
// against a buyer's debt-to-income ratio, so matching callers must be
// qualified before booking.
package liability

import "strings"

// Risk levels for a detection result.
const (
	RiskNone = "none"
	RiskLow  = "low"
	RiskHigh = "high"
)

// triggerKeywords are matched case-insensitively as substrings of the
// caller's transcript. English and Spanish variants are covered.
var triggerKeywords = []string{
	// Lease/PPA indicators
	"solar lease", "solar panel lease", "leased solar", "ppa", "power purchase agreement",
	"sunrun", "tesla solar", "solarcity", "vivint solar", "sunnova",
	// Transfer/assumption terms
	"solar transfer", "assume solar", "solar assumption", "take over solar",
	"solar payment", "solar contract", "solar buyout",
	// Spanish equivalents
	"paneles solares", "arrendamiento solar", "contrato solar",
}

// highRiskTerms escalate a match to high risk. These indicate an ongoing
// financial obligation rather than owned panels.
var highRiskTerms = []string{"lease", "ppa", "power purchase", "payment", "arrendamiento"}

// Result describes the outcome of scanning a transcript.
type Result struct {
	Detected              bool     `json:"detected"`
	Keywords              []string `json:"keywords"`
	RiskLevel             string   `json:"riskLevel"`
	RequiresQualification bool     `json:"requiresQualification"`
}

// Detect scans text for solar liability indicators. Matching is substring
// based so "pre-ppa paperwork" still triggers; false positives are acceptable
// because the cost of missing a leased-solar caller is much higher.
func Detect(text string) Result {
	lower := strings.ToLower(text)
	matched := make([]string, 0)

	for _, keyword := range triggerKeywords {
		if strings.Contains(lower, keyword) {
			matched = append(matched, keyword)
		}
	}

	detected := len(matched) > 0
	highRisk := false
	for _, kw := range matched {
		for _, term := range highRiskTerms {
			if strings.Contains(kw, term) {
				highRisk = true
				break
			}
		}
		if highRisk {
			break
		}
	}

	level := RiskNone
	if detected {
		level = RiskLow
		if highRisk {
			level = RiskHigh
		}
	}

	return Result{
		Detected:              detected,
		Keywords:              matched,
		RiskLevel:             level,
		RequiresQualification: highRisk,
	}
}

// QualificationScript renders the qualification protocol block injected into
// the voice agent's system prompt. Empty when no qualification is required.
func QualificationScript(result Result) string {
	if !result.RequiresQualification {
		return ""
	}

	return `
⚠️ SOLAR LIABILITY PROTOCOL ACTIVATED
Detected keywords: ` + strings.Join(result.Keywords, ", ") + `

Before booking appointment, you MUST ask these qualifying questions:
1. "I see this home has solar. Do you know if it is OWNED or LEASED?"
2. If leased: "Okay. To avoid surprises later, are you comfortable taking over a solar lease payment? Lenders count this against your DTI. We need to check if there's an escalator clause where payments rise 2.9% annually."
3. "Do you know the current monthly payment and if there's a buyout option?"

Tag this lead with: solar_liability=true, solar_qualified=pending
`
}
