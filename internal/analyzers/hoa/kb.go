// Package hoa answers rental restriction questions against a small fixed
// knowledge base of Arizona HOA rules, and stores uploaded CC&R documents
// for later reference.
package hoa

import "strings"

// queryKeywords is the vocabulary used to decide whether a question is about
// rental restrictions at all. A question with zero overlap gets an explicit
// "cannot determine" answer instead of a fabricated one.
var queryKeywords = []string{"rental", "lease", "airbnb", "vrbo", "short-term", "30 days", "minimum", "restrict", "ban"}

// Rule is one knowledge base entry.
type Rule struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

// StatuteRules covers the Arizona Condominium Act provisions on rentals.
var StatuteRules = map[string]Rule{
	"A.R.S. § 33-1806.01": {
		Title:    "Rental Property Restrictions",
		Content:  "HOAs may impose reasonable restrictions on rental properties. Minimum lease terms of 30 days are common. Short-term rentals (Airbnb/VRBO) may be prohibited.",
		Keywords: []string{"rental", "lease", "transient", "30 days", "minimum lease term"},
	},
	"A.R.S. § 33-1807": {
		Title:    "Renting with Restrictions",
		Content:  "If an HOA bans rentals, the restriction must be in CC&Rs and enforced uniformly. Most Arizona HOAs require a 30-90 day minimum lease.",
		Keywords: []string{"ban", "restrict", "rental", "lease term"},
	},
}

// RestrictionRules covers the restriction patterns commonly found in CC&Rs.
var RestrictionRules = map[string]Rule{
	"STR_BAN": {
		Title:    "Short-Term Rental Ban",
		Content:  "Property cannot be rented for periods less than 30 consecutive days.",
		Keywords: []string{"short-term rental", "airbnb", "vrbo", "vacation rental", "3-day rental"},
	},
	"OWNER_OCCUPANCY": {
		Title:    "Owner Occupancy Required",
		Content:  "Owner must occupy the property as primary residence. Rentals are prohibited.",
		Keywords: []string{"owner occupancy", "primary residence", "primary home"},
	},
	"LEASE_APPROVAL": {
		Title:    "HOA Lease Approval",
		Content:  "HOA must approve all rental agreements. Tenant screening may be required.",
		Keywords: []string{"approval", "tenant", "screening", "lease approval"},
	},
}

// restrictionOrder keeps answer composition deterministic.
var restrictionOrder = []string{"STR_BAN", "OWNER_OCCUPANCY", "LEASE_APPROVAL"}

// Answer composes a rental restriction answer for a free-text question.
func Answer(query, hoaName string) string {
	queryLower := strings.ToLower(query)

	matched := make([]string, 0)
	for _, kw := range queryKeywords {
		if strings.Contains(queryLower, kw) {
			matched = append(matched, kw)
		}
	}

	var b strings.Builder
	b.WriteString("**HOA Rental Analysis for " + hoaName + "**\n\n")

	if len(matched) == 0 {
		b.WriteString("Unable to determine rental restrictions from available documents. Recommend requesting CC&Rs from HOA directly.")
		return b.String()
	}

	for _, key := range restrictionOrder {
		rule := RestrictionRules[key]
		if ruleMatches(rule, queryLower, matched) {
			b.WriteString("**" + rule.Title + "**\n" + rule.Content + "\n\n")
		}
	}

	b.WriteString("\n**Next Step:** Confirm rental terms directly with HOA before purchase.")
	return b.String()
}

// ruleMatches reports keyword overlap between a rule and the question:
// either a rule keyword appears verbatim in the question, or a matched
// query keyword is part of a rule keyword.
func ruleMatches(rule Rule, queryLower string, matched []string) bool {
	for _, rk := range rule.Keywords {
		rkLower := strings.ToLower(rk)
		if strings.Contains(queryLower, rkLower) {
			return true
		}
		for _, qk := range matched {
			if strings.Contains(rkLower, qk) {
				return true
			}
		}
	}
	return false
}
