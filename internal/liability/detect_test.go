package liability

import (
	"strings"
	"testing"
)

func TestDetectNoTriggers(t *testing.T) {
	result := Detect("Hi, I'm looking for a three bedroom house in Phoenix with a pool")

	if result.Detected {
		t.Fatalf("expected no detection, got keywords %v", result.Keywords)
	}
	if result.RiskLevel != RiskNone {
		t.Fatalf("expected risk %q, got %q", RiskNone, result.RiskLevel)
	}
	if result.RequiresQualification {
		t.Fatal("expected no qualification requirement")
	}
	if len(result.Keywords) != 0 {
		t.Fatalf("expected empty keywords, got %v", result.Keywords)
	}
}

func TestDetectHighRiskLeaseTerms(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"lease", "the house has a solar lease on it", "solar lease"},
		{"ppa", "they mentioned something about a PPA agreement", "ppa"},
		{"power purchase", "there is a Power Purchase Agreement in place", "power purchase agreement"},
		{"payment", "can I take over the solar payment", "solar payment"},
		{"spanish lease", "tiene un arrendamiento solar", "arrendamiento solar"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Detect(tc.text)
			if !result.Detected {
				t.Fatal("expected detection")
			}
			if result.RiskLevel != RiskHigh {
				t.Fatalf("expected risk %q, got %q", RiskHigh, result.RiskLevel)
			}
			if !result.RequiresQualification {
				t.Fatal("expected qualification requirement")
			}
			found := false
			for _, kw := range result.Keywords {
				if kw == tc.want {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected keyword %q in %v", tc.want, result.Keywords)
			}
		})
	}
}

func TestDetectLowRiskProviderMention(t *testing.T) {
	result := Detect("I think the panels are from Sunrun but they own them outright")

	if !result.Detected {
		t.Fatal("expected detection")
	}
	if result.RiskLevel != RiskLow {
		t.Fatalf("expected risk %q, got %q", RiskLow, result.RiskLevel)
	}
	if result.RequiresQualification {
		t.Fatal("provider mention alone should not require qualification")
	}
}

func TestDetectCaseInsensitive(t *testing.T) {
	result := Detect("TAKE OVER SOLAR was what the listing said")

	if !result.Detected {
		t.Fatal("expected detection on upper-cased input")
	}
}

func TestQualificationScript(t *testing.T) {
	result := Detect("we want to take over the solar lease payment")
	script := QualificationScript(result)

	if script == "" {
		t.Fatal("expected script for high risk result")
	}
	if !strings.Contains(script, "SOLAR LIABILITY PROTOCOL ACTIVATED") {
		t.Fatal("expected protocol header in script")
	}
	if !strings.Contains(script, "OWNED or LEASED") {
		t.Fatal("expected owned-or-leased question in script")
	}
	for _, kw := range result.Keywords {
		if !strings.Contains(script, kw) {
			t.Fatalf("expected keyword %q in script", kw)
		}
	}
}

func TestQualificationScriptEmptyWhenNotRequired(t *testing.T) {
	if script := QualificationScript(Detect("just a normal call")); script != "" {
		t.Fatalf("expected empty script, got %q", script)
	}
	if script := QualificationScript(Detect("panels from sunnova, fully owned")); script != "" {
		t.Fatalf("expected empty script for low risk, got %q", script)
	}
}
