package water

import "testing"

func TestClassifyWildcatZones(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		zone     string
	}{
		{"rio verde foothills", 33.78, -111.40, "Rio Verde Foothills"},
		{"new river", 33.91, -111.52, "New River"},
		{"anthem", 33.75, -112.05, "Anthem"},
		{"prescott valley", 34.58, -112.35, "Prescott Valley"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Classify(tc.lat, tc.lng)
			if result.ZoneName != tc.zone {
				t.Fatalf("expected zone %q, got %q", tc.zone, result.ZoneName)
			}
			if result.WaterSource != SourceHauled {
				t.Fatalf("expected hauled water, got %q", result.WaterSource)
			}
			if result.ZoneRiskLevel != "high" {
				t.Fatalf("expected high risk, got %q", result.ZoneRiskLevel)
			}
			if result.InAMA || result.HasAWS {
				t.Fatal("wildcat zone must not report AMA or assured supply")
			}
		})
	}
}

func TestClassifyWildcatBeatsPhoenixAMA(t *testing.T) {
	// Anthem sits inside the Phoenix AMA bounding box; the wildcat
	// classification must take precedence.
	result := Classify(33.75, -112.05)
	if result.ZoneName != "Anthem" {
		t.Fatalf("expected Anthem, got %q", result.ZoneName)
	}
	if result.InAMA {
		t.Fatal("expected wildcat result, got AMA")
	}
}

func TestClassifyPhoenixAMA(t *testing.T) {
	result := Classify(33.45, -112.07) // downtown Phoenix
	if result.AMAName != "Phoenix AMA" {
		t.Fatalf("expected Phoenix AMA, got %q", result.AMAName)
	}
	if !result.InAMA || !result.HasAWS {
		t.Fatal("expected AMA with assured water supply")
	}
	if result.WaterSource != SourceMunicipal {
		t.Fatalf("expected municipal, got %q", result.WaterSource)
	}
	if result.ZoneRiskLevel != "low" {
		t.Fatalf("expected low risk, got %q", result.ZoneRiskLevel)
	}
}

func TestClassifyTucsonAMA(t *testing.T) {
	result := Classify(32.22, -110.97) // downtown Tucson
	if result.AMAName != "Tucson AMA" {
		t.Fatalf("expected Tucson AMA, got %q", result.AMAName)
	}
	if result.ZoneRiskLevel != "low" {
		t.Fatalf("expected low risk, got %q", result.ZoneRiskLevel)
	}
}

func TestClassifyPinalAMA(t *testing.T) {
	result := Classify(32.5, -111.5) // south of the Phoenix AMA box
	if result.AMAName != "Pinal AMA" {
		t.Fatalf("expected Pinal AMA, got %q", result.AMAName)
	}
	if result.HasAWS {
		t.Fatal("Pinal AMA has no assured water supply")
	}
	if result.WaterSource != SourcePrivateWell {
		t.Fatalf("expected private well, got %q", result.WaterSource)
	}
	if result.ZoneRiskLevel != "medium" {
		t.Fatalf("expected medium risk, got %q", result.ZoneRiskLevel)
	}
}

func TestClassifyUnknown(t *testing.T) {
	result := Classify(36.1, -112.1) // Grand Canyon
	if result.WaterSource != SourceUnknown {
		t.Fatalf("expected unknown source, got %q", result.WaterSource)
	}
	if result.ZoneRiskLevel != "medium" {
		t.Fatalf("expected medium risk, got %q", result.ZoneRiskLevel)
	}
	if result.InAMA {
		t.Fatal("expected no AMA")
	}
}
