// Package water classifies Arizona coordinates into water supply zones.
// Wildcat (unincorporated, hauled water) areas are checked before the Active
// Management Areas because they overlap the Phoenix AMA bounding box and the
// hauled-water risk must win.
package water

// ZoneResult describes the water supply situation at a coordinate.
type ZoneResult struct {
	InAMA         bool   `json:"in_ama"`
	AMAName       string `json:"ama_name,omitempty"`
	HasAWS        bool   `json:"has_aws"`
	WaterSource   string `json:"water_source"`
	ZoneRiskLevel string `json:"zone_risk_level"`
	ZoneName      string `json:"zone_name,omitempty"`
	Note          string `json:"note,omitempty"`
}

// Water source classifications.
const (
	SourceMunicipal   = "municipal"
	SourcePrivateWell = "private_well"
	SourceSharedWell  = "shared_well"
	SourceHauled      = "hauled"
	SourceUnknown     = "unknown"
)

type boundingBox struct {
	name           string
	minLat, maxLat float64
	minLng, maxLng float64
}

func (b boundingBox) contains(lat, lng float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lng >= b.minLng && lng <= b.maxLng
}

// Wildcat zones are unincorporated areas without assured water supply where
// homes commonly rely on hauled water.
var wildcatZones = []boundingBox{
	{name: "Rio Verde Foothills", minLat: 33.73, maxLat: 33.84, minLng: -111.48, maxLng: -111.35},
	{name: "New River", minLat: 33.85, maxLat: 33.98, minLng: -111.68, maxLng: -111.38},
	{name: "Anthem", minLat: 33.68, maxLat: 33.82, minLng: -112.18, maxLng: -111.92},
	{name: "Prescott Valley", minLat: 34.5, maxLat: 34.65, minLng: -112.5, maxLng: -112.2},
}

var (
	phoenixAMA = boundingBox{name: "Phoenix AMA", minLat: 32.8, maxLat: 33.95, minLng: -112.6, maxLng: -111.3}
	tucsonAMA  = boundingBox{name: "Tucson AMA", minLat: 31.8, maxLat: 32.4, minLng: -111.2, maxLng: -110.6}
	pinalAMA   = boundingBox{name: "Pinal AMA", minLat: 32.2, maxLat: 33.2, minLng: -111.8, maxLng: -111.1}
)

// Classify resolves the water zone for a coordinate. The bounding boxes are
// approximations of the real ADWR GIS layers; swapping in the ArcGIS REST
// service keeps this signature.
func Classify(lat, lng float64) ZoneResult {
	// Wildcat pockets sit inside the AMA bounding boxes, so they must be
	// checked first or an overlapping coordinate reports assured supply.
	for _, zone := range wildcatZones {
		if zone.contains(lat, lng) {
			return ZoneResult{
				InAMA:         false,
				HasAWS:        false,
				WaterSource:   SourceHauled,
				ZoneRiskLevel: "high",
				ZoneName:      zone.name,
				Note:          "Property is in unincorporated zone with potential hauled water. Recommend water supply verification.",
			}
		}
	}

	if phoenixAMA.contains(lat, lng) {
		return ZoneResult{
			InAMA:         true,
			AMAName:       "Phoenix AMA",
			HasAWS:        true,
			WaterSource:   SourceMunicipal,
			ZoneRiskLevel: "low",
			Note:          "Property in regulated Phoenix AMA with assured water supply.",
		}
	}

	if tucsonAMA.contains(lat, lng) {
		return ZoneResult{
			InAMA:         true,
			AMAName:       "Tucson AMA",
			HasAWS:        true,
			WaterSource:   SourceMunicipal,
			ZoneRiskLevel: "low",
			Note:          "Property in regulated Tucson AMA with assured water supply.",
		}
	}

	if pinalAMA.contains(lat, lng) {
		return ZoneResult{
			InAMA:         true,
			AMAName:       "Pinal AMA",
			HasAWS:        false,
			WaterSource:   SourcePrivateWell,
			ZoneRiskLevel: "medium",
			Note:          "Property in Pinal AMA. Groundwater depletion risk. Recommend well depth/quality verification.",
		}
	}

	return ZoneResult{
		InAMA:         false,
		HasAWS:        false,
		WaterSource:   SourceUnknown,
		ZoneRiskLevel: "medium",
		Note:          "Unable to determine water zone. Recommend manual verification with local water authority.",
	}
}
