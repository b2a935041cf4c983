// Package transport defines the request and response shapes for the
// orchestration gateway's action dispatch API.
package transport

// Envelope carries the action discriminator; the action-specific payload is
// decoded in a second pass once the action is known.
type Envelope struct {
	Action string `json:"action"`
}

// Action names accepted by the gateway.
const (
	ActionRiskAssessmentCreate = "risk_assessment.create"
	ActionRiskAssessmentLatest = "risk_assessment.latest"
	ActionNoteCreate           = "note.create"
	ActionTagsEnsureAndAttach  = "tags.ensure_and_attach"
	ActionWaterLookup          = "water.lookup"
	ActionHOAQuery             = "hoa.query"
	ActionHOADocumentUpload    = "hoa.document.upload"
	ActionSolarLeaseScan       = "solar.lease.scan"
)

// LeadRef identifies a lead inline in a gateway payload.
type LeadRef struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

// PropertyRef identifies a property inline in a gateway payload.
type PropertyRef struct {
	ID          string   `json:"id"`
	AddressFull string   `json:"address_full"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	PostalCode  *string  `json:"postal_code"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// RiskFields is the optional subset of risk columns a caller may supply.
// Absent fields persist as null, never as defaults.
type RiskFields struct {
	SolarStatus         *string                `json:"solar_status"`
	SolarEscalator      *bool                  `json:"solar_escalator"`
	SolarEscalatorPct   *float64               `json:"solar_escalator_pct"`
	SolarMonthlyPayment *float64               `json:"solar_monthly_payment"`
	SolarBuyoutAmount   *float64               `json:"solar_buyout_amount"`
	SolarTransferFee    *float64               `json:"solar_transfer_fee"`
	WaterSource         *string                `json:"water_source"`
	WaterZone           *string                `json:"water_zone"`
	HOARentalCap        *bool                  `json:"hoa_rental_cap"`
	RiskLevel           *string                `json:"risk_level"`
	AssessmentJSON      map[string]interface{} `json:"assessment_json"`
}

// RiskAssessmentCreateRequest is the payload for risk_assessment.create.
type RiskAssessmentCreateRequest struct {
	AgentID  string       `json:"agent_id"`
	Lead     *LeadRef     `json:"lead"`
	Property *PropertyRef `json:"property"`
	Risk     *RiskFields  `json:"risk"`
}

// RiskAssessmentLatestRequest is the payload for risk_assessment.latest.
type RiskAssessmentLatestRequest struct {
	AgentID    string `json:"agent_id"`
	LeadID     string `json:"lead_id"`
	PropertyID string `json:"property_id"`
}

// NoteCreateRequest is the payload for note.create.
type NoteCreateRequest struct {
	AgentID  string       `json:"agent_id"`
	Lead     *LeadRef     `json:"lead"`
	Property *PropertyRef `json:"property"`
	Note     *NoteBody    `json:"note"`
}

// NoteBody is the note content inside NoteCreateRequest.
type NoteBody struct {
	Title *string `json:"title"`
	Body  string  `json:"body"`
}

// TagsEnsureAndAttachRequest is the payload for tags.ensure_and_attach.
type TagsEnsureAndAttachRequest struct {
	AgentID    string `json:"agent_id"`
	Name       string `json:"name"`
	AttachTo   string `json:"attachTo"`
	LeadID     string `json:"lead_id"`
	PropertyID string `json:"property_id"`
}

// WaterLookupRequest is the payload for water.lookup.
type WaterLookupRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// HOAQueryRequest is the payload for hoa.query.
type HOAQueryRequest struct {
	HOAName string `json:"hoa_name"`
	Query   string `json:"query"`
}

// HOADocumentUploadRequest is the payload for hoa.document.upload.
type HOADocumentUploadRequest struct {
	AgentID      string `json:"agent_id"`
	HOAName      string `json:"hoa_name"`
	DocumentName string `json:"document_name"`
	DocumentText string `json:"document_text"`
}

// SolarLeaseScanRequest is the payload for solar.lease.scan.
type SolarLeaseScanRequest struct {
	AgentID        string `json:"agent_id"`
	LeadID         string `json:"lead_id"`
	PropertyID     string `json:"property_id"`
	DocumentURL    string `json:"document_url"`
	DocumentBase64 string `json:"document_base64"`
	Vendor         string `json:"vendor"`
}

// LatestAssessment is the trimmed view returned by risk_assessment.latest.
type LatestAssessment struct {
	ID           string  `json:"id"`
	AgentID      string  `json:"agent_id"`
	LeadID       *string `json:"lead_id"`
	PropertyID   *string `json:"property_id"`
	RiskLevel    *string `json:"risk_level"`
	SolarStatus  *string `json:"solar_status"`
	WaterSource  *string `json:"water_source"`
	HOARentalCap *bool   `json:"hoa_rental_cap"`
	CreatedAt    string  `json:"created_at"`
}
