// Package gateway exposes the analyzer clients and the risk service as a
// single action-dispatch API consumed by the voice dialogue engine mid-call.
package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"leadrouter_backend/internal/analyzers/clients"
	"leadrouter_backend/internal/analyzers/hoa"
	"leadrouter_backend/internal/analyzers/solar"
	"leadrouter_backend/internal/gateway/transport"
	"leadrouter_backend/internal/risk"
	riskrepo "leadrouter_backend/internal/risk/repository"
	"leadrouter_backend/platform/httpkit"
	"leadrouter_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler dispatches gateway actions.
type Handler struct {
	risks     *risk.Service
	analyzers *clients.Client
	log       *logger.Logger
}

// NewHandler creates a gateway handler.
func NewHandler(risks *risk.Service, analyzers *clients.Client, log *logger.Logger) *Handler {
	return &Handler{risks: risks, analyzers: analyzers, log: log}
}

// Dispatch decodes the action discriminator, then re-decodes the body into
// the action's own payload type. Each action validates its required fields
// independently and replies with a uniform {ok,...} or {error} envelope.
func (h *Handler) Dispatch(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "could not read request body")
		return
	}

	var envelope transport.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if envelope.Action == "" {
		httpkit.Error(c, http.StatusBadRequest, "Missing action")
		return
	}

	if h.risks == nil {
		httpkit.Error(c, http.StatusInternalServerError, "Server not configured")
		return
	}

	switch envelope.Action {
	case transport.ActionRiskAssessmentCreate:
		h.riskAssessmentCreate(c, body)
	case transport.ActionRiskAssessmentLatest:
		h.riskAssessmentLatest(c, body)
	case transport.ActionNoteCreate:
		h.noteCreate(c, body)
	case transport.ActionTagsEnsureAndAttach:
		h.tagsEnsureAndAttach(c, body)
	case transport.ActionWaterLookup:
		h.waterLookup(c, body)
	case transport.ActionHOAQuery:
		h.hoaQuery(c, body)
	case transport.ActionHOADocumentUpload:
		h.hoaDocumentUpload(c, body)
	case transport.ActionSolarLeaseScan:
		h.solarLeaseScan(c, body)
	default:
		httpkit.Error(c, http.StatusBadRequest, "Unknown action")
	}
}

func (h *Handler) riskAssessmentCreate(c *gin.Context, body []byte) {
	var req transport.RiskAssessmentCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	agentID, ok := requireAgentID(c, req.AgentID)
	if !ok {
		return
	}

	input := risk.CreateAssessmentInput{AgentID: agentID}
	if req.Lead != nil {
		ref, err := leadRef(req.Lead)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "lead.id must be a UUID")
			return
		}
		input.Lead = ref
	}
	if req.Property != nil {
		ref, err := propertyRef(req.Property)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "property.id must be a UUID")
			return
		}
		input.Property = ref
	}
	if req.Risk != nil {
		input.Fields = riskrepo.CreateAssessmentParams{
			SolarStatus:         req.Risk.SolarStatus,
			SolarEscalator:      req.Risk.SolarEscalator,
			SolarEscalatorPct:   req.Risk.SolarEscalatorPct,
			SolarMonthlyPayment: req.Risk.SolarMonthlyPayment,
			SolarBuyoutAmount:   req.Risk.SolarBuyoutAmount,
			SolarTransferFee:    req.Risk.SolarTransferFee,
			WaterSource:         req.Risk.WaterSource,
			WaterZone:           req.Risk.WaterZone,
			HOARentalCap:        req.Risk.HOARentalCap,
			RiskLevel:           req.Risk.RiskLevel,
			AssessmentJSON:      req.Risk.AssessmentJSON,
		}
	}

	assessment, err := h.risks.CreateAssessment(c.Request.Context(), input)
	if err != nil {
		h.dispatchError(c, envelopeContext{"risk_assessment.create", req.AgentID}, err)
		return
	}

	httpkit.OK(c, gin.H{
		"ok":                 true,
		"risk_assessment_id": assessment.ID,
		"created_at":         assessment.CreatedAt,
	})
}

func (h *Handler) riskAssessmentLatest(c *gin.Context, body []byte) {
	var req transport.RiskAssessmentLatestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	agentID, ok := requireAgentID(c, req.AgentID)
	if !ok {
		return
	}

	leadID, err := optionalUUID(req.LeadID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "lead_id must be a UUID")
		return
	}
	propertyID, err := optionalUUID(req.PropertyID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "property_id must be a UUID")
		return
	}

	assessment, err := h.risks.Latest(c.Request.Context(), agentID, leadID, propertyID)
	if err != nil {
		h.dispatchError(c, envelopeContext{"risk_assessment.latest", req.AgentID}, err)
		return
	}

	httpkit.OK(c, gin.H{"ok": true, "latest": latestView(assessment)})
}

func (h *Handler) noteCreate(c *gin.Context, body []byte) {
	var req transport.NoteCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	agentID, ok := requireAgentID(c, req.AgentID)
	if !ok {
		return
	}
	if req.Note == nil || req.Note.Body == "" {
		httpkit.Error(c, http.StatusBadRequest, "note.body required")
		return
	}

	params := riskrepo.CreateNoteParams{
		AgentID: agentID,
		Title:   req.Note.Title,
		Body:    req.Note.Body,
	}
	if req.Lead != nil && req.Lead.ID != "" {
		id, err := uuid.Parse(req.Lead.ID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "lead.id must be a UUID")
			return
		}
		params.LeadID = &id
	}
	if req.Property != nil && req.Property.ID != "" {
		id, err := uuid.Parse(req.Property.ID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "property.id must be a UUID")
			return
		}
		params.PropertyID = &id
	}

	note, err := h.risks.CreateNote(c.Request.Context(), params)
	if err != nil {
		h.dispatchError(c, envelopeContext{"note.create", req.AgentID}, err)
		return
	}

	httpkit.OK(c, gin.H{"ok": true, "note_id": note.ID, "created_at": note.CreatedAt})
}

func (h *Handler) tagsEnsureAndAttach(c *gin.Context, body []byte) {
	var req transport.TagsEnsureAndAttachRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.AgentID == "" || req.Name == "" || req.AttachTo == "" {
		httpkit.Error(c, http.StatusBadRequest, "agent_id, name, attachTo required")
		return
	}
	agentID, ok := requireAgentID(c, req.AgentID)
	if !ok {
		return
	}

	leadID, err := optionalUUID(req.LeadID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "lead_id must be a UUID")
		return
	}
	propertyID, err := optionalUUID(req.PropertyID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "property_id must be a UUID")
		return
	}

	tagID, err := h.risks.EnsureAndAttachTag(c.Request.Context(), agentID, req.Name, req.AttachTo, leadID, propertyID)
	if err != nil {
		h.dispatchError(c, envelopeContext{"tags.ensure_and_attach", req.AgentID}, err)
		return
	}

	httpkit.OK(c, gin.H{"ok": true, "tag_id": tagID})
}

func (h *Handler) waterLookup(c *gin.Context, body []byte) {
	var req transport.WaterLookupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Lat == nil || req.Lng == nil {
		httpkit.Error(c, http.StatusBadRequest, "lat,lng required")
		return
	}

	result, err := h.analyzers.WaterLookup(c.Request.Context(), *req.Lat, *req.Lng)
	if err != nil {
		h.dispatchError(c, envelopeContext{"water.lookup", ""}, err)
		return
	}

	zone := result.ZoneName
	if zone == "" {
		zone = "Unknown"
	}
	httpkit.OK(c, gin.H{
		"ok":              true,
		"water_source":    result.WaterSource,
		"water_zone":      zone,
		"in_ama":          result.InAMA,
		"has_aws":         result.HasAWS,
		"zone_risk_level": result.ZoneRiskLevel,
		"note":            result.Note,
	})
}

func (h *Handler) hoaQuery(c *gin.Context, body []byte) {
	var req transport.HOAQueryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Query == "" || req.HOAName == "" {
		httpkit.Error(c, http.StatusBadRequest, "query, hoa_name required")
		return
	}

	result, err := h.analyzers.HOAQuery(c.Request.Context(), req.HOAName, req.Query)
	if err != nil {
		h.dispatchError(c, envelopeContext{"hoa.query", ""}, err)
		return
	}

	httpkit.OK(c, gin.H{"ok": true, "hoa_name": result.HOAName, "answer": result.Answer})
}

func (h *Handler) hoaDocumentUpload(c *gin.Context, body []byte) {
	var req transport.HOADocumentUploadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.AgentID == "" || req.HOAName == "" || req.DocumentText == "" {
		httpkit.Error(c, http.StatusBadRequest, "agent_id, hoa_name, document_text required")
		return
	}

	result, err := h.analyzers.HOADocumentUpload(c.Request.Context(), hoa.UploadRequest{
		AgentID:      req.AgentID,
		HOAName:      req.HOAName,
		DocumentName: req.DocumentName,
		DocumentText: req.DocumentText,
	})
	if err != nil {
		h.dispatchError(c, envelopeContext{"hoa.document.upload", req.AgentID}, err)
		return
	}

	httpkit.OK(c, gin.H{"ok": true, "document_id": result.DocumentID, "chunks_count": result.ChunksCount})
}

func (h *Handler) solarLeaseScan(c *gin.Context, body []byte) {
	var req transport.SolarLeaseScanRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	if req.AgentID == "" {
		httpkit.Error(c, http.StatusBadRequest, "agent_id required")
		return
	}
	if req.LeadID == "" && req.PropertyID == "" {
		httpkit.Error(c, http.StatusBadRequest, "lead_id or property_id required")
		return
	}
	if req.DocumentURL == "" && req.DocumentBase64 == "" {
		httpkit.Error(c, http.StatusBadRequest, "document_url or document_base64 required")
		return
	}

	result, err := h.analyzers.SolarScan(c.Request.Context(), solar.ScanRequest{
		AgentID:        req.AgentID,
		LeadID:         req.LeadID,
		PropertyID:     req.PropertyID,
		DocumentURL:    req.DocumentURL,
		DocumentBase64: req.DocumentBase64,
		Vendor:         req.Vendor,
	})
	if err != nil {
		h.dispatchError(c, envelopeContext{"solar.lease.scan", req.AgentID}, err)
		return
	}

	httpkit.OK(c, gin.H{
		"ok":                 true,
		"risk_assessment_id": result.AssessmentID,
		"extracted_data":     result.Extracted,
		"risk_level":         result.RiskLevel,
		"assessment_json":    result.AssessmentJSON,
	})
}

type envelopeContext struct {
	action  string
	agentID string
}

// dispatchError logs with action and tenant context, then maps the error to
// the envelope shape.
func (h *Handler) dispatchError(c *gin.Context, ec envelopeContext, err error) {
	h.log.Error("gateway action failed", "action", ec.action, "agentId", ec.agentID, "error", err)
	httpkit.HandleError(c, h.log.Logger, err)
}

func requireAgentID(c *gin.Context, raw string) (uuid.UUID, bool) {
	if raw == "" {
		httpkit.Error(c, http.StatusBadRequest, "agent_id required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "agent_id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func optionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func leadRef(ref *transport.LeadRef) (*risk.LeadRef, error) {
	out := &risk.LeadRef{Phone: ref.PhoneNumber, Name: ref.Name}
	if ref.ID != "" {
		id, err := uuid.Parse(ref.ID)
		if err != nil {
			return nil, err
		}
		out.ID = &id
	}
	return out, nil
}

func propertyRef(ref *transport.PropertyRef) (*risk.PropertyRef, error) {
	out := &risk.PropertyRef{
		AddressFull: ref.AddressFull,
		City:        ref.City,
		State:       ref.State,
		PostalCode:  ref.PostalCode,
		Lat:         ref.Lat,
		Lng:         ref.Lng,
	}
	if ref.ID != "" {
		id, err := uuid.Parse(ref.ID)
		if err != nil {
			return nil, err
		}
		out.ID = &id
	}
	return out, nil
}

func latestView(a riskrepo.RiskAssessment) transport.LatestAssessment {
	view := transport.LatestAssessment{
		ID:           a.ID.String(),
		AgentID:      a.AgentID.String(),
		RiskLevel:    a.RiskLevel,
		SolarStatus:  a.SolarStatus,
		WaterSource:  a.WaterSource,
		HOARentalCap: a.HOARentalCap,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
	if a.LeadID != nil {
		s := a.LeadID.String()
		view.LeadID = &s
	}
	if a.PropertyID != nil {
		s := a.PropertyID.String()
		view.PropertyID = &s
	}
	return view
}
