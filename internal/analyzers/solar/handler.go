package solar

import (
	"net/http"

	"leadrouter_backend/platform/httpkit"
	"leadrouter_backend/platform/logger"
	"leadrouter_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScanRequest is the body for POST /analyzers/solar/scan.
type ScanRequest struct {
	AgentID        string `json:"agent_id" validate:"required,uuid"`
	LeadID         string `json:"lead_id" validate:"omitempty,uuid"`
	PropertyID     string `json:"property_id" validate:"omitempty,uuid"`
	DocumentURL    string `json:"document_url" validate:"omitempty,url"`
	DocumentBase64 string `json:"document_base64"`
	Vendor         string `json:"vendor"`
}

// ScanResponse is the analyzer response envelope.
type ScanResponse struct {
	OK bool `json:"ok"`
	ScanResult
}

// Handler exposes the solar contract scanner over HTTP.
type Handler struct {
	service   *Service
	validator *validator.Validator
	log       *logger.Logger
}

// NewHandler creates a solar analyzer handler. A nil service means the
// Gemini API key is absent; scans then return 503.
func NewHandler(service *Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{service: service, validator: val, log: log}
}

// RegisterRoutes mounts the analyzer endpoint.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/solar/scan", h.Scan)
}

// Scan extracts contract terms from a document and persists an assessment.
func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid scan request")
		return
	}
	if h.service == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "contract scanning not configured")
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "agent_id must be a UUID")
		return
	}

	input := ScanInput{
		AgentID:        agentID,
		DocumentURL:    req.DocumentURL,
		DocumentBase64: req.DocumentBase64,
		Vendor:         req.Vendor,
	}
	if req.LeadID != "" {
		id, err := uuid.Parse(req.LeadID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "lead_id must be a UUID")
			return
		}
		input.LeadID = &id
	}
	if req.PropertyID != "" {
		id, err := uuid.Parse(req.PropertyID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "property_id must be a UUID")
			return
		}
		input.PropertyID = &id
	}

	result, err := h.service.Scan(c.Request.Context(), input)
	if err != nil {
		httpkit.HandleError(c, h.log.Logger, err)
		return
	}

	httpkit.OK(c, ScanResponse{OK: true, ScanResult: result})
}
