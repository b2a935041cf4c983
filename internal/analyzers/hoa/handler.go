package hoa

import (
	"net/http"

	"leadrouter_backend/platform/httpkit"
	"leadrouter_backend/platform/logger"
	"leadrouter_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueryRequest is the body for POST /analyzers/hoa/query.
type QueryRequest struct {
	HOAName string `json:"hoa_name" validate:"required"`
	Query   string `json:"query" validate:"required"`
}

// QueryResponse is the analyzer response envelope.
type QueryResponse struct {
	OK      bool   `json:"ok"`
	HOAName string `json:"hoa_name"`
	Query   string `json:"query"`
	Answer  string `json:"answer"`
}

// UploadRequest is the body for POST /analyzers/hoa/documents.
type UploadRequest struct {
	AgentID      string `json:"agent_id" validate:"required,uuid"`
	HOAName      string `json:"hoa_name" validate:"required"`
	DocumentName string `json:"document_name"`
	DocumentText string `json:"document_text" validate:"required"`
}

// UploadResponse reports the stored document.
type UploadResponse struct {
	OK          bool      `json:"ok"`
	DocumentID  uuid.UUID `json:"document_id"`
	ChunksCount int       `json:"chunks_count"`
}

// Handler exposes the HOA analyzer over HTTP.
type Handler struct {
	repo      *Repository
	validator *validator.Validator
	log       *logger.Logger
}

// NewHandler creates an HOA analyzer handler. The repository may be nil when
// the service runs without a database; document uploads then return 503.
func NewHandler(repo *Repository, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{repo: repo, validator: val, log: log}
}

// RegisterRoutes mounts the analyzer endpoints.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/hoa/query", h.Query)
	group.POST("/hoa/documents", h.Upload)
	group.GET("/hoa/defaults", h.Defaults)
}

// Query answers a rental restriction question from the knowledge base.
func (h *Handler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "hoa_name and query required")
		return
	}

	answer := Answer(req.Query, req.HOAName)
	httpkit.OK(c, QueryResponse{OK: true, HOAName: req.HOAName, Query: req.Query, Answer: answer})
}

// Upload stores a CC&R document, chunked by paragraph.
func (h *Handler) Upload(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "agent_id, hoa_name, document_text required")
		return
	}
	if h.repo == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "document storage not configured")
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "agent_id must be a UUID")
		return
	}

	name := req.DocumentName
	if name == "" {
		name = "CC&Rs"
	}

	doc, err := h.repo.StoreDocument(c.Request.Context(), agentID, req.HOAName, name, req.DocumentText)
	if err != nil {
		httpkit.HandleError(c, h.log.Logger, err)
		return
	}

	httpkit.OK(c, UploadResponse{OK: true, DocumentID: doc.ID, ChunksCount: len(doc.Chunks)})
}

// Defaults exposes the built-in knowledge base for inspection.
func (h *Handler) Defaults(c *gin.Context) {
	httpkit.OK(c, gin.H{
		"ok": true,
		"defaults": gin.H{
			"Arizona Condominium Act": StatuteRules,
			"Common HOA Restrictions": RestrictionRules,
		},
	})
}
