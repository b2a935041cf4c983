package water

import (
	"net/http"

	"leadrouter_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// LookupRequest is the body for POST /analyzers/water.
// Pointers distinguish a missing coordinate from a zero one.
type LookupRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// LookupResponse is the analyzer response envelope.
type LookupResponse struct {
	OK bool `json:"ok"`
	ZoneResult
}

// Handler exposes the water zone analyzer over HTTP.
type Handler struct{}

// NewHandler creates a water analyzer handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts the analyzer endpoint.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/water", h.Lookup)
}

// Lookup classifies a coordinate into a water zone.
func (h *Handler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Lat == nil || req.Lng == nil {
		httpkit.Error(c, http.StatusBadRequest, "lat and lng required as numbers")
		return
	}

	result := Classify(*req.Lat, *req.Lng)
	httpkit.OK(c, LookupResponse{OK: true, ZoneResult: result})
}
