package gateway

import (
	"net/http"

	apphttp "leadrouter_backend/internal/http"
	"leadrouter_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is the orchestration gateway module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the gateway module.
func NewModule(handler *Handler) *Module {
	return &Module{handler: handler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "gateway"
}

// RegisterRoutes mounts the dispatch endpoint. Non-POST methods get an
// explicit 405 to match the dispatch contract.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/gateway", m.handler.Dispatch)
	ctx.V1.Match([]string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete}, "/gateway", func(c *gin.Context) {
		httpkit.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
}
