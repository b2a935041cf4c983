package callrouter

import (
	"net/http"

	apphttp "leadrouter_backend/internal/http"
	"leadrouter_backend/platform/config"
	"leadrouter_backend/platform/httpkit"
	"leadrouter_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is the call router bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	secret  string
	log     *logger.Logger
}

// NewModule creates the call router module. service may be nil when the
// database is unconfigured.
func NewModule(service *Service, cfg config.WebhookConfig, log *logger.Logger) *Module {
	secret := cfg.GetVapiWebhookSecret()
	if secret == "" {
		// Trust-unless-configured policy: without a shared secret the
		// webhook accepts any caller. Make that impossible to miss.
		log.Warn("VAPI_WEBHOOK_SECRET not set: webhook signature verification is DISABLED, all inbound call webhooks are trusted")
	}

	return &Module{
		handler: NewHandler(service, log),
		secret:  secret,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "callrouter"
}

// RegisterRoutes mounts the webhook endpoint behind signature verification.
// Non-POST methods get an explicit 405 to match the webhook contract.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	grp := ctx.V1.Group("/webhook")
	grp.Use(SignatureMiddleware(m.secret, m.log))
	grp.POST("/vapi", m.handler.HandleInbound)

	ctx.V1.Match([]string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete}, "/webhook/vapi", func(c *gin.Context) {
		httpkit.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
