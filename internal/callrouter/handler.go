package callrouter

import (
	"errors"
	"fmt"
	"net/http"

	"leadrouter_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Fallback messages spoken when the call cannot be routed normally.
const (
	msgInvalidPayload  = "Sorry, this number is not configured properly."
	msgUnroutable      = "This call cannot be routed. Please contact support."
	msgNotConfigured   = "This number is not yet configured. Please contact the agency."
	ctxMissingCall     = "Invalid payload: missing call data."
	ctxMissingRouting  = "Missing phoneNumberId - cannot identify agent."
	ctxNoEnvironment   = "Missing environment configuration. Provide a courteous fallback."
	ctxMappingNotFound = "Phone mapping not found. Provide a courteous fallback."
)

// Handler handles the inbound call webhook.
type Handler struct {
	service *Service
	log     *logger.Logger
}

// NewHandler creates a webhook handler. service may be nil when the database
// is unconfigured; every call then receives the static fallback configuration.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// HandleInbound processes an inbound call notification.
// POST /api/v1/webhook/vapi
// Non-200 outcomes are limited to authentication and malformed input; every
// validated request returns HTTP 200 with an assistant object, degraded or not.
func (h *Handler) HandleInbound(c *gin.Context) {
	var payload WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	if payload.Message == nil || payload.Message.Call == nil {
		h.log.Warn("webhook payload missing call data")
		c.JSON(http.StatusBadRequest, fallbackAssistant(msgInvalidPayload, ctxMissingCall))
		return
	}

	call := payload.Message.Call
	if call.PhoneNumberID == "" {
		h.log.Warn("webhook payload missing phoneNumberId")
		c.JSON(http.StatusBadRequest, fallbackAssistant(msgUnroutable, ctxMissingRouting))
		return
	}

	if h.service == nil {
		c.JSON(http.StatusOK, fallbackAssistant(msgNotConfigured, ctxNoEnvironment))
		return
	}

	callerNumber := ""
	if call.Customer != nil && call.Customer.Number != nil {
		callerNumber = *call.Customer.Number
	}

	result, err := h.service.Route(c.Request.Context(), call.PhoneNumberID, callerNumber)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			h.log.WebhookEvent(call.PhoneNumberID, http.StatusOK, "fallback")
			c.JSON(http.StatusOK, fallbackAssistant(msgNotConfigured, ctxMappingNotFound))
			return
		}
		h.log.Error("call routing failed", "routing_key", call.PhoneNumberID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	h.log.WebhookEvent(call.PhoneNumberID, http.StatusOK, "routed")

	prompt := qualificationPrompt(promptVars{
		AgencyName:   result.Agent.AgencyName,
		CallerNumber: callerNumber,
		LeadName:     result.LeadName,
		LeadContext:  result.LeadContext,
		SolarScript:  result.SolarScript,
	})

	c.JSON(http.StatusOK, AssistantResponse{
		Assistant: Assistant{
			Name:         fmt.Sprintf("%s Assistant", result.Agent.AgencyName),
			FirstMessage: fmt.Sprintf("Hello %s, thanks for calling %s. How can I help you?", result.LeadName, result.Agent.AgencyName),
			Model: AssistantModel{
				Provider: modelProvider,
				Model:    modelName,
				Messages: []ModelMessage{{Role: "system", Content: prompt}},
			},
		},
	})
}
