// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadrouter_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Call Routing Events
// =============================================================================

// CallReceived is published when an inbound call webhook is accepted and
// routed to an agency. It carries everything the notification dispatcher
// needs so subscribers never touch the database.
type CallReceived struct {
	BaseEvent
	TenantID     uuid.UUID `json:"tenantId"`
	AgencyName   string    `json:"agencyName"`
	LeadID       uuid.UUID `json:"leadId"`
	LeadName     string    `json:"leadName"`
	CallerPhone  string    `json:"callerPhone"`
	RoutingKey   string    `json:"routingKey"`
	NewLead      bool      `json:"newLead"`
	SolarRisk    string    `json:"solarRisk,omitempty"`
	SolarMatches []string  `json:"solarMatches,omitempty"`
	DiscordURL   string    `json:"discordUrl,omitempty"`
}

func (e CallReceived) EventName() string { return "callrouter.call.received" }

// LeadCreated is published when a caller is seen for the first time and a
// placeholder lead record is created for them.
type LeadCreated struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	TenantID uuid.UUID `json:"tenantId"`
	Phone    string    `json:"phone"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// RiskAssessmentCreated is published when an analyzer or the call flow
// persists a new risk assessment row.
type RiskAssessmentCreated struct {
	BaseEvent
	AssessmentID uuid.UUID  `json:"assessmentId"`
	TenantID     uuid.UUID  `json:"tenantId"`
	LeadID       *uuid.UUID `json:"leadId,omitempty"`
	Type         string     `json:"type"`
	RiskLevel    string     `json:"riskLevel"`
}

func (e RiskAssessmentCreated) EventName() string { return "risk.assessment.created" }

// NotificationFailed is published when an outbound notification could not
// be delivered after its final attempt.
type NotificationFailed struct {
	BaseEvent
	Channel string `json:"channel"`
	Reason  string `json:"reason"`
}

func (e NotificationFailed) EventName() string { return "notification.dispatch.failed" }
