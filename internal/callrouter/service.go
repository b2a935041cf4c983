package callrouter

import (
	"context"
	"errors"
	"fmt"

	"leadrouter_backend/internal/events"
	leadsrepo "leadrouter_backend/internal/leads/repository"
	"leadrouter_backend/internal/liability"
	"leadrouter_backend/internal/risk"
	riskrepo "leadrouter_backend/internal/risk/repository"
	tenantrepo "leadrouter_backend/internal/tenant/repository"
	"leadrouter_backend/platform/logger"

	"github.com/google/uuid"
)

// ErrNotConfigured means the routing key resolves to no agency. The handler
// turns this into the graceful fallback response, never an error status.
var ErrNotConfigured = errors.New("no agency configured for routing key")

// Defaults used before the caller is identified.
const (
	defaultLeadName    = "Valued Caller"
	newLeadContext     = "This is a new lead. Ask for their name."
	riskSourceCallFlow = "call-router"
)

// TenantResolver resolves an inbound routing key to its agency.
type TenantResolver interface {
	ResolveByRoutingKey(ctx context.Context, routingKey string) (tenantrepo.Agent, error)
}

// LeadResolver finds or creates the lead for a caller.
type LeadResolver interface {
	ResolveOrCreate(ctx context.Context, agentID uuid.UUID, rawPhone string) (leadsrepo.Lead, bool, error)
}

// RiskWriter persists risk assessments discovered during routing.
type RiskWriter interface {
	CreateAssessment(ctx context.Context, input risk.CreateAssessmentInput) (riskrepo.RiskAssessment, error)
}

// Service routes one inbound call: tenant resolution, lead resolution,
// liability detection, and the side effects those trigger.
type Service struct {
	tenants  TenantResolver
	leads    LeadResolver
	risks    RiskWriter
	eventBus events.Bus
	log      *logger.Logger
}

// NewService creates a call routing service. risks may be nil when risk
// persistence is unavailable; detection still runs, only the write is skipped.
func NewService(tenants TenantResolver, leads LeadResolver, risks RiskWriter, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{tenants: tenants, leads: leads, risks: risks, eventBus: eventBus, log: log}
}

// RouteResult is everything the handler needs to build the assistant
// configuration for a successfully routed call.
type RouteResult struct {
	Agent       tenantrepo.Agent
	LeadID      *uuid.UUID
	LeadName    string
	LeadContext string
	NewLead     bool
	Detection   liability.Result
	SolarScript string
}

// Route resolves an inbound call to an agency and a lead. Lead creation and
// risk persistence are best effort: their failures are logged and the call
// proceeds with defaults, because the caller must always get a usable
// configuration. Only an unresolvable routing key aborts, as ErrNotConfigured.
func (s *Service) Route(ctx context.Context, routingKey, callerNumber string) (RouteResult, error) {
	agent, err := s.tenants.ResolveByRoutingKey(ctx, routingKey)
	if err != nil {
		if !errors.Is(err, tenantrepo.ErrMappingNotFound) {
			s.log.DatabaseError("resolve routing key", err)
		}
		return RouteResult{}, ErrNotConfigured
	}

	result := RouteResult{
		Agent:       agent,
		LeadName:    defaultLeadName,
		LeadContext: newLeadContext,
		NewLead:     true,
	}

	if callerNumber != "" {
		lead, created, err := s.leads.ResolveOrCreate(ctx, agent.ID, callerNumber)
		if err != nil {
			s.log.DatabaseError("resolve lead for caller", err)
		} else {
			result.LeadID = &lead.ID
			result.NewLead = created
			if !created {
				result.LeadName = lead.Name
				if result.LeadName == "" {
					result.LeadName = defaultLeadName
				}
				summary := ""
				if lead.Summary != nil {
					summary = *lead.Summary
				}
				result.LeadContext = fmt.Sprintf("Returning lead. Interest: %s. Notes: %s", lead.InterestLevel, summary)
			}
		}
	}

	result.Detection = liability.Detect(result.LeadContext)
	result.SolarScript = liability.QualificationScript(result.Detection)

	if result.Detection.Detected {
		s.persistDetection(ctx, agent.ID, result)
	}

	if callerNumber != "" && s.eventBus != nil {
		leadID := uuid.Nil
		if result.LeadID != nil {
			leadID = *result.LeadID
		}
		discordURL := ""
		if agent.DiscordURL != nil {
			discordURL = *agent.DiscordURL
		}
		s.eventBus.Publish(ctx, events.CallReceived{
			BaseEvent:    events.NewBaseEvent(),
			TenantID:     agent.ID,
			AgencyName:   agent.AgencyName,
			LeadID:       leadID,
			LeadName:     result.LeadName,
			CallerPhone:  callerNumber,
			RoutingKey:   routingKey,
			NewLead:      result.NewLead,
			SolarRisk:    result.Detection.RiskLevel,
			SolarMatches: result.Detection.Keywords,
			DiscordURL:   discordURL,
		})
	}

	return result, nil
}

// persistDetection writes a lightweight risk assessment when liability
// indicators surface in the lead context. A lease or PPA indicator implies
// the panels are leased; a bare provider mention implies owned.
func (s *Service) persistDetection(ctx context.Context, agentID uuid.UUID, result RouteResult) {
	if s.risks == nil {
		return
	}

	solarStatus := "owned"
	if result.Detection.RequiresQualification {
		solarStatus = "leased"
	}
	riskLevel := result.Detection.RiskLevel

	var leadRef *risk.LeadRef
	if result.LeadID != nil {
		leadRef = &risk.LeadRef{ID: result.LeadID}
	}

	_, err := s.risks.CreateAssessment(ctx, risk.CreateAssessmentInput{
		AgentID: agentID,
		Lead:    leadRef,
		Fields: riskrepo.CreateAssessmentParams{
			SolarStatus: &solarStatus,
			RiskLevel:   &riskLevel,
			AssessmentJSON: map[string]interface{}{
				"keywords": result.Detection.Keywords,
				"source":   riskSourceCallFlow,
			},
		},
	})
	if err != nil {
		s.log.Warn("failed to persist liability detection", "agent_id", agentID, "error", err)
	}
}
