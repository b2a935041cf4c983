// Package risk implements the risk assessment bounded context: append-only
// risk snapshots for leads and properties, plus the notes and tags the voice
// agent attaches during a call.
package risk

import (
	"context"
	"errors"
	"strings"

	"leadrouter_backend/internal/events"
	leadsrepo "leadrouter_backend/internal/leads/repository"
	"leadrouter_backend/internal/risk/repository"
	"leadrouter_backend/platform/apperr"
	"leadrouter_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Leads created through a risk assessment get a distinct summary so they are
// distinguishable from webhook-created stubs.
const riskLeadSummary = "Created via risk_assessment.create"

// LeadStore is the lead access the risk service needs.
type LeadStore interface {
	GetByPhone(ctx context.Context, agentID uuid.UUID, phone string) (leadsrepo.Lead, error)
	Create(ctx context.Context, params leadsrepo.CreateLeadParams) (leadsrepo.Lead, bool, error)
}

// Service coordinates risk assessment writes and reads.
type Service struct {
	repo     *repository.Repository
	leads    LeadStore
	eventBus events.Bus
}

// New creates a risk service.
func New(repo *repository.Repository, leads LeadStore, eventBus events.Bus) *Service {
	return &Service{repo: repo, leads: leads, eventBus: eventBus}
}

// LeadRef identifies a lead by ID or by phone number. When only a phone is
// given the lead is created on demand.
type LeadRef struct {
	ID    *uuid.UUID
	Phone string
	Name  string
}

// PropertyRef identifies a property by ID or by full address. When only an
// address is given the property is created on demand.
type PropertyRef struct {
	ID          *uuid.UUID
	AddressFull string
	City        *string
	State       *string
	PostalCode  *string
	Lat         *float64
	Lng         *float64
}

// CreateAssessmentInput is the full input for CreateAssessment.
type CreateAssessmentInput struct {
	AgentID  uuid.UUID
	Lead     *LeadRef
	Property *PropertyRef
	Fields   repository.CreateAssessmentParams
}

// CreateAssessment resolves the referenced lead and property (creating them
// when only identity fields are given) and appends a risk assessment row.
func (s *Service) CreateAssessment(ctx context.Context, input CreateAssessmentInput) (repository.RiskAssessment, error) {
	if input.AgentID == uuid.Nil {
		return repository.RiskAssessment{}, apperr.Validation("agent_id required")
	}
	if err := validateEnumFields(input.Fields); err != nil {
		return repository.RiskAssessment{}, err
	}

	// Lead and property resolution hit different tables and may each create
	// a row on demand, so run them concurrently.
	var leadID, propertyID *uuid.UUID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := s.resolveLead(gctx, input.AgentID, input.Lead)
		leadID = id
		return err
	})
	g.Go(func() error {
		id, err := s.resolveProperty(gctx, input.AgentID, input.Property)
		propertyID = id
		return err
	})
	if err := g.Wait(); err != nil {
		return repository.RiskAssessment{}, err
	}

	params := input.Fields
	params.AgentID = input.AgentID
	params.LeadID = leadID
	params.PropertyID = propertyID

	assessment, err := s.repo.CreateAssessment(ctx, params)
	if err != nil {
		return repository.RiskAssessment{}, apperr.Wrap(apperr.KindInternal, "create risk assessment", err)
	}

	if s.eventBus != nil {
		level := ""
		if assessment.RiskLevel != nil {
			level = *assessment.RiskLevel
		}
		s.eventBus.Publish(ctx, events.RiskAssessmentCreated{
			BaseEvent:    events.NewBaseEvent(),
			AssessmentID: assessment.ID,
			TenantID:     input.AgentID,
			LeadID:       assessment.LeadID,
			Type:         "risk_assessment",
			RiskLevel:    level,
		})
	}

	return assessment, nil
}

// Latest returns the most recent assessment for a lead, property, or both.
// At least one of the two references must be set.
func (s *Service) Latest(ctx context.Context, agentID uuid.UUID, leadID, propertyID *uuid.UUID) (repository.RiskAssessment, error) {
	if agentID == uuid.Nil {
		return repository.RiskAssessment{}, apperr.Validation("agent_id required")
	}
	if leadID == nil && propertyID == nil {
		return repository.RiskAssessment{}, apperr.Validation("lead_id or property_id required")
	}

	assessment, err := s.repo.LatestAssessment(ctx, agentID, leadID, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return repository.RiskAssessment{}, apperr.NotFound("no risk assessment found")
		}
		return repository.RiskAssessment{}, apperr.Wrap(apperr.KindInternal, "query latest risk assessment", err)
	}
	return assessment, nil
}

// CreateNote attaches a note to a lead and/or property.
func (s *Service) CreateNote(ctx context.Context, params repository.CreateNoteParams) (repository.Note, error) {
	if params.AgentID == uuid.Nil {
		return repository.Note{}, apperr.Validation("agent_id required")
	}
	if strings.TrimSpace(params.Body) == "" {
		return repository.Note{}, apperr.Validation("note.body required")
	}

	note, err := s.repo.CreateNote(ctx, params)
	if err != nil {
		return repository.Note{}, apperr.Wrap(apperr.KindInternal, "create note", err)
	}
	return note, nil
}

// Attachment targets for EnsureAndAttachTag.
const (
	AttachToLead     = "lead"
	AttachToProperty = "property"
)

// EnsureAndAttachTag creates the tag if needed and links it to the target.
func (s *Service) EnsureAndAttachTag(ctx context.Context, agentID uuid.UUID, name, attachTo string, leadID, propertyID *uuid.UUID) (uuid.UUID, error) {
	if agentID == uuid.Nil || strings.TrimSpace(name) == "" || attachTo == "" {
		return uuid.Nil, apperr.Validation("agent_id, name, attachTo required")
	}

	tagID, err := s.repo.EnsureTag(ctx, agentID, name)
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.KindInternal, "ensure tag", err)
	}

	switch attachTo {
	case AttachToLead:
		if leadID == nil {
			return uuid.Nil, apperr.Validation("lead_id required")
		}
		if err := s.repo.AttachTagToLead(ctx, *leadID, tagID); err != nil {
			return uuid.Nil, apperr.Wrap(apperr.KindInternal, "attach tag to lead", err)
		}
	case AttachToProperty:
		if propertyID == nil {
			return uuid.Nil, apperr.Validation("property_id required")
		}
		if err := s.repo.AttachTagToProperty(ctx, *propertyID, tagID); err != nil {
			return uuid.Nil, apperr.Wrap(apperr.KindInternal, "attach tag to property", err)
		}
	default:
		return uuid.Nil, apperr.Validation("attachTo must be lead or property")
	}

	return tagID, nil
}

// Closed value sets for the classification columns. The schema enforces the
// same sets with CHECK constraints.
var (
	solarStatuses = map[string]bool{"owned": true, "leased": true, "none": true}
	waterSources  = map[string]bool{"municipal": true, "private_well": true, "shared_well": true, "hauled": true}
	riskLevels    = map[string]bool{"low": true, "medium": true, "high": true}
)

func validateEnumFields(fields repository.CreateAssessmentParams) error {
	if fields.SolarStatus != nil && !solarStatuses[*fields.SolarStatus] {
		return apperr.Validation("solar_status must be one of owned, leased, none")
	}
	if fields.WaterSource != nil && !waterSources[*fields.WaterSource] {
		return apperr.Validation("water_source must be one of municipal, private_well, shared_well, hauled")
	}
	if fields.RiskLevel != nil && !riskLevels[*fields.RiskLevel] {
		return apperr.Validation("risk_level must be one of low, medium, high")
	}
	return nil
}

func (s *Service) resolveLead(ctx context.Context, agentID uuid.UUID, ref *LeadRef) (*uuid.UUID, error) {
	if ref == nil {
		return nil, nil
	}
	if ref.ID != nil {
		return ref.ID, nil
	}
	if ref.Phone == "" {
		return nil, nil
	}

	normalized := phone.NormalizeE164(ref.Phone)
	lead, err := s.leads.GetByPhone(ctx, agentID, normalized)
	if err == nil {
		return &lead.ID, nil
	}
	if !errors.Is(err, leadsrepo.ErrLeadNotFound) {
		return nil, apperr.Wrap(apperr.KindInternal, "resolve lead", err)
	}

	name := ref.Name
	if name == "" {
		name = "Unknown Caller"
	}
	lead, _, err = s.leads.Create(ctx, leadsrepo.CreateLeadParams{
		AgentID:       agentID,
		Name:          name,
		Phone:         normalized,
		InterestLevel: "warm",
		Summary:       riskLeadSummary,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create lead", err)
	}
	return &lead.ID, nil
}

func (s *Service) resolveProperty(ctx context.Context, agentID uuid.UUID, ref *PropertyRef) (*uuid.UUID, error) {
	if ref == nil {
		return nil, nil
	}
	if ref.ID != nil {
		return ref.ID, nil
	}
	if ref.AddressFull == "" {
		return nil, nil
	}

	property, err := s.repo.CreateProperty(ctx, repository.CreatePropertyParams{
		AgentID:     agentID,
		AddressFull: ref.AddressFull,
		City:        ref.City,
		State:       ref.State,
		PostalCode:  ref.PostalCode,
		Lat:         ref.Lat,
		Lng:         ref.Lng,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "resolve property", err)
	}
	return &property.ID, nil
}
