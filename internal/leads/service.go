// Package leads implements lead identity for inbound callers. A lead is
// unique per (agency, phone); repeat callers always resolve to the same row.
package leads

import (
	"context"
	"errors"
	"time"

	"leadrouter_backend/internal/events"
	"leadrouter_backend/internal/leads/repository"
	"leadrouter_backend/platform/phone"

	"github.com/google/uuid"
)

// Placeholder values for auto-created leads. The voice agent learns the
// caller's real name during the call; until then the record is a stub.
const (
	placeholderName     = "Unknown Caller"
	placeholderInterest = "warm"
	placeholderSummary  = "Auto-created via inbound call"
)

// Repository defines the data access needed by the leads service.
type Repository interface {
	GetByPhone(ctx context.Context, agentID uuid.UUID, phone string) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, bool, error)
	TouchLastCalled(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Service handles lead resolution and creation.
type Service struct {
	repo     Repository
	eventBus events.Bus
}

// New creates a leads service.
func New(repo Repository, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus}
}

// ResolveOrCreate finds the lead for a caller, creating a placeholder record
// on first contact. The returned bool reports whether the lead is new.
// Either way the lead's last_called_at is bumped to now.
func (s *Service) ResolveOrCreate(ctx context.Context, agentID uuid.UUID, rawPhone string) (repository.Lead, bool, error) {
	normalized := phone.NormalizeE164(rawPhone)

	lead, err := s.repo.GetByPhone(ctx, agentID, normalized)
	created := false
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrLeadNotFound):
		lead, created, err = s.repo.Create(ctx, repository.CreateLeadParams{
			AgentID:       agentID,
			Name:          placeholderName,
			Phone:         normalized,
			InterestLevel: placeholderInterest,
			Summary:       placeholderSummary,
		})
		if err != nil {
			return repository.Lead{}, false, err
		}
		if created && s.eventBus != nil {
			s.eventBus.Publish(ctx, events.LeadCreated{
				BaseEvent: events.NewBaseEvent(),
				LeadID:    lead.ID,
				TenantID:  agentID,
				Phone:     normalized,
			})
		}
	default:
		return repository.Lead{}, false, err
	}

	if err := s.repo.TouchLastCalled(ctx, lead.ID, time.Now()); err != nil {
		return repository.Lead{}, false, err
	}
	return lead, created, nil
}

// GetByID fetches a lead by primary key.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetByID(ctx, id)
}
