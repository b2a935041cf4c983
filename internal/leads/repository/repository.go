// Package repository provides data access for leads.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLeadNotFound is returned when a lead does not exist.
var ErrLeadNotFound = errors.New("lead not found")

// Lead is a caller known to an agency, keyed by (agent, phone).
type Lead struct {
	ID            uuid.UUID
	AgentID       uuid.UUID
	Name          string
	Phone         string
	Email         *string
	InterestLevel string
	Summary       *string
	LastCalledAt  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateLeadParams holds the fields for inserting a new lead.
type CreateLeadParams struct {
	AgentID       uuid.UUID
	Name          string
	Phone         string
	InterestLevel string
	Summary       string
}

// Repository provides lead persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByPhone fetches a lead by its (agent, phone) identity.
func (r *Repository) GetByPhone(ctx context.Context, agentID uuid.UUID, phone string) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		SELECT id, agent_id, name, phone, email, interest_level, summary, last_called_at, created_at, updated_at
		FROM leads
		WHERE agent_id = $1 AND phone = $2
	`, agentID, phone).Scan(
		&lead.ID,
		&lead.AgentID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.InterestLevel,
		&lead.Summary,
		&lead.LastCalledAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrLeadNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

// GetByID fetches a lead by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		SELECT id, agent_id, name, phone, email, interest_level, summary, last_called_at, created_at, updated_at
		FROM leads
		WHERE id = $1
	`, id).Scan(
		&lead.ID,
		&lead.AgentID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.InterestLevel,
		&lead.Summary,
		&lead.LastCalledAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrLeadNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

// Create inserts a new lead. A concurrent insert for the same (agent, phone)
// loses the race via the unique constraint; the existing row is returned
// with created=false in that case.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, bool, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (agent_id, name, phone, interest_level, summary)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (agent_id, phone) DO NOTHING
		RETURNING id, agent_id, name, phone, email, interest_level, summary, last_called_at, created_at, updated_at
	`, params.AgentID, params.Name, params.Phone, params.InterestLevel, params.Summary).Scan(
		&lead.ID,
		&lead.AgentID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.InterestLevel,
		&lead.Summary,
		&lead.LastCalledAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict: another request created the lead first.
			existing, getErr := r.GetByPhone(ctx, params.AgentID, params.Phone)
			return existing, false, getErr
		}
		return Lead{}, false, err
	}
	return lead, true, nil
}

// TouchLastCalled records the time of the most recent inbound call.
func (r *Repository) TouchLastCalled(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET last_called_at = $2, updated_at = now() WHERE id = $1
	`, id, at)
	return err
}
