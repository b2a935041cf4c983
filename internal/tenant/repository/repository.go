// Package repository provides data access for agencies and their phone mappings.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrMappingNotFound is returned when no phone mapping exists for a routing key.
var ErrMappingNotFound = errors.New("phone mapping not found")

// Agent is a tenant agency that receives routed calls.
type Agent struct {
	ID          uuid.UUID
	AgencyName  string
	ContactName *string
	Email       *string
	DiscordURL  *string
	CreatedAt   time.Time
}

// PhoneMapping binds an inbound phone number ID to an agency.
type PhoneMapping struct {
	ID            uuid.UUID
	PhoneNumberID string
	AgentID       uuid.UUID
	Label         *string
	CreatedAt     time.Time
}

// Repository provides agency and phone mapping queries.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a tenant repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ResolveByRoutingKey looks up the agency that owns the given inbound
// phone number ID. The mapping table is the single source of truth for
// call routing; an unmapped key returns ErrMappingNotFound.
func (r *Repository) ResolveByRoutingKey(ctx context.Context, routingKey string) (Agent, error) {
	var agent Agent
	err := r.pool.QueryRow(ctx, `
		SELECT a.id, a.agency_name, a.contact_name, a.email, a.discord_webhook_url, a.created_at
		FROM phone_mappings pm
		JOIN agents a ON a.id = pm.agent_id
		WHERE pm.phone_number_id = $1
	`, routingKey).Scan(
		&agent.ID,
		&agent.AgencyName,
		&agent.ContactName,
		&agent.Email,
		&agent.DiscordURL,
		&agent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, ErrMappingNotFound
		}
		return Agent{}, err
	}
	return agent, nil
}

// GetByID fetches an agency by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	var agent Agent
	err := r.pool.QueryRow(ctx, `
		SELECT id, agency_name, contact_name, email, discord_webhook_url, created_at
		FROM agents
		WHERE id = $1
	`, id).Scan(
		&agent.ID,
		&agent.AgencyName,
		&agent.ContactName,
		&agent.Email,
		&agent.DiscordURL,
		&agent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, ErrMappingNotFound
		}
		return Agent{}, err
	}
	return agent, nil
}

// ListMappings returns all phone mappings for an agency.
func (r *Repository) ListMappings(ctx context.Context, agentID uuid.UUID) ([]PhoneMapping, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, phone_number_id, agent_id, label, created_at
		FROM phone_mappings
		WHERE agent_id = $1
		ORDER BY created_at DESC
	`, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mappings := make([]PhoneMapping, 0)
	for rows.Next() {
		var m PhoneMapping
		if err := rows.Scan(&m.ID, &m.PhoneNumberID, &m.AgentID, &m.Label, &m.CreatedAt); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return mappings, nil
}
