package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrPropertyNotFound is returned when a property does not exist.
var ErrPropertyNotFound = errors.New("property not found")

// Property is a real estate listing tracked per agency, keyed by
// (agent, address_full).
type Property struct {
	ID          uuid.UUID
	AgentID     uuid.UUID
	AddressFull string
	City        *string
	State       *string
	PostalCode  *string
	DetailsJSON map[string]interface{}
	Status      string
	CreatedAt   time.Time
}

// CreatePropertyParams holds the fields for inserting a property.
type CreatePropertyParams struct {
	AgentID     uuid.UUID
	AddressFull string
	City        *string
	State       *string
	PostalCode  *string
	Lat         *float64
	Lng         *float64
}

// GetPropertyByAddress fetches a property by its (agent, address) identity.
func (r *Repository) GetPropertyByAddress(ctx context.Context, agentID uuid.UUID, addressFull string) (Property, error) {
	var p Property
	err := r.pool.QueryRow(ctx, `
		SELECT id, agent_id, address_full, city, state, postal_code, details_json, status, created_at
		FROM properties
		WHERE agent_id = $1 AND address_full = $2
	`, agentID, addressFull).Scan(
		&p.ID,
		&p.AgentID,
		&p.AddressFull,
		&p.City,
		&p.State,
		&p.PostalCode,
		&p.DetailsJSON,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrPropertyNotFound
		}
		return Property{}, err
	}
	return p, nil
}

// CreateProperty inserts a new active property. Coordinates, when present,
// travel in details_json so the schema stays flat.
func (r *Repository) CreateProperty(ctx context.Context, params CreatePropertyParams) (Property, error) {
	details := map[string]interface{}{
		"lat": params.Lat,
		"lng": params.Lng,
	}

	var p Property
	err := r.pool.QueryRow(ctx, `
		INSERT INTO properties (agent_id, address_full, city, state, postal_code, details_json, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'active')
		ON CONFLICT (agent_id, address_full) DO NOTHING
		RETURNING id, agent_id, address_full, city, state, postal_code, details_json, status, created_at
	`, params.AgentID, params.AddressFull, params.City, params.State, params.PostalCode, details).Scan(
		&p.ID,
		&p.AgentID,
		&p.AddressFull,
		&p.City,
		&p.State,
		&p.PostalCode,
		&p.DetailsJSON,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetPropertyByAddress(ctx, params.AgentID, params.AddressFull)
		}
		return Property{}, err
	}
	return p, nil
}
