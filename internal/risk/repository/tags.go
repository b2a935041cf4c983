package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EnsureTag returns the ID of the tag with the given name for an agency,
// creating it if necessary. Tag names are unique per agency.
func (r *Repository) EnsureTag(ctx context.Context, agentID uuid.UUID, name string) (uuid.UUID, error) {
	var tagID uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM tags WHERE agent_id = $1 AND name = $2
	`, agentID, name).Scan(&tagID)
	if err == nil {
		return tagID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO tags (agent_id, name)
		VALUES ($1, $2)
		ON CONFLICT (agent_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, agentID, name).Scan(&tagID)
	if err != nil {
		return uuid.Nil, err
	}
	return tagID, nil
}

// AttachTagToLead links a tag to a lead. Re-attaching is a no-op.
func (r *Repository) AttachTagToLead(ctx context.Context, leadID, tagID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lead_tags (lead_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (lead_id, tag_id) DO NOTHING
	`, leadID, tagID)
	return err
}

// AttachTagToProperty links a tag to a property. Re-attaching is a no-op.
func (r *Repository) AttachTagToProperty(ctx context.Context, propertyID, tagID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO property_tags (property_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (property_id, tag_id) DO NOTHING
	`, propertyID, tagID)
	return err
}
