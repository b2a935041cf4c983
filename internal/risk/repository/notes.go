package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Note is a free-form annotation on a lead or property.
type Note struct {
	ID         uuid.UUID
	AgentID    uuid.UUID
	LeadID     *uuid.UUID
	PropertyID *uuid.UUID
	Title      *string
	Body       string
	CreatedAt  time.Time
}

// CreateNoteParams holds the fields for inserting a note.
type CreateNoteParams struct {
	AgentID    uuid.UUID
	LeadID     *uuid.UUID
	PropertyID *uuid.UUID
	Title      *string
	Body       string
}

// CreateNote inserts a note.
func (r *Repository) CreateNote(ctx context.Context, params CreateNoteParams) (Note, error) {
	var note Note
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notes (agent_id, lead_id, property_id, title, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, params.AgentID, params.LeadID, params.PropertyID, params.Title, params.Body).Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return Note{}, err
	}
	note.AgentID = params.AgentID
	note.LeadID = params.LeadID
	note.PropertyID = params.PropertyID
	note.Title = params.Title
	note.Body = params.Body
	return note, nil
}
