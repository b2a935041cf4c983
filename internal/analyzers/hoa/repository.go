package hoa

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Chunk is one paragraph of an uploaded document.
type Chunk struct {
	Text    string  `json:"text"`
	Section *string `json:"section"`
}

// Document is a stored CC&R document.
type Document struct {
	ID           uuid.UUID
	AgentID      uuid.UUID
	HOAName      string
	DocumentName string
	DocumentText string
	Chunks       []Chunk
	CreatedAt    time.Time
}

// Repository persists uploaded HOA documents.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an HOA document repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SplitChunks divides a document into paragraph chunks on blank lines.
func SplitChunks(text string) []Chunk {
	parts := strings.Split(text, "\n\n")
	chunks := make([]Chunk, 0, len(parts))
	for _, part := range parts {
		chunks = append(chunks, Chunk{Text: strings.TrimSpace(part)})
	}
	return chunks
}

// StoreDocument inserts a document with its paragraph chunks.
func (r *Repository) StoreDocument(ctx context.Context, agentID uuid.UUID, hoaName, documentName, documentText string) (Document, error) {
	chunks := SplitChunks(documentText)

	var doc Document
	err := r.pool.QueryRow(ctx, `
		INSERT INTO hoa_documents (agent_id, hoa_name, document_name, document_text, chunks_json)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, agentID, hoaName, documentName, documentText, chunks).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return Document{}, err
	}

	doc.AgentID = agentID
	doc.HOAName = hoaName
	doc.DocumentName = documentName
	doc.DocumentText = documentText
	doc.Chunks = chunks
	return doc, nil
}
