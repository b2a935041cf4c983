// Package repository provides data access for risk assessments, properties,
// notes and tags.
package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides persistence for the risk bounded context.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a risk repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}
