package repository

import (
	"context"

	"github.com/google/uuid"
)

// UsageMetricParams records one billable unit of analyzer work.
type UsageMetricParams struct {
	AgentID    uuid.UUID
	MetricType string
	Value      float64
	CostUSD    float64
	LeadID     *uuid.UUID
	PropertyID *uuid.UUID
	Metadata   map[string]interface{}
}

// RecordUsage inserts a usage metric row for billing. Failures here must not
// fail the operation being metered; callers log and continue.
func (r *Repository) RecordUsage(ctx context.Context, params UsageMetricParams) error {
	metadata := params.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO agent_usage_metrics (agent_id, metric_type, metric_value, cost_usd, lead_id, property_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, params.AgentID, params.MetricType, params.Value, params.CostUSD, params.LeadID, params.PropertyID, metadata)
	return err
}
