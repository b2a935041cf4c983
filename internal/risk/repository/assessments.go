package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrAssessmentNotFound is returned when no risk assessment matches a query.
var ErrAssessmentNotFound = errors.New("risk assessment not found")

// RiskAssessment is one append-only snapshot of a property's or lead's risk
// factors. Rows are never updated; the latest row wins.
type RiskAssessment struct {
	ID                  uuid.UUID
	AgentID             uuid.UUID
	LeadID              *uuid.UUID
	PropertyID          *uuid.UUID
	SolarStatus         *string
	SolarEscalator      *bool
	SolarEscalatorPct   *float64
	SolarMonthlyPayment *float64
	SolarBuyoutAmount   *float64
	SolarTransferFee    *float64
	WaterSource         *string
	WaterZone           *string
	HOARentalCap        *bool
	RiskLevel           *string
	AssessmentJSON      map[string]interface{}
	CreatedAt           time.Time
}

// CreateAssessmentParams holds the fields for inserting a risk assessment.
type CreateAssessmentParams struct {
	AgentID             uuid.UUID
	LeadID              *uuid.UUID
	PropertyID          *uuid.UUID
	SolarStatus         *string
	SolarEscalator      *bool
	SolarEscalatorPct   *float64
	SolarMonthlyPayment *float64
	SolarBuyoutAmount   *float64
	SolarTransferFee    *float64
	WaterSource         *string
	WaterZone           *string
	HOARentalCap        *bool
	RiskLevel           *string
	AssessmentJSON      map[string]interface{}
}

// CreateAssessment appends a new risk assessment row.
func (r *Repository) CreateAssessment(ctx context.Context, params CreateAssessmentParams) (RiskAssessment, error) {
	assessmentJSON := params.AssessmentJSON
	if assessmentJSON == nil {
		assessmentJSON = map[string]interface{}{}
	}

	var out RiskAssessment
	err := r.pool.QueryRow(ctx, `
		INSERT INTO risk_assessments (
			agent_id, lead_id, property_id,
			solar_status, solar_escalator, solar_escalator_pct,
			solar_monthly_payment, solar_buyout_amount, solar_transfer_fee,
			water_source, water_zone, hoa_rental_cap,
			risk_level, assessment_json
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`,
		params.AgentID, params.LeadID, params.PropertyID,
		params.SolarStatus, params.SolarEscalator, params.SolarEscalatorPct,
		params.SolarMonthlyPayment, params.SolarBuyoutAmount, params.SolarTransferFee,
		params.WaterSource, params.WaterZone, params.HOARentalCap,
		params.RiskLevel, assessmentJSON,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return RiskAssessment{}, err
	}

	out.AgentID = params.AgentID
	out.LeadID = params.LeadID
	out.PropertyID = params.PropertyID
	out.SolarStatus = params.SolarStatus
	out.SolarEscalator = params.SolarEscalator
	out.SolarEscalatorPct = params.SolarEscalatorPct
	out.SolarMonthlyPayment = params.SolarMonthlyPayment
	out.SolarBuyoutAmount = params.SolarBuyoutAmount
	out.SolarTransferFee = params.SolarTransferFee
	out.WaterSource = params.WaterSource
	out.WaterZone = params.WaterZone
	out.HOARentalCap = params.HOARentalCap
	out.RiskLevel = params.RiskLevel
	out.AssessmentJSON = assessmentJSON
	return out, nil
}

// LatestAssessment returns the most recent assessment for an agency scoped
// to a lead, a property, or both.
func (r *Repository) LatestAssessment(ctx context.Context, agentID uuid.UUID, leadID, propertyID *uuid.UUID) (RiskAssessment, error) {
	query := `
		SELECT id, agent_id, lead_id, property_id,
		       solar_status, solar_escalator, solar_escalator_pct,
		       solar_monthly_payment, solar_buyout_amount, solar_transfer_fee,
		       water_source, water_zone, hoa_rental_cap,
		       risk_level, assessment_json, created_at
		FROM risk_assessments
		WHERE agent_id = $1
	`
	args := []interface{}{agentID}
	if leadID != nil {
		args = append(args, *leadID)
		query += ` AND lead_id = $2`
	}
	if propertyID != nil {
		args = append(args, *propertyID)
		if leadID != nil {
			query += ` AND property_id = $3`
		} else {
			query += ` AND property_id = $2`
		}
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	var a RiskAssessment
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.AgentID,
		&a.LeadID,
		&a.PropertyID,
		&a.SolarStatus,
		&a.SolarEscalator,
		&a.SolarEscalatorPct,
		&a.SolarMonthlyPayment,
		&a.SolarBuyoutAmount,
		&a.SolarTransferFee,
		&a.WaterSource,
		&a.WaterZone,
		&a.HOARentalCap,
		&a.RiskLevel,
		&a.AssessmentJSON,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RiskAssessment{}, ErrAssessmentNotFound
		}
		return RiskAssessment{}, err
	}
	return a, nil
}
