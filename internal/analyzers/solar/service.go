package solar

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"leadrouter_backend/internal/adapters/storage"
	"leadrouter_backend/internal/risk"
	riskrepo "leadrouter_backend/internal/risk/repository"
	"leadrouter_backend/platform/apperr"
	"leadrouter_backend/platform/logger"

	"github.com/google/uuid"
)

// Per-scan model cost used for billing metrics.
const scanCostUSD = 0.075

// ScanInput identifies the document and the entities it belongs to.
type ScanInput struct {
	AgentID        uuid.UUID
	LeadID         *uuid.UUID
	PropertyID     *uuid.UUID
	DocumentURL    string
	DocumentBase64 string
	Vendor         string
}

// ScanResult is the outcome of one contract scan.
type ScanResult struct {
	AssessmentID   uuid.UUID              `json:"risk_assessment_id"`
	Extracted      ExtractedData          `json:"extracted_data"`
	RiskLevel      string                 `json:"risk_level"`
	AssessmentJSON map[string]interface{} `json:"assessment_json"`
}

// MetricsRecorder records billable analyzer usage.
type MetricsRecorder interface {
	RecordUsage(ctx context.Context, params riskrepo.UsageMetricParams) error
}

// Service runs contract scans: fetch, extract, derive risk, persist.
type Service struct {
	extractor  Extractor
	risks      *risk.Service
	metrics    MetricsRecorder
	archive    storage.StorageService
	bucket     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewService creates the solar scan service. The archive may be nil when no
// object storage is configured; scans then skip document archival.
func NewService(extractor Extractor, risks *risk.Service, metrics MetricsRecorder, archive storage.StorageService, bucket string, log *logger.Logger) *Service {
	return &Service{
		extractor:  extractor,
		risks:      risks,
		metrics:    metrics,
		archive:    archive,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

// Scan extracts contract terms from the document and appends a risk
// assessment for the referenced lead or property.
func (s *Service) Scan(ctx context.Context, input ScanInput) (ScanResult, error) {
	if input.AgentID == uuid.Nil {
		return ScanResult{}, apperr.Validation("agent_id required")
	}
	if input.LeadID == nil && input.PropertyID == nil {
		return ScanResult{}, apperr.Validation("lead_id or property_id required")
	}
	if input.DocumentURL == "" && input.DocumentBase64 == "" {
		return ScanResult{}, apperr.Validation("document_url or document_base64 required")
	}

	document, mimeType, err := s.resolveDocument(ctx, input)
	if err != nil {
		return ScanResult{}, err
	}

	extracted, err := s.extractor.Extract(ctx, document, mimeType, input.Vendor)
	if err != nil {
		return ScanResult{}, apperr.Wrap(apperr.KindUnavailable, "contract extraction failed", err)
	}

	riskLevel := DeriveRiskLevel(extracted)
	solarStatus := SolarStatus(extracted)
	escalator := false
	if extracted.EscalatorClause != nil {
		escalator = *extracted.EscalatorClause
	}

	assessmentJSON := map[string]interface{}{
		"extraction_method": "gemini-vision",
		"extracted_fields":  extracted,
		"scan_timestamp":    time.Now().UTC().Format(time.RFC3339),
	}

	assessment, err := s.risks.CreateAssessment(ctx, risk.CreateAssessmentInput{
		AgentID:  input.AgentID,
		Lead:     leadRefFromID(input.LeadID),
		Property: propertyRefFromID(input.PropertyID),
		Fields: riskrepo.CreateAssessmentParams{
			SolarStatus:         &solarStatus,
			SolarEscalator:      &escalator,
			SolarEscalatorPct:   extracted.EscalatorPct,
			SolarMonthlyPayment: extracted.MonthlyPayment,
			SolarBuyoutAmount:   extracted.BuyoutAmount,
			SolarTransferFee:    extracted.TransferFee,
			RiskLevel:           &riskLevel,
			AssessmentJSON:      assessmentJSON,
		},
	})
	if err != nil {
		return ScanResult{}, err
	}

	// Billing and archival are best-effort side effects.
	if s.metrics != nil {
		if err := s.metrics.RecordUsage(ctx, riskrepo.UsageMetricParams{
			AgentID:    input.AgentID,
			MetricType: "solar_ocr_scan",
			Value:      1,
			CostUSD:    scanCostUSD,
			LeadID:     input.LeadID,
			PropertyID: input.PropertyID,
			Metadata:   map[string]interface{}{"vendor": input.Vendor, "extraction_method": "gemini-vision"},
		}); err != nil {
			s.log.Warn("usage metric insert failed", "agentId", input.AgentID, "error", err)
		}
	}
	s.archiveDocument(ctx, input.AgentID, assessment.ID, document, mimeType)

	return ScanResult{
		AssessmentID:   assessment.ID,
		Extracted:      extracted,
		RiskLevel:      riskLevel,
		AssessmentJSON: assessmentJSON,
	}, nil
}

func (s *Service) resolveDocument(ctx context.Context, input ScanInput) ([]byte, string, error) {
	if input.DocumentBase64 != "" {
		document, err := base64.StdEncoding.DecodeString(input.DocumentBase64)
		if err != nil {
			return nil, "", apperr.Validation("document_base64 is not valid base64")
		}
		return document, "application/pdf", nil
	}

	document, mimeType, err := FetchDocument(ctx, s.httpClient, input.DocumentURL)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindUnavailable, "could not fetch document", err)
	}
	return document, mimeType, nil
}

func (s *Service) archiveDocument(ctx context.Context, agentID, assessmentID uuid.UUID, document []byte, mimeType string) {
	if s.archive == nil || s.bucket == "" {
		return
	}

	ext := ".pdf"
	switch mimeType {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	}
	folder := agentID.String()
	fileName := fmt.Sprintf("contract_%s%s", assessmentID.String()[:8], ext)

	if _, err := s.archive.UploadFile(ctx, s.bucket, folder, fileName, mimeType, bytes.NewReader(document), int64(len(document))); err != nil {
		s.log.Warn("contract archival failed", "agentId", agentID, "error", err)
	}
}

func leadRefFromID(id *uuid.UUID) *risk.LeadRef {
	if id == nil {
		return nil
	}
	return &risk.LeadRef{ID: id}
}

func propertyRefFromID(id *uuid.UUID) *risk.PropertyRef {
	if id == nil {
		return nil
	}
	return &risk.PropertyRef{ID: id}
}
