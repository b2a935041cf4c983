package callrouter

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	leadsrepo "leadrouter_backend/internal/leads/repository"
	"leadrouter_backend/internal/risk"
	riskrepo "leadrouter_backend/internal/risk/repository"
	tenantrepo "leadrouter_backend/internal/tenant/repository"
	"leadrouter_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type testTenants struct {
	agent tenantrepo.Agent
}

func (r testTenants) ResolveByRoutingKey(_ context.Context, routingKey string) (tenantrepo.Agent, error) {
	if routingKey != "phone-123" {
		return tenantrepo.Agent{}, tenantrepo.ErrMappingNotFound
	}
	return r.agent, nil
}

type testLeads struct {
	existing map[string]leadsrepo.Lead
	created  []leadsrepo.Lead
}

func (r *testLeads) ResolveOrCreate(_ context.Context, agentID uuid.UUID, rawPhone string) (leadsrepo.Lead, bool, error) {
	if lead, ok := r.existing[rawPhone]; ok {
		return lead, false, nil
	}
	lead := leadsrepo.Lead{
		ID:            uuid.New(),
		AgentID:       agentID,
		Name:          "Unknown Caller",
		Phone:         rawPhone,
		InterestLevel: "warm",
		CreatedAt:     time.Now(),
	}
	r.created = append(r.created, lead)
	return lead, true, nil
}

type testRisks struct {
	inputs []risk.CreateAssessmentInput
}

func (r *testRisks) CreateAssessment(_ context.Context, input risk.CreateAssessmentInput) (riskrepo.RiskAssessment, error) {
	r.inputs = append(r.inputs, input)
	return riskrepo.RiskAssessment{ID: uuid.New()}, nil
}

func newTestRouter(t *testing.T, secret string, leads *testLeads, risks *testRisks) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("development")
	discordURL := "https://discord.com/api/webhooks/123/abc"
	tenants := testTenants{agent: tenantrepo.Agent{
		ID:         uuid.New(),
		AgencyName: "Desert Homes Realty",
		DiscordURL: &discordURL,
	}}
	if leads == nil {
		leads = &testLeads{}
	}

	svc := NewService(tenants, leads, risks, nil, log)
	handler := NewHandler(svc, log)

	engine := gin.New()
	grp := engine.Group("/api/v1/webhook")
	grp.Use(SignatureMiddleware(secret, log))
	grp.POST("/vapi", handler.HandleInbound)
	return engine
}

func webhookBody(t *testing.T, routingKey, callerNumber string) []byte {
	t.Helper()
	payload := WebhookPayload{
		Message: &WebhookMessage{
			Call: &WebhookCall{
				PhoneNumberID: routingKey,
				Customer:      &WebhookCustomer{Number: &callerNumber},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return body
}

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestInboundCallNewLead(t *testing.T) {
	leads := &testLeads{}
	engine := newTestRouter(t, "", leads, nil)

	body := webhookBody(t, "phone-123", "+16025551234")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/vapi", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp AssistantResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.Contains(resp.Assistant.FirstMessage, "Desert Homes Realty") {
		t.Errorf("firstMessage %q does not embed the agency name", resp.Assistant.FirstMessage)
	}
	if !strings.Contains(resp.Assistant.FirstMessage, "Valued Caller") {
		t.Errorf("firstMessage %q should greet a new caller by the default name", resp.Assistant.FirstMessage)
	}
	if len(leads.created) != 1 {
		t.Fatalf("created %d leads, want 1", len(leads.created))
	}
	if leads.created[0].Phone != "+16025551234" {
		t.Errorf("lead phone = %q, want +16025551234", leads.created[0].Phone)
	}
	if len(resp.Assistant.Model.Messages) != 1 || resp.Assistant.Model.Messages[0].Role != "system" {
		t.Fatalf("expected a single system message, got %+v", resp.Assistant.Model.Messages)
	}
	if !strings.Contains(resp.Assistant.Model.Messages[0].Content, "Desert Homes Realty") {
		t.Error("system prompt does not mention the agency")
	}
}

func TestInboundCallReturningLead(t *testing.T) {
	summary := "Interested in a home with a solar lease in Anthem"
	leads := &testLeads{existing: map[string]leadsrepo.Lead{
		"+16025551234": {
			ID:            uuid.New(),
			Name:          "Maria Lopez",
			Phone:         "+16025551234",
			InterestLevel: "hot",
			Summary:       &summary,
		},
	}}
	risks := &testRisks{}
	engine := newTestRouter(t, "", leads, risks)

	body := webhookBody(t, "phone-123", "+16025551234")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/vapi", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp AssistantResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.Contains(resp.Assistant.FirstMessage, "Maria Lopez") {
		t.Errorf("firstMessage %q should greet the returning lead by name", resp.Assistant.FirstMessage)
	}
	if !strings.Contains(resp.Assistant.Model.Messages[0].Content, "SOLAR LIABILITY PROTOCOL ACTIVATED") {
		t.Error("solar lease in lead notes should activate the qualification protocol")
	}

	if len(risks.inputs) != 1 {
		t.Fatalf("persisted %d risk assessments, want 1", len(risks.inputs))
	}
	fields := risks.inputs[0].Fields
	if fields.SolarStatus == nil || *fields.SolarStatus != "leased" {
		t.Errorf("solar status = %v, want leased", fields.SolarStatus)
	}
	if fields.RiskLevel == nil || *fields.RiskLevel != "high" {
		t.Errorf("risk level = %v, want high", fields.RiskLevel)
	}
}

func TestInboundCallUnknownRoutingKey(t *testing.T) {
	engine := newTestRouter(t, "", nil, nil)

	body := webhookBody(t, "phone-999", "+16025551234")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/vapi", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 fallback", rec.Code)
	}

	var resp AssistantResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Assistant.FirstMessage != msgNotConfigured {
		t.Errorf("firstMessage = %q, want the not-configured fallback", resp.Assistant.FirstMessage)
	}
}

func TestInboundCallMissingCallData(t *testing.T) {
	engine := newTestRouter(t, "", nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/vapi", strings.NewReader(`{"message":{}}`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp AssistantResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Assistant.FirstMessage == "" {
		t.Error("validation failure must still return a well-formed assistant object")
	}
}

func TestInboundCallMissingRoutingKey(t *testing.T) {
	engine := newTestRouter(t, "", nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/vapi", strings.NewReader(`{"message":{"call":{}}}`))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp AssistantResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Assistant.FirstMessage != msgUnroutable {
		t.Errorf("firstMessage = %q, want %q", resp.Assistant.FirstMessage, msgUnroutable)
	}
}

func TestInboundCallBadSignature(t *testing.T) {
	secret := "test-secret"
	engine := newTestRouter(t, secret, nil, nil)

	body := webhookBody(t, "phone-123", "+16025551234")
	sig := signBody(body, secret)

	// Flip one byte of the body after signing.
	tampered := bytes.Clone(body)
	tampered[len(tampered)/2] ^= 0x01

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/vapi", bytes.NewReader(tampered))
	req.Header.Set(SignatureHeader, sig)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestInboundCallValidSignature(t *testing.T) {
	secret := "test-secret"
	engine := newTestRouter(t, secret, nil, nil)

	body := webhookBody(t, "phone-123", "+16025551234")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/vapi", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, signBody(body, secret))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestInboundCallMissingSignatureWithSecret(t *testing.T) {
	engine := newTestRouter(t, "test-secret", nil, nil)

	body := webhookBody(t, "phone-123", "+16025551234")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/vapi", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 when secret is set but header is absent", rec.Code)
	}
}

func TestInboundCallNilServiceFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.New("development")
	handler := NewHandler(nil, log)

	engine := gin.New()
	engine.POST("/api/v1/webhook/vapi", handler.HandleInbound)

	body := webhookBody(t, "phone-123", "+16025551234")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/vapi", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 degraded fallback", rec.Code)
	}
	var resp AssistantResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Assistant.FirstMessage != msgNotConfigured {
		t.Errorf("firstMessage = %q, want %q", resp.Assistant.FirstMessage, msgNotConfigured)
	}
}
