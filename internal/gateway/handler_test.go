package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leadrouter_backend/internal/risk"
	"leadrouter_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestEngine(risks *risk.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(risks, nil, logger.New("development"))
	engine := gin.New()
	engine.POST("/api/v1/gateway", handler.Dispatch)
	return engine
}

func dispatch(t *testing.T, engine *gin.Engine, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gateway", strings.NewReader(body))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return rec, decoded
}

func TestDispatchMissingAction(t *testing.T) {
	engine := newTestEngine(risk.New(nil, nil, nil))

	rec, body := dispatch(t, engine, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["error"] != "Missing action" {
		t.Errorf("error = %v, want Missing action", body["error"])
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	engine := newTestEngine(risk.New(nil, nil, nil))

	rec, body := dispatch(t, engine, `{"action":"teleport.lead"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["error"] != "Unknown action" {
		t.Errorf("error = %v, want Unknown action", body["error"])
	}
}

func TestDispatchServerNotConfigured(t *testing.T) {
	engine := newTestEngine(nil)

	rec, body := dispatch(t, engine, `{"action":"risk_assessment.latest"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body["error"] != "Server not configured" {
		t.Errorf("error = %v, want Server not configured", body["error"])
	}
}

func TestDispatchValidation(t *testing.T) {
	engine := newTestEngine(risk.New(nil, nil, nil))
	agentID := uuid.NewString()

	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "create requires agent_id",
			body:    `{"action":"risk_assessment.create"}`,
			wantErr: "agent_id required",
		},
		{
			name:    "agent_id must parse",
			body:    `{"action":"risk_assessment.create","agent_id":"not-a-uuid"}`,
			wantErr: "agent_id must be a UUID",
		},
		{
			name:    "latest requires a lead or property key",
			body:    `{"action":"risk_assessment.latest","agent_id":"` + agentID + `"}`,
			wantErr: "lead_id or property_id required",
		},
		{
			name:    "note requires a body",
			body:    `{"action":"note.create","agent_id":"` + agentID + `","note":{"title":"x"}}`,
			wantErr: "note.body required",
		},
		{
			name:    "tags require name and target",
			body:    `{"action":"tags.ensure_and_attach","agent_id":"` + agentID + `"}`,
			wantErr: "agent_id, name, attachTo required",
		},
		{
			name:    "risk level outside the closed set",
			body:    `{"action":"risk_assessment.create","agent_id":"` + agentID + `","risk":{"risk_level":"extreme"}}`,
			wantErr: "risk_level must be one of low, medium, high",
		},
		{
			name:    "solar status outside the closed set",
			body:    `{"action":"risk_assessment.create","agent_id":"` + agentID + `","risk":{"solar_status":"rented"}}`,
			wantErr: "solar_status must be one of owned, leased, none",
		},
		{
			name:    "water source outside the closed set",
			body:    `{"action":"risk_assessment.create","agent_id":"` + agentID + `","risk":{"water_source":"river"}}`,
			wantErr: "water_source must be one of municipal, private_well, shared_well, hauled",
		},
		{
			name:    "water lookup requires coordinates",
			body:    `{"action":"water.lookup"}`,
			wantErr: "lat,lng required",
		},
		{
			name:    "hoa query requires query and name",
			body:    `{"action":"hoa.query","query":"rentals allowed?"}`,
			wantErr: "query, hoa_name required",
		},
		{
			name:    "hoa upload requires document text",
			body:    `{"action":"hoa.document.upload","agent_id":"11111111-1111-1111-1111-111111111111","hoa_name":"Desert Ridge"}`,
			wantErr: "agent_id, hoa_name, document_text required",
		},
		{
			name:    "solar scan requires agent",
			body:    `{"action":"solar.lease.scan"}`,
			wantErr: "agent_id required",
		},
		{
			name:    "solar scan requires a subject",
			body:    `{"action":"solar.lease.scan","agent_id":"` + agentID + `"}`,
			wantErr: "lead_id or property_id required",
		},
		{
			name:    "solar scan requires a document",
			body:    `{"action":"solar.lease.scan","agent_id":"` + agentID + `","lead_id":"` + uuid.NewString() + `"}`,
			wantErr: "document_url or document_base64 required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := dispatch(t, engine, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if body["error"] != tc.wantErr {
				t.Errorf("error = %v, want %q", body["error"], tc.wantErr)
			}
		})
	}
}
