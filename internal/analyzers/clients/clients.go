// Package clients provides HTTP adapters for the analyzer endpoints with a
// uniform failure contract: an analyzer replying ok:false surfaces as a
// "service failed" error, a transport failure as "service unavailable".
// The gateway treats both as fallible downstream calls and never lets them
// reach the webhook hot path.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"leadrouter_backend/internal/analyzers/hoa"
	"leadrouter_backend/internal/analyzers/solar"
	"leadrouter_backend/internal/analyzers/water"
	"leadrouter_backend/platform/apperr"
	"leadrouter_backend/platform/config"
)

// Client calls the analyzer endpoints over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an analyzer client from configuration.
func New(cfg config.AnalyzerConfig) *Client {
	return &Client{
		baseURL:    cfg.GetAnalyzerBaseURL(),
		httpClient: &http.Client{Timeout: cfg.GetAnalyzerTimeout()},
	}
}

// WaterLookup classifies a coordinate via the water analyzer.
func (c *Client) WaterLookup(ctx context.Context, lat, lng float64) (water.ZoneResult, error) {
	var resp water.LookupResponse
	if err := c.post(ctx, "/api/v1/analyzers/water", map[string]float64{"lat": lat, "lng": lng}, &resp); err != nil {
		return water.ZoneResult{}, err
	}
	if !resp.OK {
		return water.ZoneResult{}, apperr.New(apperr.KindBadRequest, "water lookup failed")
	}
	return resp.ZoneResult, nil
}

// HOAQuery answers a rental restriction question via the HOA analyzer.
func (c *Client) HOAQuery(ctx context.Context, hoaName, query string) (hoa.QueryResponse, error) {
	var resp hoa.QueryResponse
	body := hoa.QueryRequest{HOAName: hoaName, Query: query}
	if err := c.post(ctx, "/api/v1/analyzers/hoa/query", body, &resp); err != nil {
		return hoa.QueryResponse{}, err
	}
	if !resp.OK {
		return hoa.QueryResponse{}, apperr.New(apperr.KindBadRequest, "HOA query failed")
	}
	return resp, nil
}

// HOADocumentUpload stores a CC&R document via the HOA analyzer.
func (c *Client) HOADocumentUpload(ctx context.Context, req hoa.UploadRequest) (hoa.UploadResponse, error) {
	var resp hoa.UploadResponse
	if err := c.post(ctx, "/api/v1/analyzers/hoa/documents", req, &resp); err != nil {
		return hoa.UploadResponse{}, err
	}
	if !resp.OK {
		return hoa.UploadResponse{}, apperr.New(apperr.KindBadRequest, "HOA document upload failed")
	}
	return resp, nil
}

// SolarScan runs a contract scan via the solar analyzer.
func (c *Client) SolarScan(ctx context.Context, req solar.ScanRequest) (solar.ScanResult, error) {
	var resp solar.ScanResponse
	if err := c.post(ctx, "/api/v1/analyzers/solar/scan", req, &resp); err != nil {
		return solar.ScanResult{}, err
	}
	if !resp.OK {
		return solar.ScanResult{}, apperr.New(apperr.KindBadRequest, "solar OCR scan failed")
	}
	return resp.ScanResult, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "encode analyzer request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "build analyzer request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "analyzer service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return apperr.New(apperr.KindUnavailable, fmt.Sprintf("analyzer service unavailable (%d)", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Error != "" {
			return apperr.New(apperr.KindBadRequest, errBody.Error)
		}
		return apperr.New(apperr.KindBadRequest, fmt.Sprintf("analyzer request failed (%d)", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "decode analyzer response", err)
	}
	return nil
}
