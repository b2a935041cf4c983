// Package solar extracts financial terms from solar lease contracts using a
// vision-capable model and derives a risk tier from the extracted numbers.
package solar

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const extractionPrompt = `Analyze this solar contract or agreement and extract the following financial terms. Return ONLY a JSON object with these exact fields (use null for missing values):

{
  "monthly_payment": <number or null>,
  "escalator_clause": <true/false>,
  "escalator_pct": <number or null>,
  "buyout_amount": <number or null>,
  "transfer_fee": <number or null>,
  "lease_term_years": <number or null>,
  "contract_type": "<lease|ppa|loan|unknown>",
  "vendor": "<vendor name or null>",
  "confidence_score": <0.0-1.0>
}

Focus on:
- Monthly payment amount (numeric only, no currency symbol)
- Annual escalator/increase percentage
- Buyout/buydown amount to purchase system
- Transfer or assumption fees
- Lease term in years
- Contract type (lease, PPA/power purchase agreement, loan, or unknown)
- Vendor name (Sunrun, Tesla, Vivint, Sunnova, etc.)

If any field is unclear or missing, use null. Set confidence_score to your confidence level (0.0-1.0).`

// Extractor runs the vision model over a contract document.
type Extractor interface {
	Extract(ctx context.Context, document []byte, mimeType, vendor string) (ExtractedData, error)
}

// GeminiExtractor calls the Gemini API with the document inlined.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates a Gemini-backed contract extractor.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// Extract sends the document and prompt to the model and parses the reply.
// A reply that is not valid JSON degrades to partial fields, not an error.
func (e *GeminiExtractor) Extract(ctx context.Context, document []byte, mimeType, vendor string) (ExtractedData, error) {
	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				genai.NewPartFromText(extractionPrompt),
				{
					InlineData: &genai.Blob{
						MIMEType: normalizeMIMEType(mimeType),
						Data:     document,
					},
				},
			},
		},
	}

	// Low temperature for factual extraction
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.3)),
		TopK:        genai.Ptr(float32(1)),
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, cfg)
	if err != nil {
		return ExtractedData{}, fmt.Errorf("gemini generate content: %w", err)
	}

	return ParseModelResponse(resp.Text(), vendor), nil
}

// normalizeMIMEType constrains arbitrary MIME types to the set the model
// accepts for inline documents.
func normalizeMIMEType(mimeType string) string {
	switch {
	case mimeType == "application/pdf":
		return mimeType
	case len(mimeType) >= 6 && mimeType[:6] == "image/":
		return mimeType
	default:
		return "image/jpeg"
	}
}
