package callrouter

// WebhookPayload is the inbound call notification from the voice platform.
type WebhookPayload struct {
	Message *WebhookMessage `json:"message"`
}

// WebhookMessage wraps the call details.
type WebhookMessage struct {
	Type string       `json:"type,omitempty"`
	Call *WebhookCall `json:"call"`
}

// WebhookCall identifies the called number and, when known, the caller.
type WebhookCall struct {
	PhoneNumberID string           `json:"phoneNumberId"`
	Customer      *WebhookCustomer `json:"customer,omitempty"`
}

// WebhookCustomer is the caller as reported by the voice platform.
type WebhookCustomer struct {
	Number *string `json:"number,omitempty"`
	Name   *string `json:"name,omitempty"`
}

// AssistantResponse is the configuration object the voice platform expects
// back. It is returned on every validated request, including degraded
// fallback branches.
type AssistantResponse struct {
	Assistant Assistant `json:"assistant"`
}

// Assistant configures the voice agent for one call.
type Assistant struct {
	Name         string         `json:"name"`
	FirstMessage string         `json:"firstMessage"`
	Model        AssistantModel `json:"model"`
}

// AssistantModel selects the language model and its system instructions.
type AssistantModel struct {
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Messages []ModelMessage `json:"messages"`
}

// ModelMessage is a single chat message in the model configuration.
type ModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// fallbackAssistant builds the degraded configuration returned when the call
// cannot be routed to an agency. The voice platform must always receive a
// usable assistant object, so even error branches speak this shape.
func fallbackAssistant(firstMessage, systemContent string) AssistantResponse {
	return AssistantResponse{
		Assistant: Assistant{
			Name:         "Assistant",
			FirstMessage: firstMessage,
			Model: AssistantModel{
				Provider: modelProvider,
				Model:    modelName,
				Messages: []ModelMessage{{Role: "system", Content: systemContent}},
			},
		},
	}
}

const (
	modelProvider = "openai"
	modelName     = "gpt-4"
)
