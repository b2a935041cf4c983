// Package notification delivers call alerts to agency notification endpoints
// in response to domain events. Delivery is best effort: the call path never
// waits on it and never sees its failures.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadrouter_backend/platform/logger"
)

// WebhookURLPrefix is the only accepted Discord endpoint shape. Anything
// else is treated as unconfigured and skipped.
const WebhookURLPrefix = "https://discord.com/api/webhooks/"

// CallAlert is one inbound-call notification.
type CallAlert struct {
	AgencyName  string
	CallerPhone string
	NewLead     bool
	OccurredAt  time.Time
}

// Sender delivers a call alert to a notification endpoint.
type Sender interface {
	SendCallAlert(ctx context.Context, webhookURL string, alert CallAlert) error
}

// DiscordClient posts call alerts as Discord embeds.
type DiscordClient struct {
	httpClient *http.Client
	log        *logger.Logger
}

// NewDiscordClient creates a Discord alert sender.
func NewDiscordClient(log *logger.Logger) *DiscordClient {
	return &DiscordClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Embed colors: green for a first-time caller, blue for a returning one.
const (
	colorNewLead       = 0x00ff00
	colorReturningLead = 0x3498db
)

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordEmbed struct {
	Title     string         `json:"title"`
	Color     int            `json:"color"`
	Fields    []discordField `json:"fields"`
	Footer    discordFooter  `json:"footer"`
	Timestamp string         `json:"timestamp"`
}

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

// phoenixTime renders a timestamp in Arizona local time. Arizona does not
// observe DST, so this is a fixed UTC-7 when the tzdata lookup fails.
func phoenixTime(t time.Time) string {
	loc, err := time.LoadLocation("America/Phoenix")
	if err != nil {
		loc = time.FixedZone("MST", -7*60*60)
	}
	return t.In(loc).Format("1/2/2006, 3:04:05 PM")
}

// SendCallAlert posts the inbound-call embed to the agency's Discord webhook.
// Callers are expected to have validated the URL with ValidWebhookURL first.
func (c *DiscordClient) SendCallAlert(ctx context.Context, webhookURL string, alert CallAlert) error {
	title := "🔄 RETURNING LEAD - Inbound Call"
	color := colorReturningLead
	if alert.NewLead {
		title = "🆕 NEW LEAD - Inbound Call"
		color = colorNewLead
	}

	caller := alert.CallerPhone
	if caller == "" {
		caller = "Unknown"
	}

	msg := discordMessage{Embeds: []discordEmbed{{
		Title: title,
		Color: color,
		Fields: []discordField{
			{Name: "📞 Caller", Value: caller, Inline: true},
			{Name: "🏢 Agency", Value: alert.AgencyName, Inline: true},
			{Name: "🕐 Time (AZ)", Value: phoenixTime(alert.OccurredAt), Inline: false},
		},
		Footer:    discordFooter{Text: "Vapi Real Estate Assistant"},
		Timestamp: alert.OccurredAt.UTC().Format(time.RFC3339),
	}}}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal discord embed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post discord notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord notification failed: %s", resp.Status)
	}

	c.log.Debug("discord notification sent", "agency", alert.AgencyName, "new_lead", alert.NewLead)
	return nil
}

// ValidWebhookURL reports whether the URL is a usable Discord webhook.
func ValidWebhookURL(url string) bool {
	return strings.HasPrefix(url, WebhookURLPrefix)
}
