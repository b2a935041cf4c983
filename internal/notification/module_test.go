package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leadrouter_backend/internal/events"
	"leadrouter_backend/platform/logger"

	"github.com/google/uuid"
)

type recordingSender struct {
	urls   []string
	alerts []CallAlert
	err    error
}

func (s *recordingSender) SendCallAlert(_ context.Context, webhookURL string, alert CallAlert) error {
	s.urls = append(s.urls, webhookURL)
	s.alerts = append(s.alerts, alert)
	return s.err
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}
func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

func callReceived(discordURL string) events.CallReceived {
	return events.CallReceived{
		BaseEvent:   events.NewBaseEvent(),
		TenantID:    uuid.New(),
		AgencyName:  "Desert Homes Realty",
		CallerPhone: "+16025551234",
		NewLead:     true,
		DiscordURL:  discordURL,
	}
}

func TestHandleCallReceivedSendsAlert(t *testing.T) {
	sender := &recordingSender{}
	m := NewModule(sender, nil, nil, logger.New("development"))

	err := m.Handle(context.Background(), callReceived("https://discord.com/api/webhooks/123/abc"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.alerts) != 1 {
		t.Fatalf("sent %d alerts, want 1", len(sender.alerts))
	}
	if sender.alerts[0].AgencyName != "Desert Homes Realty" || !sender.alerts[0].NewLead {
		t.Errorf("alert = %+v, want new-lead alert for agency", sender.alerts[0])
	}
}

func TestHandleCallReceivedSkipsInvalidURL(t *testing.T) {
	sender := &recordingSender{}
	m := NewModule(sender, nil, nil, logger.New("development"))

	for _, url := range []string{"", "https://example.com/webhook", "http://discord.com/api/webhooks/1/a"} {
		if err := m.Handle(context.Background(), callReceived(url)); err != nil {
			t.Fatalf("Handle(%q): %v", url, err)
		}
	}
	if len(sender.alerts) != 0 {
		t.Errorf("sent %d alerts for invalid URLs, want 0", len(sender.alerts))
	}
}

func TestHandleCallReceivedPublishesFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("discord notification failed: 429 Too Many Requests")}
	bus := &recordingBus{}
	m := NewModule(sender, nil, bus, logger.New("development"))

	err := m.Handle(context.Background(), callReceived("https://discord.com/api/webhooks/123/abc"))
	if err == nil {
		t.Fatal("Handle should propagate the delivery error")
	}

	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	failed, ok := bus.published[0].(events.NotificationFailed)
	if !ok {
		t.Fatalf("published %T, want NotificationFailed", bus.published[0])
	}
	if failed.Channel != "discord" {
		t.Errorf("channel = %q, want discord", failed.Channel)
	}
}

type recordingEnqueuer struct {
	alerts []CallAlert
	err    error
}

func (q *recordingEnqueuer) EnqueueCallAlert(_ context.Context, _ string, alert CallAlert) error {
	q.alerts = append(q.alerts, alert)
	return q.err
}

func TestHandleCallReceivedPrefersQueue(t *testing.T) {
	sender := &recordingSender{}
	queue := &recordingEnqueuer{}
	m := NewModule(sender, queue, nil, logger.New("development"))

	if err := m.Handle(context.Background(), callReceived("https://discord.com/api/webhooks/123/abc")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(queue.alerts) != 1 {
		t.Fatalf("enqueued %d alerts, want 1", len(queue.alerts))
	}
	if len(sender.alerts) != 0 {
		t.Errorf("sent %d alerts inline while queue is healthy, want 0", len(sender.alerts))
	}
}

func TestHandleCallReceivedFallsBackWhenQueueDown(t *testing.T) {
	sender := &recordingSender{}
	queue := &recordingEnqueuer{err: errors.New("redis unavailable")}
	m := NewModule(sender, queue, nil, logger.New("development"))

	if err := m.Handle(context.Background(), callReceived("https://discord.com/api/webhooks/123/abc")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.alerts) != 1 {
		t.Fatalf("sent %d alerts inline after queue failure, want 1", len(sender.alerts))
	}
}

func TestDiscordClientPostsEmbed(t *testing.T) {
	var got discordMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("unmarshal embed: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewDiscordClient(logger.New("development"))
	alert := CallAlert{
		AgencyName:  "Desert Homes Realty",
		CallerPhone: "+16025551234",
		NewLead:     true,
		OccurredAt:  time.Date(2025, 6, 15, 19, 30, 0, 0, time.UTC),
	}

	if err := client.SendCallAlert(context.Background(), srv.URL, alert); err != nil {
		t.Fatalf("SendCallAlert: %v", err)
	}

	if len(got.Embeds) != 1 {
		t.Fatalf("posted %d embeds, want 1", len(got.Embeds))
	}
	embed := got.Embeds[0]
	if embed.Color != colorNewLead {
		t.Errorf("color = %#x, want green for a new lead", embed.Color)
	}
	if len(embed.Fields) != 3 {
		t.Fatalf("embed has %d fields, want 3", len(embed.Fields))
	}
	if embed.Fields[0].Value != "+16025551234" {
		t.Errorf("caller field = %q", embed.Fields[0].Value)
	}
	if embed.Fields[1].Value != "Desert Homes Realty" {
		t.Errorf("agency field = %q", embed.Fields[1].Value)
	}
}

func TestDiscordClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewDiscordClient(logger.New("development"))
	err := client.SendCallAlert(context.Background(), srv.URL, CallAlert{AgencyName: "A", OccurredAt: time.Now()})
	if err == nil {
		t.Fatal("non-2xx response must surface as an error")
	}
}

func TestDiscordEmbedShape(t *testing.T) {
	alert := CallAlert{
		AgencyName:  "Desert Homes Realty",
		CallerPhone: "",
		NewLead:     false,
		OccurredAt:  time.Date(2025, 6, 15, 19, 30, 0, 0, time.UTC),
	}

	title := "🔄 RETURNING LEAD - Inbound Call"
	color := colorReturningLead
	if alert.NewLead {
		title = "🆕 NEW LEAD - Inbound Call"
		color = colorNewLead
	}
	if title != "🔄 RETURNING LEAD - Inbound Call" || color != 0x3498db {
		t.Errorf("returning lead should use blue embed, got %q %#x", title, color)
	}

	// Arizona has no DST: 19:30 UTC is always 12:30 PM in Phoenix.
	if got := phoenixTime(alert.OccurredAt); !strings.Contains(got, "12:30:00 PM") {
		t.Errorf("phoenixTime = %q, want a 12:30:00 PM local stamp", got)
	}
}
