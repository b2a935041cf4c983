package scheduler

import (
	"context"
	"testing"
	"time"

	"leadrouter_backend/internal/notification"
	"leadrouter_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type captureSender struct {
	urls   []string
	alerts []notification.CallAlert
}

func (s *captureSender) SendCallAlert(_ context.Context, webhookURL string, alert notification.CallAlert) error {
	s.urls = append(s.urls, webhookURL)
	s.alerts = append(s.alerts, alert)
	return nil
}

func TestHandleCallAlert(t *testing.T) {
	sender := &captureSender{}
	w := &Worker{sender: sender, log: logger.New("development")}

	task, err := NewCallAlertTask(CallAlertPayload{
		WebhookURL:  "https://discord.com/api/webhooks/123/abc",
		AgencyName:  "Desert Homes Realty",
		CallerPhone: "+16025551234",
		NewLead:     true,
		OccurredAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("NewCallAlertTask: %v", err)
	}

	if err := w.handleCallAlert(context.Background(), task); err != nil {
		t.Fatalf("handleCallAlert: %v", err)
	}
	if len(sender.alerts) != 1 {
		t.Fatalf("delivered %d alerts, want 1", len(sender.alerts))
	}
	if sender.urls[0] != "https://discord.com/api/webhooks/123/abc" {
		t.Errorf("webhook URL = %q", sender.urls[0])
	}
	if !sender.alerts[0].NewLead || sender.alerts[0].AgencyName != "Desert Homes Realty" {
		t.Errorf("alert = %+v", sender.alerts[0])
	}
}

func TestHandleCallAlertDropsInvalidURL(t *testing.T) {
	sender := &captureSender{}
	w := &Worker{sender: sender, log: logger.New("development")}

	task, err := NewCallAlertTask(CallAlertPayload{WebhookURL: "https://example.com/hook", AgencyName: "A"})
	if err != nil {
		t.Fatalf("NewCallAlertTask: %v", err)
	}

	if err := w.handleCallAlert(context.Background(), task); err != nil {
		t.Fatalf("invalid URL should be dropped without error, got %v", err)
	}
	if len(sender.alerts) != 0 {
		t.Errorf("delivered %d alerts for invalid URL, want 0", len(sender.alerts))
	}
}

func TestHandleCallAlertMalformedPayload(t *testing.T) {
	w := &Worker{sender: &captureSender{}, log: logger.New("development")}
	task := asynq.NewTask(TaskCallAlert, []byte("{not json"))

	if err := w.handleCallAlert(context.Background(), task); err == nil {
		t.Fatal("malformed payload must return an error")
	}
}
