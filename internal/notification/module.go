package notification

import (
	"context"
	"fmt"

	"leadrouter_backend/internal/events"
	"leadrouter_backend/platform/logger"
)

// TaskEnqueuer hands an alert off to the background queue. When Redis is
// configured this gives retries and observability; without it the module
// sends inline.
type TaskEnqueuer interface {
	EnqueueCallAlert(ctx context.Context, webhookURL string, alert CallAlert) error
}

// Module subscribes to domain events and dispatches notifications.
type Module struct {
	sender   Sender
	enqueuer TaskEnqueuer
	bus      events.Bus
	log      *logger.Logger
}

// NewModule creates the notification module. enqueuer may be nil; alerts are
// then sent directly from the event handler goroutine.
func NewModule(sender Sender, enqueuer TaskEnqueuer, bus events.Bus, log *logger.Logger) *Module {
	return &Module{sender: sender, enqueuer: enqueuer, bus: bus, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterEventHandlers subscribes the module to the events it dispatches on.
func (m *Module) RegisterEventHandlers(bus events.Bus) {
	bus.Subscribe(events.CallReceived{}.EventName(), m)
}

// Handle routes domain events to their notification handlers.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CallReceived:
		return m.handleCallReceived(ctx, e)
	default:
		return fmt.Errorf("notification: unexpected event %s", event.EventName())
	}
}

func (m *Module) handleCallReceived(ctx context.Context, e events.CallReceived) error {
	if !ValidWebhookURL(e.DiscordURL) {
		m.log.Debug("no notification endpoint for agency, skipping", "tenant_id", e.TenantID)
		return nil
	}

	alert := CallAlert{
		AgencyName:  e.AgencyName,
		CallerPhone: e.CallerPhone,
		NewLead:     e.NewLead,
		OccurredAt:  e.OccurredAt(),
	}

	if m.enqueuer != nil {
		err := m.enqueuer.EnqueueCallAlert(ctx, e.DiscordURL, alert)
		if err == nil {
			return nil
		}
		m.log.Warn("failed to enqueue call alert, sending inline", "tenant_id", e.TenantID, "error", err)
	}

	if err := m.sender.SendCallAlert(ctx, e.DiscordURL, alert); err != nil {
		m.log.DispatchError("discord", err)
		if m.bus != nil {
			m.bus.Publish(ctx, events.NotificationFailed{
				BaseEvent: events.NewBaseEvent(),
				Channel:   "discord",
				Reason:    err.Error(),
			})
		}
		return err
	}
	return nil
}
