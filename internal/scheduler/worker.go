package scheduler

import (
	"context"
	"fmt"

	"leadrouter_backend/internal/notification"
	"leadrouter_backend/platform/config"
	"leadrouter_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes background tasks from Redis.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender notification.Sender
	log    *logger.Logger
}

// NewWorker creates the asynq worker with all task handlers registered.
func NewWorker(cfg config.SchedulerConfig, sender notification.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskCallAlert, w.handleCallAlert)

	return w, nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleCallAlert delivers one queued inbound-call notification. A returned
// error makes asynq retry with backoff up to the task's MaxRetry.
func (w *Worker) handleCallAlert(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCallAlertPayload(task)
	if err != nil {
		return err
	}

	if !notification.ValidWebhookURL(payload.WebhookURL) {
		w.log.Warn("dropping call alert with invalid webhook URL", "agency", payload.AgencyName)
		return nil
	}

	return w.sender.SendCallAlert(ctx, payload.WebhookURL, notification.CallAlert{
		AgencyName:  payload.AgencyName,
		CallerPhone: payload.CallerPhone,
		NewLead:     payload.NewLead,
		OccurredAt:  payload.OccurredAt,
	})
}
