package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-ledger/internal/domain/pets"
	"pet-ledger/internal/platform/httpclient"
	"pet-ledger/internal/platform/logger"
)

var (
	_ pets.Notifier = (*LogSink)(nil)
	_ pets.Notifier = (*WebhookSink)(nil)
	_ pets.Notifier = Fanout(nil)
)

// LogSink escribe cada notificación como una línea estructurada.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSink{log: log.With(map[string]any{"component": "notify"})}
}

func (s *LogSink) Notify(_ context.Context, n pets.Notification) error {
	fields := map[string]any{
		"notification_id": n.ID,
		"kind":            string(n.Kind),
		"actor":           n.Actor,
		"at":              n.At.Format(time.RFC3339Nano),
	}
	if n.PetID != 0 {
		fields["pet_id"] = uint64(n.PetID)
	}
	for k, v := range n.Fields {
		fields["f_"+k] = v
	}
	s.log.Info("registry notification", fields)
	return nil
}

const (
	webhookAttempts = 3
	webhookBackoff  = 200 * time.Millisecond
)

// WebhookSink hace POST del JSON de la notificación a una URL fija.
// Reintenta solo errores HTTP retryable (5xx, 429).
type WebhookSink struct {
	client  *httpclient.Client
	url     string
	backoff time.Duration
}

func NewWebhookSink(client *httpclient.Client, url string) (*WebhookSink, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("webhook url is required")
	}
	if err := httpclient.ValidateURL(url); err != nil {
		return nil, fmt.Errorf("webhook url: %w", err)
	}
	if client == nil {
		client = httpclient.New(0)
	}
	return &WebhookSink{client: client, url: url, backoff: webhookBackoff}, nil
}

func (s *WebhookSink) Notify(ctx context.Context, n pets.Notification) error {
	headers := map[string]string{
		"X-Notification-ID":   n.ID,
		"X-Notification-Kind": string(n.Kind),
	}

	var err error
	for attempt := 1; attempt <= webhookAttempts; attempt++ {
		err = s.client.PostJSON(ctx, s.url, headers, n)
		if err == nil {
			return nil
		}
		var httpErr *httpclient.HTTPError
		if !errors.As(err, &httpErr) || !httpErr.Retryable() || attempt == webhookAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("webhook %s: %w", n.Kind, ctx.Err())
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("webhook %s: %w", n.Kind, err)
}

// Fanout entrega a todos los sinks aunque alguno falle; los errores se juntan.
type Fanout []pets.Notifier

func (f Fanout) Notify(ctx context.Context, n pets.Notification) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
