package whatsapp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
	client "github.com/mamadbah2/hatchery/pkg/clients/whatsapp"
)

// Notifier delivers operator-facing notifications.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// AlertService sends notifications as WhatsApp text messages to the
// configured recipient.
type AlertService struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewAlertService wires a new service instance.
func NewAlertService(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *AlertService {
	svc := &AlertService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Notify sends "title\nmessage" to the alert recipient.
func (s *AlertService) Notify(ctx context.Context, title, message string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	body := message
	if title != "" {
		body = fmt.Sprintf("%s\n%s", title, message)
	}

	id, err := s.client.SendText(ctxWithTimeout, s.cfg.RecipientID, body)
	if err != nil {
		return fmt.Errorf("notify %s: %w", s.cfg.RecipientID, err)
	}

	s.logger.Info("notification sent", zap.String("title", title), zap.String("message_id", id))
	return nil
}

// NopNotifier drops every notification. It stands in when WhatsApp is not
// configured.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, string, string) error { return nil }
