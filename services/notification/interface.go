package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"astrodesk/models"
	"astrodesk/services/mail"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService dispatches best-effort notices after a primary write succeeded.
// Implementations never report delivery failures to the caller.
type NotificationService interface {
	BookingCreated(ctx context.Context, b models.Booking)
	OrderPlaced(ctx context.Context, o models.Order, downloadLink string)
	Close()
}

// PushClient is satisfied by *messaging.Client.
type PushClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DefaultNotificationService sends mail through a Sender and, when configured, an FCM
// push to the admin topic. Every dispatch runs in its own goroutine bounded by timeout.
type DefaultNotificationService struct {
	composer   *mail.Composer
	sender     mail.Sender
	push       PushClient
	adminTopic string
	timeout    time.Duration
	logger     *zap.Logger

	wg sync.WaitGroup
}

type Option func(*DefaultNotificationService)

// WithAdminPush enables topic pushes to the admin devices.
func WithAdminPush(client PushClient, topic string) Option {
	return func(s *DefaultNotificationService) {
		if client != nil && topic != "" {
			s.push = client
			s.adminTopic = topic
		}
	}
}

func NewDefaultNotificationService(
	composer *mail.Composer,
	sender mail.Sender,
	timeout time.Duration,
	logger *zap.Logger,
	opts ...Option,
) (*DefaultNotificationService, error) {
	if composer == nil || sender == nil {
		return nil, fmt.Errorf("notification service initialization error: composer or sender is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DefaultNotificationService{
		composer: composer,
		sender:   sender,
		timeout:  timeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BookingCreated mails the admin notice and the client confirmation in one session.
func (s *DefaultNotificationService) BookingCreated(ctx context.Context, b models.Booking) {
	log := s.logger.With(zap.String("booking_id", b.ID), zap.String("date", b.Date))

	var msgs []mail.Message
	if m, err := s.composer.BookingAdminNotice(b); err != nil {
		log.Warn("Skipping admin booking notice", zap.Error(err))
	} else {
		msgs = append(msgs, m)
	}
	if m, err := s.composer.BookingClientConfirmation(b); err != nil {
		log.Warn("Skipping client booking confirmation", zap.Error(err))
	} else {
		msgs = append(msgs, m)
	}

	s.dispatch(ctx, log, msgs, &messaging.Notification{
		Title: "New booking",
		Body:  fmt.Sprintf("%s at %d:00 - %s", b.Date, b.Hour, b.Name),
	}, map[string]string{"type": "booking", "booking_id": b.ID})
}

// OrderPlaced mails the purchase confirmation carrying the download link.
func (s *DefaultNotificationService) OrderPlaced(ctx context.Context, o models.Order, downloadLink string) {
	log := s.logger.With(zap.String("order_id", o.ID), zap.String("product_id", o.ProductID))

	var msgs []mail.Message
	if m, err := s.composer.PurchaseConfirmation(o, downloadLink); err != nil {
		log.Warn("Skipping purchase confirmation", zap.Error(err))
	} else {
		msgs = append(msgs, m)
	}

	s.dispatch(ctx, log, msgs, &messaging.Notification{
		Title: "New order",
		Body:  fmt.Sprintf("%s bought %q for %.2f", o.Name, o.ProductTitle, o.Amount),
	}, map[string]string{"type": "order", "order_id": o.ID})
}

func (s *DefaultNotificationService) dispatch(
	ctx context.Context,
	log *zap.Logger,
	msgs []mail.Message,
	note *messaging.Notification,
	data map[string]string,
) {
	// The request context ends with the response; keep its values, drop its deadline.
	base := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := s.withTimeout(base)
		defer cancel()

		if len(msgs) > 0 {
			if err := s.sender.Send(ctx, msgs...); err != nil {
				log.Error("Failed to send notification email", zap.Int("messages", len(msgs)), zap.Error(err))
			} else {
				log.Info("Notification email sent", zap.Int("messages", len(msgs)))
			}
		}

		if s.push == nil {
			return
		}
		if _, err := s.push.Send(ctx, &messaging.Message{
			Topic:        s.adminTopic,
			Notification: note,
			Data:         data,
		}); err != nil {
			log.Warn("Failed to push admin notification", zap.String("topic", s.adminTopic), zap.Error(err))
		}
	}()
}

func (s *DefaultNotificationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Close waits for in-flight dispatches.
func (s *DefaultNotificationService) Close() {
	s.wg.Wait()
}
