package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/growflow/backend/internal/events"
)

// NotificationService turns domain events into customer notifications. Email
// and SMS delivery are stubs that log what would be sent.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCustomerCreated, n.handleCustomerCreated)
	n.dispatcher.Subscribe(events.EventQuoteIssued, n.handleQuoteIssued)
	n.dispatcher.Subscribe(events.EventPaymentSubmitted, n.handlePaymentSubmitted)
	n.dispatcher.Subscribe(events.EventPaymentVerified, n.handlePaymentVerified)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handleCustomerCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CustomerCreated", zap.String("customer_id", event.CustomerID), zap.Any("payload", event.Payload))
	n.sendEmailStub(event, "welcome")
	return nil
}

func (n *NotificationService) handleQuoteIssued(ctx context.Context, event events.Event) error {
	n.logger.Info("QuoteIssued", zap.String("customer_id", event.CustomerID), zap.Any("payload", event.Payload))
	n.sendSMSStub(event, "quote_ready")
	return nil
}

func (n *NotificationService) handlePaymentSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentSubmitted", zap.String("customer_id", event.CustomerID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePaymentVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentVerified", zap.String("customer_id", event.CustomerID), zap.Any("payload", event.Payload))
	n.sendSMSStub(event, "payment_decision")
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PasswordResetRequested", zap.String("customer_id", event.CustomerID), zap.String("email", payload.Email))
	// The code stays out of API responses; it reaches the customer through
	// this delivery path only.
	n.logger.Debug("sendResetCodeStub",
		zap.String("email", payload.Email),
		zap.String("otp", payload.OTP))
	return nil
}

func (n *NotificationService) sendEmailStub(event events.Event, template string) {
	n.logger.Debug("sendEmailStub",
		zap.String("template", template),
		zap.String("customer_id", event.CustomerID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendSMSStub(event events.Event, template string) {
	n.logger.Debug("sendSMSStub",
		zap.String("template", template),
		zap.String("customer_id", event.CustomerID),
		zap.String("event_type", string(event.Type)))
}
