package events

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPPublisher mirrors domain events to a durable queue for downstream
// consumers (notification delivery lives outside this service). Errors are
// logged and returned; the dispatcher ignores them so a broker outage never
// interrupts the request flow.
type AMQPPublisher struct {
	url       string
	queueName string
	logger    *zap.Logger
}

// NewAMQPPublisher constructs a publisher for the given broker URL.
func NewAMQPPublisher(url, queueName string, logger *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, queueName: queueName, logger: logger}
}

// RegisterSink subscribes the publisher to the full event stream.
func (p *AMQPPublisher) RegisterSink(dispatcher Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range AllEventTypes {
		dispatcher.Subscribe(eventType, p.publish)
	}
}

func (p *AMQPPublisher) publish(ctx context.Context, event Event) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn("amqp dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("amqp channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		p.logger.Warn("amqp queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		p.logger.Warn("amqp publish failed", zap.Error(err))
	}
	return err
}
