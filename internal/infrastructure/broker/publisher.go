package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"main/internal/application/messaging"
	"main/internal/config"
)

// Publisher delivers domain events to a durable topic exchange.
// Queue bindings are declared up front so events survive until their
// consumers attach.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logrus.Logger
	mu      sync.Mutex
}

func NewPublisher(cfg config.RabbitMQConfig, logger *logrus.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(messaging.InvestmentsExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", messaging.InvestmentsExchange, err)
	}

	bindings := map[string]string{
		messaging.SimulationsQueue:   messaging.SimulationCompletedRoutingKey,
		messaging.NotificationsQueue: messaging.NotificationEmailRoutingKey,
	}
	for queue, routingKey := range bindings {
		if err := declareAndBind(ch, queue, routingKey); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	logger.WithField("exchange", messaging.InvestmentsExchange).Info("rabbitmq publisher ready")
	return &Publisher{conn: conn, channel: ch, logger: logger}, nil
}

func declareAndBind(ch *amqp.Channel, queue, routingKey string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, routingKey, messaging.InvestmentsExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s to %s: %w", queue, messaging.InvestmentsExchange, err)
	}
	return nil
}

// Publish marshals the event as JSON and sends it as a persistent message.
func (p *Publisher) Publish(ctx context.Context, event any, exchange, routingKey string) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.channel.Close(); err != nil {
		p.logger.Errorf("close rabbitmq channel: %v", err)
	}
	if err := p.conn.Close(); err != nil {
		p.logger.Errorf("close rabbitmq connection: %v", err)
	}
}
