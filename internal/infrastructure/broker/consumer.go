package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"main/internal/application/messaging"
	"main/internal/config"
)

// SimulationEventHandler processes one completed-simulation event.
// Returning an error requeues the delivery.
type SimulationEventHandler func(ctx context.Context, event *messaging.SimulationCompletedEvent) error

// Consumer subscribes to the simulations queue and forwards events to a
// handler with manual acknowledgement.
type Consumer struct {
	cfg     config.RabbitMQConfig
	handler SimulationEventHandler
	logger  *logrus.Logger

	conn    *amqp.Connection
	channel *amqp.Channel
	wg      sync.WaitGroup
}

func NewConsumer(cfg config.RabbitMQConfig, handler SimulationEventHandler, logger *logrus.Logger) (*Consumer, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if handler == nil {
		return nil, errors.New("event handler is required")
	}
	return &Consumer{cfg: cfg, handler: handler, logger: logger}, nil
}

// Start establishes the AMQP connection and begins consuming the
// simulations queue.
func (c *Consumer) Start(ctx context.Context) error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	c.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		c.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	c.channel = ch

	if err := ch.ExchangeDeclare(messaging.InvestmentsExchange, "topic", true, false, false, false, nil); err != nil {
		c.Close()
		return fmt.Errorf("declare exchange %s: %w", messaging.InvestmentsExchange, err)
	}
	if err := declareAndBind(ch, messaging.SimulationsQueue, messaging.SimulationCompletedRoutingKey); err != nil {
		c.Close()
		return err
	}

	prefetch := c.cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.Close()
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(messaging.SimulationsQueue, "", false, false, false, false, nil)
	if err != nil {
		c.Close()
		return fmt.Errorf("start consume: %w", err)
	}

	c.wg.Add(1)
	go c.consumeLoop(ctx, deliveries)

	c.logger.WithField("queue", messaging.SimulationsQueue).Info("rabbitmq consumer started")
	return nil
}

// Close stops consumption and releases resources.
func (c *Consumer) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.wg.Wait()
}

func (c *Consumer) consumeLoop(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	log := c.logger.WithField("queue", messaging.SimulationsQueue)
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			if err := c.handleDelivery(ctx, &delivery); err != nil {
				log.WithError(err).Warn("failed to process simulation event")
				_ = delivery.Nack(false, true)
				continue
			}
			if err := delivery.Ack(false); err != nil {
				log.WithError(err).Warn("failed to ack delivery")
			}
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, delivery *amqp.Delivery) error {
	var event messaging.SimulationCompletedEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	return c.handler(ctx, &event)
}
