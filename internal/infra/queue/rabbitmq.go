package mq

import (
	"context"
	"time"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tableCarrier adapts amqp.Table to TextMapCarrier for OpenTelemetry propagation
type tableCarrier struct {
	table amqp.Table
}

func (c tableCarrier) Get(key string) string {
	if val, ok := c.table[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func (c tableCarrier) Set(key, value string) {
	c.table[key] = value
}

func (c tableCarrier) Keys() []string {
	keys := make([]string, 0, len(c.table))
	for k := range c.table {
		keys = append(keys, k)
	}
	return keys
}

// DialFunc opens a broker connection; the container injects it so TLS setup
// lives in one place.
type DialFunc func() (*amqp.Connection, error)

// Publisher emits portfolio domain events (project.created, images.added, ...)
// on a durable topic exchange. Consumers are out of process.
type Publisher struct {
	ch  *amqp.Channel
	log *zap.Logger
	cfg *config.Config
}

func NewPublisher(conn *amqp.Connection, log *zap.Logger, cfg *config.Config) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(cfg.RabbitMQ.Exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, log: log, cfg: cfg}, nil
}

func (p *Publisher) Close() error { return p.ch.Close() }

func (p *Publisher) PublishJSON(ctx context.Context, routingKey string, body any) error {
	b, err := sonic.Marshal(body)
	if err != nil {
		return err
	}

	tracer := otel.Tracer(p.cfg.App.Name)
	ctx, span := tracer.Start(ctx, "rabbitmq.publish",
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", p.cfg.RabbitMQ.Exchange),
			attribute.String("messaging.rabbitmq.routing_key", routingKey),
		))
	defer span.End()

	// Inject trace context into message headers
	headers := make(amqp.Table)
	propagator := otel.GetTextMapPropagator()
	propagator.Inject(ctx, tableCarrier{table: headers})

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
		Headers:      headers,
	}

	err = p.ch.PublishWithContext(ctx, p.cfg.RabbitMQ.Exchange, routingKey, false, false, publishing)
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.Int("messaging.message.body.size", len(b)))
	return nil
}
