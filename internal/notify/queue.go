package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

// Publisher is the part of *amqp.Channel the queue transport needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueTransport hands rendered mail to the mail worker through RabbitMQ.
type QueueTransport struct {
	publisher Publisher
	queue     string
	timeout   time.Duration
}

func NewQueueTransport(publisher Publisher, queue string, timeout time.Duration) *QueueTransport {
	return &QueueTransport{publisher: publisher, queue: queue, timeout: timeout}
}

func (t *QueueTransport) Deliver(ctx context.Context, msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return t.publisher.PublishWithContext(
		ctx,
		"",
		t.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// DeclareQueue declares the durable mail queue shared by the API and the worker.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Consumer drains queued mail into a Transport. Malformed messages are
// dropped; failed deliveries are requeued.
type Consumer struct {
	logger    *slog.Logger
	transport Transport
}

func NewConsumer(logger *slog.Logger, transport Transport) *Consumer {
	return &Consumer{logger: logger, transport: transport}
}

// Run handles deliveries until ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	msg := domain.MailMessage{}
	if err := json.Unmarshal(d.Body, &msg); err != nil || len(msg.To) == 0 {
		c.logger.Error("dropping malformed mail message", slog.String("body", string(d.Body)))
		_ = d.Nack(false, false)
		return
	}

	if err := c.transport.Deliver(ctx, msg); err != nil {
		c.logger.Error("mail delivery failed, requeueing", slog.String("error", err.Error()))
		_ = d.Nack(false, true)
		return
	}

	_ = d.Ack(false)
}
