// Package notify publishes outbound notification jobs to RabbitMQ. A separate
// gateway worker consumes the queue and talks to the SMS provider.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/haulwise/backoffice/internal/core/ports"
)

// SMSQueue is the durable queue the SMS gateway consumes.
const SMSQueue = "sms_jobs"

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements ports.SMSPublisher. amqp channels are not safe for
// concurrent publishing, so publishes are serialised.
type Publisher struct {
	conn  *amqp.Connection
	mu    sync.Mutex
	ch    channel
	queue string
}

// Dial connects to the broker, opens a channel and declares the SMS queue.
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	p, err := newPublisher(ch, SMSQueue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, queue string) (*Publisher, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", queue, err)
	}
	return &Publisher{ch: ch, queue: queue}, nil
}

// PublishSMS enqueues the job as a persistent JSON message.
func (p *Publisher) PublishSMS(ctx context.Context, job ports.SMSJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode sms job: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         job.Template,
		Body:         body,
	})
}

// Close closes the channel and then the connection.
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
