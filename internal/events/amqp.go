package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

// Message is one delivery from the request queue.
type Message struct {
	Body []byte
	Ack  func() error
	// Nack rejects the delivery; requeue puts it back on the queue.
	Nack func(requeue bool) error
}

// BrokerOptions names the queue and exchange used by a Broker.
type BrokerOptions struct {
	RequestQueue   string
	UpdateExchange string
	// Prefetch bounds unacknowledged deliveries per consumer.
	Prefetch int
}

// Broker publishes requests and updates and consumes requests over a single
// AMQP connection.
type Broker struct {
	conn *amqp.Connection
	opts BrokerOptions

	mu    sync.Mutex
	pubCh *amqp.Channel
}

// Dial connects to the broker and declares the request queue and the topic
// exchange for updates.
func Dial(url string, opts BrokerOptions) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		opts.RequestQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", opts.RequestQueue, err)
	}

	if err := ch.ExchangeDeclare(
		opts.UpdateExchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", opts.UpdateExchange, err)
	}

	return &Broker{conn: conn, opts: opts, pubCh: ch}, nil
}

// Close closes the connection and every channel on it.
func (b *Broker) Close() error {
	return b.conn.Close()
}

func (b *Broker) publish(exchange, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pubCh.Publish(exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Enqueue publishes a request to the request queue.
func (b *Broker) Enqueue(_ context.Context, req AnalysisRequest) error {
	if err := b.publish("", b.opts.RequestQueue, req); err != nil {
		return fmt.Errorf("failed to enqueue analysis %s: %w", req.ID, err)
	}
	return nil
}

// PublishUpdate publishes an update with routing key analysis.<id>.
func (b *Broker) PublishUpdate(_ context.Context, update AnalysisUpdate) error {
	if err := b.publish(b.opts.UpdateExchange, RoutingKey(update.ID), update); err != nil {
		return fmt.Errorf("failed to publish update for %s: %w", update.ID, err)
	}
	return nil
}

// Consume starts a consumer with manual acknowledgement on its own channel.
// The returned channel closes when ctx is done or the broker connection drops.
func (b *Broker) Consume(ctx context.Context) (<-chan Message, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open consumer channel: %w", err)
	}
	if b.opts.Prefetch > 0 {
		if err := ch.Qos(b.opts.Prefetch, 0, false); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("failed to set prefetch: %w", err)
		}
	}

	deliveries, err := ch.Consume(
		b.opts.RequestQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to consume %s: %w", b.opts.RequestQueue, err)
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer func() { _ = ch.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				msg := Message{
					Body: d.Body,
					Ack:  func() error { return d.Ack(false) },
					Nack: func(requeue bool) error { return d.Nack(false, requeue) },
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					_ = d.Nack(false, true)
					return
				}
			}
		}
	}()
	return out, nil
}
