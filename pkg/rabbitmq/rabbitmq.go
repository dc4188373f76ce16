// Package rabbitmq carries checkout events: an event for every created
// order, and a reconciliation event whenever a checkout ends in the
// payment-captured-but-items-missing state.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"

	amqp "github.com/streadway/amqp"
)

const queueName = "checkout_events"

// Event is the message shape published to the checkout queue.
type Event struct {
	Type    string `json:"type"` // "order.created" or "order.reconcile"
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Total   string `json:"total,omitempty"`
	Status  string `json:"status,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the
// checkout queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable (persists messages across broker restarts)
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queueName, err)
	}

	log.Printf("RabbitMQ client connected and %s declared", queueName)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishOrderCreated publishes an order-created event.
func (c *Client) PublishOrderCreated(order *models.Order) error {
	return c.publish(Event{
		Type:    "order.created",
		OrderID: order.ID,
		UserID:  order.UserID,
		Slug:    order.Slug,
		Total:   order.TotalPrice.StringFixed(2),
		Status:  string(order.Status),
	})
}

// PublishReconciliation publishes a reconciliation event for an order
// whose checkout did not fully record. An operator picks these up for
// manual follow-up.
func (c *Client) PublishReconciliation(orderID, reason string) error {
	return c.publish(Event{
		Type:    "order.reconcile",
		OrderID: orderID,
		Reason:  reason,
	})
}

func (c *Client) publish(event Event) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	err = c.channel.Publish(
		"",        // exchange: default exchange
		queueName, // routing key: the queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Make message persistent
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent checkout event: %s", body)
	return nil
}

// ConsumeCheckoutEvents starts a goroutine that delivers queued checkout
// events to the handler, acking on success and nacking for requeue on
// failure.
func (c *Client) ConsumeCheckoutEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack: manual acknowledgement
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				if requeueErr := msg.Nack(false, true); requeueErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
				}
			} else {
				if ackErr := msg.Ack(false); ackErr != nil {
					log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
				}
			}
		}
	}()

	return nil
}
