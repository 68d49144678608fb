package notifications

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// IssueReported is the message published when a conference issue is
// reported.
type IssueReported struct {
	IssueID         uint64 `json:"issue_id"`
	ConferenceID    uint64 `json:"conference_id"`
	ConferenceTitle string `json:"conference_title"`
	Reason          string `json:"reason"`
	Description     string `json:"description"`
}

// Publisher dispatches issue-report notifications. Dispatch is
// fire-and-forget from the reporter's point of view.
type Publisher interface {
	PublishIssueReported(msg IssueReported) error
}

// RabbitPublisher publishes notifications to a RabbitMQ queue.
type RabbitPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewRabbitPublisher connects to RabbitMQ and declares the durable
// notification queue.
func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RabbitPublisher{
		conn:    conn,
		channel: ch,
		queue:   queue,
	}, nil
}

// PublishIssueReported publishes an issue-report message.
func (p *RabbitPublisher) PublishIssueReported(msg IssueReported) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.channel.Publish(
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *RabbitPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
