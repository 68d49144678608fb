package notifications

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker consumes issue-report messages and emails the admin address.
type Worker struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	queue      string
	mailer     *Mailer
	adminEmail string
}

// NewWorker connects to RabbitMQ and prepares the consumer.
func NewWorker(url, queue string, mailer *Mailer, adminEmail string) (*Worker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Worker{
		conn:       conn,
		channel:    ch,
		queue:      queue,
		mailer:     mailer,
		adminEmail: adminEmail,
	}, nil
}

// Run consumes messages until the channel closes. A mail failure
// requeues the message once; a malformed message is dropped.
func (w *Worker) Run() error {
	deliveries, err := w.channel.Consume(
		w.queue,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Printf("Notification worker consuming from %s", w.queue)

	for delivery := range deliveries {
		var msg IssueReported
		if err := json.Unmarshal(delivery.Body, &msg); err != nil {
			log.Printf("Dropping malformed message: %v", err)
			delivery.Nack(false, false)
			continue
		}

		if err := w.mailer.SendIssueReported(w.adminEmail, msg); err != nil {
			log.Printf("Failed to send issue email: %v", err)
			delivery.Nack(false, !delivery.Redelivered)
			continue
		}

		log.Printf("Sent issue email for conference %d", msg.ConferenceID)
		delivery.Ack(false)
	}

	return nil
}

// Close releases the channel and connection.
func (w *Worker) Close() {
	if w.channel != nil {
		w.channel.Close()
	}
	if w.conn != nil {
		w.conn.Close()
	}
}
