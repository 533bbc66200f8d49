package audit

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"revcycle-engine/pkg/logger"
)

// Event is an audit record emitted after a state-changing operation.
type Event struct {
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	ResourceID string                 `json:"resource_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Publisher records audit events. Publishing is fire-and-forget: a failure to
// record must never fail the operation that produced the event.
type Publisher interface {
	Record(event Event)
}

type amqpPublisher struct {
	channel  *amqp.Channel
	exchange string
	timeout  time.Duration
}

// NewAMQPPublisher connects to RabbitMQ and declares a durable topic exchange
// for audit events. Event actions are used as routing keys.
func NewAMQPPublisher(url, exchange string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &amqpPublisher{
		channel:  channel,
		exchange: exchange,
		timeout:  5 * time.Second,
	}, nil
}

func (p *amqpPublisher) Record(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.GetLogger().WithError(err).Warn("Failed to marshal audit event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, event.Action, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   event.OccurredAt,
		Body:        body,
	})
	if err != nil {
		logger.GetLogger().WithError(err).WithField("action", event.Action).Warn("Failed to publish audit event")
	}
}

// logPublisher writes audit events to the application log. Used when no
// broker is configured and in tests.
type logPublisher struct{}

func NewLogPublisher() Publisher {
	return &logPublisher{}
}

func (p *logPublisher) Record(event Event) {
	logger.GetLogger().WithFields(map[string]interface{}{
		"actor_id":    event.ActorID,
		"action":      event.Action,
		"resource_id": event.ResourceID,
		"details":     event.Details,
	}).Info("Audit event")
}
