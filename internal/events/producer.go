package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"NovaChat/entity"
	"NovaChat/internal/config"
	"NovaChat/internal/lib/sl"
)

// Event is the analytics envelope published for every session and message
// event. Consumed by the reporting pipeline, never read back here.
type Event struct {
	Type      string    `json:"type"` // "message", "session_started", "session_ended", "handoff_requested"
	TenantID  string    `json:"tenant_id"`
	SessionID string    `json:"session_id"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Producer publishes analytics events to Kafka. All publish calls are
// best-effort; a broker outage must never fail the chat operation.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *slog.Logger
}

// NewProducer connects a sync producer, or returns nil when Kafka is
// disabled in the config.
func NewProducer(conf *config.Config, logger *slog.Logger) (*Producer, error) {
	if !conf.Kafka.Enabled {
		return nil, nil
	}

	saramaConf := sarama.NewConfig()
	saramaConf.Producer.Return.Successes = true
	saramaConf.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(conf.Kafka.Brokers, saramaConf)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    conf.Kafka.Topic,
		log:      logger.With(sl.Module("events")),
	}, nil
}

// PublishMessage emits an analytics event for a stored chat message.
func (p *Producer) PublishMessage(tenantID string, msg entity.ChatMessage) {
	p.publish(Event{
		Type:      "message",
		TenantID:  tenantID,
		SessionID: msg.SessionID,
		Data: map[string]any{
			"sender": msg.Sender,
			"length": len(msg.Content),
		},
		Timestamp: time.Now(),
	}, msg.SessionID)
}

// PublishSessionEvent emits a session lifecycle event.
func (p *Producer) PublishSessionEvent(eventType string, sess entity.ChatSession) {
	p.publish(Event{
		Type:      eventType,
		TenantID:  sess.TenantID,
		SessionID: sess.ID,
		Timestamp: time.Now(),
	}, sess.ID)
}

func (p *Producer) publish(event Event, key string) {
	if p == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error("marshal event", sl.Err(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.log.Error("publish event", slog.String("type", event.Type), sl.Err(err))
	}
}

// Close shuts the underlying producer down.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
