// Package events публикует события о завершённых интервью в Kafka
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"interview-coach/internal/metrics"
)

// EventInterviewCompleted - тип события в заголовке сообщения
const EventInterviewCompleted = "interview.completed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher отправляет события в один топик. Без брокеров работает в режиме только логирования.
type Publisher struct {
	writer  messageWriter
	topic   string
	enabled bool
	metrics *metrics.Metrics
}

type Config struct {
	Brokers []string
	Topic   string
	Enabled bool
}

func New(cfg *Config, m *metrics.Metrics) *Publisher {
	if m == nil {
		m = metrics.Nop()
	}

	if cfg == nil {
		log.Info().Msg("Kafka отключена (нет конфигурации), события только логируются")
		return &Publisher{topic: EventInterviewCompleted, metrics: m}
	}

	topic := cfg.Topic
	if topic == "" {
		topic = EventInterviewCompleted
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka отключена, события только логируются")
		return &Publisher{topic: topic, metrics: m}
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{Dial: dialer.DialFunc},
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", topic).
		Msg("Kafka publisher инициализирован")

	return &Publisher{
		writer:  writer,
		topic:   topic,
		enabled: true,
		metrics: m,
	}
}

// Enabled - события уходят в брокер, а не только в лог
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// Publish сериализует событие в JSON и пишет его с ключом key (ID интервью)
func (p *Publisher) Publish(ctx context.Context, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", p.topic).Msg("Не удалось сериализовать событие")
		return err
	}

	log.Debug().
		Str("topic", p.topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Публикация события")

	if !p.enabled || p.writer == nil {
		p.metrics.RecordEventPublish(p.topic, nil)
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(EventInterviewCompleted)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", p.topic).
			Str("key", key).
			Msg("Ошибка записи в Kafka")
		p.metrics.RecordEventPublish(p.topic, err)
		return err
	}

	p.metrics.RecordEventPublish(p.topic, nil)
	return nil
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		log.Error().Err(err).Msg("Ошибка закрытия Kafka writer")
		return err
	}
	return nil
}
