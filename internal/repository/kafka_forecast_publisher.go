package repository

import (
	"context"

	"StockHub/internal/domain/models"
	domrepo "StockHub/internal/domain/repository"
	pkgkafka "StockHub/pkg/kafka"
)

// EventForecastV1 is the event header value on every forecast message.
const EventForecastV1 = "forecast.v1"

type batchPublisher interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaForecastPublisher sends reports keyed by symbol so one ticker stays on one partition.
type KafkaForecastPublisher struct {
	producer batchPublisher
	topic    string
}

func NewKafkaForecastPublisher(producer *pkgkafka.Producer, topic string) *KafkaForecastPublisher {
	return &KafkaForecastPublisher{producer: producer, topic: topic}
}

func (p *KafkaForecastPublisher) PublishForecast(ctx context.Context, r *models.ForecastReport) error {
	return p.producer.PublishBatch(ctx, p.topic, []pkgkafka.Message{{
		Key:     []byte(r.Symbol),
		Value:   r,
		Headers: map[string]string{"event": EventForecastV1, "content-type": "application/json"},
	}})
}

func (p *KafkaForecastPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher drops every report; used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishForecast(context.Context, *models.ForecastReport) error { return nil }
func (NoopPublisher) Close() error                                                  { return nil }

var (
	_ domrepo.ForecastPublisher = (*KafkaForecastPublisher)(nil)
	_ domrepo.ForecastPublisher = NoopPublisher{}
)
