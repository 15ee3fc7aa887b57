package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"placepulse/pkg/metrics"
	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer обертка над Kafka writer для отправки событий отзывов
// Отправляет события в топик review_events
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer создает новый Kafka producer
// brokers - список брокеров Kafka в формате ["host:port"]
// topic - имя топика для событий отзывов (review_events)
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		// Небольшой батч: событие должно дойти до воркера быстро,
		// иначе статистика и значки отстают
		BatchSize:    10,
		BatchTimeout: 100 * time.Millisecond,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishReviewEvent отправляет событие об отзыве в Kafka
// Ключ = BusinessID: события одного бизнеса попадают в одну партицию
// и обрабатываются воркером по порядку
func (p *KafkaProducer) PublishReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.BusinessID),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.RecordKafkaError("reviews-service", p.topic, "produce")
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	metrics.RecordKafkaMessageProduced("reviews-service", p.topic)
	return nil
}

// Close закрывает Kafka writer и освобождает ресурсы
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
