package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"placepulse/background-worker-service/internal/app/background-worker/entity"
	"placepulse/background-worker-service/internal/app/background-worker/service"
	"placepulse/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaConsumer обрабатывает события из Kafka топика review_events
type KafkaConsumer struct {
	reader   *kafka.Reader
	eventSvc service.EventProcessingServiceInterface
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	eventSvc service.EventProcessingServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		StartOffset: kafka.LastOffset,
		// Настройки для автоматического коммита offset
		CommitInterval: time.Second,
		// Таймауты
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		eventSvc: eventSvc,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	log.Println("Starting Kafka consumer...")
	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	log.Println("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	log.Println("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}

				log.Printf("Error fetching message: %v", err)
				time.Sleep(time.Second)
				continue
			}

			metrics.RecordKafkaMessageConsumed("background-worker", c.reader.Config().Topic, c.groupID)

			if err := c.processMessage(ctx, message); err != nil {
				log.Printf("Error processing message: %v", err)
				metrics.RecordKafkaError("background-worker", c.reader.Config().Topic, "consume")
				// Не коммитим offset при ошибке - сообщение будет повторно обработано
			} else {
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					log.Printf("Error committing message: %v", err)
				}
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.ReviewEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal review event: %w", err)
	}

	log.Printf("Received %s event for review %s (offset: %d, partition: %d)",
		event.EventType, event.ReviewID, message.Offset, message.Partition)

	if err := c.eventSvc.ProcessReviewEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to process review event: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
