package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Scurrlin/stocks-app/internal/models"
)

// Producer handles publishing watchlist events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishWatchlistAdded publishes an event for a newly added entry
func (p *Producer) PublishWatchlistAdded(ctx context.Context, entry *models.WatchlistEntry) error {
	event := models.WatchlistEvent{
		EventType: "WATCHLIST_ADDED",
		UserID:    entry.UserID,
		Symbol:    entry.Symbol,
		Company:   entry.Company,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, entry.Symbol, event)
}

// PublishWatchlistRemoved publishes an event for a removed entry
func (p *Producer) PublishWatchlistRemoved(ctx context.Context, userID, symbol string) error {
	event := models.WatchlistEvent{
		EventType: "WATCHLIST_REMOVED",
		UserID:    userID,
		Symbol:    symbol,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, symbol, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.WatchlistEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
