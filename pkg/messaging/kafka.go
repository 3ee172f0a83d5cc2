package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Topics the storefront gateway publishes to.
const (
	TopicOrderEvents = "order_events"
	TopicCartEvents  = "cart_events"
)

type KafkaProducer struct {
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafkaProducer() *KafkaProducer {
	return &KafkaProducer{
		writers: make(map[string]*kafka.Writer),
	}
}

// getWriter returns the cached writer for a topic, creating it on first
// use. Safe for concurrent request handlers publishing at once.
func (kp *KafkaProducer) getWriter(topic string, brokers []string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	kp.writers[topic] = writer
	return writer
}

func (kp *KafkaProducer) SendMessage(topic string, brokers []string, key string, value interface{}) error {
	writer := kp.getWriter(topic, brokers)

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	})
}

func (kp *KafkaProducer) Close() {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	for _, writer := range kp.writers {
		writer.Close()
	}
}

// OrderPlacedEvent is published after a successful checkout.
type OrderPlacedEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Total     string    `json:"total"`
	ItemCount int       `json:"item_count"`
	Timestamp time.Time `json:"timestamp"`
}

// CartEvent tracks cart lifecycle changes for analytics.
type CartEvent struct {
	Type      string    `json:"type"` // cart_cleared, coupon_applied, coupon_removed
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}
