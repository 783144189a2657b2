package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"blog-api/cmd/internal/logger"
)

const (
	headerEventType = "event_type"
	flushTimeoutMs  = 5000
)

// KafkaEventBus publishes events with a confluent-kafka-go producer.
type KafkaEventBus struct {
	Producer *kafka.Producer
}

// NewKafkaEventBus creates an idempotent producer for the given bootstrap servers.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  brokers,
		"client.id":          logger.DefaultServiceName,
		"acks":               "all",
		"enable.idempotence": true,
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	// Produce 마다 전용 deliveryChan 을 쓰므로 여기로는 클라이언트 수준 오류만 들어온다.
	go func() {
		for e := range p.Events() {
			if kerr, ok := e.(kafka.Error); ok {
				logger.ErrorWithFields("kafka client error", logger.Fields{
					"code":  kerr.Code().String(),
					"error": kerr.Error(),
				})
			}
		}
	}()

	return &KafkaEventBus{Producer: p}, nil
}

// Close flushes pending messages and closes the producer.
func (k *KafkaEventBus) Close() {
	if k.Producer == nil {
		return
	}
	if remaining := k.Producer.Flush(flushTimeoutMs); remaining > 0 {
		logger.WarnWithFields("kafka producer closed with undelivered messages", logger.Fields{"remaining": remaining})
	}
	k.Producer.Close()
}

// Publish writes event to topic keyed by event id and waits for the delivery report.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	// buffered so a late delivery report never blocks librdkafka after ctx is done
	report := make(chan kafka.Event, 1)
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ID),
		Value:          value,
		Headers:        []kafka.Header{{Key: headerEventType, Value: []byte(event.Type)}},
	}
	if err := k.Producer.Produce(msg, report); err != nil {
		return fmt.Errorf("produce event %s: %w", event.ID, err)
	}

	select {
	case ev := <-report:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery report %T for event %s", ev, event.ID)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("deliver event %s: %w", event.ID, m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
