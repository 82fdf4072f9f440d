package changefeed

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/yigit/tutorhub/internal/pkg/websocket"
)

// KafkaConfig selects the brokers and topic change events are republished to
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	Username string
	Password string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink republishes every hub event to a Kafka topic keyed by table
type KafkaSink struct {
	writer messageWriter
	topic  string
	events chan *websocket.ChangeEvent
	logger zerolog.Logger
}

// NewKafkaSink creates a sink. SASL/TLS is used when a username is configured.
func NewKafkaSink(cfg KafkaConfig, logger zerolog.Logger) *KafkaSink {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}
	if cfg.Username != "" {
		w.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: cfg.Username, Password: cfg.Password},
			TLS:  &tls.Config{},
		}
	}
	return newKafkaSink(w, cfg.Topic, logger)
}

func newKafkaSink(w messageWriter, topic string, logger zerolog.Logger) *KafkaSink {
	return &KafkaSink{
		writer: w,
		topic:  topic,
		events: make(chan *websocket.ChangeEvent, 1024),
		logger: logger,
	}
}

// Listener is the channel to register with the hub
func (s *KafkaSink) Listener() chan *websocket.ChangeEvent {
	return s.events
}

// Run forwards events until ctx is cancelled. Write failures are logged and dropped.
func (s *KafkaSink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-s.events:
			msg, err := encodeMessage(event)
			if err != nil {
				s.logger.Error().Err(err).Str("table", event.Table).Msg("Failed to encode change event")
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = s.writer.WriteMessages(writeCtx, msg)
			cancel()
			if err != nil {
				s.logger.Warn().Err(err).Str("topic", s.topic).Str("table", event.Table).Msg("Failed to publish change event")
			}
		}
	}
}

// Close flushes and closes the writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func encodeMessage(event *websocket.ChangeEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal change event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.Table),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "change-type", Value: []byte(event.Type)},
		},
	}, nil
}
