package publisher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-ledger-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

type KafkaConfig struct {
	Brokers    []string
	Username   string
	Password   string
	Mechanism  string
	TLSEnabled bool
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	transport := &kafka.Transport{}

	if cfg.TLSEnabled {
		transport.TLS = &tls.Config{}
	}

	switch cfg.Mechanism {
	case "SCRAM-SHA-256":
		mechanism, err := scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
		if err != nil {
			return nil, err
		}
		transport.SASL = mechanism
	case "SCRAM-SHA-512":
		mechanism, err := scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
		if err != nil {
			return nil, err
		}
		transport.SASL = mechanism
	case "PLAIN":
		transport.SASL = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:      kafka.TCP(cfg.Brokers...),
			Balancer:  &kafka.LeastBytes{},
			Transport: transport,
		},
	}, nil
}

func (k *KafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	return k.writer.WriteMessages(context.Background(), km...)
}

func (k *KafkaPublisher) PublishLedgerEvent(event LedgerEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.Publish(LedgerTopic, domain.Message{Key: []byte(event.MemberID), Value: v})
}

func (k *KafkaPublisher) PublishWithdrawalEvent(event WithdrawalEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.Publish(WithdrawalTopic, domain.Message{Key: []byte(event.MemberID), Value: v})
}
