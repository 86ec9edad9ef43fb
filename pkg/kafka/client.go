// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/leboweric/eos-platform-sub008/internal/config"
	"github.com/leboweric/eos-platform-sub008/pkg/events"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
	"github.com/segmentio/kafka-go"
)

// EventHandler defines the interface for any component that can react to an access event.
// This decouples the Kafka consumer from the concrete cache implementation.
type EventHandler interface {
	Handle(ctx context.Context, event events.AccessEvent) error
}

var producer *kafka.Writer

// InitProducer 初始化 Kafka 生产者。
func InitProducer(cfg config.KafkaConfig) {
	producer = &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
}

// ProduceAccessEvent 发送一条访问范围变化事件到 Kafka。
// 事件按 userId 作为 key 分区，同一用户的事件保持有序。
func ProduceAccessEvent(ctx context.Context, event events.AccessEvent) error {
	// 生产者未初始化时静默丢弃，缓存 TTL 会兜底
	if producer == nil {
		return nil
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: payload,
	})
}

// StartConsumer 启动一个 Kafka 消费者来处理访问范围变化事件。
// 缓存失效是幂等操作，且缓存本身带 TTL 兜底，
// 因此处理失败只记录日志并提交 offset，不做重试。
func StartConsumer(ctx context.Context, cfg config.KafkaConfig, handler EventHandler) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error("从 Kafka 读取消息失败", err)
			break
		}

		var event events.AccessEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			if err := r.CommitMessages(ctx, m); err != nil {
				log.Errorf("提交错误消息失败: %v", err)
			}
			continue
		}

		if err := handler.Handle(ctx, event); err != nil {
			log.Errorf("处理访问事件失败: type=%s user=%s org=%s err=%v",
				event.Type, event.UserID, event.OrganizationID, err)
		}
		if err := r.CommitMessages(ctx, m); err != nil {
			log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
		}
	}

	if err := r.Close(); err != nil {
		log.Errorf("关闭 Kafka 消费者失败: %v", err)
	}
}
