// Package outbox 实现事务性 Outbox 模式：事件与业务数据在同一事务内落库，
// 由后台 Poller 异步转发到 Kafka
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/mq"
	"github.com/wyfcoding/ecommerce/pkg/utils"
	"gorm.io/gorm"
)

// 单条消息在一个轮询周期内的发送重试
const (
	sendAttempts   = 3
	sendRetryDelay = 100 * time.Millisecond
)

// Message outbox 表记录
type Message struct {
	ID          uint   `gorm:"primaryKey"`
	Topic       string `gorm:"column:topic;type:varchar(100);not null"`
	Key         string `gorm:"column:message_key;type:varchar(100);not null"`
	Payload     []byte `gorm:"column:payload;type:blob;not null"`
	Published   bool   `gorm:"column:published;index;not null;default:false"`
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// TableName 指定表名
func (Message) TableName() string { return "outbox_messages" }

// Manager 负责在业务事务内写入 outbox 记录
type Manager struct {
	db *gorm.DB
}

// NewManager 创建 Manager 实例
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// DB 返回底层数据库实例
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// PublishInTx 在事务中写入事件，与业务写入共享原子性
func (m *Manager) PublishInTx(ctx context.Context, tx *gorm.DB, topic string, key string, event any) error {
	if tx == nil {
		tx = m.db
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox event: %w", err)
	}

	msg := &Message{
		Topic:   topic,
		Key:     key,
		Payload: payload,
	}
	return tx.WithContext(ctx).Create(msg).Error
}

// Poller 轮询 outbox 表并将未发布的事件转发到 Kafka
type Poller struct {
	db        *gorm.DB
	producer  *mq.KafkaProducer
	interval  time.Duration
	batchSize int
}

// NewPoller 创建 Poller 实例
func NewPoller(db *gorm.DB, producer *mq.KafkaProducer, interval time.Duration, batchSize int) *Poller {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Poller{db: db, producer: producer, interval: interval, batchSize: batchSize}
}

// Run 启动轮询循环，直到 ctx 取消
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.drain(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// drain 发送一批待发布消息
func (p *Poller) drain(ctx context.Context) {
	var messages []Message
	err := p.db.WithContext(ctx).
		Where("published = ?", false).
		Order("id ASC").
		Limit(p.batchSize).
		Find(&messages).Error
	if err != nil {
		logger.Error(ctx, "Failed to fetch outbox messages", "error", err)
		return
	}

	for i := range messages {
		msg := &messages[i]
		err := utils.Retry(sendAttempts, sendRetryDelay, func() error {
			return p.producer.SendRaw(ctx, msg.Topic, msg.Key, msg.Payload)
		})
		if err != nil {
			// 重试用尽的消息留在表中，下个周期继续
			logger.Error(ctx, "Failed to relay outbox message", "id", msg.ID, "topic", msg.Topic, "error", err)
			continue
		}

		now := time.Now()
		err = p.db.WithContext(ctx).Model(&Message{}).
			Where("id = ?", msg.ID).
			Updates(map[string]interface{}{"published": true, "published_at": &now}).Error
		if err != nil {
			logger.Error(ctx, "Failed to mark outbox message published", "id", msg.ID, "error", err)
		}
	}
}
