// Package events 卡券变更事件的广播，供 SSE 推送使用
package events

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pkgredis "github.com/lodymel/heartpass/pkg/redis"
)

// Channel Redis 发布订阅频道
const Channel = "heartpass:pass-events"

// 事件类型
const (
	TypeCreated  = "pass.created"
	TypeUpdated  = "pass.updated"
	TypeSent     = "pass.sent"
	TypeAccepted = "pass.accepted"
	TypeDeclined = "pass.declined"
	TypeUsed     = "pass.used"
	TypeDeleted  = "pass.deleted"
)

// Event 一次卡券变更
type Event struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	PassID          string    `json:"pass_id"`
	OwnerUserID     string    `json:"owner_user_id"`
	RecipientUserID string    `json:"recipient_user_id,omitempty"`
	RecipientEmail  string    `json:"recipient_email,omitempty"`
	Status          string    `json:"status"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// NewEvent 填充事件 ID 与时间
func NewEvent(eventType, passID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		PassID:     passID,
		OccurredAt: time.Now().UTC(),
	}
}

// VisibleTo owner 或收件人（账号或邮箱匹配）可见
func (e Event) VisibleTo(userID, email string) bool {
	if userID != "" && (e.OwnerUserID == userID || e.RecipientUserID == userID) {
		return true
	}
	return email != "" && e.RecipientEmail != "" && strings.EqualFold(e.RecipientEmail, email)
}

// Broker 事件广播接口
type Broker interface {
	Publish(ctx context.Context, e Event) error
	// Subscribe 返回事件流与取消函数；ctx 结束时自动取消
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
	Close() error
}

const subscriberBuffer = 32

// ────────────────────── 内存实现 ──────────────────────

// MemoryBroker 单进程广播，Redis 不可用时降级使用
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	closed bool
	logger *zap.Logger
}

// NewMemoryBroker 创建内存 Broker
func NewMemoryBroker(logger *zap.Logger) *MemoryBroker {
	return &MemoryBroker{
		subs:   make(map[chan Event]struct{}),
		logger: logger,
	}
}

func (b *MemoryBroker) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// 订阅者消费过慢时丢弃，客户端重连后会重新拉取列表
			b.logger.Warn("事件订阅者缓冲区已满，丢弃事件", zap.String("event_id", e.ID))
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}, nil
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[ch]; ok {
				delete(b.subs, ch)
				close(ch)
			}
			b.mu.Unlock()
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel, nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}

// ────────────────────── Redis 实现 ──────────────────────

// RedisBroker 基于 Redis Pub/Sub，多实例部署时使用
type RedisBroker struct {
	client *pkgredis.Client
	logger *zap.Logger
}

// NewRedisBroker 创建 Redis Broker
func NewRedisBroker(client *pkgredis.Client, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, Channel, payload)
}

func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	ps := b.client.Subscribe(ctx, Channel)
	// 等待订阅确认，连接失败时立即返回错误
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan Event, subscriberBuffer)
	subCtx, cancelSub := context.WithCancel(ctx)

	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					b.logger.Warn("解析卡券事件失败", zap.Error(err))
					continue
				}
				select {
				case out <- e:
				default:
					b.logger.Warn("事件订阅者缓冲区已满，丢弃事件", zap.String("event_id", e.ID))
				}
			}
		}
	}()

	return out, cancelSub, nil
}

// Close Redis 连接由调用方统一关闭
func (b *RedisBroker) Close() error {
	return nil
}
