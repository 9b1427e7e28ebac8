package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/qwertyllionman/Alijahon/internal/mq"
	"github.com/qwertyllionman/Alijahon/pkg/logger"
)

// 事件路由键
const (
	orderCreatedKey       = "order.created"
	orderStatusChangedKey = "order.status_changed"
)

// orderStatusEvent 订单生命周期事件载荷，消费者写入审计表
type orderStatusEvent struct {
	EventID    string `json:"event_id"`
	OccurredAt int64  `json:"occurred_at"`
	OrderID    int64  `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    int64  `json:"actor_id"`
}

// EventPublisher 订单事件发布器。发布失败只记日志，不影响主流程
type EventPublisher struct {
	pool *mq.Pool
}

func NewEventPublisher(pool *mq.Pool) *EventPublisher {
	return &EventPublisher{pool: pool}
}

// deterministicEventID 确定性幂等事件ID（不含时间），重复发布产生相同ID
func deterministicEventID(orderID int64, fromStatus, toStatus string, actorID int64) string {
	return fmt.Sprintf("%d-%s-%s-%d", orderID, fromStatus, toStatus, actorID)
}

// PublishOrderCreated 发布订单创建事件
func (p *EventPublisher) PublishOrderCreated(orderID, actorID int64) {
	if p == nil || p.pool == nil {
		return
	}
	evt := orderStatusEvent{
		EventID:    deterministicEventID(orderID, "", "new", actorID),
		OccurredAt: time.Now().Unix(),
		OrderID:    orderID,
		ToStatus:   "new",
		ActorID:    actorID,
	}
	p.publish(orderCreatedKey, evt)
}

// PublishOrderStatusChanged 发布状态流转事件
func (p *EventPublisher) PublishOrderStatusChanged(orderID int64, fromStatus, toStatus string, actorID int64) {
	if p == nil || p.pool == nil {
		return
	}
	evt := orderStatusEvent{
		EventID:    deterministicEventID(orderID, fromStatus, toStatus, actorID),
		OccurredAt: time.Now().Unix(),
		OrderID:    orderID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		ActorID:    actorID,
	}
	p.publish(orderStatusChangedKey, evt)
}

func (p *EventPublisher) publish(key string, evt orderStatusEvent) {
	b, err := json.Marshal(evt)
	if err != nil {
		logger.Warn("订单事件序列化失败", "order_id", evt.OrderID, "err", err)
		return
	}
	// 使用事件ID作为 AMQP MessageId，实现跨队列幂等追踪
	if err := p.pool.PublishAsyncWithID(mq.Exchange, key, b, evt.EventID); err != nil {
		logger.Warn("订单事件发布失败", "order_id", evt.OrderID, "key", key, "err", err)
		return
	}
	logger.Info("订单事件已发布", "order_id", evt.OrderID, "key", key, "event_id", evt.EventID)
}
