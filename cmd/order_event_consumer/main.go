package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/qwertyllionman/Alijahon/internal/dao"
	"github.com/qwertyllionman/Alijahon/internal/dao/mysql"
	redisinit "github.com/qwertyllionman/Alijahon/internal/dao/redis"
	"github.com/qwertyllionman/Alijahon/internal/model"
	"github.com/qwertyllionman/Alijahon/internal/mq"
	"github.com/qwertyllionman/Alijahon/pkg/app"
	"github.com/qwertyllionman/Alijahon/pkg/logger"
)

// orderEvent 与发布端的事件载荷保持一致
type orderEvent struct {
	EventID    string `json:"event_id"`
	OccurredAt int64  `json:"occurred_at"`
	OrderID    int64  `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    int64  `json:"actor_id"`
}

const (
	// order.* 同时覆盖 order.created 和 order.status_changed
	orderEventQueue   = "order.events"
	orderEventBindKey = "order.*"
)

func main() {
	cfg := app.BootstrapApp()

	db, err := mysql.InitDB(&cfg.Database.Mysql)
	if err != nil {
		logger.Fatal("连接Mysql数据库失败", "err", err)
	}
	if err := mysql.AutoMigrate(db); err != nil {
		logger.Fatal("建表失败", "err", err)
	}
	orderDao := dao.NewOrderDao(db)

	rdb, err := redisinit.InitRedis(&cfg.Database.Redis)
	if err != nil {
		logger.Fatal("连接Redis失败", "err", err)
	}

	conn, consumerCh, msgs, err := mq.NewConsumerChannel(&cfg.MQ, orderEventQueue, orderEventBindKey, mq.Exchange, true, cfg.MQ.ConsumerPrefetch)
	if err != nil {
		logger.Fatal("init consumer channel failed", "err", err)
	}
	defer mq.CloseConsumer(conn, consumerCh)

	logger.Info("order event consumer started", "queue", orderEventQueue)

	for d := range msgs {
		key := "alijahon:event:done:" + d.MessageId
		// 幂等第一层：Redis 按 MessageId 去重
		if d.MessageId != "" {
			added, _ := rdb.SetNX(context.Background(), key, 1, 30*time.Minute).Result()
			if !added {
				_ = d.Ack(false)
				continue
			}
		}

		var evt orderEvent
		if err := json.Unmarshal(d.Body, &evt); err != nil {
			logger.Error("订单事件解析失败", "err", err)
			_ = d.Nack(false, false)
			continue
		}

		// 幂等第二层：审计表里的 event_id 唯一索引
		exists, err := orderDao.OrderEventExists(context.Background(), evt.EventID)
		if err != nil {
			logger.Error("查询事件审计表失败", "err", err)
			_ = d.Nack(false, true)
			rdb.Del(context.Background(), key)
			continue
		}
		if exists {
			_ = d.Ack(false)
			continue
		}

		err = orderDao.CreateOrderEvent(context.Background(), &model.OrderEvent{
			EventID:    evt.EventID,
			OrderID:    evt.OrderID,
			FromStatus: evt.FromStatus,
			ToStatus:   evt.ToStatus,
			ActorID:    evt.ActorID,
			OccurredAt: time.Unix(evt.OccurredAt, 0),
		})
		if err != nil {
			logger.Error("写入事件审计行失败", "order_id", evt.OrderID, "err", err)
			_ = d.Nack(false, true)
			rdb.Del(context.Background(), key)
			continue
		}
		_ = d.Ack(false)
	}
}
