package queue

import (
	"context"
	"encoding/json"
	"log"

	rediskey "dropshipping/pkg/redis"

	rd "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Consumer 消费订单事件，把卖家销售统计累加到 Redis。
// 统计是非权威读模型；钱包余额以数据库为准。
type Consumer struct {
	r   *kafka.Reader
	rdb *rd.Client
}

func NewConsumer(brokers []string, topic, groupID string, rdb *rd.Client) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1e3,
			MaxBytes: 1e6,
		}),
		rdb: rdb,
	}
}

func (c *Consumer) Close() error { return c.r.Close() }

func (c *Consumer) Run(ctx context.Context) {
	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			return // ctx cancel / 连接断开等
		}

		if t := eventType(m); t != "" && t != EventOrderCreated {
			continue
		}

		var ev OrderEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Printf("consumer unmarshal: %v", err)
			continue
		}
		if err := ev.Validate(); err != nil {
			log.Printf("consumer invalid event: %v", err)
			continue
		}

		// 幂等：同一 order_id 只累加一次，重复投递直接跳过
		applied, err := rediskey.ApplyOrderStatsOnce(ctx, c.rdb, rediskey.OrderStats{
			OrderID:       ev.OrderID,
			DropshipperID: ev.DropshipperID,
			Total:         ev.Total,
			Commission:    ev.Commission,
		})
		if err != nil {
			log.Printf("consumer apply stats order=%s: %v", ev.OrderID, err)
			continue
		}
		if !applied {
			log.Printf("consumer duplicate order=%s skipped", ev.OrderID)
		}
	}
}

// eventType 读取消息头里的事件类型；老消息没有头时返回空串。
func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event" {
			return string(h.Value)
		}
	}
	return ""
}
