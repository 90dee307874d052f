package queue

import (
	"context"

	rd "github.com/redis/go-redis/v9"
)

// StreamPublisher 把订单事件 XADD 到 Redis Stream，由 Relay 异步转 Kafka。
type StreamPublisher struct {
	rdb    *rd.Client
	stream string
}

func NewStreamPublisher(rdb *rd.Client, stream string) *StreamPublisher {
	return &StreamPublisher{rdb: rdb, stream: stream}
}

func (p *StreamPublisher) PublishOrderCreated(ctx context.Context, ev OrderEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	return p.rdb.XAdd(ctx, &rd.XAddArgs{
		Stream: p.stream,
		Values: ev.streamValues(),
	}).Err()
}
