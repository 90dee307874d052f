package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	rd "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	relayBatch      = 32
	relayBlock      = 2 * time.Second
	relayBackoff    = 300 * time.Millisecond
	relayPubTimeout = 5 * time.Second
)

// publisher Relay 的下游，生产环境是 Kafka Producer。
type publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// Relay 将 Redis Stream 中的订单事件转发到 Kafka。
// Kafka 写成功后才 XACK+XDEL；失败的消息留在 PEL 里，下一轮先重放。
type Relay struct {
	rdb *rd.Client
	out publisher

	stream   string
	group    string
	consumer string
}

func NewRelay(rdb *rd.Client, producer *Producer, stream, group, consumer string) *Relay {
	return &Relay{
		rdb:      rdb,
		out:      producer,
		stream:   stream,
		group:    group,
		consumer: consumer,
	}
}

func (r *Relay) Run(ctx context.Context) {
	if err := r.ensureGroup(ctx); err != nil {
		log.Printf("relay ensure group %s/%s: %v", r.stream, r.group, err)
		return
	}

	for ctx.Err() == nil {
		batch, err := r.next(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("relay read: %v", err)
			sleep(ctx, relayBackoff)
			continue
		}

		for _, xm := range batch {
			if err := r.forward(ctx, xm); err != nil {
				// 保序：当前消息没转出去就不处理后面的
				log.Printf("relay forward id=%s: %v", xm.ID, err)
				sleep(ctx, relayBackoff)
				break
			}
		}
	}
}

// next 先取本消费者未 ACK 的历史消息，没有再阻塞读新消息。
// 读 PEL 不阻塞：Block 为 0 在 go-redis 里是 BLOCK 0，即永久阻塞。
func (r *Relay) next(ctx context.Context) ([]rd.XMessage, error) {
	pending, err := r.read(ctx, "0", -1)
	if err != nil || len(pending) > 0 {
		return pending, err
	}
	return r.read(ctx, ">", relayBlock)
}

func (r *Relay) ensureGroup(ctx context.Context) error {
	err := r.rdb.XGroupCreateMkStream(ctx, r.stream, r.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (r *Relay) read(ctx context.Context, id string, block time.Duration) ([]rd.XMessage, error) {
	streams, err := r.rdb.XReadGroup(ctx, &rd.XReadGroupArgs{
		Group:    r.group,
		Consumer: r.consumer,
		Streams:  []string{r.stream, id},
		Count:    relayBatch,
		Block:    block,
	}).Result()
	if errors.Is(err, rd.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []rd.XMessage
	for _, s := range streams {
		out = append(out, s.Messages...)
	}
	return out, nil
}

func (r *Relay) forward(ctx context.Context, xm rd.XMessage) error {
	ev, err := parseOrderEvent(xm.Values)
	if err != nil {
		// 脏消息直接确认丢弃，避免堵住整条流
		log.Printf("relay drop id=%s: %v", xm.ID, err)
		return r.ack(ctx, xm.ID)
	}

	pubCtx, cancel := context.WithTimeout(ctx, relayPubTimeout)
	defer cancel()
	if err := r.out.Publish(pubCtx, ev); err != nil {
		return err
	}
	return r.ack(ctx, xm.ID)
}

func (r *Relay) ack(ctx context.Context, id string) error {
	pipe := r.rdb.TxPipeline()
	pipe.XAck(ctx, r.stream, r.group, id)
	pipe.XDel(ctx, r.stream, id)
	_, err := pipe.Exec(ctx)
	return err
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func parseOrderEvent(values map[string]any) (OrderEvent, error) {
	var (
		ev  OrderEvent
		err error
	)
	field := func(key string) string {
		if err != nil {
			return ""
		}
		var s string
		s, err = streamString(values, key)
		return s
	}

	ev.OrderID = field("order_id")
	ev.DropshipperID = field("dropshipper_id")
	totalStr := field("total")
	commissionStr := field("commission")
	countStr := field("item_count")
	createdStr := field("created_at")
	if err != nil {
		return OrderEvent{}, err
	}
	// customer_id 允许缺省
	ev.CustomerID, _ = streamString(values, "customer_id")

	if ev.Total, err = decimal.NewFromString(totalStr); err != nil {
		return OrderEvent{}, fmt.Errorf("invalid total %q", totalStr)
	}
	if ev.Commission, err = decimal.NewFromString(commissionStr); err != nil {
		return OrderEvent{}, fmt.Errorf("invalid commission %q", commissionStr)
	}
	if ev.ItemCount, err = strconv.Atoi(countStr); err != nil {
		return OrderEvent{}, fmt.Errorf("invalid item_count %q", countStr)
	}
	if ev.CreatedAt, err = strconv.ParseInt(createdStr, 10, 64); err != nil {
		return OrderEvent{}, fmt.Errorf("invalid created_at %q", createdStr)
	}

	if err := ev.Validate(); err != nil {
		return OrderEvent{}, err
	}
	return ev, nil
}

func streamString(values map[string]any, key string) (string, error) {
	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("missing field %s", key)
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	default:
		return "", fmt.Errorf("unsupported field type %s: %T", key, v)
	}
}
