package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	rd "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	err  error
	sent []OrderEvent
}

func (f *fakePublisher) Publish(_ context.Context, ev OrderEvent) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, ev)
	return nil
}

const testStream = "dropshipping:orders"

func newTestRelay(t *testing.T, out publisher) (*Relay, *rd.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := rd.NewClient(&rd.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := &Relay{rdb: rdb, out: out, stream: testStream, group: "relay", consumer: "relay-1"}
	require.NoError(t, r.ensureGroup(context.Background()))
	// 重复创建消费组不报错
	require.NoError(t, r.ensureGroup(context.Background()))
	return r, rdb
}

func sampleEvent() OrderEvent {
	return OrderEvent{
		OrderID:       "o-1",
		DropshipperID: "ds-1",
		CustomerID:    "c-1",
		Total:         decimal.RequireFromString("25.00"),
		Commission:    decimal.NewFromInt(5),
		ItemCount:     2,
		CreatedAt:     1760000000,
	}
}

func TestRelayKeepsMessagePendingUntilPublished(t *testing.T) {
	ctx := context.Background()
	out := &fakePublisher{err: errors.New("kafka down")}
	r, rdb := newTestRelay(t, out)

	require.NoError(t, NewStreamPublisher(rdb, testStream).PublishOrderCreated(ctx, sampleEvent()))

	batch, err := r.next(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Error(t, r.forward(ctx, batch[0]))

	// 转发失败：消息仍在流里，并且作为本消费者的未确认消息重放
	n, err := rdb.XLen(ctx, testStream).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	again, err := r.next(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, batch[0].ID, again[0].ID)

	out.err = nil
	require.NoError(t, r.forward(ctx, again[0]))
	require.Len(t, out.sent, 1)
	assert.Equal(t, "o-1", out.sent[0].OrderID)
	assert.True(t, decimal.NewFromInt(25).Equal(out.sent[0].Total))

	n, err = rdb.XLen(ctx, testStream).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
	pending, err := rdb.XPending(ctx, testStream, "relay").Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}

func TestRelayDropsDirtyMessage(t *testing.T) {
	ctx := context.Background()
	out := &fakePublisher{}
	r, rdb := newTestRelay(t, out)

	require.NoError(t, rdb.XAdd(ctx, &rd.XAddArgs{
		Stream: testStream,
		Values: map[string]any{"order_id": "o-x"},
	}).Err())

	batch, err := r.next(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.NoError(t, r.forward(ctx, batch[0]))

	assert.Empty(t, out.sent)
	n, err := rdb.XLen(ctx, testStream).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
