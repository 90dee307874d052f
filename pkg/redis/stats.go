package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	rd "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// luaApplyStatsOnce 通过 SETNX 标记保证同一订单只累计一次。
// 金额以“分”为单位 HINCRBY，避免浮点累加误差。
const luaApplyStatsOnce = `
local appliedKey = KEYS[1]
local statsKey = KEYS[2]
local totalCents = tonumber(ARGV[1])
local commissionCents = tonumber(ARGV[2])
local ttlSec = tonumber(ARGV[3])

if redis.call('SETNX', appliedKey, '1') == 1 then
  redis.call('EXPIRE', appliedKey, ttlSec)
  redis.call('HINCRBY', statsKey, 'orders', 1)
  redis.call('HINCRBY', statsKey, 'gross_cents', totalCents)
  redis.call('HINCRBY', statsKey, 'commission_cents', commissionCents)
  return 1
end
return 0
`

const appliedTTL = 7 * 24 * time.Hour

// OrderStats 一笔订单对统计的贡献。
type OrderStats struct {
	OrderID       string
	DropshipperID string
	Total         decimal.Decimal
	Commission    decimal.Decimal
}

// DropshipperStats 卖家销售统计读模型。
type DropshipperStats struct {
	DropshipperID string          `json:"dropshipper_id"`
	Orders        int64           `json:"orders"`
	Gross         decimal.Decimal `json:"gross"`
	Commission    decimal.Decimal `json:"commission"`
}

// ApplyOrderStatsOnce 幂等累计：
// - 首次累计返回 true
// - 重复事件返回 false（不会重复加）
func ApplyOrderStatsOnce(ctx context.Context, rdb *rd.Client, s OrderStats) (bool, error) {
	keys := []string{StatsAppliedKey(s.OrderID), StatsKey(s.DropshipperID)}
	n, err := rdb.Eval(ctx, luaApplyStatsOnce, keys,
		ToCents(s.Total), ToCents(s.Commission), int64(appliedTTL/time.Second)).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetDropshipperStats 读取统计；key 不存在时返回全零。
func GetDropshipperStats(ctx context.Context, rdb *rd.Client, dropshipperID string) (DropshipperStats, error) {
	out := DropshipperStats{DropshipperID: dropshipperID, Gross: decimal.Zero, Commission: decimal.Zero}
	m, err := rdb.HGetAll(ctx, StatsKey(dropshipperID)).Result()
	if err != nil {
		return out, err
	}
	if len(m) == 0 {
		return out, nil
	}

	orders, err := parseInt(m, "orders")
	if err != nil {
		return out, err
	}
	gross, err := parseInt(m, "gross_cents")
	if err != nil {
		return out, err
	}
	commission, err := parseInt(m, "commission_cents")
	if err != nil {
		return out, err
	}
	out.Orders = orders
	out.Gross = FromCents(gross)
	out.Commission = FromCents(commission)
	return out, nil
}

// ToCents 金额转为整数分，四舍五入。
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents 整数分还原为两位小数金额。
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func parseInt(m map[string]string, field string) (int64, error) {
	v, ok := m[field]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stats field %s: %w", field, err)
	}
	return n, nil
}
