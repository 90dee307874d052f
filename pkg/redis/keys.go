package redis

import "fmt"

// RateLimitKey 下单接口的滑动窗口限流键，按卖家或 IP。
func RateLimitKey(kind, id string) string {
	return fmt.Sprintf("dropshipping:rate_limit:order:%s:%s", kind, id)
}

// WalletLockKey 卖家钱包写锁，串行化同一卖家的并发下单。
func WalletLockKey(dropshipperID string) string {
	return fmt.Sprintf("dropshipping:wallet:lock:%s", dropshipperID)
}

// StatsKey 卖家销售统计 hash。
func StatsKey(dropshipperID string) string {
	return fmt.Sprintf("dropshipping:stats:%s", dropshipperID)
}

// StatsAppliedKey 标记某订单事件是否已计入统计。
func StatsAppliedKey(orderID string) string {
	return fmt.Sprintf("dropshipping:stats:applied:%s", orderID)
}
