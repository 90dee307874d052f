package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 佣金策略名。
const (
	CommissionRate = "rate" // 按比例入账
	CommissionFull = "full" // 订单总额全额入账
)

// AppConfig 聚合运行时配置，尽量通过环境变量注入，避免硬编码。
type AppConfig struct {
	HTTPAddr string

	// DBDriver 取 sqlite 或 mysql
	DBDriver       string
	DBPath         string
	MySQLDSN       string
	DBMaxOpenConns int

	RedisAddr string
	RedisDB   int

	// Kafka 集群地址（逗号分隔）、Topic、消费者组
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Redis Stream outbox（下单提交后入流，Relay 异步转 Kafka）
	EventsEnabled      bool
	OrderEventStream   string
	OrderEventGroup    string
	OrderEventConsumer string

	// 下单接口限流
	OrderRateLimit  int
	OrderRateWindow time.Duration

	// 钱包结算
	CommissionPolicy string
	CommissionRate   decimal.Decimal
	OrderMaxAttempts int
	WalletLockTTL    time.Duration
	WalletLockWait   time.Duration

	// 管理接口的简单令牌（demo 级别保护）
	AdminToken string
}

// Load 读取并校验配置，缺失时使用默认值。
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:             getEnv("DB_PATH", "dropshipping.db"),
		MySQLDSN:           getEnv("MYSQL_DSN", ""),
		DBMaxOpenConns:     25,
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            0,
		KafkaBrokers:       splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "dropshipping-orders"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "dropshipping-stats-consumer"),
		EventsEnabled:      true,
		OrderEventStream:   getEnv("ORDER_EVENT_STREAM", "dropshipping:order_events"),
		OrderEventGroup:    getEnv("ORDER_EVENT_GROUP", "dropshipping-relay-group"),
		OrderEventConsumer: getEnv("ORDER_EVENT_CONSUMER", "dropshipping-relay-1"),
		OrderRateLimit:     20,
		OrderRateWindow:    time.Second,
		CommissionPolicy:   strings.ToLower(getEnv("COMMISSION_POLICY", CommissionRate)),
		CommissionRate:     decimal.RequireFromString("0.20"),
		OrderMaxAttempts:   3,
		WalletLockTTL:      5 * time.Second,
		WalletLockWait:     2 * time.Second,
		AdminToken:         getEnv("ADMIN_TOKEN", "dev-admin-token"),
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DBPath == "" {
			return AppConfig{}, fmt.Errorf("DB_PATH must not be empty")
		}
	case "mysql":
		if cfg.MySQLDSN == "" {
			return AppConfig{}, fmt.Errorf("MYSQL_DSN is required when DB_DRIVER=mysql")
		}
	default:
		return AppConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	if maxOpen <= 0 {
		return AppConfig{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	cfg.DBMaxOpenConns = maxOpen

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	events, err := getEnvBool("EVENTS_ENABLED", cfg.EventsEnabled)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid EVENTS_ENABLED: %w", err)
	}
	cfg.EventsEnabled = events

	rateLimit, err := getEnvInt("ORDER_RATE_LIMIT", cfg.OrderRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid ORDER_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("ORDER_RATE_LIMIT must be > 0")
	}
	cfg.OrderRateLimit = rateLimit

	rateWindowSec, err := getEnvInt("ORDER_RATE_WINDOW_SEC", int(cfg.OrderRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid ORDER_RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("ORDER_RATE_WINDOW_SEC must be > 0")
	}
	cfg.OrderRateWindow = time.Duration(rateWindowSec) * time.Second

	if cfg.CommissionPolicy != CommissionRate && cfg.CommissionPolicy != CommissionFull {
		return AppConfig{}, fmt.Errorf("COMMISSION_POLICY must be %q or %q", CommissionRate, CommissionFull)
	}
	rate, err := getEnvDecimal("COMMISSION_RATE", cfg.CommissionRate)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid COMMISSION_RATE: %w", err)
	}
	if rate.LessThanOrEqual(decimal.Zero) || rate.GreaterThan(decimal.NewFromInt(1)) {
		return AppConfig{}, fmt.Errorf("COMMISSION_RATE must be in (0, 1]")
	}
	cfg.CommissionRate = rate

	attempts, err := getEnvInt("ORDER_MAX_ATTEMPTS", cfg.OrderMaxAttempts)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid ORDER_MAX_ATTEMPTS: %w", err)
	}
	if attempts <= 0 {
		return AppConfig{}, fmt.Errorf("ORDER_MAX_ATTEMPTS must be > 0")
	}
	cfg.OrderMaxAttempts = attempts

	lockTTLms, err := getEnvInt("WALLET_LOCK_TTL_MS", int(cfg.WalletLockTTL.Milliseconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid WALLET_LOCK_TTL_MS: %w", err)
	}
	lockWaitMs, err := getEnvInt("WALLET_LOCK_WAIT_MS", int(cfg.WalletLockWait.Milliseconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid WALLET_LOCK_WAIT_MS: %w", err)
	}
	if lockTTLms <= 0 || lockWaitMs < 0 {
		return AppConfig{}, fmt.Errorf("WALLET_LOCK_TTL_MS must be > 0 and WALLET_LOCK_WAIT_MS >= 0")
	}
	cfg.WalletLockTTL = time.Duration(lockTTLms) * time.Millisecond
	cfg.WalletLockWait = time.Duration(lockWaitMs) * time.Millisecond

	if cfg.EventsEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return AppConfig{}, fmt.Errorf("KAFKA_BROKERS must not be empty")
		}
		if cfg.KafkaTopic == "" {
			return AppConfig{}, fmt.Errorf("KAFKA_TOPIC must not be empty")
		}
		if cfg.KafkaGroupID == "" {
			return AppConfig{}, fmt.Errorf("KAFKA_GROUP_ID must not be empty")
		}
		if cfg.OrderEventStream == "" {
			return AppConfig{}, fmt.Errorf("ORDER_EVENT_STREAM must not be empty")
		}
		if cfg.OrderEventGroup == "" {
			return AppConfig{}, fmt.Errorf("ORDER_EVENT_GROUP must not be empty")
		}
		if cfg.OrderEventConsumer == "" {
			return AppConfig{}, fmt.Errorf("ORDER_EVENT_CONSUMER must not be empty")
		}
	}

	return cfg, nil
}

// getEnv 读取字符串环境变量，若为空则返回默认值。
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt 读取整数环境变量，若为空则返回默认值。
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

// getEnvDecimal 金额/比例类配置，用十进制解析避免浮点误差。
func getEnvDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return decimal.NewFromString(v)
}

// splitCSV 将逗号分隔字符串解析为字符串切片。
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
