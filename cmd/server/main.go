package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dropshipping/internal/catalog"
	"dropshipping/internal/config"
	"dropshipping/internal/order"
	"dropshipping/internal/queue"
	"dropshipping/internal/router"
	"dropshipping/internal/store"
	rediskey "dropshipping/pkg/redis"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. 连接数据库，自动建表
	db, err := store.Open(cfg)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	st := store.New(db)

	// 2. Redis：锁、限流、事件流、统计。连不上时降级运行，钱包正确性只依赖数据库。
	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		log.Printf("redis %s unavailable, running without lock/rate limit/events: %v", cfg.RedisAddr, err)
		_ = rdb.Close()
		rdb = nil
	} else {
		defer rdb.Close()
	}

	opts := order.Options{
		Policy:      commissionPolicy(cfg),
		MaxAttempts: cfg.OrderMaxAttempts,
	}

	// 3. 事件链路：下单 -> Redis Stream -> Relay -> Kafka -> Consumer -> Redis 统计
	if rdb != nil {
		opts.Locker = rediskey.NewWalletLock(rdb, cfg.WalletLockTTL, cfg.WalletLockWait)
		if cfg.EventsEnabled {
			opts.Events = queue.NewStreamPublisher(rdb, cfg.OrderEventStream)

			producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
			defer producer.Close()
			relay := queue.NewRelay(rdb, producer, cfg.OrderEventStream, cfg.OrderEventGroup, cfg.OrderEventConsumer)
			go relay.Run(ctx)

			consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, rdb)
			defer consumer.Close()
			go consumer.Run(ctx)
		}
	}

	r := gin.Default()
	router.Setup(r, router.Deps{
		Orders:  order.NewService(st, opts),
		Catalog: catalog.NewService(st),
		Store:   st,
		Redis:   rdb,
		Config:  cfg,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()
	log.Printf("listening on %s (commission=%s)", cfg.HTTPAddr, opts.Policy.Name())

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}

// commissionPolicy 按配置选择入账口径。
func commissionPolicy(cfg config.AppConfig) order.CommissionPolicy {
	if cfg.CommissionPolicy == config.CommissionFull {
		return order.FullTotalPolicy{}
	}
	return order.RatePolicy{Rate: cfg.CommissionRate}
}
