// Package order 实现下单与钱包结算工作流。
package order

import (
	"context"
	"errors"
	"log"
	"time"

	"dropshipping/internal/model"
	"dropshipping/internal/queue"
	"dropshipping/internal/store"

	"github.com/shopspring/decimal"
)

// Locker 按卖家串行化写者。拿不到锁时工作流仍靠钱包版本号兜底。
type Locker interface {
	Lock(ctx context.Context, dropshipperID string) (release func(), err error)
}

// EventPublisher 提交成功后投递订单事件。
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, ev queue.OrderEvent) error
}

// Options 构造 Service 的可选依赖，零值可用。
type Options struct {
	Policy      CommissionPolicy
	MaxAttempts int
	Locker      Locker
	Events      EventPublisher
	Now         func() time.Time
}

type Service struct {
	store       *store.Store
	settler     settler
	maxAttempts int
	locker      Locker
	events      EventPublisher
	now         func() time.Time
}

func NewService(st *store.Store, opts Options) *Service {
	if opts.Policy == nil {
		opts.Policy = DefaultCommission
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:       st,
		settler:     settler{policy: opts.Policy},
		maxAttempts: opts.MaxAttempts,
		locker:      opts.Locker,
		events:      opts.Events,
		now:         opts.Now,
	}
}

// placed 一次成功提交的结果。
type placed struct {
	order      *model.Order
	commission decimal.Decimal
}

// CreateOrder 下单主流程：
// 1. 校验请求
// 2. 事务内：查/建客户 -> 逐行定价组装订单 -> 写订单与订单行 -> 钱包入账
// 3. 提交；任一步失败整体回滚
// 4. 钱包版本冲突时整单重试（最多 maxAttempts 次）
// 5. 提交后重新读取完整订单视图并投递事件
func (s *Service) CreateOrder(ctx context.Context, req CreateRequest) (*OrderView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.Lock(ctx, req.DropshipperID)
		if err != nil {
			log.Printf("order: wallet lock dropshipper=%s: %v (falling back to version check)", req.DropshipperID, err)
		} else {
			defer release()
		}
	}

	var (
		res *placed
		err error
	)
	for attempt := 1; ; attempt++ {
		res, err = s.placeOnce(ctx, req)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrWalletConflict) || attempt >= s.maxAttempts {
			return nil, err
		}
		log.Printf("order: wallet conflict dropshipper=%s attempt=%d, retrying", req.DropshipperID, attempt)
	}

	view, err := s.GetOrder(ctx, res.order.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, res)
	return view, nil
}

// placeOnce 一个完整的工作单元，只有提交或回滚两种出口。
func (s *Service) placeOnce(ctx context.Context, req CreateRequest) (*placed, error) {
	var res placed
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		now := s.now()

		customer, err := findOrCreateCustomer(ctx, tx, req.DropshipperID, req.Customer, now)
		if err != nil {
			return err
		}

		o, err := assembleOrder(ctx, tx, customer.ID, req.DropshipperID, req.Items, now)
		if err != nil {
			return err
		}
		o.ShippedDate = req.ShippedDate
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		wt, err := s.settler.settle(ctx, tx, req.DropshipperID, o.ID, o.TotalPrice, now)
		if err != nil {
			return err
		}

		res = placed{order: o, commission: wt.Amount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// publish 事件投递失败只记日志，不影响已提交的订单。
func (s *Service) publish(ctx context.Context, res *placed) {
	if s.events == nil {
		return
	}
	ev := queue.OrderEvent{
		OrderID:       res.order.ID,
		DropshipperID: res.order.DropshipperID,
		CustomerID:    res.order.CustomerID,
		Total:         res.order.TotalPrice,
		Commission:    res.commission,
		ItemCount:     len(res.order.Items),
		CreatedAt:     res.order.CreatedAt.Unix(),
	}
	if err := s.events.PublishOrderCreated(ctx, ev); err != nil {
		log.Printf("order: publish event order=%s: %v", ev.OrderID, err)
	}
}

// GetOrder 读取订单完整视图（客户、订单行+商品、卖家）。
func (s *Service) GetOrder(ctx context.Context, id string) (*OrderView, error) {
	o, err := s.store.LoadOrder(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return newView(o), nil
}

// ListOrders 分页查询订单。
func (s *Service) ListOrders(ctx context.Context, f store.OrderFilter) (store.Page[OrderView], error) {
	page, err := s.store.ListOrders(ctx, f)
	if err != nil {
		return store.Page[OrderView]{}, err
	}
	out := store.Page[OrderView]{
		Result:     make([]OrderView, 0, len(page.Result)),
		TotalCount: page.TotalCount,
		PageIndex:  page.PageIndex,
		PageSize:   page.PageSize,
	}
	for i := range page.Result {
		out.Result = append(out.Result, *newView(&page.Result[i]))
	}
	return out, nil
}

// UpdateOrder 修改状态与发货日期；钱包只在下单时结算一次，这里不动钱包。
func (s *Service) UpdateOrder(ctx context.Context, id string, req UpdateRequest) (*OrderView, error) {
	status, err := model.ParseOrderStatus(string(req.Status))
	if err != nil {
		return nil, validationErr("%v", err)
	}
	if err := s.store.UpdateOrderStatus(ctx, id, status, req.ShippedDate); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

// DeleteOrder 删除订单及其订单行。
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	err := s.store.DeleteOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}
