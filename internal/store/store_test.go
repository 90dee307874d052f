package store_test

import (
	"context"
	"testing"
	"time"

	"dropshipping/internal/model"
	"dropshipping/internal/store"
	"dropshipping/internal/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCustomerFirstMatchWins(t *testing.T) {
	db := storetest.NewDB(t)
	s := store.New(db)
	ctx := context.Background()

	first := &model.Customer{Name: "First", PhoneNumber: "555", DropshipperID: "ds-1", CreatedAt: time.Now().Add(-time.Hour)}
	second := &model.Customer{Name: "Second", PhoneNumber: "555", DropshipperID: "ds-1"}
	other := &model.Customer{Name: "Other", PhoneNumber: "555", DropshipperID: "ds-2"}
	require.NoError(t, s.CreateCustomer(ctx, first))
	require.NoError(t, s.CreateCustomer(ctx, second))
	require.NoError(t, s.CreateCustomer(ctx, other))

	got, err := s.FindCustomer(ctx, "555", "ds-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.FindCustomer(ctx, "556", "ds-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBumpWalletDetectsStaleVersion(t *testing.T) {
	db := storetest.NewDB(t)
	s := store.New(db)
	ctx := context.Background()

	w := &model.Wallet{DropshipperID: "ds-1", Balance: decimal.NewFromInt(10), Version: 1}
	require.NoError(t, s.CreateWallet(ctx, w))

	stale := *w
	require.NoError(t, s.BumpWallet(ctx, w, decimal.NewFromInt(15)))
	assert.Equal(t, int64(2), w.Version)

	err := s.BumpWallet(ctx, &stale, decimal.NewFromInt(99))
	assert.ErrorIs(t, err, store.ErrConflict)

	got, err := s.FindWallet(ctx, "ds-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(got.Balance), "balance %s", got.Balance)
	assert.Equal(t, int64(2), got.Version)
}

func TestCreateWalletUniquePerDropshipper(t *testing.T) {
	db := storetest.NewDB(t)
	s := store.New(db)
	ctx := context.Background()

	require.NoError(t, s.CreateWallet(ctx, &model.Wallet{DropshipperID: "ds-1", Version: 1}))
	err := s.CreateWallet(ctx, &model.Wallet{DropshipperID: "ds-1", Version: 1})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := storetest.NewDB(t)
	s := store.New(db)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx *store.Store) error {
		require.NoError(t, tx.CreateCustomer(ctx, &model.Customer{Name: "A", PhoneNumber: "1", DropshipperID: "ds"}))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, storetest.Count(t, db, &model.Customer{}))
}

func TestLoadOrderPreloadsRelations(t *testing.T) {
	db := storetest.NewDB(t)
	s := store.New(db)
	ctx := context.Background()

	ds := storetest.SeedDropshipper(t, db, "ds-1", "Dora")
	p := storetest.SeedProduct(t, db, "Lamp", "12.50")
	c := &model.Customer{Name: "Cara", PhoneNumber: "777", DropshipperID: ds.ID}
	require.NoError(t, s.CreateCustomer(ctx, c))

	o := &model.Order{
		CustomerID:    c.ID,
		DropshipperID: ds.ID,
		Status:        model.OrderDelivering,
		TotalPrice:    decimal.RequireFromString("25"),
		Items:         []model.OrderItem{{ProductID: p.ID, Quantity: 2}},
	}
	require.NoError(t, s.CreateOrder(ctx, o))

	// 商品软删除后订单仍能读到商品信息
	require.NoError(t, s.DeleteProduct(ctx, p.ID))

	got, err := s.LoadOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cara", got.Customer.Name)
	assert.Equal(t, "Dora", got.Dropshipper.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Lamp", got.Items[0].Product.Name)

	require.NoError(t, s.DeleteOrder(ctx, o.ID))
	assert.Zero(t, storetest.Count(t, db, &model.OrderItem{}))
	_, err = s.LoadOrder(ctx, o.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteOrder(ctx, o.ID), store.ErrNotFound)
}

func TestListOrdersFilters(t *testing.T) {
	db := storetest.NewDB(t)
	s := store.New(db)
	ctx := context.Background()

	storetest.SeedDropshipper(t, db, "ds-1", "One")
	storetest.SeedDropshipper(t, db, "ds-2", "Two")
	now := time.Now()
	for i, seed := range []struct {
		ds     string
		status model.OrderStatus
		at     time.Time
	}{
		{"ds-1", model.OrderDelivering, now},
		{"ds-1", model.OrderDelivered, now},
		{"ds-1", model.OrderDelivering, now.AddDate(0, 0, -10)},
		{"ds-2", model.OrderDelivering, now},
	} {
		o := &model.Order{
			CustomerID:    "c",
			DropshipperID: seed.ds,
			Status:        seed.status,
			CreatedAt:     seed.at.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, s.CreateOrder(ctx, o))
	}

	delivering := model.OrderDelivering
	page, err := s.ListOrders(ctx, store.OrderFilter{DropshipperID: "ds-1", Status: &delivering})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Equal(t, 1, page.PageIndex)
	assert.Equal(t, 10, page.PageSize)

	from, to := now.AddDate(0, 0, -1), now.AddDate(0, 0, 1)
	page, err = s.ListOrders(ctx, store.OrderFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)

	page, err = s.ListOrders(ctx, store.OrderFilter{Paging: store.Paging{PageIndex: 2, PageSize: 3}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalCount)
	assert.Len(t, page.Result, 1)
}

func TestUpdateOrderStatusKeepsTotal(t *testing.T) {
	db := storetest.NewDB(t)
	s := store.New(db)
	ctx := context.Background()

	o := &model.Order{CustomerID: "c", DropshipperID: "ds", Status: model.OrderDelivering, TotalPrice: decimal.NewFromInt(40)}
	require.NoError(t, s.CreateOrder(ctx, o))

	shipped := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateOrderStatus(ctx, o.ID, model.OrderDelivered, &shipped))

	got, err := s.LoadOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDelivered, got.Status)
	require.NotNil(t, got.ShippedDate)
	assert.True(t, shipped.Equal(*got.ShippedDate))
	assert.True(t, decimal.NewFromInt(40).Equal(got.TotalPrice))

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "missing", model.OrderDeclined, nil), store.ErrNotFound)
}
