package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dropshipping/internal/catalog"
	"dropshipping/internal/config"
	"dropshipping/internal/middleware"
	"dropshipping/internal/model"
	"dropshipping/internal/order"
	"dropshipping/internal/store"
	"dropshipping/internal/store/storetest"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

// newTestServer 不连 Redis：限流和统计接口关闭。
func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	db := storetest.NewDB(t)
	st := store.New(db)

	r := gin.New()
	Setup(r, Deps{
		Orders:  order.NewService(st, order.Options{MaxAttempts: 3}),
		Catalog: catalog.NewService(st),
		Store:   st,
		Config:  config.AppConfig{AdminToken: "admin"},
	})
	return &testServer{engine: r, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func asDropshipper(id string) map[string]string {
	return map[string]string{middleware.HeaderDropshipper: id}
}

func orderBody(productID string, qty int) map[string]any {
	return map[string]any{
		"customer": map[string]string{"name": "Bob", "address": "1 Main St", "phone": "555-0100"},
		"items":    []map[string]any{{"product_id": productID, "quantity": qty}},
	}
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", env.Msg)
}

func TestCreateOrderFlow(t *testing.T) {
	s := newTestServer(t)
	storetest.SeedDropshipper(t, s.db, "ds-1", "Ann")
	p := storetest.SeedProduct(t, s.db, "Mug", "12.50")

	code, _ := s.do(t, http.MethodPost, "/api/orders", orderBody(p.ID, 2), nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/api/orders", orderBody(p.ID, 2), asDropshipper("ghost"))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := s.do(t, http.MethodPost, "/api/orders", orderBody(p.ID, 2), asDropshipper("ds-1"))
	require.Equal(t, http.StatusCreated, code, env.Msg)
	var view order.OrderView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, decimal.RequireFromString("25").Equal(view.TotalPrice))
	assert.Equal(t, "ds-1", view.DropshipperID)
	assert.Equal(t, "Bob", view.CustomerName)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Mug", view.Items[0].ProductName)

	code, env = s.do(t, http.MethodGet, "/api/dropshippers/ds-1/wallet", nil, nil)
	require.Equal(t, http.StatusOK, code, env.Msg)
	var wallet struct {
		Balance      decimal.Decimal `json:"balance"`
		Transactions []struct {
			OrderID string `json:"order_id"`
		} `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &wallet))
	assert.True(t, decimal.RequireFromString("5").Equal(wallet.Balance))
	require.Len(t, wallet.Transactions, 1)
	assert.Equal(t, view.ID, wallet.Transactions[0].OrderID)

	code, env = s.do(t, http.MethodPut, "/api/orders/"+view.ID, map[string]string{"status": "delivered"}, nil)
	require.Equal(t, http.StatusOK, code, env.Msg)
	var updated order.OrderView
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Delivered", string(updated.Status))
	assert.True(t, view.TotalPrice.Equal(updated.TotalPrice))

	code, env = s.do(t, http.MethodGet, "/api/orders?status=Delivered&dropshipper_id=ds-1", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var page store.Page[order.OrderView]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.TotalCount)

	code, _ = s.do(t, http.MethodDelete, "/api/orders/"+view.ID, nil, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, "/api/orders/"+view.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateOrderErrors(t *testing.T) {
	s := newTestServer(t)
	storetest.SeedDropshipper(t, s.db, "ds-1", "Ann")
	p := storetest.SeedProduct(t, s.db, "Mug", "3")

	code, env := s.do(t, http.MethodPost, "/api/orders", orderBody("no-such-product", 1), asDropshipper("ds-1"))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, env.Msg, "no-such-product")

	code, _ = s.do(t, http.MethodPost, "/api/orders", orderBody(p.ID, 0), asDropshipper("ds-1"))
	assert.Equal(t, http.StatusBadRequest, code)

	empty := orderBody(p.ID, 1)
	empty["items"] = []map[string]any{}
	code, _ = s.do(t, http.MethodPost, "/api/orders", empty, asDropshipper("ds-1"))
	assert.Equal(t, http.StatusBadRequest, code)

	// 失败的请求不应留下任何记录
	assert.Zero(t, storetest.Count(t, s.db, &model.Order{}))
	assert.Zero(t, storetest.Count(t, s.db, &model.Customer{}))
	assert.Zero(t, storetest.Count(t, s.db, &model.Wallet{}))
}

func TestListOrdersRejectsBadQuery(t *testing.T) {
	s := newTestServer(t)
	for _, q := range []string{"status=Lost", "from=yesterday", "page_size=ten"} {
		code, _ := s.do(t, http.MethodGet, "/api/orders?"+q, nil, nil)
		assert.Equal(t, http.StatusBadRequest, code, q)
	}
}

var adminHeader = map[string]string{middleware.HeaderAdminToken: "admin"}

// createID 以管理员身份 POST，返回新记录的 id。
func (s *testServer) createID(t *testing.T, path string, body any) string {
	t.Helper()
	code, env := s.do(t, http.MethodPost, path, body, adminHeader)
	require.Equal(t, http.StatusCreated, code, env.Msg)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created.ID
}

func TestProductEndpoints(t *testing.T) {
	s := newTestServer(t)
	brandID := s.createID(t, "/api/brands", map[string]string{"name": "Acme"})

	// 写操作需要管理员令牌
	code, _ := s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Lamp", "price": "19.99"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Lamp", "price": "0"}, adminHeader)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Lamp", "price": "0.004"}, adminHeader)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Lamp", "price": "1", "brand_id": "nope"}, adminHeader)
	assert.Equal(t, http.StatusNotFound, code)

	id := s.createID(t, "/api/products", map[string]any{"name": "Lamp", "price": "19.99", "brand_id": brandID})

	code, env := s.do(t, http.MethodGet, "/api/products?search=am&brand_id="+brandID, nil, nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		TotalCount int64 `json:"total_count"`
		Result     []struct {
			Brand struct {
				Name string `json:"name"`
			} `json:"brand"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.TotalCount)
	require.Len(t, page.Result, 1)
	assert.Equal(t, "Acme", page.Result[0].Brand.Name)

	code, _ = s.do(t, http.MethodPut, "/api/products/"+id, map[string]any{"name": "Lamp", "price": "21"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(t, http.MethodPut, "/api/products/"+id, map[string]any{"name": "Lamp", "price": "21"}, adminHeader)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodDelete, "/api/products/"+id, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(t, http.MethodDelete, "/api/products/"+id, nil, adminHeader)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, "/api/products/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTaxonomyEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodPost, "/api/categories", map[string]string{"name": "Lighting"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	catID := s.createID(t, "/api/categories", map[string]string{"name": "Lighting"})
	acme := s.createID(t, "/api/brands", map[string]string{"name": "Acme"})
	s.createID(t, "/api/brands", map[string]string{"name": "Idle"})
	s.createID(t, "/api/products", map[string]any{"name": "Lamp", "price": "5", "brand_id": acme, "category_id": catID})

	code, env := s.do(t, http.MethodGet, "/api/categories/"+catID+"/brands", nil, nil)
	require.Equal(t, http.StatusOK, code, env.Msg)
	var brands []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &brands))
	require.Len(t, brands, 1)
	assert.Equal(t, acme, brands[0].ID)

	code, _ = s.do(t, http.MethodGet, "/api/categories/nope/brands", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, http.MethodPut, "/api/brands/"+acme, map[string]string{"name": "Acme Co"}, adminHeader)
	require.Equal(t, http.StatusOK, code, env.Msg)
	code, _ = s.do(t, http.MethodPut, "/api/categories/"+catID, map[string]string{"name": ""}, adminHeader)
	assert.Equal(t, http.StatusBadRequest, code)

	// 仍被商品引用
	code, _ = s.do(t, http.MethodDelete, "/api/brands/"+acme, nil, adminHeader)
	assert.Equal(t, http.StatusConflict, code)
	code, _ = s.do(t, http.MethodDelete, "/api/categories/"+catID, nil, adminHeader)
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(t, http.MethodGet, "/api/brands", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &brands))
	assert.Len(t, brands, 2)

	code, _ = s.do(t, http.MethodGet, "/api/categories/"+catID, nil, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, "/api/brands/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDropshipperEndpoints(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"id": "ds-9", "name": "Cat", "email": "cat@example.com"}

	code, _ := s.do(t, http.MethodPost, "/api/dropshippers", body, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/api/dropshippers", body, adminHeader)
	assert.Equal(t, http.StatusCreated, code)
	code, _ = s.do(t, http.MethodPost, "/api/dropshippers", body, adminHeader)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(t, http.MethodGet, "/api/dropshippers/ds-9", nil, nil)
	assert.Equal(t, http.StatusOK, code)

	// 还没下单，钱包不存在
	code, _ = s.do(t, http.MethodGet, "/api/dropshippers/ds-9/wallet", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodGet, "/api/dropshippers/ds-9/stats", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestDropshipperAdminUpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	storetest.SeedDropshipper(t, s.db, "ds-1", "Ann")
	p := storetest.SeedProduct(t, s.db, "Mug", "10")

	code, env := s.do(t, http.MethodPost, "/api/orders", orderBody(p.ID, 1), asDropshipper("ds-1"))
	require.Equal(t, http.StatusCreated, code, env.Msg)
	var placed order.OrderView
	require.NoError(t, json.Unmarshal(env.Data, &placed))

	code, _ = s.do(t, http.MethodPut, "/api/dropshippers/ds-1", map[string]any{"is_active": false}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// 停用后不能再下单
	code, env = s.do(t, http.MethodPut, "/api/dropshippers/ds-1", map[string]any{"is_active": false}, adminHeader)
	require.Equal(t, http.StatusOK, code, env.Msg)
	code, _ = s.do(t, http.MethodPost, "/api/orders", orderBody(p.ID, 1), asDropshipper("ds-1"))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodDelete, "/api/dropshippers/ds-1", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(t, http.MethodDelete, "/api/dropshippers/ds-1", nil, adminHeader)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, http.MethodGet, "/api/dropshippers/ds-1", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(t, http.MethodPut, "/api/dropshippers/ds-1", map[string]any{"name": "x"}, adminHeader)
	assert.Equal(t, http.StatusNotFound, code)

	// 历史订单仍显示卖家
	code, env = s.do(t, http.MethodGet, "/api/orders/"+placed.ID, nil, nil)
	require.Equal(t, http.StatusOK, code, env.Msg)
	var view order.OrderView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Ann", view.DropshipperName)
}
