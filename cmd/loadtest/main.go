package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

// Result 记录单次请求的 HTTP 结果，便于聚合统计。
type Result struct {
	Status int
	Body   string
	Err    error
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	dropshipperID := flag.String("dropshipper", "", "dropshipper id (empty: register a new one)")
	adminToken := flag.String("admin-token", "dev-admin-token", "admin token for dropshipper and product setup")
	productID := flag.String("product", "", "product id (empty: create a new one)")

	// 丢失更新测试：同一卖家并发下单，钱包余额必须等于流水之和
	nOrders := flag.Int("n", 200, "orders to place")
	concurrency := flag.Int("c", 50, "max concurrency")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	admin := map[string]string{"X-Admin-Token": *adminToken}

	if *dropshipperID == "" {
		id := "load-" + uuid.NewString()[:8]
		err := doJSON(client, http.MethodPost, *baseURL+"/api/dropshippers", map[string]string{
			"id":    id,
			"name":  "loadtest",
			"email": id + "@loadtest.local",
		}, admin, nil)
		if err != nil {
			fail("register dropshipper: %v", err)
		}
		*dropshipperID = id
		fmt.Println("dropshipper:", id)
	}
	if *productID == "" {
		var p struct {
			ID string `json:"id"`
		}
		err := doJSON(client, http.MethodPost, *baseURL+"/api/products", map[string]any{
			"name":  "loadtest item",
			"price": "9.99",
		}, admin, &p)
		if err != nil {
			fail("create product: %v", err)
		}
		*productID = p.ID
		fmt.Println("product:", p.ID)
	}

	before, err := getWallet(client, *baseURL, *dropshipperID)
	if err != nil {
		before = wallet{}
	}

	fmt.Printf("start wallet test: dropshipper=%s orders=%d concurrency=%d\n", *dropshipperID, *nOrders, *concurrency)
	results := runOrders(client, *baseURL, *dropshipperID, *productID, *nOrders, *concurrency)
	created := printSummary("orders", results)

	after, err := getWallet(client, *baseURL, *dropshipperID)
	if err != nil {
		fail("wallet check: %v", err)
	}

	sum := decimal.Zero
	for _, t := range after.Transactions {
		sum = sum.Add(t.Amount)
	}
	newTxns := len(after.Transactions) - len(before.Transactions)
	fmt.Printf("wallet balance=%s sum(transactions)=%s version=%d new transactions=%d created=%d\n",
		after.Balance.StringFixed(2), sum.StringFixed(2), after.Version, newTxns, created)

	if !after.Balance.Equal(sum) || newTxns != created {
		fail("LOST UPDATE: balance and transactions disagree")
	}
	fmt.Println("ok: no lost updates")
}

func runOrders(client *http.Client, baseURL, dropshipperID, productID string, total, concurrency int) []Result {
	type Item struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	type Customer struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}
	type Req struct {
		Customer Customer `json:"customer"`
		Items    []Item   `json:"items"`
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]Result, total)

	for i := 0; i < total; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			// 一部分请求复用同一客户，覆盖「查到已有客户」分支
			req := Req{
				Customer: Customer{Name: "buyer", Address: "somewhere", Phone: fmt.Sprintf("555-%04d", idx%20)},
				Items:    []Item{{ProductID: productID, Quantity: 1 + idx%3}},
			}
			results[idx] = orderOnce(client, baseURL, dropshipperID, req)
		}(i)
	}

	wg.Wait()
	return results
}

func orderOnce(client *http.Client, baseURL, dropshipperID string, req any) Result {
	b, _ := json.Marshal(req)
	httpReq, _ := http.NewRequest(http.MethodPost, baseURL+"/api/orders", bytes.NewReader(b))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Dropshipper-ID", dropshipperID)

	resp, err := client.Do(httpReq)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return Result{Status: resp.StatusCode, Body: string(body)}
}

// printSummary 聚合输出不同状态码分布，返回成功下单数。
func printSummary(name string, results []Result) int {
	count := map[int]int{}
	errCount := 0
	for _, r := range results {
		if r.Err != nil {
			errCount++
			continue
		}
		count[r.Status]++
	}
	fmt.Printf("[%s] http status summary:\n", name)
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("status", "count")
	for _, code := range []int{201, 400, 401, 404, 409, 429, 500} {
		if count[code] > 0 {
			_ = table.Append(strconv.Itoa(code), strconv.Itoa(count[code]))
		}
	}
	if errCount > 0 {
		_ = table.Append("errors", strconv.Itoa(errCount))
	}
	_ = table.Render()
	return count[http.StatusCreated]
}

type wallet struct {
	Balance      decimal.Decimal `json:"balance"`
	Version      int64           `json:"version"`
	Transactions []struct {
		Amount decimal.Decimal `json:"amount"`
	} `json:"transactions"`
}

// getWallet 读取钱包，用于压测后校验余额与流水是否一致。
func getWallet(client *http.Client, baseURL, dropshipperID string) (wallet, error) {
	var w wallet
	err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/api/dropshippers/%s/wallet", baseURL, dropshipperID), nil, nil, &w)
	return w, err
}

// doJSON 发送请求（支持附加请求头），2xx 时把 data 解到 out。
func doJSON(client *http.Client, method, url string, body any, headers map[string]string, out any) error {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, url, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	return json.Unmarshal(env.Data, out)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
