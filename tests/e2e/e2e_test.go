//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/config"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/infra"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/router"
	"github.com/ABrayanM/tienda-proyecto-zahir/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server      *httptest.Server
	adminToken  string
	cajeroToken string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("tienda_test"),
		tcPostgres.WithUsername("tienda"),
		tcPostgres.WithPassword("tienda"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		LowStockThreshold:  5,
		ReceiptStoragePath: t.TempDir(),
		LoginRateLimit:     100,
		APIRateLimit:       10000,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	seedUserRow(t, db, "admin@e2e", "admin123", "ADMIN")
	seedUserRow(t, db, "cajero@e2e", "caja123", "CAJERO")

	smtpCB := infra.NewCircuitBreaker("smtp", infra.CircuitBreakerConfig{})
	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb), smtpCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:      srv,
		adminToken:  login(t, srv, "admin@e2e", "admin123"),
		cajeroToken: login(t, srv, "cajero@e2e", "caja123"),
	}
}

func seedUserRow(t *testing.T, db *gorm.DB, username, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, username, password_hash, role, active, created_at)
		 VALUES (gen_random_uuid(), ?, ?, ?, true, NOW())
		 ON CONFLICT DO NOTHING`,
		username, string(hash), role,
	).Error)
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	resp := do(t, srv, "POST", "/api/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func createProduct(t *testing.T, env *testEnv, name string, price float64, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/api/products",
		jsonBody(t, map[string]any{"name": name, "price": price, "stock": stock}),
		env.adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		Product struct {
			ID string `json:"id"`
		} `json:"product"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Product.ID)
	return body.Product.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_HealthReportsDependencies(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		OK          bool   `json:"ok"`
		DB          string `json:"db"`
		Redis       string `json:"redis"`
		SMTPBreaker string `json:"smtp_breaker"`
		AlertsDLQ   int64  `json:"alerts_dlq"`
	}
	decodeJSON(t, resp, &body)
	assert.True(t, body.OK)
	assert.Equal(t, "connected", body.DB)
	assert.Equal(t, "connected", body.Redis)
	assert.Equal(t, "closed", body.SMTPBreaker)
	assert.Zero(t, body.AlertsDLQ)
}

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	cafeID := createProduct(t, env, "Café 250g", 10.50, 20)
	azucarID := createProduct(t, env, "Azúcar 1kg", 15.00, 8)

	// Cashier sells 2 cafés + 1 azúcar
	resp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{"items": []map[string]any{
			{"id": cafeID, "qty": 2},
			{"id": azucarID, "qty": 1},
		}}),
		env.cajeroToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var saleBody struct {
		Success bool `json:"success"`
		Sale    struct {
			ID    string `json:"id"`
			Total string `json:"total"`
		} `json:"sale"`
	}
	decodeJSON(t, resp, &saleBody)
	assert.True(t, saleBody.Success)
	assert.Equal(t, "36", saleBody.Sale.Total)

	// Catalog reflects the decrement
	resp = do(t, env.server, "GET", "/api/products/"+cafeID, nil, env.cajeroToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prodBody struct {
		Product struct {
			Stock int `json:"stock"`
		} `json:"product"`
	}
	decodeJSON(t, resp, &prodBody)
	assert.Equal(t, 18, prodBody.Product.Stock)

	// Ledger has INGRESO (initial stock) + EGRESO (sale) for each product
	resp = do(t, env.server, "GET", "/api/stock-movements/product/"+cafeID, nil, env.cajeroToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movBody struct {
		Movements []struct {
			Type string `json:"movement_type"`
		} `json:"movements"`
	}
	decodeJSON(t, resp, &movBody)
	require.Len(t, movBody.Movements, 2)

	// Admin report picks up the sale
	resp = do(t, env.server, "GET", "/api/sales/reports/summary?period=today", nil, env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reportBody struct {
		Report struct {
			TotalIncome string `json:"totalIncome"`
			TopProducts []struct {
				Name string `json:"name"`
				Qty  int64  `json:"qty"`
			} `json:"topProducts"`
		} `json:"report"`
	}
	decodeJSON(t, resp, &reportBody)
	assert.Equal(t, "36", reportBody.Report.TotalIncome)
	require.NotEmpty(t, reportBody.Report.TopProducts)
	assert.Equal(t, "Café 250g", reportBody.Report.TopProducts[0].Name)
}

func TestE2E_InsufficientStockRollsBack(t *testing.T) {
	env := setupTestEnv(t)

	okID := createProduct(t, env, "Leche 1L", 5.00, 50)
	shortID := createProduct(t, env, "Pan lactal", 7.00, 2)

	resp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{"items": []map[string]any{
			{"id": okID, "qty": 3},
			{"id": shortID, "qty": 5},
		}}),
		env.cajeroToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// First line rolled back too
	resp = do(t, env.server, "GET", "/api/products/"+okID, nil, env.cajeroToken)
	var prodBody struct {
		Product struct {
			Stock int `json:"stock"`
		} `json:"product"`
	}
	decodeJSON(t, resp, &prodBody)
	assert.Equal(t, 50, prodBody.Product.Stock)

	// No sale recorded
	resp = do(t, env.server, "GET", "/api/sales", nil, env.adminToken)
	var listBody struct {
		Sales []any `json:"sales"`
	}
	decodeJSON(t, resp, &listBody)
	assert.Empty(t, listBody.Sales)
}

func TestE2E_InvalidCartLinesRejected(t *testing.T) {
	env := setupTestEnv(t)

	productID := createProduct(t, env, "Galletitas surtidas", 4.00, 5)

	// A product id that exists nowhere is a bad request, not a missing resource.
	resp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{"items": []map[string]any{
			{"id": uuid.NewString(), "qty": 1},
		}}),
		env.cajeroToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Same product split across two lines must be checked against the
	// combined quantity.
	resp = do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{"items": []map[string]any{
			{"id": productID, "qty": 3},
			{"id": productID, "qty": 3},
		}}),
		env.cajeroToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/api/products/"+productID, nil, env.cajeroToken)
	var prodBody struct {
		Product struct {
			Stock int `json:"stock"`
		} `json:"product"`
	}
	decodeJSON(t, resp, &prodBody)
	assert.Equal(t, 5, prodBody.Product.Stock)
}

// Two concurrent checkouts fight over the last units; row locks must let
// exactly one through.
func TestE2E_ConcurrentSalesNeverOversell(t *testing.T) {
	env := setupTestEnv(t)

	productID := createProduct(t, env, "Último stock", 10.00, 5)

	var wg sync.WaitGroup
	statuses := make([]int, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, "POST", "/api/sales",
				jsonBody(t, map[string]any{"items": []map[string]any{
					{"id": productID, "qty": 4},
				}}),
				env.cajeroToken)
			statuses[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	created := 0
	for _, s := range statuses {
		if s == http.StatusCreated {
			created++
		}
	}
	assert.Equal(t, 1, created, "exactly one of the competing sales must win")

	resp := do(t, env.server, "GET", "/api/products/"+productID, nil, env.cajeroToken)
	var prodBody struct {
		Product struct {
			Stock int `json:"stock"`
		} `json:"product"`
	}
	decodeJSON(t, resp, &prodBody)
	assert.Equal(t, 1, prodBody.Product.Stock)
}

func TestE2E_StockMovementsAndDerivedStock(t *testing.T) {
	env := setupTestEnv(t)

	productID := createProduct(t, env, "Harina 1kg", 4.00, 0)

	// INGRESO 30, EGRESO 7, AJUSTE -3
	for _, m := range []map[string]any{
		{"product_id": productID, "movement_type": "INGRESO", "quantity": 30, "reason": "Reposición"},
		{"product_id": productID, "movement_type": "EGRESO", "quantity": 7, "reason": "Merma"},
		{"product_id": productID, "movement_type": "AJUSTE", "quantity": -3, "reason": "Conteo físico"},
	} {
		resp := do(t, env.server, "POST", "/api/stock-movements", jsonBody(t, m), env.adminToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// EGRESO beyond derived stock rejected
	resp := do(t, env.server, "POST", "/api/stock-movements",
		jsonBody(t, map[string]any{"product_id": productID, "movement_type": "EGRESO", "quantity": 100}),
		env.adminToken)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Derived stock = 30 - 7 - 3 = 20
	resp = do(t, env.server, "GET", "/api/stock-movements/current-stock", nil, env.cajeroToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stockBody struct {
		Stock []struct {
			ID    string `json:"id"`
			Stock int64  `json:"stock"`
		} `json:"stock"`
	}
	decodeJSON(t, resp, &stockBody)
	found := false
	for _, row := range stockBody.Stock {
		if row.ID == productID {
			found = true
			assert.Equal(t, int64(20), row.Stock)
		}
	}
	assert.True(t, found)
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)

	// Cashier cannot create products
	resp := do(t, env.server, "POST", "/api/products",
		jsonBody(t, map[string]any{"name": "Prohibido", "price": 1.0}),
		env.cajeroToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Cashier cannot read reports
	resp = do(t, env.server, "GET", "/api/sales/reports/summary?period=all", nil, env.cajeroToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// No token at all → 401
	resp = do(t, env.server, "GET", "/api/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Bad period → 400
	resp = do(t, env.server, "GET", "/api/sales/reports/summary?period=ayer", nil, env.adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_SettingsRoundTrip(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "PUT", "/api/settings/shop_name",
		jsonBody(t, map[string]string{"value": "Tienda Zahir"}), env.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/api/settings/shop_name", nil, env.cajeroToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var getBody struct {
		Setting struct {
			Value string `json:"value"`
		} `json:"setting"`
	}
	decodeJSON(t, resp, &getBody)
	assert.Equal(t, "Tienda Zahir", getBody.Setting.Value)

	// Cashier cannot write settings
	resp = do(t, env.server, "PUT", "/api/settings/shop_name",
		jsonBody(t, map[string]string{"value": "hack"}), env.cajeroToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_ReceiptPDF(t *testing.T) {
	env := setupTestEnv(t)

	productID := createProduct(t, env, "Yerba 500g", 12.00, 10)
	resp := do(t, env.server, "POST", "/api/sales",
		jsonBody(t, map[string]any{"items": []map[string]any{{"id": productID, "qty": 1}}}),
		env.cajeroToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var saleBody struct {
		Sale struct {
			ID string `json:"id"`
		} `json:"sale"`
	}
	decodeJSON(t, resp, &saleBody)

	resp = do(t, env.server, "GET", fmt.Sprintf("/api/sales/%s/receipt", saleBody.Sale.ID), nil, env.cajeroToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ticket_")
	resp.Body.Close()
}
