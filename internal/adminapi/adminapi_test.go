package adminapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/crmdesk/config"
	"github.com/crmdesk/crmdesk/internal/auth"
	"github.com/crmdesk/crmdesk/internal/crm"
	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/internal/testkit"
	"github.com/crmdesk/crmdesk/internal/webserver"
	"github.com/crmdesk/crmdesk/pkg/common"
)

type apiEnv struct {
	t    *testing.T
	cfg  *config.AppConfig
	crm  *crm.Service
	logs repository.OprLogRepository
	srv  *webserver.Server
}

func newAPIEnv(t *testing.T) *apiEnv {
	db := testkit.NewDB(t)
	cfg := config.DefaultAppConfig()
	authService := auth.NewService(repository.NewGormUserRepository(db))
	crmService := crm.NewService(repository.NewGormCustomerRepository(db), repository.NewGormTransactionRepository(db))
	logs := repository.NewGormOprLogRepository(db)

	_, err := authService.Register(context.Background(), "api", "secret")
	require.NoError(t, err)

	srv := webserver.NewServer(cfg, nil)
	New(cfg.Web, authService, crmService, logs).Register(srv)
	return &apiEnv{t: t, cfg: cfg, crm: crmService, logs: logs, srv: srv}
}

func (e *apiEnv) do(method, path, token, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	e.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func (e *apiEnv) token() string {
	rec, out := e.do(http.MethodPost, "/api/v1/token", "", `{"username":"api","password":"secret"}`)
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	data := out["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestTokenEndpoint(t *testing.T) {
	env := newAPIEnv(t)

	rec, out := env.do(http.MethodPost, "/api/v1/token", "", `{"username":"api","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", out["code"])

	rec, out = env.do(http.MethodPost, "/api/v1/token", "", `{"username":"api"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", out["code"])

	assert.NotEmpty(t, env.token())
}

func TestEndpointsRequireToken(t *testing.T) {
	env := newAPIEnv(t)
	forged, err := common.CreateToken(1, "api", "not-the-secret", "crmdesk", time.Hour)
	require.NoError(t, err)
	expired, err := common.CreateToken(1, "api", env.cfg.Web.JwtSecret, "crmdesk", -time.Hour)
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/customers", "/api/v1/customers/1", "/api/v1/report", "/api/v1/audit"} {
		for _, token := range []string{"", forged, expired} {
			rec, out := env.do(http.MethodGet, path, token, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
			assert.Equal(t, "UNAUTHORIZED", out["code"], path)
		}
	}
}

func TestListCustomers(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	for i, company := range []string{"Acme", "Globex", "Acme"} {
		_, err := env.crm.CreateCustomer(ctx, crm.CustomerInput{
			Name: "Customer " + strconv.Itoa(i), Email: "c" + strconv.Itoa(i) + "@x.com", Company: company,
		})
		require.NoError(t, err)
	}
	token := env.token()

	rec, out := env.do(http.MethodGet, "/api/v1/customers?company=acme", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUCCESS", out["code"])
	data := out["data"].([]interface{})
	require.Len(t, data, 2)
	for _, item := range data {
		assert.Equal(t, "Acme", item.(map[string]interface{})["company"])
	}

	rec, out = env.do(http.MethodGet, "/api/v1/customers?page=2&page_size=2", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["data"], 1)
	meta := out["meta"].(map[string]interface{})
	assert.EqualValues(t, 3, meta["total"])
	assert.EqualValues(t, 2, meta["page"])

	rec, out = env.do(http.MethodGet, "/api/v1/customers?page=9", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, out["data"])
}

func TestGetCustomer(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	customer, err := env.crm.CreateCustomer(ctx, crm.CustomerInput{Name: "John", Email: "john@x.com"})
	require.NoError(t, err)
	_, err = env.crm.CreateOrder(ctx, crm.OrderInput{CustomerID: customer.ID, Product: "Laptop", Amount: "999.99"})
	require.NoError(t, err)
	token := env.token()

	rec, out := env.do(http.MethodGet, "/api/v1/customers/"+strconv.FormatInt(customer.ID, 10), token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, strconv.FormatInt(customer.ID, 10), data["id"])
	assert.Equal(t, "John", data["name"])
	orders := data["orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, "Laptop", orders[0].(map[string]interface{})["product"])
	assert.Equal(t, domain.DefaultOrderStatus, orders[0].(map[string]interface{})["status"])

	rec, out = env.do(http.MethodGet, "/api/v1/customers/424242", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", out["code"])

	rec, out = env.do(http.MethodGet, "/api/v1/customers/abc", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", out["code"])
}

func TestReportAndAudit(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()
	_, err := env.crm.CreateCustomer(ctx, crm.CustomerInput{Name: "A", Email: "a@x.com", Company: "Acme"})
	require.NoError(t, err)
	require.NoError(t, env.logs.Create(ctx, &domain.OprLog{OprName: "api", OptAction: "customer.create"}))
	token := env.token()

	rec, out := env.do(http.MethodGet, "/api/v1/report", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := out["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["total_customers"])
	assert.Len(t, data["recent"], 1)

	rec, out = env.do(http.MethodGet, "/api/v1/audit?limit=5", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	logs := out["data"].([]interface{})
	require.Len(t, logs, 1)
	assert.Equal(t, "customer.create", logs[0].(map[string]interface{})["opt_action"])
}

func TestUnknownAPIRouteIsJSON(t *testing.T) {
	env := newAPIEnv(t)
	rec, out := env.do(http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", out["code"])
}
