package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmdesk/crmdesk/config"
	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/testkit"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	cfg := config.DefaultAppConfig()
	cfg.Web.CSRF = false
	a := NewApplication(cfg)
	a.OverrideDB(testkit.NewDB(t))
	t.Cleanup(func() { a.Bus().Wait() })
	return a
}

func TestSeedDemoData(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.SeedDemoData(ctx))
	require.NoError(t, a.SeedDemoData(ctx))

	report, err := a.CRM().Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoCustomers)), report.TotalCustomers)
	assert.Equal(t, 4, report.Orders.Count)

	user, err := a.Auth().Login(ctx, DefaultAdminUsername, DefaultAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdminUsername, user.Username)
}

func TestSeedKeepsExistingCustomers(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.DB().Create(&domain.Customer{ID: 1, Name: "Existing", Email: "existing@example.com"}).Error)
	require.NoError(t, a.SeedDemoData(ctx))

	report, err := a.CRM().Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.TotalCustomers)
}

func TestPurgeAuditLogs(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, a.OprLogs().Create(ctx, &domain.OprLog{OprName: "old", OptTime: now.AddDate(-2, 0, 0)}))
	require.NoError(t, a.OprLogs().Create(ctx, &domain.OprLog{OprName: "fresh", OptTime: now.AddDate(0, 0, -1)}))

	a.Config().System.AuditRetentionDays = 0
	n, err := a.PurgeAuditLogs(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	a.Config().System.AuditRetentionDays = 365
	n, err = a.PurgeAuditLogs(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	logs, err := a.OprLogs().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "fresh", logs[0].OprName)
}

func TestInitDbClearsData(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.SeedDemoData(ctx))

	a.InitDb()

	report, err := a.CRM().Report(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.TotalCustomers)
	assert.Zero(t, report.Orders.Count)
}

func TestNewWebServer(t *testing.T) {
	a := newTestApp(t)
	srv, err := a.NewWebServer()
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	cases := []struct {
		path   string
		status int
	}{
		{"/login", http.StatusOK},
		{"/register", http.StatusOK},
		{"/", http.StatusFound},
		{"/api/v1/report", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := client.Get(ts.URL + tc.path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestNewWebServerRejectsUnknownEngine(t *testing.T) {
	a := newTestApp(t)
	a.Config().Export.PdfEngine = "latex"
	_, err := a.NewWebServer()
	assert.Error(t, err)
}

func TestGetDatabaseSqlite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))

	db, err := getDatabase(config.DBConfig{Type: "sqlite", Name: "crm"}, dir)
	require.NoError(t, err)
	a := NewApplication(config.DefaultAppConfig())
	a.gormDB = db
	t.Cleanup(a.Release)

	require.NoError(t, a.MigrateDB(false))
	assert.True(t, db.Migrator().HasTable(&domain.Customer{}))
	assert.FileExists(t, filepath.Join(dir, "data", "crm.db"))
}

func TestGetDatabaseUnsupported(t *testing.T) {
	_, err := getDatabase(config.DBConfig{Type: "oracle"}, t.TempDir())
	assert.Error(t, err)
}

func TestSqlitePath(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", filepath.Join("/work", "data", "crmdesk.db")},
		{"crm", filepath.Join("/work", "data", "crm.db")},
		{"crm.sqlite", filepath.Join("/work", "data", "crm.sqlite")},
		{"/tmp/x.db", "/tmp/x.db"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqlitePath(tt.name, "/work"))
	}
}

func TestCronParser(t *testing.T) {
	for _, spec := range []string{"@daily", "0 3 * * *", "30 0 3 * * *"} {
		_, err := cronParser.Parse(spec)
		assert.NoError(t, err, spec)
	}
}
