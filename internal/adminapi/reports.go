package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/webserver"
)

func (a *API) registerReportRoutes(s *webserver.Server) {
	s.ApiGET("/report", a.getReport, a.requireToken())
	s.ApiGET("/audit", a.listAudit, a.requireToken())
}

func (a *API) getReport(c echo.Context) error {
	report, err := a.crm.Report(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to build report", nil)
	}
	return ok(c, report)
}

// listAudit returns the newest operator log entries, at most 500
func (a *API) listAudit(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 500 {
		limit = 100
	}
	if claims, ok := webserver.TokenUser(c); ok {
		zap.L().Debug("audit log read", zap.String("username", claims.Username), zap.Int("limit", limit))
	}
	logs, err := a.logs.List(c.Request().Context(), limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query audit log", nil)
	}
	return ok(c, logs)
}
