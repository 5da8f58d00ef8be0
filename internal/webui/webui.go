// Package webui serves the server-rendered CRM pages.
package webui

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/crmdesk/crmdesk/internal/auth"
	"github.com/crmdesk/crmdesk/internal/crm"
	"github.com/crmdesk/crmdesk/internal/events"
	"github.com/crmdesk/crmdesk/internal/export"
	"github.com/crmdesk/crmdesk/internal/webserver"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(export.TimeLayout)
	},
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
}

// NewRenderer parses the embedded page templates
func NewRenderer() (*webserver.TemplateRenderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	return webserver.NewTemplateRenderer(sub, "layout.html", templateFuncs)
}

type Handler struct {
	auth *auth.Service
	crm  *crm.Service
	pdf  export.Engine
	bus  *events.Bus
	now  func() time.Time
}

func NewHandler(authService *auth.Service, crmService *crm.Service, pdf export.Engine, bus *events.Bus) *Handler {
	return &Handler{
		auth: authService,
		crm:  crmService,
		pdf:  pdf,
		bus:  bus,
		now:  time.Now,
	}
}

// Register mounts every page. Everything except login, logout and
// registration requires a session.
func (h *Handler) Register(s *webserver.Server) {
	s.GET("/login", h.loginPage)
	s.POST("/login", h.login)
	s.GET("/logout", h.logout)
	s.GET("/register", h.registerPage)
	s.POST("/register", h.register)

	login := webserver.RequireLogin("/login")
	s.GET("/", h.index, login)
	s.POST("/add", h.addCustomer, login)
	s.GET("/edit/:id", h.editPage, login)
	s.POST("/edit/:id", h.editCustomer, login)
	s.POST("/edit_customer/:id", h.editCustomer, login)
	s.POST("/delete/:id", h.deleteCustomer, login)
	s.POST("/delete_customer/:id", h.deleteCustomer, login)
	s.GET("/customers/:id", h.customerPage, login)

	s.POST("/add_order", h.addOrder, login)
	s.POST("/edit_order/:id", h.editOrder, login)
	s.POST("/delete_order/:id", h.deleteOrder, login)

	s.GET("/report", h.report, login)
	s.GET("/export/csv", h.exportCSV, login)
	s.GET("/export/pdf", h.exportPDF, login)
	s.GET("/export/xlsx", h.exportXLSX, login)
}

// render fills the keys the layout reads and renders a page
func (h *Handler) render(c echo.Context, status int, name, title string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	data["Title"] = title
	data["Flashes"] = webserver.Flashes(c)
	data["CSRF"] = webserver.CSRFToken(c)
	if user, ok := webserver.CurrentUser(c); ok {
		data["User"] = user
	} else {
		data["User"] = nil
	}
	return c.Render(status, name, data)
}

func (h *Handler) redirect(c echo.Context, category, message, to string) error {
	if message != "" {
		_ = webserver.AddFlash(c, category, message)
	}
	return c.Redirect(http.StatusFound, to)
}

func (h *Handler) audit(c echo.Context, action, detail string) {
	operator := ""
	if user, ok := webserver.CurrentUser(c); ok {
		operator = user.Username
	}
	h.bus.PublishAudit(events.Audit{
		Operator: operator,
		IP:       c.RealIP(),
		Action:   action,
		Detail:   detail,
	})
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Record not found")
	}
	return id, nil
}
