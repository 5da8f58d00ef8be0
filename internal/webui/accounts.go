package webui

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/auth"
	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/events"
	"github.com/crmdesk/crmdesk/internal/webserver"
)

type credentials struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *Handler) loginPage(c echo.Context) error {
	if _, ok := webserver.CurrentUser(c); ok {
		return c.Redirect(http.StatusFound, "/")
	}
	return h.render(c, http.StatusOK, "login.html", "Login", echo.Map{"Username": ""})
}

func (h *Handler) login(c echo.Context) error {
	var form credentials
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid login form")
	}

	user, err := h.auth.Login(c.Request().Context(), form.Username, form.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		zap.L().Info("login failed", zap.String("username", form.Username), zap.String("ip", c.RealIP()))
		_ = webserver.AddFlash(c, webserver.FlashDanger, "Invalid username or password")
		return h.render(c, http.StatusOK, "login.html", "Login", echo.Map{"Username": form.Username})
	} else if err != nil {
		return err
	}

	if err := webserver.Login(c, user.ID, user.Username); err != nil {
		return err
	}
	h.audit(c, events.ActionLogin, user.Username)
	return h.redirect(c, webserver.FlashSuccess, "Logged in successfully.", "/")
}

func (h *Handler) logout(c echo.Context) error {
	if user, ok := webserver.CurrentUser(c); ok {
		h.audit(c, events.ActionLogout, user.Username)
	}
	if err := webserver.Logout(c); err != nil {
		return err
	}
	return h.redirect(c, webserver.FlashInfo, "Logged out successfully.", "/login")
}

func (h *Handler) registerPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "register.html", "Register", nil)
}

func (h *Handler) register(c echo.Context) error {
	var form credentials
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid registration form")
	}

	user, err := h.auth.Register(c.Request().Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return h.redirect(c, webserver.FlashDanger, "Username and password are required.", "/register")
	case errors.Is(err, domain.ErrPasswordTooLong):
		return h.redirect(c, webserver.FlashDanger,
			fmt.Sprintf("Password must be at most %d bytes long.", auth.MaxPasswordLength), "/register")
	case errors.Is(err, domain.ErrDuplicateUsername):
		return h.redirect(c, webserver.FlashDanger, "Username already exists.", "/register")
	case err != nil:
		return err
	}

	h.bus.PublishAudit(events.Audit{Operator: user.Username, IP: c.RealIP(), Action: events.ActionRegister, Detail: user.Username})
	return h.redirect(c, webserver.FlashSuccess, "User registered successfully! Please log in.", "/login")
}
