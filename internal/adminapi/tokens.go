package adminapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/webserver"
	"github.com/crmdesk/crmdesk/pkg/common"
)

const tokenIssuer = "crmdesk"

type tokenPayload struct {
	Username string `json:"username" form:"username" validate:"required,max=100"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a *API) registerTokenRoutes(s *webserver.Server) {
	s.ApiPOST("/token", a.createToken)
}

// createToken exchanges credentials for a bearer token
//
// @Summary issue an API token
// @Tags Auth
// @Param body body tokenPayload true "credentials"
// @Success 200 {object} tokenResponse
// @Router /api/v1/token [post]
func (a *API) createToken(c echo.Context) error {
	var payload tokenPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	user, err := a.auth.Login(c.Request().Context(), payload.Username, payload.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		zap.L().Error("token login failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to verify credentials", nil)
	}

	expire := time.Duration(a.cfg.JwtExpireHours) * time.Hour
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	token, err := common.CreateToken(user.ID, user.Username, a.cfg.JwtSecret, tokenIssuer, expire)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", nil)
	}
	return ok(c, tokenResponse{Token: token, ExpiresAt: time.Now().Add(expire).UTC()})
}
