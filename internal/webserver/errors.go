package webserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const ErrorTemplate = "error.html"

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// NewErrorHandler answers API requests with ErrorResponse and browsers with
// the error page. Server errors are logged and never leak their cause.
func NewErrorHandler(html bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = fmt.Sprint(he.Message)
		}
		if status >= http.StatusInternalServerError {
			zap.L().Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err))
			message = http.StatusText(status)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else if !html || isAPIRequest(c) {
			err = c.JSON(status, ErrorResponse{Code: statusCode(status), Message: message})
		} else {
			data := map[string]interface{}{
				"Title":   http.StatusText(status),
				"Status":  status,
				"Message": message,
				"User":    nil,
				"Flashes": nil,
				"CSRF":    CSRFToken(c),
			}
			if user, ok := CurrentUser(c); ok {
				data["User"] = user
			}
			err = c.Render(status, ErrorTemplate, data)
			if err != nil {
				err = c.String(status, message)
			}
		}
		if err != nil {
			zap.L().Error("write error response", zap.Error(err))
		}
	}
}

func statusCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
