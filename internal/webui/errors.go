package webui

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/webserver"
)

// handleError turns domain errors into a flash plus redirect. Missing records
// become a 404 page and anything unexpected goes to the error handler.
func (h *Handler) handleError(c echo.Context, err error, back string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Record not found")
	case errors.Is(err, domain.ErrDuplicateEmail):
		return h.redirect(c, webserver.FlashDanger, "A customer with this email already exists.", back)
	case errors.Is(err, domain.ErrHasDependentOrders):
		return h.redirect(c, webserver.FlashDanger, "Cannot delete customer with existing orders.", back)
	case errors.Is(err, domain.ErrInvalidAmount):
		return h.redirect(c, webserver.FlashDanger, "Amount must be a non-negative number.", back)
	case errors.Is(err, domain.ErrValidation):
		return h.redirect(c, webserver.FlashDanger, "Invalid input: "+err.Error(), back)
	default:
		return err
	}
}
