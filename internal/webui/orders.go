package webui

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/crmdesk/internal/crm"
	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/events"
	"github.com/crmdesk/crmdesk/internal/webserver"
)

func (h *Handler) addOrder(c echo.Context) error {
	var in crm.OrderInput
	if err := c.Bind(&in); err != nil {
		return h.redirect(c, webserver.FlashDanger, "Invalid order form.", "/")
	}
	order, err := h.crm.CreateOrder(c.Request().Context(), in)
	if err != nil {
		return h.handleError(c, err, "/")
	}
	h.audit(c, events.ActionCreateOrder, describeOrder(order))
	return h.redirect(c, webserver.FlashSuccess, "Order added successfully!", "/")
}

func (h *Handler) editOrder(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in crm.OrderInput
	if err := c.Bind(&in); err != nil {
		return h.redirect(c, webserver.FlashDanger, "Invalid order form.", "/")
	}
	order, err := h.crm.UpdateOrder(c.Request().Context(), id, in)
	if err != nil {
		return h.handleError(c, err, "/")
	}
	h.audit(c, events.ActionUpdateOrder, describeOrder(order))
	return h.redirect(c, webserver.FlashSuccess, "Order updated successfully!", "/")
}

func (h *Handler) deleteOrder(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	order, err := h.crm.DeleteOrder(c.Request().Context(), id)
	if err != nil {
		return h.handleError(c, err, "/")
	}
	h.audit(c, events.ActionDeleteOrder, describeOrder(order))
	return h.redirect(c, webserver.FlashSuccess, "Order deleted successfully!", "/")
}

func describeOrder(t *domain.Transaction) string {
	return fmt.Sprintf("id=%d customer=%d product=%s amount=%s status=%s",
		t.ID, t.CustomerID, t.Product, t.Amount.StringFixed(2), t.Status)
}
