package webui

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/crmdesk/internal/crm"
	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/events"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/internal/webserver"
)

// customerFilter reads search, company and date_sort the same way for every view
func customerFilter(c echo.Context) repository.CustomerFilter {
	return repository.ParseCustomerFilter(c.QueryParam("search"), c.QueryParam("company"), c.QueryParam("date_sort"))
}

func exportURL(format string, f repository.CustomerFilter) template.URL {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Company != "" {
		q.Set("company", f.Company)
	}
	q.Set("date_sort", string(f.Sort))
	return template.URL("/export/" + format + "?" + q.Encode())
}

func (h *Handler) index(c echo.Context) error {
	ctx := c.Request().Context()
	filter := customerFilter(c)

	customers, err := h.crm.ListCustomers(ctx, filter)
	if err != nil {
		return err
	}
	all := customers
	if !filter.IsZero() {
		if all, err = h.crm.ListCustomers(ctx, repository.ParseCustomerFilter("", "", "")); err != nil {
			return err
		}
	}
	orders, err := h.crm.ListOrders(ctx)
	if err != nil {
		return err
	}

	names := make(map[int64]string, len(all))
	for _, customer := range all {
		names[customer.ID] = customer.Name
	}

	return h.render(c, http.StatusOK, "index.html", "Customers", echo.Map{
		"Filter":        filter,
		"Customers":     customers,
		"AllCustomers":  all,
		"CustomerNames": names,
		"Orders":        orders,
		"ExportCSV":     exportURL("csv", filter),
		"ExportPDF":     exportURL("pdf", filter),
		"ExportXLSX":    exportURL("xlsx", filter),
	})
}

func (h *Handler) addCustomer(c echo.Context) error {
	var in crm.CustomerInput
	if err := c.Bind(&in); err != nil {
		return h.redirect(c, webserver.FlashDanger, "Invalid customer form.", "/")
	}
	customer, err := h.crm.CreateCustomer(c.Request().Context(), in)
	if err != nil {
		return h.handleError(c, err, "/")
	}
	h.audit(c, events.ActionCreateCustomer, describeCustomer(customer))
	return h.redirect(c, webserver.FlashSuccess, "Customer added successfully!", "/")
}

func (h *Handler) editPage(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	customer, err := h.crm.GetCustomer(c.Request().Context(), id)
	if err != nil {
		return h.handleError(c, err, "/")
	}
	return h.render(c, http.StatusOK, "edit.html", "Edit Customer", echo.Map{"Customer": customer})
}

func (h *Handler) editCustomer(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in crm.CustomerInput
	if err := c.Bind(&in); err != nil {
		return h.redirect(c, webserver.FlashDanger, "Invalid customer form.", "/")
	}
	customer, err := h.crm.UpdateCustomer(c.Request().Context(), id, in)
	if err != nil {
		return h.handleError(c, err, fmt.Sprintf("/edit/%d", id))
	}
	h.audit(c, events.ActionUpdateCustomer, describeCustomer(customer))
	return h.redirect(c, webserver.FlashSuccess, "Customer updated successfully!", "/")
}

func (h *Handler) deleteCustomer(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	customer, err := h.crm.DeleteCustomer(c.Request().Context(), id)
	if err != nil {
		return h.handleError(c, err, "/")
	}
	h.audit(c, events.ActionDeleteCustomer, describeCustomer(customer))
	return h.redirect(c, webserver.FlashSuccess, "Customer deleted successfully!", "/")
}

func (h *Handler) customerPage(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	customer, err := h.crm.GetCustomer(ctx, id)
	if err != nil {
		return h.handleError(c, err, "/")
	}
	orders, err := h.crm.CustomerOrders(ctx, id)
	if err != nil {
		return h.handleError(c, err, "/")
	}
	return h.render(c, http.StatusOK, "customer.html", customer.Name, echo.Map{
		"Customer": customer,
		"Orders":   orders,
	})
}

func (h *Handler) report(c echo.Context) error {
	report, err := h.crm.Report(c.Request().Context())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, "report.html", "Report", echo.Map{"Report": report})
}

func describeCustomer(c *domain.Customer) string {
	return fmt.Sprintf("id=%d name=%s email=%s", c.ID, c.Name, c.Email)
}
