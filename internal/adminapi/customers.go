package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/internal/webserver"
)

type customerDetail struct {
	*domain.Customer
	Orders []*domain.Transaction `json:"orders"`
}

func (a *API) registerCustomerRoutes(s *webserver.Server) {
	s.ApiGET("/customers", a.listCustomers, a.requireToken())
	s.ApiGET("/customers/:id", a.getCustomer, a.requireToken())
}

// listCustomers applies the same search, company and date_sort filter as the web list
//
// @Summary list customers
// @Tags Customers
// @Param search query string false "name, email or company contains"
// @Param company query string false "company contains"
// @Param date_sort query string false "asc or desc"
// @Param page query int false "Page number"
// @Param page_size query int false "Items per page"
// @Router /api/v1/customers [get]
func (a *API) listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := repository.ParseCustomerFilter(c.QueryParam("search"), c.QueryParam("company"), c.QueryParam("date_sort"))

	customers, err := a.crm.ListCustomers(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", nil)
	}

	total := int64(len(customers))
	start := (page - 1) * pageSize
	if start > len(customers) {
		start = len(customers)
	}
	end := start + pageSize
	if end > len(customers) {
		end = len(customers)
	}
	return paged(c, customers[start:end], total, page, pageSize)
}

func (a *API) getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	ctx := c.Request().Context()
	customer, err := a.crm.GetCustomer(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", nil)
	}

	orders, err := a.crm.CustomerOrders(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", nil)
	}
	return ok(c, customerDetail{Customer: customer, Orders: orders})
}
