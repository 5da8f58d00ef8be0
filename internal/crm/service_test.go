package crm

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/internal/testkit"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	db := testkit.NewDB(t)
	return NewService(repository.NewGormCustomerRepository(db), repository.NewGormTransactionRepository(db)), db
}

func mustCustomer(t *testing.T, svc *Service, name, email, company string) *domain.Customer {
	t.Helper()
	c, err := svc.CreateCustomer(context.Background(), CustomerInput{Name: name, Email: email, Company: company})
	require.NoError(t, err)
	return c
}

func TestCreateCustomerValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CustomerInput
	}{
		{"missing name", CustomerInput{Email: "a@b.com"}},
		{"blank name", CustomerInput{Name: "   ", Email: "a@b.com"}},
		{"missing email", CustomerInput{Name: "A"}},
		{"bad email", CustomerInput{Name: "A", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(ctx, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	c, err := svc.CreateCustomer(ctx, CustomerInput{Name: " Ann ", Email: "ann@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.Name)
	assert.Empty(t, c.Phone)
	assert.Empty(t, c.Company)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestDuplicateEmailIsSurfaced(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	mustCustomer(t, svc, "A", "dup@x.com", "")

	_, err := svc.CreateCustomer(ctx, CustomerInput{Name: "B", Email: "dup@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	var n int64
	require.NoError(t, db.Model(&domain.Customer{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestUpdateCustomer(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := mustCustomer(t, svc, "A", "a@x.com", "Acme")
	mustCustomer(t, svc, "B", "b@x.com", "")

	updated, err := svc.UpdateCustomer(ctx, c.ID, CustomerInput{Name: "A2", Email: "a2@x.com", Phone: "1", Company: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, "Globex", updated.Company)

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Name)
	assert.Equal(t, "a2@x.com", got.Email)

	_, err = svc.UpdateCustomer(ctx, c.ID, CustomerInput{Name: "A2", Email: "b@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = svc.UpdateCustomer(ctx, 999, CustomerInput{Name: "X", Email: "x@x.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCustomerWithOrdersIsRefused(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := mustCustomer(t, svc, "A", "a@x.com", "")
	order, err := svc.CreateOrder(ctx, OrderInput{CustomerID: c.ID, Product: "Widget", Amount: "10"})
	require.NoError(t, err)

	_, err = svc.DeleteCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrHasDependentOrders)
	_, err = svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err, "customer must survive a refused delete")

	_, err = svc.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)
	_, err = svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err, "deleting an order leaves its customer")

	deleted, err := svc.DeleteCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, deleted.ID)

	_, err = svc.DeleteCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderAmountValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := mustCustomer(t, svc, "A", "a@x.com", "")

	for _, raw := range []string{"", "abc", "-1", "1,5", "NaN"} {
		_, err := svc.CreateOrder(ctx, OrderInput{CustomerID: c.ID, Product: "P", Amount: raw})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %q", raw)
	}

	order, err := svc.CreateOrder(ctx, OrderInput{CustomerID: c.ID, Product: "P", Amount: "0"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOrderStatus, order.Status)

	_, err = svc.CreateOrder(ctx, OrderInput{CustomerID: 424242, Product: "P", Amount: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateOrderKeepsCustomer(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := mustCustomer(t, svc, "Owner", "owner@x.com", "")
	other := mustCustomer(t, svc, "Other", "other@x.com", "")
	order, err := svc.CreateOrder(ctx, OrderInput{CustomerID: owner.ID, Product: "Widget", Amount: "10.00"})
	require.NoError(t, err)

	_, err = svc.UpdateOrder(ctx, order.ID, OrderInput{CustomerID: other.ID, Product: "Widget", Amount: "12.75", Status: "Shipped"})
	require.NoError(t, err)

	orders, err := svc.CustomerOrders(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Shipped", orders[0].Status)
	assert.True(t, orders[0].Amount.Equal(decimal.RequireFromString("12.75")))
	assert.Equal(t, owner.ID, orders[0].CustomerID)

	_, err = svc.UpdateOrder(ctx, order.ID, OrderInput{Product: "Widget", Amount: "-3"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.UpdateOrder(ctx, 777, OrderInput{Amount: "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.CustomerOrders(ctx, 777)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReport(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	companies := []string{"Acme", "Acme", "Globex", "Acme", "", "Globex", "Initech"}
	var last *domain.Customer
	for i, company := range companies {
		c := mustCustomer(t, svc, "C"+string(rune('A'+i)), string(rune('a'+i))+"@x.com", company)
		require.NoError(t, db.Model(&domain.Customer{}).Where("id = ?", c.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
		last = c
	}
	for _, amount := range []string{"10", "20", "60"} {
		_, err := svc.CreateOrder(ctx, OrderInput{CustomerID: last.ID, Product: "P", Amount: amount})
		require.NoError(t, err)
	}

	report, err := svc.Report(ctx)
	require.NoError(t, err)

	var rows int64
	require.NoError(t, db.Model(&domain.Customer{}).Count(&rows).Error)
	assert.Equal(t, rows, report.TotalCustomers)

	assert.Equal(t, []repository.CompanyCount{
		{Company: "Acme", Total: 3},
		{Company: "Globex", Total: 2},
		{Company: "", Total: 1},
		{Company: "Initech", Total: 1},
	}, report.ByCompany)

	require.Len(t, report.Recent, RecentLimit)
	assert.Equal(t, "CG", report.Recent[0].Name)
	assert.Equal(t, "CC", report.Recent[4].Name)

	assert.Equal(t, OrderStats{Count: 3, Sum: 90, Mean: 30, Median: 20}, report.Orders)
}

func TestReportEmpty(t *testing.T) {
	svc, _ := newService(t)
	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.TotalCustomers)
	assert.Empty(t, report.Recent)
	assert.Equal(t, OrderStats{}, report.Orders)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount(" 19.999 ")
	require.NoError(t, err)
	assert.Equal(t, "20", amount.String())

	amount, err = ParseAmount("5.5")
	require.NoError(t, err)
	assert.Equal(t, "5.50", amount.StringFixed(2))
}
