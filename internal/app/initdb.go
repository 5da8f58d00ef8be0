package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/crm"
	"github.com/crmdesk/crmdesk/internal/domain"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "crmdesk"
)

type demoCustomer struct {
	crm.CustomerInput
	Orders []crm.OrderInput
}

var demoCustomers = []demoCustomer{
	{
		CustomerInput: crm.CustomerInput{Name: "Ada Lovelace", Email: "ada@acme.example", Phone: "555-0101", Company: "Acme"},
		Orders: []crm.OrderInput{
			{Product: "Analytical Engine", Amount: "1200.00", Status: "Completed"},
			{Product: "Punch cards", Amount: "45.50", Status: "Shipped"},
		},
	},
	{
		CustomerInput: crm.CustomerInput{Name: "Grace Hopper", Email: "grace@globex.example", Phone: "555-0102", Company: "Globex"},
		Orders: []crm.OrderInput{
			{Product: "Compiler license", Amount: "499.99"},
		},
	},
	{
		CustomerInput: crm.CustomerInput{Name: "Alan Turing", Email: "alan@acme.example", Company: "Acme"},
	},
	{
		CustomerInput: crm.CustomerInput{Name: "Katherine Johnson", Email: "katherine@initech.example", Phone: "555-0104", Company: "Initech"},
		Orders: []crm.OrderInput{
			{Product: "Trajectory study", Amount: "320.00", Status: "Completed"},
		},
	},
}

// SeedDemoData creates the default admin account and, on an empty customer
// table, a handful of demo customers with orders. Running it twice is harmless.
func (a *Application) SeedDemoData(ctx context.Context) error {
	if err := a.checkSuper(ctx); err != nil {
		return err
	}

	report, err := a.crmService.Report(ctx)
	if err != nil {
		return err
	}
	if report.TotalCustomers > 0 {
		zap.S().Infof("skip demo data, %d customers present", report.TotalCustomers)
		return nil
	}

	for _, demo := range demoCustomers {
		customer, err := a.crmService.CreateCustomer(ctx, demo.CustomerInput)
		if err != nil {
			return err
		}
		for _, order := range demo.Orders {
			order.CustomerID = customer.ID
			if _, err := a.crmService.CreateOrder(ctx, order); err != nil {
				return err
			}
		}
	}
	zap.S().Infof("seeded %d demo customers", len(demoCustomers))
	return nil
}

func (a *Application) checkSuper(ctx context.Context) error {
	_, err := a.authService.Register(ctx, DefaultAdminUsername, DefaultAdminPassword)
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return nil
	case err != nil:
		zap.L().Error("failed to create default admin", zap.Error(err))
		return err
	}
	zap.L().Info("initialized default admin account", zap.String("username", DefaultAdminUsername))
	return nil
}
