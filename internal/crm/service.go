// Package crm implements customer and order management plus the summary report.
package crm

import (
	"context"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/repository"
)

// RecentLimit is how many customers the report lists as most recently added
const RecentLimit = 5

type Service struct {
	customers    repository.CustomerRepository
	transactions repository.TransactionRepository
}

func NewService(customers repository.CustomerRepository, transactions repository.TransactionRepository) *Service {
	return &Service{customers: customers, transactions: transactions}
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	customer := &domain.Customer{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Company: in.Company,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	customer.Name = in.Name
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Company = in.Company
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer refuses with ErrHasDependentOrders while the customer owns any order.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.transactions.CountByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if orders > 0 {
		zap.L().Info("customer delete refused",
			zap.Int64("customer_id", id), zap.Int64("orders", orders))
		return nil, domain.ErrHasDependentOrders
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, filter repository.CustomerFilter) ([]*domain.Customer, error) {
	return s.customers.List(ctx, filter)
}

// CustomerOrders returns the customer's orders; a missing customer is ErrNotFound.
func (s *Service) CustomerOrders(ctx context.Context, id int64) ([]*domain.Transaction, error) {
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.transactions.ListByCustomer(ctx, id)
}

func (s *Service) CreateOrder(ctx context.Context, in OrderInput) (*domain.Transaction, error) {
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}
	tx := &domain.Transaction{
		CustomerID: in.CustomerID,
		Product:    in.Product,
		Amount:     amount,
		Status:     in.Status,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// UpdateOrder overwrites product, amount and status. The owning customer is kept.
func (s *Service) UpdateOrder(ctx context.Context, id int64, in OrderInput) (*domain.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	tx.Product = in.Product
	tx.Amount = amount
	tx.Status = in.Status
	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) (*domain.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transactions.Delete(ctx, id); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Transaction, error) {
	return s.transactions.List(ctx)
}

// Report is computed on demand and never stored.
type Report struct {
	TotalCustomers int64                     `json:"total_customers"`
	ByCompany      []repository.CompanyCount `json:"by_company"`
	Recent         []*domain.Customer        `json:"recent"`
	Orders         OrderStats                `json:"orders"`
}

type OrderStats struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

func (s *Service) Report(ctx context.Context) (*Report, error) {
	total, err := s.customers.Count(ctx)
	if err != nil {
		return nil, err
	}
	byCompany, err := s.customers.CountByCompany(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.customers.Recent(ctx, RecentLimit)
	if err != nil {
		return nil, err
	}
	amounts, err := s.transactions.Amounts(ctx)
	if err != nil {
		return nil, err
	}
	return &Report{
		TotalCustomers: total,
		ByCompany:      byCompany,
		Recent:         recent,
		Orders:         orderStats(amounts),
	}, nil
}

func orderStats(amounts []decimal.Decimal) OrderStats {
	if len(amounts) == 0 {
		return OrderStats{}
	}
	data := make(stats.Float64Data, 0, len(amounts))
	for _, a := range amounts {
		data = append(data, a.InexactFloat64())
	}
	sum, _ := data.Sum()
	mean, _ := data.Mean()
	median, _ := data.Median()
	round := func(v float64) float64 {
		r, _ := stats.Round(v, 2)
		return r
	}
	return OrderStats{
		Count:  len(data),
		Sum:    round(sum),
		Mean:   round(mean),
		Median: round(median),
	}
}
