package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crmdesk/crmdesk/internal/domain"
)

// CompanyCount is one row of the per-company customer report
type CompanyCount struct {
	Company string `json:"company"`
	Total   int64  `json:"total"`
}

// UserRepository handles login identities
type UserRepository interface {
	// Create inserts a user; a taken username yields domain.ErrDuplicateUsername
	Create(ctx context.Context, user *domain.User) error

	GetByID(ctx context.Context, id int64) (*domain.User, error)

	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// CustomerRepository handles customer records
type CustomerRepository interface {
	// Create inserts a customer; a taken email yields domain.ErrDuplicateEmail
	Create(ctx context.Context, customer *domain.Customer) error

	// Update overwrites an existing customer
	Update(ctx context.Context, customer *domain.Customer) error

	GetByID(ctx context.Context, id int64) (*domain.Customer, error)

	Delete(ctx context.Context, id int64) error

	// List returns every customer matching the filter, in filter order
	List(ctx context.Context, filter CustomerFilter) ([]*domain.Customer, error)

	Count(ctx context.Context) (int64, error)

	CountByCompany(ctx context.Context) ([]CompanyCount, error)

	// Recent returns the newest customers first
	Recent(ctx context.Context, limit int) ([]*domain.Customer, error)
}

// TransactionRepository handles orders
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error

	// Update overwrites product, amount and status; the owning customer never changes
	Update(ctx context.Context, tx *domain.Transaction) error

	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)

	Delete(ctx context.Context, id int64) error

	// List returns all orders, newest first
	List(ctx context.Context) ([]*domain.Transaction, error)

	// ListByCustomer returns the orders owned by one customer, newest first
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Transaction, error)

	CountByCustomer(ctx context.Context, customerID int64) (int64, error)

	// Amounts returns the amount of every order
	Amounts(ctx context.Context) ([]decimal.Decimal, error)
}

// OprLogRepository handles the operator audit trail
type OprLogRepository interface {
	Create(ctx context.Context, log *domain.OprLog) error

	// List returns the newest entries first
	List(ctx context.Context, limit int) ([]*domain.OprLog, error)

	// DeleteBefore removes entries older than the cutoff and reports how many were removed
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
