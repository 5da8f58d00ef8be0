package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/pkg/common"
)

// GormUserRepository is the GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		user.ID = common.UUIDint64()
	}
	err := r.db.WithContext(ctx).Create(user).Error
	return translate(err, domain.ErrDuplicateUsername, "create user")
}

func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err, nil, "query user")
	}
	return &user, nil
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err, nil, "query user")
	}
	return &user, nil
}

// GormCustomerRepository is the GORM implementation of CustomerRepository
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if customer.ID == 0 {
		customer.ID = common.UUIDint64()
	}
	err := r.db.WithContext(ctx).Create(customer).Error
	return translate(err, domain.ErrDuplicateEmail, "create customer")
}

func (r *GormCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"name":       customer.Name,
			"email":      customer.Email,
			"phone":      customer.Phone,
			"company":    customer.Company,
			"updated_at": time.Now(),
		}).Error
	return translate(err, domain.ErrDuplicateEmail, "update customer")
}

func (r *GormCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, translate(err, nil, "query customer")
	}
	return &customer, nil
}

func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Customer{}).Error
	if err != nil && isForeignKeyViolation(err) {
		return domain.ErrHasDependentOrders
	}
	return translate(err, nil, "delete customer")
}

func (r *GormCustomerRepository) List(ctx context.Context, filter CustomerFilter) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	query := filter.Apply(r.db.WithContext(ctx).Model(&domain.Customer{}))
	if err := query.Find(&customers).Error; err != nil {
		return nil, translate(err, nil, "query customers")
	}
	return customers, nil
}

func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).Count(&total).Error
	return total, translate(err, nil, "count customers")
}

func (r *GormCustomerRepository) CountByCompany(ctx context.Context) ([]CompanyCount, error) {
	var rows []CompanyCount
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).
		Select("company, COUNT(*) AS total").
		Group("company").
		Order("total DESC").
		Order("company ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil, "count customers by company")
	}
	return rows, nil
}

func (r *GormCustomerRepository) Recent(ctx context.Context, limit int) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, translate(err, nil, "query recent customers")
	}
	return customers, nil
}

// GormTransactionRepository is the GORM implementation of TransactionRepository
type GormTransactionRepository struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if tx.ID == 0 {
		tx.ID = common.UUIDint64()
	}
	err := r.db.WithContext(ctx).Omit("Customer").Create(tx).Error
	return translate(err, nil, "create transaction")
}

func (r *GormTransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("id = ?", tx.ID).
		Updates(map[string]interface{}{
			"product":    tx.Product,
			"amount":     tx.Amount,
			"status":     tx.Status,
			"updated_at": time.Now(),
		}).Error
	return translate(err, nil, "update transaction")
}

func (r *GormTransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tx).Error
	if err != nil {
		return nil, translate(err, nil, "query transaction")
	}
	return &tx, nil
}

func (r *GormTransactionRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Transaction{}).Error
	return translate(err, nil, "delete transaction")
}

func (r *GormTransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	err := r.db.WithContext(ctx).
		Order("order_date DESC").
		Order("id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, translate(err, nil, "query transactions")
	}
	return txs, nil
}

func (r *GormTransactionRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Order("id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, translate(err, nil, "query customer transactions")
	}
	return txs, nil
}

func (r *GormTransactionRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error
	return total, translate(err, nil, "count customer transactions")
}

func (r *GormTransactionRepository) Amounts(ctx context.Context) ([]decimal.Decimal, error) {
	var txs []*domain.Transaction
	err := r.db.WithContext(ctx).Select("id", "amount").Find(&txs).Error
	if err != nil {
		return nil, translate(err, nil, "query transaction amounts")
	}
	amounts := make([]decimal.Decimal, 0, len(txs))
	for _, tx := range txs {
		amounts = append(amounts, tx.Amount)
	}
	return amounts, nil
}

// GormOprLogRepository is the GORM implementation of OprLogRepository
type GormOprLogRepository struct {
	db *gorm.DB
}

func NewGormOprLogRepository(db *gorm.DB) *GormOprLogRepository {
	return &GormOprLogRepository{db: db}
}

func (r *GormOprLogRepository) Create(ctx context.Context, log *domain.OprLog) error {
	if log.ID == 0 {
		log.ID = common.UUIDint64()
	}
	if log.OptTime.IsZero() {
		log.OptTime = time.Now()
	}
	return translate(r.db.WithContext(ctx).Create(log).Error, nil, "create opr log")
}

func (r *GormOprLogRepository) List(ctx context.Context, limit int) ([]*domain.OprLog, error) {
	var logs []*domain.OprLog
	err := r.db.WithContext(ctx).Order("opt_time DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, translate(err, nil, "query opr logs")
	}
	return logs, nil
}

func (r *GormOprLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("opt_time < ?", cutoff).Delete(&domain.OprLog{})
	return result.RowsAffected, translate(result.Error, nil, "purge opr logs")
}
