package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultOrderStatus = "Pending"

// Transaction is an order placed by exactly one customer.
// Status is free text; Pending, Completed and Shipped are the usual values.
type Transaction struct {
	ID         int64           `gorm:"primaryKey;autoIncrement:false" json:"id,string" form:"id"`
	CustomerID int64           `gorm:"not null;index" json:"customer_id,string" form:"customer_id"`
	Product    string          `gorm:"size:200" json:"product" form:"product"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount" form:"amount"`
	Status     string          `gorm:"size:32;default:Pending" json:"status" form:"status"`
	OrderDate  time.Time       `gorm:"autoCreateTime;index" json:"order_date"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Customer only declares the foreign key constraint; it is never loaded.
	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-" form:"-"`
}

// TableName Specify table name
func (Transaction) TableName() string {
	return "transactions"
}
