package domain

import "time"

// Customer is a CRM contact. Phone and company are optional.
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string" form:"id"`
	Name      string    `gorm:"size:200;not null" json:"name" form:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email" form:"email"`
	Phone     string    `gorm:"size:64" json:"phone" form:"phone"`
	Company   string    `gorm:"size:200;index" json:"company" form:"company"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "customers"
}
