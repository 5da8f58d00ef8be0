package domain

import (
	"time"
)

// OprLog operator audit record
type OprLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	OprName   string    `gorm:"size:100;index" json:"opr_name"`
	OprIp     string    `gorm:"size:64" json:"opr_ip"`
	OptAction string    `gorm:"size:64" json:"opt_action"`
	OptDesc   string    `gorm:"size:512" json:"opt_desc"`
	OptTime   time.Time `gorm:"index" json:"opt_time"`
}

// TableName Specify table name
func (OprLog) TableName() string {
	return "opr_logs"
}
