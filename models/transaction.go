package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction 交易记录模型
// Type 必须与所引用类别的 Type 一致，写入时由 service 层校验
type Transaction struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Amount      float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Description string         `json:"description" gorm:"size:255"`
	Type        string         `json:"type" gorm:"size:10;not null;index"` // income/expense
	CategoryID  uint           `json:"category_id" gorm:"index;not null"`
	Date        time.Time      `json:"date" gorm:"column:transaction_date;not null;index"` // 交易发生时间
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Category    *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	User        *User          `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}
