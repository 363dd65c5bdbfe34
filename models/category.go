package models

import (
	"time"

	"gorm.io/gorm"
)

// 交易/类别的收支类型常量
const (
	TypeIncome  = "income"  // 收入
	TypeExpense = "expense" // 支出
)

// TypeLabel 返回收支类型的人类可读名称
func TypeLabel(typ string) string {
	switch typ {
	case TypeIncome:
		return "收入"
	case TypeExpense:
		return "支出"
	default:
		return typ
	}
}

// Category 收支类别
// 默认类别为全局数据（UserID 为 NULL，IsDefault 为 true），不可修改、不可删除
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:50;not null"`
	Type      string         `json:"type" gorm:"size:10;not null;index"` // income/expense
	Color     string         `json:"color" gorm:"size:20;default:#64748b"` // 颜色代码，如 #4CAF50
	UserID    *uint          `json:"user_id" gorm:"index"`                 // NULL 表示全局默认类别
	IsDefault bool           `json:"is_default" gorm:"default:false;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}

// OwnerID 返回类别归属用户ID，默认类别（无归属）返回 0
// 统一归属判断入口，调用方不需要关心 User 是否已预加载
func (c *Category) OwnerID() uint {
	if c.UserID == nil {
		return 0
	}
	return *c.UserID
}

// OwnedBy 判断类别是否归属于指定用户
func (c *Category) OwnedBy(userID uint) bool {
	return c.UserID != nil && *c.UserID == userID
}

// DefaultCategories 固定的默认类别目录
// 种子数据，名称/类型/颜色的取值不可随意变更
func DefaultCategories() []Category {
	return []Category{
		{Name: "Maaş", Type: TypeIncome, Color: "#4CAF50", IsDefault: true},
		{Name: "Bonus", Type: TypeIncome, Color: "#8BC34A", IsDefault: true},
		{Name: "Yemek", Type: TypeExpense, Color: "#FF5722", IsDefault: true},
		{Name: "Ulaşım", Type: TypeExpense, Color: "#2196F3", IsDefault: true},
		{Name: "Alışveriş", Type: TypeExpense, Color: "#9C27B0", IsDefault: true},
		{Name: "Fatura", Type: TypeExpense, Color: "#FF9800", IsDefault: true},
	}
}
