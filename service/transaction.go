package service

import (
	"errors"
	"strings"
	"time"

	"butce/database"
	"butce/models"

	"gorm.io/gorm"
)

// TransactionService 交易服务
// 写入时校验类别存在性与收支类型一致性，违规写入直接拒绝
type TransactionService struct{}

// NewTransactionService 创建交易服务
func NewTransactionService() *TransactionService {
	return &TransactionService{}
}

// CreateTransactionInput 创建交易入参
type CreateTransactionInput struct {
	Amount      float64
	Type        string
	CategoryID  uint
	Description string
	Date        *time.Time // 为空时取当前时间
}

// UpdateTransactionInput 部分更新入参，nil 字段不变更
type UpdateTransactionInput struct {
	Amount      *float64
	Type        *string
	CategoryID  *uint
	Description *string
	Date        *time.Time
}

// TransactionFilter 交易列表筛选条件
type TransactionFilter struct {
	Type        string   `form:"type" json:"type,omitempty"`
	CategoryID  uint     `form:"category_id" json:"category_id,omitempty"`
	StartDate   string   `form:"start_date" json:"start_date,omitempty"` // 2006-01-02，含当天
	EndDate     string   `form:"end_date" json:"end_date,omitempty"`     // 2006-01-02，含当天
	MinAmount   *float64 `form:"min_amount" json:"min_amount,omitempty"`
	MaxAmount   *float64 `form:"max_amount" json:"max_amount,omitempty"`
	Description string   `form:"description" json:"description,omitempty"` // 子串匹配，不区分大小写
	SortBy      string   `form:"sort_by" json:"sort_by,omitempty"`          // date/amount/type/description
	SortOrder   string   `form:"sort_order" json:"sort_order,omitempty"`    // asc/desc
	Page        int      `form:"page" json:"page"`
	PageSize    int      `form:"page_size" json:"page_size"`
}

// TransactionPage 交易分页结果，回显筛选条件
type TransactionPage struct {
	List       []models.Transaction `json:"list"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
	HasNext    bool                 `json:"has_next"`
	HasPrev    bool                 `json:"has_prev"`
	Filter     TransactionFilter    `json:"filter"`
}

// 可排序字段到列名的白名单映射，未知字段回退为 date desc
var sortColumns = map[string]string{
	"date":        "transaction_date",
	"amount":      "amount",
	"type":        "type",
	"description": "description",
}

// Create 创建交易
// 类别不存在返回 ErrCategoryNotFound；类型不一致返回 CategoryTypeMismatchError，不落库
func (s *TransactionService) Create(userID uint, in CreateTransactionInput) (*models.Transaction, error) {
	cat, err := s.validateCategory(in.CategoryID, in.Type)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	txn := models.Transaction{
		UserID:      userID,
		Amount:      in.Amount,
		Description: in.Description,
		Type:        in.Type,
		CategoryID:  in.CategoryID,
		Date:        date,
	}
	if err := database.DB.Create(&txn).Error; err != nil {
		return nil, err
	}
	txn.Category = cat
	return &txn, nil
}

// Get 按ID查询当前用户的交易，不返回其他用户的记录
func (s *TransactionService) Get(id, userID uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := database.DB.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// List 查询当前用户的交易列表，支持筛选、排序与分页
func (s *TransactionService) List(userID uint, filter TransactionFilter) (*TransactionPage, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", filter.StartDate, time.Local); err == nil {
			query = query.Where("transaction_date >= ?", t)
		}
	}
	if filter.EndDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", filter.EndDate, time.Local); err == nil {
			// 包含结束日期当天
			t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
			query = query.Where("transaction_date <= ?", t)
		}
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}
	if filter.Description != "" {
		query = query.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(filter.Description)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		// 未知排序字段静默回退
		column = "transaction_date"
		filter.SortOrder = "desc"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	var list []models.Transaction
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Preload("Category").Order(column + " " + direction).
		Offset(offset).Limit(filter.PageSize).Find(&list).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &TransactionPage{
		List:       list,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
		HasNext:    filter.Page < totalPages,
		HasPrev:    filter.Page > 1,
		Filter:     filter,
	}, nil
}

// Update 部分更新交易
// type 或 category_id 任一有变更时，用变更后的生效值重新校验类型一致性，校验不通过不落库
func (s *TransactionService) Update(id, userID uint, in UpdateTransactionInput) (*models.Transaction, error) {
	var txn models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Type != nil || in.CategoryID != nil {
		effectiveType := txn.Type
		if in.Type != nil {
			effectiveType = *in.Type
		}
		effectiveCategoryID := txn.CategoryID
		if in.CategoryID != nil {
			effectiveCategoryID = *in.CategoryID
		}
		if _, err := s.validateCategory(effectiveCategoryID, effectiveType); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if in.Amount != nil {
		updates["amount"] = *in.Amount
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Date != nil {
		updates["transaction_date"] = *in.Date
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&txn).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if err := database.DB.Preload("Category").First(&txn, txn.ID).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// Delete 删除当前用户的交易，返回是否有记录被删除
func (s *TransactionService) Delete(id, userID uint) (bool, error) {
	res := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// validateCategory 校验类别存在且类型一致，返回类别记录
func (s *TransactionService) validateCategory(categoryID uint, typ string) (*models.Category, error) {
	var cat models.Category
	if err := database.DB.First(&cat, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if cat.Type != typ {
		return nil, &CategoryTypeMismatchError{CategoryName: cat.Name, CategoryType: cat.Type}
	}
	return &cat, nil
}
