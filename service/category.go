package service

import (
	"errors"

	"butce/database"
	"butce/models"

	"gorm.io/gorm"
)

// CategoryService 类别服务
// 默认类别为全局数据（user_id 为 NULL），由 database.Init 播种，只读
type CategoryService struct{}

// NewCategoryService 创建类别服务
func NewCategoryService() *CategoryService {
	return &CategoryService{}
}

// Create 创建用户自定义类别，始终为非默认类别
func (s *CategoryService) Create(name, typ, color string, userID uint) (*models.Category, error) {
	if color == "" {
		color = "#64748b" // 默认灰色
	}
	cat := models.Category{
		Name:   name,
		Type:   typ,
		Color:  color,
		UserID: &userID,
	}
	if err := database.DB.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetByID 按ID查询类别，带归属用户信息，供调用方做归属校验
func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	var cat models.Category
	if err := database.DB.Preload("User").First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// GetForOwner 按ID查询指定用户的类别，非本人的类别视同不存在
func (s *CategoryService) GetForOwner(id, userID uint) (*models.Category, error) {
	var cat models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// ListForOwner 返回用户自定义类别与全局默认类别的合并列表
// 分页在合并后的列表上切片，两个子集并非各自分页
// 两个子集都非空时页边界不均匀，属于沿用的已知行为
func (s *CategoryService) ListForOwner(userID uint, page, pageSize int) ([]models.Category, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	var own []models.Category
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&own).Error; err != nil {
		return nil, err
	}
	defaults, err := s.ListDefaults()
	if err != nil {
		return nil, err
	}
	all := append(own, defaults...)

	start := (page - 1) * pageSize
	if start >= len(all) {
		return []models.Category{}, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// ListDefaults 返回全局默认类别目录，无需登录即可访问
func (s *CategoryService) ListDefaults() ([]models.Category, error) {
	var defaults []models.Category
	if err := database.DB.Where("is_default = ? AND user_id IS NULL", true).
		Order("id ASC").Find(&defaults).Error; err != nil {
		return nil, err
	}
	return defaults, nil
}

// Update 更新类别字段，默认类别拒绝更新
// is_default 与 user_id 的变更由 api 层拒绝，此处做无条件字段合并
func (s *CategoryService) Update(id uint, updates map[string]interface{}) (*models.Category, error) {
	var cat models.Category
	if err := database.DB.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cat.IsDefault {
		return nil, ErrDefaultCategoryProtected
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&cat).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := database.DB.First(&cat, cat.ID).Error; err != nil {
			return nil, err
		}
	}
	return &cat, nil
}

// Delete 删除类别并级联删除其全部交易，默认类别拒绝删除
// 顺序不可调换：先删交易、后删类别，保证不会出现引用已删类别的交易
// MySQL 支持多语句事务，两步包在同一事务中
func (s *CategoryService) Delete(id uint) (bool, error) {
	var cat models.Category
	if err := database.DB.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if cat.IsDefault {
		return false, ErrDefaultCategoryProtected
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", cat.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
