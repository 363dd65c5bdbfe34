package service

import (
	"errors"
	"fmt"

	"butce/models"
)

// 领域错误，api 层通过 errors.Is / errors.As 区分后映射为不同的响应
var (
	// ErrNotFound 记录不存在，或不属于当前用户
	// 两种情况有意不做区分，避免向调用方泄露其他用户数据的存在性
	ErrNotFound = errors.New("记录不存在")
	// ErrCategoryNotFound 交易引用的类别不存在
	ErrCategoryNotFound = errors.New("类别不存在")
	// ErrDefaultCategoryProtected 默认类别不允许修改或删除
	ErrDefaultCategoryProtected = errors.New("默认类别不允许修改或删除")
	// ErrInvalidMonth 月份参数格式非法，区别于存储层错误单独映射为 400
	ErrInvalidMonth = errors.New("月份格式错误，应为: 2006-01")
)

// CategoryTypeMismatchError 交易类型与所选类别的类型不一致
type CategoryTypeMismatchError struct {
	CategoryName string // 类别名称
	CategoryType string // 类别实际类型 income/expense
}

func (e *CategoryTypeMismatchError) Error() string {
	label := models.TypeLabel(e.CategoryType)
	return fmt.Sprintf("该类别仅可用于%s交易，所选类别: %s（%s）", label, e.CategoryName, label)
}
