package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "收入", TypeLabel(TypeIncome))
	assert.Equal(t, "支出", TypeLabel(TypeExpense))
	// 未知类型原样返回
	assert.Equal(t, "other", TypeLabel("other"))
}

func TestCategoryOwnership(t *testing.T) {
	uid := uint(7)
	owned := Category{UserID: &uid}
	assert.Equal(t, uint(7), owned.OwnerID())
	assert.True(t, owned.OwnedBy(7))
	assert.False(t, owned.OwnedBy(8))

	// 全局默认类别无归属
	global := Category{IsDefault: true}
	assert.Equal(t, uint(0), global.OwnerID())
	assert.False(t, global.OwnedBy(0))
	assert.False(t, global.OwnedBy(7))
}

func TestDefaultCategories(t *testing.T) {
	defaults := DefaultCategories()
	assert.Len(t, defaults, 6)

	var income, expense int
	for _, c := range defaults {
		assert.True(t, c.IsDefault)
		assert.Nil(t, c.UserID)
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Color)
		switch c.Type {
		case TypeIncome:
			income++
		case TypeExpense:
			expense++
		}
	}
	assert.Equal(t, 2, income)
	assert.Equal(t, 4, expense)
}
