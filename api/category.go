package api

import (
	"errors"
	"strconv"
	"strings"

	"butce/middleware"
	"butce/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 类别处理器
type CategoryHandler struct {
	svc *service.CategoryService
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{svc: service.NewCategoryService()}
}

// CreateCategoryRequest 创建类别请求
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50" example:"Kitap"`
	Type  string `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#FF5733"` // 颜色代码
}

// UpdateCategoryRequest 更新类别请求
// 请求体不包含 is_default 与 user_id，默认标记与归属无法通过本接口变更
type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
	Type  *string `json:"type" binding:"omitempty,oneof=income expense"`
	Color *string `json:"color" binding:"omitempty,max=20"`
}

// Create 创建类别
// @Summary 创建类别
// @Description 创建当前用户的自定义收支类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	cat, err := h.svc.Create(req.Name, req.Type, req.Color, userID)
	if err != nil {
		ServiceError(c, err, "创建类别失败")
		return
	}
	SuccessWithMessage(c, "创建成功", cat)
}

// List 获取类别列表
// @Summary 获取类别列表
// @Description 返回当前用户的自定义类别与全局默认类别的合并列表，分页作用于合并后的列表
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	list, err := h.svc.ListForOwner(userID, page, pageSize)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}
	Success(c, list)
}

// ListDefaults 获取默认类别目录
// @Summary 获取默认类别目录
// @Description 返回固定的全局默认类别目录，无需登录
// @Tags 类别
// @Produce json
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/v1/categories/defaults [get]
func (h *CategoryHandler) ListDefaults(c *gin.Context) {
	list, err := h.svc.ListDefaults()
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}
	Success(c, list)
}

// Get 获取单个类别
// @Summary 获取单个类别
// @Description 按ID获取类别详情，非本人的类别返回 404
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response{data=models.Category} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	cat, err := h.svc.GetByID(uint(id))
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}
	// 非本人且非默认的类别视同不存在，不泄露他人数据
	if !cat.IsDefault && !cat.OwnedBy(userID) {
		NotFound(c, "记录不存在")
		return
	}
	Success(c, cat)
}

// checkOwned 校验类别归属当前用户。默认类别无归属，按归属查不到时
// 再按 ID 查一次，以区分默认类别保护与记录不存在。
func (h *CategoryHandler) checkOwned(id, userID uint) error {
	if _, err := h.svc.GetForOwner(id, userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			if cat, byErr := h.svc.GetByID(id); byErr == nil && cat.IsDefault {
				return service.ErrDefaultCategoryProtected
			}
		}
		return err
	}
	return nil
}

// Update 更新类别
// @Summary 更新类别
// @Description 更新当前用户的自定义类别，默认类别不可更新
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body UpdateCategoryRequest true "更新的类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 400 {object} Response "参数错误或默认类别"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	if err := h.checkOwned(uint(id), userID); err != nil {
		ServiceError(c, err, "查询失败")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			BadRequest(c, "名称不能为空")
			return
		}
		updates["name"] = name
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Color != nil {
		color := *req.Color
		if color == "" {
			color = "#64748b" // 默认灰色
		}
		updates["color"] = color
	}

	updated, err := h.svc.Update(uint(id), updates)
	if err != nil {
		ServiceError(c, err, "更新失败")
		return
	}
	SuccessWithMessage(c, "更新成功", updated)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 删除当前用户的自定义类别，并级联删除该类别下的全部交易；默认类别不可删除
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "默认类别不允许删除"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	if err := h.checkOwned(uint(id), userID); err != nil {
		ServiceError(c, err, "查询失败")
		return
	}

	removed, err := h.svc.Delete(uint(id))
	if err != nil {
		ServiceError(c, err, "删除失败")
		return
	}
	if !removed {
		NotFound(c, "记录不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
