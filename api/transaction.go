package api

import (
	"strconv"
	"time"

	"butce/middleware"
	"butce/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易处理器
type TransactionHandler struct {
	svc *service.TransactionService
}

// NewTransactionHandler 创建交易处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{svc: service.NewTransactionService()}
}

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"5000"`
	Type        string  `json:"type" binding:"required,oneof=income expense" example:"income"`
	CategoryID  uint    `json:"category_id" binding:"required" example:"1"`
	Description string  `json:"description" binding:"required,max=255" example:"Ocak maaşı"`
	Date        string  `json:"date" example:"2025-01-15"` // 省略时取当前时间
}

// UpdateTransactionRequest 更新交易请求，未提供的字段不变更
type UpdateTransactionRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
	Type        *string  `json:"type" binding:"omitempty,oneof=income expense"`
	CategoryID  *uint    `json:"category_id"`
	Description *string  `json:"description" binding:"omitempty,max=255"`
	Date        *string  `json:"date"`
}

// parseDate 解析日期参数，支持带时间与仅日期两种格式
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Create 创建交易
// @Summary 创建交易
// @Description 创建一条交易记录。交易类型必须与所选类别的类型一致，否则拒绝写入。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "参数错误、类别不存在或类型不一致"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	in := service.CreateTransactionInput{
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Date != "" {
		t, ok := parseDate(req.Date)
		if !ok {
			BadRequest(c, "日期格式错误，应为: 2006-01-02 或 2006-01-02 15:04:05")
			return
		}
		in.Date = &t
	}

	txn, err := h.svc.Create(userID, in)
	if err != nil {
		ServiceError(c, err, "创建交易失败")
		return
	}
	SuccessWithMessage(c, "创建成功", txn)
}

// List 获取交易列表
// @Summary 获取交易列表
// @Description 获取当前用户的交易列表，支持类型、类别、日期区间、金额区间、描述子串筛选与排序。排序字段限 date/amount/type/description，非法值回退为 date 降序。
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param type query string false "类型筛选 income/expense"
// @Param category_id query int false "类别筛选"
// @Param start_date query string false "开始日期 (2025-01-01)，含当天"
// @Param end_date query string false "结束日期 (2025-01-31)，含当天"
// @Param min_amount query number false "最小金额，含"
// @Param max_amount query number false "最大金额，含"
// @Param description query string false "描述子串（不区分大小写）"
// @Param sort_by query string false "排序字段 date/amount/type/description" default(date)
// @Param sort_order query string false "排序方向 asc/desc" default(desc)
// @Success 200 {object} Response{data=service.TransactionPage} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var filter service.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	page, err := h.svc.List(userID, filter)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}
	Success(c, page)
}

// Get 获取单条交易
// @Summary 获取单条交易
// @Description 根据ID获取交易详情，仅限本人的记录
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	txn, err := h.svc.Get(uint(id), userID)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}
	Success(c, txn)
}

// Update 更新交易
// @Summary 更新交易
// @Description 部分更新交易。变更 type 或 category_id 时按变更后的生效值重新校验类型一致性。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Param request body UpdateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "参数错误、类别不存在或类型不一致"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	in := service.UpdateTransactionInput{
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Date != nil {
		t, ok := parseDate(*req.Date)
		if !ok {
			BadRequest(c, "日期格式错误，应为: 2006-01-02 或 2006-01-02 15:04:05")
			return
		}
		in.Date = &t
	}

	txn, err := h.svc.Update(uint(id), userID, in)
	if err != nil {
		ServiceError(c, err, "更新失败")
		return
	}
	SuccessWithMessage(c, "更新成功", txn)
}

// Delete 删除交易
// @Summary 删除交易
// @Description 删除当前用户的指定交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	removed, err := h.svc.Delete(uint(id), userID)
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
