package api

import (
	"time"

	"butce/config"
	"butce/database"
	"butce/middleware"
	"butce/models"
	"butce/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct {
	svc      *service.ReportService
	emailSvc *service.EmailService
}

// NewReportHandler 创建报表处理器
func NewReportHandler(cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		svc:      service.NewReportService(),
		emailSvc: service.NewEmailService(&cfg.Email),
	}
}

// SummaryEmailRequest 汇总邮件请求
type SummaryEmailRequest struct {
	Month string `json:"month" binding:"omitempty" example:"2025-01"` // 省略时取当前月份
}

// currentMonth 当前月份，2006-01 格式
func currentMonth() string {
	return time.Now().Format("2006-01")
}

// Summary 获取月度收支汇总
// @Summary 获取月度收支汇总
// @Description 统计指定月份的总收入、总支出、净额与交易笔数。不传 month 则统计当前月份。
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (2025-01)，默认当前月份"
// @Success 200 {object} Response{data=service.SummaryReport} "获取成功"
// @Failure 400 {object} Response "月份格式错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	month := c.Query("month")
	if month == "" {
		month = currentMonth()
	}

	report, err := h.svc.Summary(userID, month)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}
	Success(c, report)
}

// Categories 获取类别维度报表
// @Summary 获取类别维度报表
// @Description 按类别统计收入与支出，各自按金额降序并附带占比。不传 month 则统计全部时间。
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (2025-01)，省略则统计全部时间"
// @Success 200 {object} Response{data=service.CategoryReport} "获取成功"
// @Failure 400 {object} Response "月份格式错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/categories [get]
func (h *ReportHandler) Categories(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	report, err := h.svc.Categories(userID, c.Query("month"))
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}
	Success(c, report)
}

// Balance 获取余额报表
// @Summary 获取余额报表
// @Description 统计当月、当年与全部时间三个窗口的收支与净额，当前余额为全部时间净额
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.BalanceReport} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/balance [get]
func (h *ReportHandler) Balance(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	report, err := h.svc.Balance(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, report)
}

// SendSummaryEmail 发送月度汇总邮件
// @Summary 发送月度汇总邮件
// @Description 将指定月份的收支汇总发送到当前用户的注册邮箱
// @Tags 报表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SummaryEmailRequest true "月份"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "月份格式错误或邮件服务未启用"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/summary/email [post]
func (h *ReportHandler) SendSummaryEmail(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SummaryEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if req.Month == "" {
		req.Month = currentMonth()
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	report, err := h.svc.Summary(userID, req.Month)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}

	if err := h.emailSvc.SendMonthlySummaryEmail(user.Email, user.Name, report); err != nil {
		BadRequest(c, SafeErrorMessage(err, "发送邮件失败"))
		return
	}
	SuccessWithMessage(c, "发送成功", nil)
}

// SendTestEmail 发送测试邮件
// @Summary 发送测试邮件
// @Description 向当前用户的注册邮箱发送一封测试邮件，用于验证邮件服务配置
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "邮件服务未启用或发送失败"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/email/test [post]
func (h *ReportHandler) SendTestEmail(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}

	if err := h.emailSvc.SendTestEmail(user.Email); err != nil {
		BadRequest(c, SafeErrorMessage(err, "发送邮件失败"))
		return
	}
	SuccessWithMessage(c, "发送成功", nil)
}
