package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"butce/database"
	"butce/middleware"
	"butce/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// queryExportRange 解析导出时间范围并查询当前用户的交易
func queryExportRange(c *gin.Context) ([]models.Transaction, string, string, bool) {
	userID := middleware.GetCurrentUserID(c)

	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	if startDateStr == "" || endDateStr == "" {
		BadRequest(c, "请提供开始日期和结束日期")
		return nil, "", "", false
	}

	startDate, err := time.ParseInLocation("2006-01-02", startDateStr, time.Local)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return nil, "", "", false
	}

	endDate, err := time.ParseInLocation("2006-01-02", endDateStr, time.Local)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return nil, "", "", false
	}
	// 包含结束日期当天
	endDate = endDate.AddDate(0, 0, 1).Add(-time.Millisecond)

	var list []models.Transaction
	if err := database.DB.Preload("Category").
		Where("user_id = ? AND transaction_date >= ? AND transaction_date <= ?", userID, startDate, endDate).
		Order("transaction_date DESC").
		Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return nil, "", "", false
	}
	return list, startDateStr, endDateStr, true
}

// categoryName 读取交易关联的类别名称
func categoryName(txn *models.Transaction) string {
	if txn.Category != nil {
		return txn.Category.Name
	}
	return ""
}

// ExportCSV 导出交易记录为 CSV
// @Summary 导出交易记录为 CSV
// @Description 根据日期范围导出当前用户的交易记录为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2025-01-01)"
// @Param end_date query string true "结束日期 (2025-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	list, startDateStr, endDateStr, ok := queryExportRange(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "类型", "金额", "类别", "描述", "交易时间", "创建时间"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for _, txn := range list {
		row := []string{
			fmt.Sprintf("%d", txn.ID),
			models.TypeLabel(txn.Type),
			fmt.Sprintf("%.2f", txn.Amount),
			categoryName(&txn),
			txn.Description,
			txn.Date.Format("2006-01-02 15:04:05"),
			txn.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", startDateStr, endDateStr)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出交易记录为 JSON
// @Summary 导出交易记录为 JSON
// @Description 根据日期范围导出当前用户的交易记录为 JSON 格式，附带汇总信息
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2025-01-01)"
// @Param end_date query string true "结束日期 (2025-12-31)"
// @Success 200 {object} Response{data=[]models.Transaction} "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	list, startDateStr, endDateStr, ok := queryExportRange(c)
	if !ok {
		return
	}

	// 收入与支出分开汇总
	var totalIncome, totalExpense float64
	for _, txn := range list {
		if txn.Type == models.TypeIncome {
			totalIncome += txn.Amount
		} else {
			totalExpense += txn.Amount
		}
	}

	Success(c, gin.H{
		"start_date":    startDateStr,
		"end_date":      endDateStr,
		"total_count":   len(list),
		"total_income":  totalIncome,
		"total_expense": totalExpense,
		"transactions":  list,
	})
}

// ExportExcel 导出交易记录为 Excel
// @Summary 导出交易记录为 Excel
// @Description 根据日期范围导出当前用户的交易记录为 xlsx 文件
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string true "开始日期 (2025-01-01)"
// @Param end_date query string true "结束日期 (2025-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	list, startDateStr, endDateStr, ok := queryExportRange(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "交易记录"
	f.SetSheetName("Sheet1", sheetName)

	// 表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 15)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 20)
	f.SetColWidth(sheetName, "G", "G", 20)

	headers := []string{"ID", "类型", "金额", "类别", "描述", "交易时间", "创建时间"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%c1", 'A'+len(headers)-1), headerStyle)

	var totalIncome, totalExpense float64
	for i, txn := range list {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), txn.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), models.TypeLabel(txn.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), txn.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), categoryName(&txn))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), txn.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), txn.Date.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), txn.CreatedAt.Format("2006-01-02 15:04:05"))
		if txn.Type == models.TypeIncome {
			totalIncome += txn.Amount
		} else {
			totalExpense += txn.Amount
		}
	}

	summaryRow := len(list) + 3
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("收入 %.2f / 支出 %.2f", totalIncome, totalExpense))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(list)))

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.xlsx", startDateStr, endDateStr)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
